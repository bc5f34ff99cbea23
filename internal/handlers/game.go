package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vela-casino/internal/models"
	"vela-casino/internal/services"
)

type GameHandler struct {
	gameEngine *services.GameEngine
}

func NewGameHandler(gameEngine *services.GameEngine) *GameHandler {
	return &GameHandler{gameEngine: gameEngine}
}

func (h *GameHandler) ListGames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"games":   h.gameEngine.Games(),
	})
}

func (h *GameHandler) PlayRoulette(c *gin.Context) {
	var req models.RoulettePlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sel := models.Selection{Number: req.Number, Color: models.Color(req.Color)}
	h.play(c, models.GameTypeRoulette, req.Bet, sel)
}

func (h *GameHandler) PlaySlots(c *gin.Context) {
	var req models.SlotsPlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	h.play(c, models.GameTypeSlots, req.Bet, models.Selection{})
}

func (h *GameHandler) PlayDice(c *gin.Context) {
	var req models.DicePlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sel := models.Selection{Prediction: models.Prediction(req.Prediction), Target: req.Target}
	h.play(c, models.GameTypeDice, req.Bet, sel)
}

func (h *GameHandler) play(c *gin.Context, game models.GameType, bet int64, sel models.Selection) {
	report, err := h.gameEngine.Play(c.Request.Context(), game, bet, sel)
	if err != nil {
		respondError(c, "Failed to place bet", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  report,
	})
}

// DiceMultiplier previews the payout multiplier for a target and prediction.
func (h *GameHandler) DiceMultiplier(c *gin.Context) {
	target, err := strconv.Atoi(c.Query("target"))
	if err != nil {
		bindError(c, err)
		return
	}
	prediction := models.Prediction(c.Query("prediction"))

	m, err := h.gameEngine.DiceMultiplier(target, prediction)
	if err != nil {
		respondError(c, "Invalid prediction", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"target":     target,
		"prediction": prediction,
		"multiplier": m,
		"display":    models.FormatMultiplier(m),
	})
}

func (h *GameHandler) StartCrash(c *gin.Context) {
	var req models.CrashStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	round, err := h.gameEngine.StartCrash(c.Request.Context(), req.Bet)
	if err != nil {
		respondError(c, "Failed to place bet", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"round":   round,
	})
}

func (h *GameHandler) Cashout(c *gin.Context) {
	var req models.CrashCashoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	round, err := h.gameEngine.CashOut(c.Request.Context(), req.RoundID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{
			"error":   "Failed to cashout",
			"details": err.Error(),
			"round":   round,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"round":   round,
	})
}

func (h *GameHandler) CrashStatus(c *gin.Context) {
	round, err := h.gameEngine.CrashStatus(c.Param("id"))
	if err != nil {
		respondError(c, "Round not found", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"round":   round,
	})
}
