package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vela-casino/internal/event"
	"vela-casino/internal/middleware"
	"vela-casino/internal/models"
	"vela-casino/internal/services"
)

type UserHandler struct {
	ledger     *services.LedgerStore
	jwtService *services.JWTService
	bus        *event.Bus
	logger     *zap.Logger
}

func NewUserHandler(ledger *services.LedgerStore, jwtService *services.JWTService, bus *event.Bus, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		ledger:     ledger,
		jwtService: jwtService,
		bus:        bus,
		logger:     logger,
	}
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	ctx := c.Request.Context()

	account, err := h.ledger.GetAccount(ctx)
	if err != nil {
		respondError(c, "Failed to get user", err)
		return
	}
	stats, err := h.ledger.HistoryStats(ctx)
	if err != nil {
		respondError(c, "Failed to get history stats", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  account,
		"stats": stats,
		"session": gin.H{
			"session_id": c.GetString(middleware.ContextSessionID),
		},
	})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	account, err := h.ledger.UpdateAccount(c.Request.Context(), models.AccountUpdate{Username: &req.Username})
	if err != nil {
		respondError(c, "Failed to update profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    account,
	})
}

// Logout ends the session. Account data is kept.
func (h *UserHandler) Logout(c *gin.Context) {
	value, exists := c.Get(middleware.ContextClaims)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
		return
	}
	claims := value.(*services.Claims)

	h.jwtService.Revoke(claims.SessionID, claims.ExpiresAt.Time)
	h.logger.Info("user logged out", zap.String("session_id", claims.SessionID))

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func (h *UserHandler) GetBalance(c *gin.Context) {
	account, err := h.ledger.GetAccount(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to get balance", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"balance": models.BalanceResponse{
			Balance:       account.Balance,
			GamesPlayed:   account.GamesPlayed,
			TotalWinnings: account.TotalWinnings,
			TotalLosses:   account.TotalLosses,
		},
	})
}

func (h *UserHandler) GetHistory(c *gin.Context) {
	ctx := c.Request.Context()

	history, err := h.ledger.GetHistory(ctx)
	if err != nil {
		respondError(c, "Failed to fetch game history", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": history,
		"stats":   models.ComputeHistoryStats(history),
		"count":   len(history),
	})
}

func (h *UserHandler) GetSettings(c *gin.Context) {
	settings, err := h.ledger.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to get settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *UserHandler) UpdateSettings(c *gin.Context) {
	var req models.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	settings, err := h.ledger.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to update settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"settings": settings,
	})
}

// Reset wipes the account, the history and the settings.
func (h *UserHandler) Reset(c *gin.Context) {
	if err := h.ledger.ResetAll(c.Request.Context()); err != nil {
		respondError(c, "Failed to reset data", err)
		return
	}
	h.bus.Publish(event.EventLedgerReset, nil)

	c.JSON(http.StatusOK, gin.H{"message": "All data has been reset"})
}
