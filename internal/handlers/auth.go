package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vela-casino/internal/models"
	"vela-casino/internal/services"
)

type AuthHandler struct {
	ledger     *services.LedgerStore
	jwtService *services.JWTService
	logger     *zap.Logger
}

func NewAuthHandler(ledger *services.LedgerStore, jwtService *services.JWTService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		ledger:     ledger,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login resumes the stored account when the name matches it and otherwise starts a
// fresh account with the starting balance.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	username, err := models.NormalizeUsername(req.Username)
	if err != nil {
		respondError(c, "Invalid username", err)
		return
	}

	ctx := c.Request.Context()
	account, err := h.ledger.GetAccount(ctx)
	switch {
	case err == nil && account.Username == username:
		account, err = h.ledger.UpdateAccount(ctx, models.AccountUpdate{})
	case err == nil || errors.Is(err, models.ErrAccountNotFound):
		account, err = h.ledger.CreateAccount(ctx, username)
	}
	if err != nil {
		respondError(c, "Failed to log in", err)
		return
	}

	token, claims, err := h.jwtService.GenerateToken(account.Username)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	h.logger.Info("user logged in",
		zap.String("username", account.Username),
		zap.String("session_id", claims.SessionID),
	)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"token":      token,
		"expires_at": claims.ExpiresAt.Time,
		"user":       account,
	})
}
