package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"vela-casino/internal/event"
	"vela-casino/internal/middleware"
	"vela-casino/internal/monitoring"
	"vela-casino/internal/services"
)

type RouterConfig struct {
	Ledger      *services.LedgerStore
	Engine      *services.GameEngine
	JWT         *services.JWTService
	Bus         *event.Bus
	Hub         *WebSocketHub
	Metrics     *monitoring.Metrics
	Gatherer    prometheus.Gatherer
	RateLimiter *middleware.RateLimiter
	Logger      *zap.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	authHandler := NewAuthHandler(cfg.Ledger, cfg.JWT, cfg.Logger)
	userHandler := NewUserHandler(cfg.Ledger, cfg.JWT, cfg.Bus, cfg.Logger)
	gameHandler := NewGameHandler(cfg.Engine)
	wsHandler := NewWebSocketHandler(cfg.Ledger, cfg.Hub)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	router.POST("/auth/login", authHandler.Login)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg.JWT))
	if cfg.RateLimiter != nil {
		protected.Use(cfg.RateLimiter.Middleware())
	}
	{
		protected.GET("/me", userHandler.GetCurrentUser)
		protected.PATCH("/me", userHandler.UpdateProfile)
		protected.POST("/logout", userHandler.Logout)

		protected.GET("/balance", userHandler.GetBalance)
		protected.GET("/history", userHandler.GetHistory)
		protected.GET("/settings", userHandler.GetSettings)
		protected.PATCH("/settings", userHandler.UpdateSettings)
		protected.POST("/reset", userHandler.Reset)

		protected.GET("/ws", wsHandler.HandleWebSocket)

		games := protected.Group("/games")
		{
			games.GET("", gameHandler.ListGames)

			games.POST("/roulette/play", gameHandler.PlayRoulette)
			games.POST("/slots/play", gameHandler.PlaySlots)

			dice := games.Group("/dice")
			{
				dice.POST("/play", gameHandler.PlayDice)
				dice.GET("/multiplier", gameHandler.DiceMultiplier)
			}

			crash := games.Group("/crash")
			{
				crash.POST("/start", gameHandler.StartCrash)
				crash.POST("/cashout", gameHandler.Cashout)
				crash.GET("/:id", gameHandler.CrashStatus)
			}
		}
	}

	return router
}
