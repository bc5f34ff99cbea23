package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"vela-casino/internal/middleware"
	"vela-casino/internal/services"
)

func newRouter(jwtService *services.JWTService, limiter *middleware.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(jwtService))
	if limiter != nil {
		api.Use(limiter.Middleware())
	}
	api.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString(middleware.ContextUsername)})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := services.NewJWTService("secret", time.Hour)
	router := newRouter(jwtService, nil)
	token, _, err := jwtService.GenerateToken("nova")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		url    string
		header string
		want   int
	}{
		{"bearer token", "/api/me", "Bearer " + token, http.StatusOK},
		{"query token", "/api/me?token=" + token, "", http.StatusOK},
		{"missing token", "/api/me", "", http.StatusUnauthorized},
		{"bad scheme", "/api/me", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "/api/me", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	jwtService := services.NewJWTService("secret", time.Hour)
	// 6 per minute gives a burst of one request
	router := newRouter(jwtService, middleware.NewRateLimiter(6))
	token, _, _ := jwtService.GenerateToken("nova")

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("First request should pass, got %d", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Errorf("Second request should be limited, got %d", code)
	}

	other, _, _ := jwtService.GenerateToken("orion")
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Other sessions have their own bucket, got %d", w.Code)
	}
}

func TestRateLimiter_PruneIdle(t *testing.T) {
	jwtService := services.NewJWTService("secret", time.Hour)
	limiter := middleware.NewRateLimiter(6)
	router := newRouter(jwtService, limiter)

	do := func(username string) int {
		token, _, _ := jwtService.GenerateToken(username)
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	for _, name := range []string{"nova", "orion", "vega"} {
		if code := do(name); code != http.StatusOK {
			t.Fatalf("First request for %s should pass, got %d", name, code)
		}
	}
	if limiter.Len() != 3 {
		t.Fatalf("Expected 3 buckets, got %d", limiter.Len())
	}

	if n := limiter.PruneIdle(time.Now()); n != 0 {
		t.Errorf("Recently used buckets should be kept, pruned %d", n)
	}
	if n := limiter.PruneIdle(time.Now().Add(time.Hour)); n != 3 {
		t.Errorf("Expected 3 idle buckets pruned, got %d", n)
	}
	if limiter.Len() != 0 {
		t.Errorf("Expected no buckets after pruning, got %d", limiter.Len())
	}
}
