package monitoring_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"vela-casino/internal/event"
	"vela-casino/internal/models"
	"vela-casino/internal/monitoring"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Subscribe(t *testing.T) {
	m := monitoring.NewMetrics()
	if err := m.Register(prometheus.NewRegistry()); err != nil {
		t.Fatalf("Failed to register collectors: %v", err)
	}

	bus := event.NewBus()
	m.Subscribe(bus)

	bus.Publish(event.EventRoundSettled, event.RoundSettled{
		Game:  models.GameTypeDice,
		Entry: models.HistoryEntry{Bet: 100, Result: models.ResultWin, Payout: 190},
	})
	bus.Publish(event.EventBalanceChanged, event.BalanceChanged{Balance: 10090})
	bus.Publish(event.EventSoundCue, event.SoundCue{Cue: event.CueWin})
	bus.Wait()

	if v := testutil.ToFloat64(m.RoundsSettled.WithLabelValues("dice", "win")); v != 1 {
		t.Errorf("Expected 1 settled dice win, got %v", v)
	}
	if v := testutil.ToFloat64(m.AmountPaidOut.WithLabelValues("dice")); v != 190 {
		t.Errorf("Expected 190 paid out, got %v", v)
	}
	if v := testutil.ToFloat64(m.Balance); v != 10090 {
		t.Errorf("Expected balance gauge 10090, got %v", v)
	}
	if v := testutil.ToFloat64(m.SoundCues.WithLabelValues("win")); v != 1 {
		t.Errorf("Expected one win cue, got %v", v)
	}
}

func TestMetrics_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := monitoring.NewMetrics()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if v := testutil.ToFloat64(m.HttpRequests.WithLabelValues("GET", "/health", "200")); v != 1 {
		t.Errorf("Expected one recorded request, got %v", v)
	}
}
