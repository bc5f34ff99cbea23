package monitoring

import (
	"strconv"
	"time"

	"vela-casino/internal/event"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors the casino exports.
type Metrics struct {
	HttpRequests    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RoundsSettled   *prometheus.CounterVec
	AmountWagered   *prometheus.CounterVec
	AmountPaidOut   *prometheus.CounterVec
	Balance         prometheus.Gauge
	SoundCues       *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		HttpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		RoundsSettled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casino_rounds_settled_total",
				Help: "Settled game rounds by game and result",
			},
			[]string{"game", "result"},
		),
		AmountWagered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casino_wagered_units_total",
				Help: "Currency units staked per game",
			},
			[]string{"game"},
		),
		AmountPaidOut: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casino_paid_out_units_total",
				Help: "Currency units paid out per game",
			},
			[]string{"game"},
		),
		Balance: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "casino_wallet_balance_units",
				Help: "Last observed wallet balance",
			},
		),
		SoundCues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casino_sound_cues_total",
				Help: "Sound cues emitted",
			},
			[]string{"cue"},
		),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.HttpRequests,
		m.RequestDuration,
		m.RoundsSettled,
		m.AmountWagered,
		m.AmountPaidOut,
		m.Balance,
		m.SoundCues,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe feeds the collectors from the event bus.
func (m *Metrics) Subscribe(bus *event.Bus) {
	bus.Subscribe(event.EventRoundSettled, func(payload any) {
		settled, ok := payload.(event.RoundSettled)
		if !ok {
			return
		}
		game := string(settled.Game)
		m.RoundsSettled.WithLabelValues(game, string(settled.Entry.Result)).Inc()
		m.AmountWagered.WithLabelValues(game).Add(float64(settled.Entry.Bet))
		m.AmountPaidOut.WithLabelValues(game).Add(float64(settled.Entry.Payout))
	})
	bus.Subscribe(event.EventBalanceChanged, func(payload any) {
		if changed, ok := payload.(event.BalanceChanged); ok {
			m.Balance.Set(float64(changed.Balance))
		}
	})
	bus.Subscribe(event.EventSoundCue, func(payload any) {
		if cue, ok := payload.(event.SoundCue); ok {
			m.SoundCues.WithLabelValues(cue.Cue).Inc()
		}
	})
}

// Middleware records request counts and latency per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.HttpRequests.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}
