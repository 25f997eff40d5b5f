// Package metrics exposes Prometheus instruments for the game server and a
// small HTTP API with health, metrics and high-score endpoints.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Labels are bounded: rejection reasons are a fixed set, routes are chi
// patterns.
var (
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "invaders_sessions_active",
		Help: "SSH sessions currently connected",
	})

	sessionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invaders_sessions_total",
		Help: "SSH sessions accepted",
	})

	sessionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invaders_sessions_rejected_total",
		Help: "SSH sessions turned away",
	}, []string{"reason"}) // "rate_limit", "no_pty"

	gamesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invaders_games_started_total",
		Help: "Games started, restarts included",
	})

	gamesFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invaders_games_finished_total",
		Help: "Games that reached game over",
	})

	finalScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "invaders_final_score",
		Help:    "Score at game over",
		Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 25000, 50000},
	})

	levelReached = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "invaders_level_reached",
		Help:    "Level at game over",
		Buckets: prometheus.LinearBuckets(1, 1, 9),
	})

	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "invaders_tick_duration_seconds",
		Help:    "Time spent in one simulation tick",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025},
	})

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invaders_http_requests_total",
		Help: "HTTP API requests",
	}, []string{"method", "route", "status"})
)

// Recorder feeds session and game events into the Prometheus instruments.
type Recorder struct{}

// NewRecorder returns a recorder bound to the default registry.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SessionStarted counts a new connection.
func (*Recorder) SessionStarted() {
	sessionsTotal.Inc()
	sessionsActive.Inc()
}

// SessionEnded releases a connection.
func (*Recorder) SessionEnded() {
	sessionsActive.Dec()
}

// SessionRejected counts a turned-away connection.
func (*Recorder) SessionRejected(reason string) {
	sessionsRejected.WithLabelValues(reason).Inc()
}

// GameStarted counts a new game.
func (*Recorder) GameStarted() {
	gamesStarted.Inc()
}

// GameFinished records the outcome of a game.
func (*Recorder) GameFinished(score, level int) {
	gamesFinished.Inc()
	finalScore.Observe(float64(score))
	levelReached.Observe(float64(level))
}

// ObserveTick records how long one simulation step took.
func (*Recorder) ObserveTick(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}
