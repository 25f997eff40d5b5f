package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/tui-invaders/internal/admission"
	"github.com/vovakirdan/tui-invaders/internal/invaders"
	"github.com/vovakirdan/tui-invaders/internal/storage"
)

// ScoreSource is the part of the store the API reads.
type ScoreSource interface {
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
	GetGameStats(gameID string) (*storage.GameStats, error)
}

// RouterConfig contains the dependencies of the HTTP API.
type RouterConfig struct {
	// Scores backs /api/scores and /api/stats. Optional.
	Scores ScoreSource

	// Prefs holds the persisted high-score table. Optional.
	Prefs invaders.PrefsStore

	// HighScoreKey is the prefs key of the table.
	HighScoreKey string

	// HighScoreCount caps /api/highscores. Zero returns every entry.
	HighScoreCount int

	// Limiter throttles requests per client. Optional.
	Limiter *admission.Limiter

	// Logger receives one line per request. Optional.
	Logger *log.Logger
}

type handlers struct {
	cfg RouterConfig
}

// NewRouter builds the API router. It starts no goroutines and opens no
// listeners, so it can be served from httptest.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(requestLogger(cfg.Logger))
	}
	if cfg.Limiter != nil {
		r.Use(cfg.Limiter.Middleware)
	}
	r.Use(instrument)

	h := &handlers{cfg: cfg}

	r.Get("/health", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/scores", h.handleScores)
		r.Get("/highscores", h.handleHighScores)
		r.Get("/stats", h.handleStats)
	})

	return r
}

func (h *handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type scoreJSON struct {
	Rank      int       `json:"rank"`
	Score     int       `json:"score"`
	Level     int       `json:"level"`
	Player    string    `json:"player,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *handlers) handleScores(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Scores == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no score storage"})
		return
	}

	limit := 10
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 100 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be 1..100"})
			return
		}
		limit = n
	}

	entries, err := h.cfg.Scores.TopScores(invaders.ID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	out := make([]scoreJSON, len(entries))
	for i, e := range entries {
		out[i] = scoreJSON{
			Rank:      i + 1,
			Score:     e.Score,
			Level:     e.Level,
			Player:    e.Player,
			CreatedAt: e.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) handleHighScores(w http.ResponseWriter, _ *http.Request) {
	table, err := invaders.LoadHighScoreTable(h.cfg.Prefs, h.cfg.HighScoreKey, h.cfg.HighScoreCount)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]int{"scores": table.Display()})
}

func (h *handlers) handleStats(w http.ResponseWriter, _ *http.Request) {
	if h.cfg.Scores == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no score storage"})
		return
	}
	stats, err := h.cfg.Scores.GetGameStats(invaders.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"games":      stats.GamesCount,
		"high_score": stats.HighScore,
		"best_level": stats.BestLevel,
		"avg_score":  stats.AvgScore,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Client went away
	json.NewEncoder(w).Encode(v)
}

// instrument counts requests by route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		requestTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

// Server runs the API on its own listener.
type Server struct {
	http   *http.Server
	logger *log.Logger
}

// NewServer prepares a server for handler on addr.
func NewServer(addr string, handler http.Handler, logger *log.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start listens in the background. Errors other than a clean shutdown are
// logged.
func (s *Server) Start() {
	go func() {
		s.logger.Info("starting metrics server", "address", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server error", "error", err)
		}
	}()
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
