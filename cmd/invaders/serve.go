package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-invaders/internal/admission"
	"github.com/vovakirdan/tui-invaders/internal/metrics"
	"github.com/vovakirdan/tui-invaders/internal/platform/tui"
)

var (
	flagSSHAddr      string
	flagHostKey      string
	flagIdleTimeout  int
	flagMetricsAddr  string
	flagSessionRate  float64
	flagSessionBurst int
	flagTrustProxy   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the invaders SSH server",
	Long: `Start an SSH server where every connection gets its own game.

All players share the server's high-score table and game history.
New sessions are admitted per remote host through a token bucket.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.invaders/host_key

The metrics listener serves:
  /metrics          Prometheus metrics
  /health           Liveness
  /api/scores       Best recorded games (JSON, ?limit=N)
  /api/highscores   The high-score table (JSON)
  /api/stats        Aggregate statistics (JSON)

Examples:
  invaders serve                           # SSH on :23234, metrics on 127.0.0.1:9090
  invaders serve --ssh :2222               # Listen on port 2222
  invaders serve --metrics ""              # Disable the metrics listener
  invaders serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics", "127.0.0.1:9090", "Metrics and API address (empty to disable)")
	serveCmd.Flags().Float64Var(&flagSessionRate, "session-rate", admission.DefaultConfig.PerSecond, "New sessions per second allowed per host")
	serveCmd.Flags().IntVar(&flagSessionBurst, "session-burst", admission.DefaultConfig.Burst, "Burst of new sessions allowed per host")
	serveCmd.Flags().BoolVar(&flagTrustProxy, "trust-proxy", false, "Throttle API clients by X-Forwarded-For (only behind a trusted proxy)")
}

func runServe(_ *cobra.Command, _ []string) error {
	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.HighScoreKey = gameCfg.Session.HighScoreKey
	cfg.HighScoreCount = gameCfg.Session.HighScoreCount
	cfg.TickRate = flagFPS
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Admission.PerSecond = flagSessionRate
	cfg.Admission.Burst = flagSessionBurst

	recorder := metrics.NewRecorder()
	server, err := tui.NewSSHServer(cfg, recorder)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagMetricsAddr != "" {
		httpLogger := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "invaders-http",
		})
		limiter := admission.NewLimiter(admission.Config{PerSecond: 10, Burst: 20, TrustProxy: flagTrustProxy})
		defer limiter.Stop()

		routerCfg := metrics.RouterConfig{
			Prefs:          server.Prefs(),
			HighScoreKey:   cfg.HighScoreKey,
			HighScoreCount: cfg.HighScoreCount,
			Limiter:        limiter,
			Logger:         httpLogger,
		}
		if store := server.Store(); store != nil {
			routerCfg.Scores = store
		}

		httpServer := metrics.NewServer(flagMetricsAddr, metrics.NewRouter(routerCfg), httpLogger)
		httpServer.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			//nolint:errcheck // Shutdown path
			httpServer.Shutdown(shutdownCtx)
		}()
	}

	fmt.Printf("Starting invaders SSH server on %s\n", cfg.Address)
	if _, port, splitErr := net.SplitHostPort(cfg.Address); splitErr == nil {
		fmt.Printf("Connect with: ssh localhost -p %s\n", port)
	}
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(ctx)
}
