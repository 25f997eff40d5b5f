package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-invaders/internal/admission"
	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/invaders"
	"github.com/vovakirdan/tui-invaders/internal/storage"
)

// SessionObserver receives connection and game events from the server.
type SessionObserver interface {
	Observer
	SessionStarted()
	SessionEnded()
	SessionRejected(reason string)
}

type nopSessionObserver struct{ nopObserver }

func (nopSessionObserver) SessionStarted() {}

func (nopSessionObserver) SessionEnded() {}

func (nopSessionObserver) SessionRejected(string) {}

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key is generated at ~/.invaders/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// HighScoreKey is the prefs key of the shared high-score table.
	HighScoreKey string

	// HighScoreCount caps the table shown on the scoreboard.
	HighScoreCount int

	// TickRate is the simulation rate of every session.
	TickRate int

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Admission throttles new sessions per remote host.
	Admission admission.Config
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:        ":23234",
		DBPath:         "~/.invaders/scores.db",
		HighScoreKey:   "HIGH_SCORE_TABLE",
		HighScoreCount: 5,
		TickRate:       60,
		IdleTimeout:    30 * time.Minute,
		Admission:      admission.DefaultConfig,
	}
}

// SSHServer serves one independent game per SSH session.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	prefs    invaders.PrefsStore
	limiter  *admission.Limiter
	observer SessionObserver
	logger   *log.Logger
}

// NewSSHServer creates a server. observer may be nil.
func NewSSHServer(cfg SSHServerConfig, observer SessionObserver) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "invaders-ssh",
	})
	if observer == nil {
		observer = nopSessionObserver{}
	}

	srv := &SSHServer{
		config:   cfg,
		limiter:  admission.NewLimiter(cfg.Admission),
		observer: observer,
		logger:   logger,
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database, high scores will not persist", "error", err)
		srv.prefs = invaders.NewMemoryPrefs()
	} else {
		srv.store = store
		srv.prefs = store
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			srv.close()
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".invaders", "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		srv.close()
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Middlewares run last to first: logging, admission, then the program.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.admissionMiddleware,
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		srv.close()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates the session model for one connection.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.observer.SessionRejected("no_pty")
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	opts := SessionOptions{
		GameID:         invaders.ID,
		Prefs:          s.prefs,
		PrefsKey:       s.config.HighScoreKey,
		HighScoreCount: s.config.HighScoreCount,
		Player:         sess.User(),
		Observer:       s.observer,
		Logger:         s.logger.With("user", sess.User()),
	}
	if s.store != nil {
		opts.Store = s.store
	}

	return NewSessionModel(cfg, opts), []tea.ProgramOption{tea.WithAltScreen()}
}

// admissionMiddleware turns away hosts that open sessions too quickly.
func (s *SSHServer) admissionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		host := admission.HostOf(sess.RemoteAddr())
		if !s.limiter.Allow(host) {
			s.observer.SessionRejected("rate_limit")
			s.logger.Warn("session rejected", "remote", host, "reason", "rate_limit")
			wish.Fatalln(sess, "Too many connections, try again in a few seconds.")
			return
		}

		s.observer.SessionStarted()
		defer s.observer.SessionEnded()
		next(sess)
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// Store returns the score database, or nil when it could not be opened.
func (s *SSHServer) Store() *storage.Store {
	return s.store
}

// Prefs returns the store holding the shared high-score table.
func (s *SSHServer) Prefs() invaders.PrefsStore {
	return s.prefs
}

// Limiter returns the session admission limiter.
func (s *SSHServer) Limiter() *admission.Limiter {
	return s.limiter
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.close()
		if err != nil {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.close()
	return err
}

func (s *SSHServer) close() {
	s.limiter.Stop()
	if s.store != nil {
		//nolint:errcheck // Shutdown path
		s.store.Close()
		s.store = nil
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
