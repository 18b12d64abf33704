package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/realm-rescue/internal/config"
	"github.com/vovakirdan/realm-rescue/internal/progress"
)

// SSHServerConfig configures remote play.
type SSHServerConfig struct {
	Address     string // host:port, e.g. ":23234"
	HostKeyPath string // Generated on first start when missing; defaults to ~/.realm/host_key
	IdleTimeout time.Duration

	// Session is copied for every connection. Ledger and StartLevel are
	// replaced per player.
	Session SessionConfig
}

// SSHServer serves Realm Rescue over SSH. The SSH user name is the player
// name; progress comes from and goes back to Session.Store.
type SSHServer struct {
	cfg    SSHServerConfig
	wish   *ssh.Server
	logger *log.Logger

	mu      sync.Mutex
	ledgers map[string]*progress.Ledger
}

// NewSSHServer builds the server without listening yet.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Session.Logger == nil {
		cfg.Session.Logger = logger
	}

	keyPath, err := hostKeyPath(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(keyPath), 0o700); err != nil {
		return nil, fmt.Errorf("ssh: host key dir: %w", err)
	}

	s := &SSHServer{
		cfg:     cfg,
		logger:  logger,
		ledgers: make(map[string]*progress.Ledger),
	}

	// Middlewares run last to first: the progress hook wraps the program.
	s.wish, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.programFor),
			s.trackPlayer,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("ssh: %w", err)
	}
	return s, nil
}

func hostKeyPath(path string) (string, error) {
	if path != "" {
		return config.ExpandHome(path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("ssh: home dir: %w", err)
	}
	return filepath.Join(home, ".realm", "host_key"), nil
}

// ledgerFor returns the player's ledger, loading saved progress on first use.
// Concurrent sessions of one player share it.
func (s *SSHServer) ledgerFor(ctx context.Context, player string) *progress.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.ledgers[player]; ok {
		return l
	}

	p := progress.Default(player)
	if store := s.cfg.Session.Store; store != nil {
		loaded, found, err := store.LoadProgress(ctx, player)
		switch {
		case err != nil:
			s.logger.Warn("could not load progress", "player", player, "err", err)
		case found:
			p = loaded
		}
	}

	l := progress.NewLedger(p)
	s.ledgers[player] = l
	return l
}

// saveProgress writes the ledger back, covering energy and current level
// changes that no finished level has saved.
func (s *SSHServer) saveProgress(player string) {
	store := s.cfg.Session.Store
	if store == nil {
		return
	}
	s.mu.Lock()
	l, ok := s.ledgers[player]
	s.mu.Unlock()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.SaveProgress(ctx, l.Snapshot()); err != nil {
		s.logger.Warn("could not save progress", "player", player, "err", err)
	}
}

func (s *SSHServer) programFor(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("rejecting session without a terminal", "player", sess.User())
		wish.Fatalln(sess, "Realm Rescue needs a terminal: connect with ssh -t")
		return nil, nil
	}

	cfg := s.cfg.Session
	cfg.Ledger = s.ledgerFor(sess.Context(), sess.User())
	cfg.StartLevel = 0
	cfg.Logger = cfg.Logger.With("player", sess.User())

	m := NewSessionModel(sess.Context(), cfg, pty.Window.Width, pty.Window.Height)
	return m, []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) trackPlayer(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		player, remote := sess.User(), sess.RemoteAddr().String()
		s.logger.Info("player connected", "player", player, "remote", remote)
		next(sess)
		s.saveProgress(player)
		s.logger.Info("player disconnected", "player", player, "remote", remote)
	}
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (s *SSHServer) Serve(ctx context.Context) error {
	s.logger.Info("listening", "address", s.cfg.Address)

	errc := make(chan error, 1)
	go func() {
		err := s.wish.ListenAndServe()
		if errors.Is(err, ssh.ErrServerClosed) {
			err = nil
		}
		errc <- err
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	return s.Shutdown()
}

// Shutdown stops accepting players and waits up to ten seconds for open
// sessions. The store is owned by the caller.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.wish.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.cfg.Address
}
