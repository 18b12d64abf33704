package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/realm-rescue/internal/oracle"
	"github.com/vovakirdan/realm-rescue/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Realm Rescue SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH user name is a player: progress is loaded from the progress
database on connect and saved after every finished level. Concurrent
connections of the same user share one ledger.

Host key handling:
  - If --host-key (or server.host_key_path) is set, uses that key file
  - Otherwise, auto-generates a key at ~/.realm/host_key

Examples:
  realm serve                           # Listen on server.host:server.port
  realm serve --ssh :2222               # Listen on port 2222
  realm serve --host-key ./my_host_key  # Use specific host key
  realm serve --db ./realm.db           # Use specific database

Users can connect with:
  ssh alice@localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (default from config)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	a := loadApp()

	addr := flagSSHAddr
	if addr == "" {
		addr = net.JoinHostPort(a.cfg.Server.Host, strconv.Itoa(a.cfg.Server.Port))
	}
	hostKey := flagHostKey
	if hostKey == "" {
		hostKey = a.cfg.Server.HostKeyPath
	}

	store := a.openStore()
	defer store.Close()

	cfg := tui.SSHServerConfig{
		Address:     addr,
		HostKeyPath: hostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Session: tui.SessionConfig{
			Catalog:    a.catalog,
			Store:      store,
			Oracle:     oracle.New(a.cfg.Oracle, a.logger),
			TickDelay:  a.cfg.Simulation.TickDelay,
			Difficulty: a.cfg.Player.Difficulty,
			EnergyCost: a.cfg.Player.EnergyCost,
		},
	}

	server, err := tui.NewSSHServer(cfg, a.logger.WithPrefix("realm-ssh"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting Realm Rescue SSH server on %s\n", server.Addr())
	if _, port, splitErr := net.SplitHostPort(addr); splitErr == nil {
		fmt.Printf("Connect with: ssh <name>@localhost -p %s\n", port)
	}
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
