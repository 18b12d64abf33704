package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/realm-rescue/internal/config"
	"github.com/vovakirdan/realm-rescue/internal/levels"
	"github.com/vovakirdan/realm-rescue/internal/progress"
	"github.com/vovakirdan/realm-rescue/internal/storage"
)

// app bundles what most subcommands need.
type app struct {
	cfg     config.Config
	source  string // Where the config came from
	logger  *log.Logger
	catalog *levels.Catalog
}

// loadApp loads the configuration, applies flag overrides and builds the
// logger and level catalog. It exits on invalid configuration.
func loadApp() *app {
	cfg, source, err := config.Load(flagConfigPath)
	if err != nil {
		fatalf("%v", err)
	}
	applyOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}

	logger := newLogger(cfg.Log.Level)
	logger.Debug("config loaded", "source", source)

	return &app{
		cfg:     cfg,
		source:  source,
		logger:  logger,
		catalog: loadCatalog(cfg, logger),
	}
}

// applyOverrides copies global flags over config values.
func applyOverrides(cfg *config.Config) {
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagPlayer != "" {
		cfg.Player.Name = flagPlayer
	}
	if flagLevelsDir != "" {
		cfg.Levels.Dir = flagLevelsDir
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
}

// newLogger creates the stderr logger used by every subcommand.
func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "realm",
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// loadCatalog returns the built-in levels plus any level packs from cfg.Levels.Dir.
func loadCatalog(cfg config.Config, logger *log.Logger) *levels.Catalog {
	catalog := levels.DefaultCatalog()
	if cfg.Levels.Dir == "" {
		return catalog
	}

	dir, err := config.ExpandHome(cfg.Levels.Dir)
	if err != nil {
		fatalf("%v", err)
	}
	added, err := levels.NewLoader(dir, logger).LoadInto(catalog)
	if err != nil {
		logger.Warn("could not load level packs", "dir", dir, "err", err)
		return catalog
	}
	logger.Debug("level packs loaded", "dir", dir, "added", added)
	return catalog
}

// openStore opens the progress database or exits.
func (a *app) openStore() *storage.Store {
	store, err := storage.Open(a.cfg.Storage.DBPath)
	if err != nil {
		fatalf("opening progress database: %v", err)
	}
	return store
}

// loadLedger loads the configured player's progress, or starts fresh.
func (a *app) loadLedger(ctx context.Context, store *storage.Store) *progress.Ledger {
	p, found, err := store.LoadProgress(ctx, a.cfg.Player.Name)
	if err != nil {
		fatalf("loading progress: %v", err)
	}
	if !found {
		a.logger.Debug("new player", "player", a.cfg.Player.Name)
	}
	return progress.NewLedger(p)
}

// saveProgress persists the ledger or exits.
func saveProgress(ctx context.Context, store *storage.Store, ledger *progress.Ledger) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.SaveProgress(ctx, ledger.Snapshot()); err != nil {
		fatalf("saving progress: %v", err)
	}
}

// difficultyFlag resolves a --difficulty value, falling back to the config.
func (a *app) difficultyFlag(value string) config.Difficulty {
	if value == "" {
		return a.cfg.Player.Difficulty
	}
	d, ok := config.ParseDifficulty(value)
	if !ok {
		fatalf("unknown difficulty %q (use easy, normal or hard)", value)
	}
	return d
}

// levelArg parses a level id argument and checks it against the catalog.
func (a *app) levelArg(arg string) levels.Level {
	id, err := strconv.Atoi(arg)
	if err != nil {
		fatalf("invalid level id %q", arg)
	}
	lvl, err := a.catalog.Get(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'realm levels' to see available levels.")
		os.Exit(1)
	}
	return lvl
}

// logToFile redirects the logger next to the database while a
// full-screen program owns the terminal. The returned func restores stderr.
func (a *app) logToFile() func() {
	dbPath, err := config.ExpandHome(a.cfg.Storage.DBPath)
	if err != nil {
		return func() {}
	}
	f, err := os.OpenFile(filepath.Join(filepath.Dir(dbPath), "realm.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		a.logger.Warn("could not open log file, logging disabled during play", "err", err)
		a.logger.SetLevel(log.FatalLevel)
		return func() {}
	}
	a.logger.SetOutput(f)
	return func() {
		a.logger.SetOutput(os.Stderr)
		f.Close()
	}
}

// termSize returns the terminal size, or 80x24 when stdout is not a terminal.
func termSize() (width, height int) {
	width, height = 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
