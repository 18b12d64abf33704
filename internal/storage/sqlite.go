// Package storage provides SQLite-based persistence for player progress
// and level results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/realm-rescue/internal/config"
	"github.com/vovakirdan/realm-rescue/internal/progress"
	"github.com/vovakirdan/realm-rescue/internal/puzzle"
)

// timeLayout is how timestamps are written; SQLite's CURRENT_TIMESTAMP uses the same form.
const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Ensure Store implements progress.Saver
var _ progress.Saver = (*Store)(nil)

// ResultEntry is a stored level result.
type ResultEntry struct {
	ID int64
	progress.LevelResult
}

// LevelStats contains aggregated statistics for one level.
type LevelStats struct {
	LevelID    int
	Attempts   int
	Wins       int
	BestReward int
	TotalGold  int64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	dbPath, err := config.ExpandHome(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS players (
			name TEXT PRIMARY KEY,
			gold INTEGER NOT NULL DEFAULT 0,
			gems INTEGER NOT NULL DEFAULT 0,
			energy INTEGER NOT NULL DEFAULT 0,
			max_energy INTEGER NOT NULL DEFAULT 0,
			current_level INTEGER NOT NULL DEFAULT 1,
			castle_level INTEGER NOT NULL DEFAULT 1,
			sound INTEGER NOT NULL DEFAULT 1,
			haptics INTEGER NOT NULL DEFAULT 1,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS unlocked_levels (
			player TEXT NOT NULL REFERENCES players(name) ON DELETE CASCADE,
			level_id INTEGER NOT NULL,
			PRIMARY KEY (player, level_id)
		);

		CREATE TABLE IF NOT EXISTS level_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			player TEXT NOT NULL,
			level_id INTEGER NOT NULL,
			difficulty TEXT NOT NULL,
			status TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			reward INTEGER NOT NULL DEFAULT 0,
			finished_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_level_results_player ON level_results(player, finished_at DESC);
		CREATE INDEX IF NOT EXISTS idx_level_results_level ON level_results(player, level_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadProgress reads a player's progress.
// Returns progress.Default(player) and false if the player has never been saved.
func (s *Store) LoadProgress(ctx context.Context, player string) (progress.Progress, bool, error) {
	p := progress.Progress{Player: player}
	var sound, haptics bool

	err := s.db.QueryRowContext(ctx,
		`SELECT gold, gems, energy, max_energy, current_level, castle_level, sound, haptics
		 FROM players WHERE name = ?`,
		player,
	).Scan(&p.Gold, &p.Gems, &p.Energy, &p.MaxEnergy, &p.CurrentLevel, &p.CastleLevel, &sound, &haptics)
	if errors.Is(err, sql.ErrNoRows) {
		return progress.Default(player), false, nil
	}
	if err != nil {
		return progress.Progress{}, false, fmt.Errorf("storage: cannot load progress: %w", err)
	}
	p.Settings = progress.Settings{Sound: sound, Haptics: haptics}

	rows, err := s.db.QueryContext(ctx,
		"SELECT level_id FROM unlocked_levels WHERE player = ? ORDER BY level_id",
		player,
	)
	if err != nil {
		return progress.Progress{}, false, fmt.Errorf("storage: cannot query unlocked levels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return progress.Progress{}, false, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		p.Unlocked = append(p.Unlocked, id)
	}
	if err := rows.Err(); err != nil {
		return progress.Progress{}, false, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return p, true, nil
}

// SaveProgress upserts a player's progress in a single transaction.
// Implements progress.Saver.
func (s *Store) SaveProgress(ctx context.Context, p progress.Progress) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO players (name, gold, gems, energy, max_energy, current_level, castle_level, sound, haptics, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET
		   gold = excluded.gold,
		   gems = excluded.gems,
		   energy = excluded.energy,
		   max_energy = excluded.max_energy,
		   current_level = excluded.current_level,
		   castle_level = excluded.castle_level,
		   sound = excluded.sound,
		   haptics = excluded.haptics,
		   updated_at = CURRENT_TIMESTAMP`,
		p.Player, p.Gold, p.Gems, p.Energy, p.MaxEnergy, p.CurrentLevel, p.CastleLevel,
		p.Settings.Sound, p.Settings.Haptics,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save player: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM unlocked_levels WHERE player = ?", p.Player); err != nil {
		return fmt.Errorf("storage: cannot clear unlocked levels: %w", err)
	}
	for _, id := range p.Unlocked {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO unlocked_levels (player, level_id) VALUES (?, ?)",
			p.Player, id,
		); err != nil {
			return fmt.Errorf("storage: cannot save unlocked level %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit progress: %w", err)
	}
	return nil
}

// Players returns all saved player names, sorted.
func (s *Store) Players(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM players ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query players: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return names, nil
}

// SaveLevelResult records a finished level attempt.
// Implements progress.Saver.
func (s *Store) SaveLevelResult(ctx context.Context, r progress.LevelResult) error {
	finished := r.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO level_results (run_id, player, level_id, difficulty, status, message, reward, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Player, r.LevelID, string(r.Difficulty), r.Status.String(), r.Message, r.Reward,
		finished.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save level result: %w", err)
	}
	return nil
}

// RecentResults retrieves a player's most recent level results.
// An empty player returns results for everyone.
func (s *Store) RecentResults(ctx context.Context, player string, limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, player, level_id, difficulty, status, message, reward, finished_at
		 FROM level_results
		 WHERE ? = '' OR player = ?
		 ORDER BY finished_at DESC, id DESC
		 LIMIT ?`,
		player, player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level results: %w", err)
	}
	defer rows.Close()

	var entries []ResultEntry
	for rows.Next() {
		var e ResultEntry
		var difficulty, status string
		var finishedAt any
		if err := rows.Scan(&e.ID, &e.RunID, &e.Player, &e.LevelID, &difficulty, &status, &e.Message, &e.Reward, &finishedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Difficulty = config.Difficulty(difficulty)
		e.Status = parseStatus(status)
		e.FinishedAt = parseTime(finishedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// BestReward returns the highest reward a player earned on a level.
// Returns 0 if the level was never won.
func (s *Store) BestReward(ctx context.Context, player string, levelID int) (int, error) {
	var reward sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(reward) FROM level_results WHERE player = ? AND level_id = ? AND status = ?",
		player, levelID, puzzle.StatusWon.String(),
	).Scan(&reward)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best reward: %w", err)
	}

	if !reward.Valid {
		return 0, nil
	}
	return int(reward.Int64), nil
}

// PlayerStats retrieves per-level statistics for a player.
func (s *Store) PlayerStats(ctx context.Context, player string) (map[int]*LevelStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT level_id, COUNT(*),
		        SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),
		        COALESCE(MAX(reward), 0), COALESCE(SUM(reward), 0), MAX(finished_at)
		 FROM level_results
		 WHERE player = ?
		 GROUP BY level_id`,
		puzzle.StatusWon.String(), player,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[int]*LevelStats)
	for rows.Next() {
		var st LevelStats
		var lastPlayed any
		if err := rows.Scan(&st.LevelID, &st.Attempts, &st.Wins, &st.BestReward, &st.TotalGold, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.LevelID] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearResults deletes all level results for a player.
func (s *Store) ClearResults(ctx context.Context, player string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM level_results WHERE player = ?", player)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// parseStatus maps a stored status string back to a puzzle status.
func parseStatus(s string) puzzle.Status {
	switch s {
	case puzzle.StatusWon.String():
		return puzzle.StatusWon
	case puzzle.StatusLost.String():
		return puzzle.StatusLost
	default:
		return puzzle.StatusPlaying
	}
}
