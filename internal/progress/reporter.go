package progress

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/realm-rescue/internal/config"
	"github.com/vovakirdan/realm-rescue/internal/puzzle"
)

// LevelResult is one finished level attempt.
type LevelResult struct {
	RunID      string
	Player     string
	LevelID    int
	Difficulty config.Difficulty
	Status     puzzle.Status
	Message    string
	Reward     int
	FinishedAt time.Time
}

// Saver persists progress and level results.
type Saver interface {
	SaveProgress(ctx context.Context, p Progress) error
	SaveLevelResult(ctx context.Context, r LevelResult) error
}

// Run describes the level attempt a Reporter is bound to.
type Run struct {
	LevelID    int
	BaseReward int
	Difficulty config.Difficulty
}

// saveTimeout bounds how long reporting may block on persistence.
const saveTimeout = 5 * time.Second

// Reporter turns terminal puzzle outcomes into progression.
// On WON it credits floor(base * multiplier) gold and unlocks the next level.
// On LOST it changes nothing. Persistence failures are logged, never returned.
type Reporter struct {
	ledger *Ledger
	saver  Saver // Optional
	run    Run
	runID  string
	logger *log.Logger
	now    func() time.Time
}

// NewReporter creates a reporter for one level attempt.
func NewReporter(ledger *Ledger, saver Saver, run Run, logger *log.Logger) *Reporter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Reporter{
		ledger: ledger,
		saver:  saver,
		run:    run,
		runID:  uuid.NewString(),
		logger: logger,
		now:    time.Now,
	}
}

// RunID returns the identifier recorded with this attempt's result.
func (r *Reporter) RunID() string {
	return r.runID
}

// Report applies the outcome to the ledger and returns it with the reward set on WON.
func (r *Reporter) Report(out puzzle.Outcome) puzzle.Outcome {
	reward := 0
	if out.Status == puzzle.StatusWon {
		reward = config.FinalReward(r.run.BaseReward, r.run.Difficulty)
		r.ledger.CompleteLevel(r.run.LevelID, reward)
		out.Reward = &reward
		r.logger.Info("level complete", "level", r.run.LevelID, "difficulty", r.run.Difficulty, "reward", reward)
	} else {
		r.logger.Info("level failed", "level", r.run.LevelID, "message", out.Message)
	}

	if r.saver == nil {
		return out
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := r.saver.SaveProgress(ctx, r.ledger.Snapshot()); err != nil {
		r.logger.Warn("failed to save progress", "player", r.ledger.Player(), "err", err)
	}
	result := LevelResult{
		RunID:      r.runID,
		Player:     r.ledger.Player(),
		LevelID:    r.run.LevelID,
		Difficulty: r.run.Difficulty,
		Status:     out.Status,
		Message:    out.Message,
		Reward:     reward,
		FinishedAt: r.now(),
	}
	if err := r.saver.SaveLevelResult(ctx, result); err != nil {
		r.logger.Warn("failed to save level result", "run", r.runID, "err", err)
	}
	return out
}
