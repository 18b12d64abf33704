// Package progress tracks a player's campaign progress: gold, energy,
// unlocked levels and castle upgrades. The puzzle engine never sees it;
// hosts pass a Ledger to whatever needs to read or change progress.
package progress

import (
	"errors"
	"math"
	"sort"
	"sync"
)

// Castle upgrade pricing.
const (
	BaseCastleCost        = 500
	UpgradeCostMultiplier = 1.5
)

// ErrInsufficientGold is returned when a purchase costs more than the balance.
var ErrInsufficientGold = errors.New("progress: insufficient gold")

// Settings holds player preferences.
type Settings struct {
	Sound   bool
	Haptics bool
}

// Progress is a point-in-time copy of a player's progress.
type Progress struct {
	Player       string
	Gold         int
	Gems         int
	Energy       int
	MaxEnergy    int
	CurrentLevel int
	CastleLevel  int
	Unlocked     []int // Sorted ascending
	Settings     Settings
}

// Default returns the starting progress for a new player.
func Default(player string) Progress {
	return Progress{
		Player:       player,
		Gold:         0,
		Gems:         10,
		Energy:       5,
		MaxEnergy:    5,
		CurrentLevel: 1,
		CastleLevel:  1,
		Unlocked:     []int{1},
		Settings:     Settings{Sound: true, Haptics: true},
	}
}

// Clone returns a deep copy.
func (p Progress) Clone() Progress {
	p.Unlocked = append([]int(nil), p.Unlocked...)
	return p
}

// IsUnlocked reports whether a level is unlocked.
func (p Progress) IsUnlocked(id int) bool {
	i := sort.SearchInts(p.Unlocked, id)
	return i < len(p.Unlocked) && p.Unlocked[i] == id
}

// HighestUnlocked returns the largest unlocked level ID, or 0 if none.
func (p Progress) HighestUnlocked() int {
	if len(p.Unlocked) == 0 {
		return 0
	}
	return p.Unlocked[len(p.Unlocked)-1]
}

// UpgradeCost returns the gold needed for the next castle upgrade.
func (p Progress) UpgradeCost() int {
	return UpgradeCost(p.CastleLevel)
}

// UpgradeCost returns floor(500 * 1.5^(castleLevel-1)).
func UpgradeCost(castleLevel int) int {
	if castleLevel < 1 {
		castleLevel = 1
	}
	return int(math.Floor(BaseCastleCost * math.Pow(UpgradeCostMultiplier, float64(castleLevel-1))))
}

// Ledger is the mutable, concurrency-safe holder of one player's progress.
type Ledger struct {
	mu sync.Mutex
	p  Progress
}

// NewLedger wraps a progress value.
func NewLedger(p Progress) *Ledger {
	p = p.Clone()
	sort.Ints(p.Unlocked)
	return &Ledger{p: p}
}

// Snapshot returns a copy of the current progress.
func (l *Ledger) Snapshot() Progress {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Clone()
}

// Player returns the owning player's name.
func (l *Ledger) Player() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Player
}

// AddGold credits (or, when negative, debits) gold and returns the new balance.
func (l *Ledger) AddGold(amount int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.p.Gold += amount
	return l.p.Gold
}

// UnlockLevel unlocks a level. Returns false if it was already unlocked.
func (l *Ledger) UnlockLevel(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unlockLocked(id)
}

func (l *Ledger) unlockLocked(id int) bool {
	if l.p.IsUnlocked(id) {
		return false
	}
	l.p.Unlocked = append(l.p.Unlocked, id)
	sort.Ints(l.p.Unlocked)
	return true
}

// IsUnlocked reports whether a level is unlocked.
func (l *Ledger) IsUnlocked(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.IsUnlocked(id)
}

// HighestUnlocked returns the largest unlocked level ID.
func (l *Ledger) HighestUnlocked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.HighestUnlocked()
}

// CompleteLevel credits the reward and unlocks the following level.
func (l *Ledger) CompleteLevel(id, reward int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.p.Gold += reward
	l.unlockLocked(id + 1)
}

// SetCurrentLevel records the level the player last started.
func (l *Ledger) SetCurrentLevel(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.p.CurrentLevel = id
}

// SpendEnergy deducts energy if enough is available.
// Returns false and leaves energy unchanged otherwise.
func (l *Ledger) SpendEnergy(amount int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if amount < 0 || l.p.Energy < amount {
		return false
	}
	l.p.Energy -= amount
	return true
}

// RefillEnergy restores energy to its maximum.
func (l *Ledger) RefillEnergy() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.p.Energy = l.p.MaxEnergy
}

// UpgradeCastle pays for and applies one castle upgrade.
// Returns the new castle level and the gold spent.
func (l *Ledger) UpgradeCastle() (level, cost int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cost = l.p.UpgradeCost()
	if l.p.Gold < cost {
		return l.p.CastleLevel, cost, ErrInsufficientGold
	}
	l.p.Gold -= cost
	l.p.CastleLevel++
	return l.p.CastleLevel, cost, nil
}

// ToggleSound flips the sound setting and returns the new value.
func (l *Ledger) ToggleSound() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.p.Settings.Sound = !l.p.Settings.Sound
	return l.p.Settings.Sound
}

// ToggleHaptics flips the haptics setting and returns the new value.
func (l *Ledger) ToggleHaptics() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.p.Settings.Haptics = !l.p.Settings.Haptics
	return l.p.Settings.Haptics
}

// Reset wipes progress back to the starting values, keeping the player name.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.p = Default(l.p.Player)
}
