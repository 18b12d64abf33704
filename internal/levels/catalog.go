package levels

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownLevel is returned when a level ID is not in the catalog.
	ErrUnknownLevel = errors.New("levels: unknown level")
	// ErrDuplicateLevel is returned when a level ID is added twice.
	ErrDuplicateLevel = errors.New("levels: duplicate level")
)

// Catalog is a concurrency-safe set of levels keyed by ID.
type Catalog struct {
	mu     sync.RWMutex
	levels map[int]Level
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{levels: make(map[int]Level)}
}

// DefaultCatalog creates a catalog holding the built-in campaign.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, lvl := range Builtin() {
		c.Register(lvl)
	}
	return c
}

// Register adds a level to the catalog.
// Panics if a level with the same ID is already registered.
func (c *Catalog) Register(lvl Level) {
	if err := c.Add(lvl); err != nil {
		panic(err.Error())
	}
}

// Add adds a level, returning ErrDuplicateLevel if the ID is taken.
func (c *Catalog) Add(lvl Level) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, exists := c.levels[lvl.ID]; exists {
		return fmt.Errorf("%w: id %d (%q) already registered as %q", ErrDuplicateLevel, lvl.ID, lvl.Name, existing.Name)
	}
	lvl.Layout = lvl.Layout.Clone()
	c.levels[lvl.ID] = lvl
	return nil
}

// Get returns the level with the given ID.
func (c *Catalog) Get(id int) (Level, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	lvl, ok := c.levels[id]
	if !ok {
		return Level{}, fmt.Errorf("%w: %d", ErrUnknownLevel, id)
	}
	lvl.Layout = lvl.Layout.Clone()
	return lvl, nil
}

// Exists checks if a level with the given ID is registered.
func (c *Catalog) Exists(id int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.levels[id]
	return ok
}

// List returns all levels sorted by ID.
func (c *Catalog) List() []Level {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Level, 0, len(c.levels))
	for _, lvl := range c.levels {
		lvl.Layout = lvl.Layout.Clone()
		result = append(result, lvl)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Len returns the number of registered levels.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.levels)
}

// Next returns the smallest level ID greater than id, or false if none.
func (c *Catalog) Next(id int) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	next, found := 0, false
	for other := range c.levels {
		if other > id && (!found || other < next) {
			next, found = other, true
		}
	}
	return next, found
}
