package levels

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/realm-rescue/internal/levels/formats"
)

// Loader handles loading level packs from a directory.
type Loader struct {
	Root   string
	Logger *log.Logger // Optional; receives skipped files and validation warnings
}

// NewLoader creates a new level loader.
func NewLoader(root string, logger *log.Logger) *Loader {
	return &Loader{Root: root, Logger: logger}
}

// LoadAll recursively scans and loads all level files.
// Files that fail to parse are skipped. Returns levels sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !isSupportedExtension(ext) {
			return nil
		}

		level, err := l.LoadFile(path)
		if err != nil {
			if l.Logger != nil {
				l.Logger.Warn("skipping level file", "path", path, "err", err)
			}
			return nil
		}

		levels = append(levels, level)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("levels: walking directory %s: %w", l.Root, err)
	}

	// Sort by ID for determinism
	sort.Slice(levels, func(i, j int) bool {
		if levels[i].ID != levels[j].ID {
			return levels[i].ID < levels[j].ID
		}
		return levels[i].FilePath < levels[j].FilePath
	})

	return levels, nil
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("levels: reading file %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return Level{}, fmt.Errorf("levels: parsing file %s: %w", path, err)
	}

	lvl := Level{
		ID:       parsed.ID,
		Name:     parsed.Name,
		Tier:     parsed.Tier,
		Reward:   parsed.Reward,
		Hint:     parsed.Hint,
		Layout:   parsed.Layout,
		FilePath: path,
	}

	if l.Logger != nil {
		for _, issue := range Validate(lvl) {
			l.Logger.Warn("level issue", "path", path, "id", lvl.ID, "code", issue.Code, "msg", issue.Message)
		}
	}

	return lvl, nil
}

// LoadInto loads every level pack and adds it to the catalog.
// Levels whose IDs are already taken are skipped and reported.
// Returns the number of levels added.
func (l *Loader) LoadInto(c *Catalog) (int, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return 0, err
	}

	added := 0
	for _, lvl := range levels {
		if err := c.Add(lvl); err != nil {
			if l.Logger != nil {
				l.Logger.Warn("skipping level", "path", lvl.FilePath, "err", err)
			}
			continue
		}
		added++
	}
	return added, nil
}

// Export writes a level in YAML format to path.
func Export(lvl Level, path string) error {
	data, err := formats.MarshalYAML(formats.Level{
		ID:     lvl.ID,
		Name:   lvl.Name,
		Tier:   lvl.Tier,
		Reward: lvl.Reward,
		Hint:   lvl.Hint,
		Layout: lvl.Layout,
	})
	if err != nil {
		return fmt.Errorf("levels: cannot encode level %d: %w", lvl.ID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("levels: cannot write %s: %w", path, err)
	}
	return nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
