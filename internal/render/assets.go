package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-platformer/internal/core"
)

// Logical resource names.
const (
	AssetBackground = "background"
	AssetWall       = "wall"
	AssetPlatform   = "platform"
	AssetPlayer     = "player"
	AssetGoal       = "goal"
	AssetDoor       = "door"
)

// AssetNames lists every resource the renderer may ask for.
var AssetNames = []string{
	AssetBackground, AssetWall, AssetPlatform, AssetPlayer, AssetGoal, AssetDoor,
}

// ErrAssetNotFound is returned by a Source that does not have a resource.
var ErrAssetNotFound = errors.New("render: asset not found")

// Sprite is the look of one tile. Pattern lines are repeated to cover the
// tile; a default Bg lets the background show through.
type Sprite struct {
	Pattern string     `yaml:"pattern"`
	Fg      core.Color `yaml:"fg"`
	Bg      core.Color `yaml:"bg"`

	rows [][]rune
}

// ParseSprite decodes a sprite resource.
func ParseSprite(data []byte) (Sprite, error) {
	var s Sprite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Sprite{}, fmt.Errorf("render: invalid sprite: %w", err)
	}
	if strings.TrimRight(s.Pattern, "\n") == "" {
		return Sprite{}, errors.New("render: sprite pattern is empty")
	}
	s.rows = patternRows(s.Pattern)
	return s, nil
}

func patternRows(pattern string) [][]rune {
	lines := strings.Split(strings.TrimRight(pattern, "\n"), "\n")
	rows := make([][]rune, len(lines))
	for i, l := range lines {
		rows[i] = []rune(l)
	}
	return rows
}

// cell returns the pattern cell covering tile offset (dx, dy).
func (s Sprite) cell(dx, dy int) rune {
	rows := s.rows
	if rows == nil {
		rows = patternRows(s.Pattern)
	}
	line := rows[dy%len(rows)]
	if len(line) == 0 {
		return ' '
	}
	return line[dx%len(line)]
}

// Status is the load state of a resource.
type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusMissing
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Source provides raw sprite resources by name.
type Source interface {
	Asset(ctx context.Context, name string) ([]byte, error)
}

// Assets is the table of tile sprites. It is written by Load and read by
// any number of renderers concurrently.
type Assets struct {
	mu      sync.RWMutex
	sprites map[string]Sprite
	status  map[string]Status
	logger  *log.Logger
}

// NewAssets creates a table with every resource pending.
func NewAssets(logger *log.Logger) *Assets {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	a := &Assets{
		sprites: make(map[string]Sprite, len(AssetNames)),
		status:  make(map[string]Status, len(AssetNames)),
		logger:  logger,
	}
	for _, name := range AssetNames {
		a.status[name] = StatusPending
	}
	return a
}

// Load fetches every resource concurrently. For each name the first source
// that has it wins; a name no source provides becomes missing. Individual
// failures are logged, not returned. Only cancellation of ctx is an error.
func (a *Assets) Load(ctx context.Context, sources ...Source) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range AssetNames {
		g.Go(func() error {
			sprite, err := a.fetch(ctx, name, sources)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				a.logger.Warn("asset unavailable", "name", name, "err", err)
				a.set(name, Sprite{}, StatusMissing)
				return nil
			}
			a.logger.Debug("asset loaded", "name", name)
			a.set(name, sprite, StatusReady)
			return nil
		})
	}
	return g.Wait()
}

func (a *Assets) fetch(ctx context.Context, name string, sources []Source) (Sprite, error) {
	var lastErr error = ErrAssetNotFound
	for _, src := range sources {
		data, err := src.Asset(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return Sprite{}, ctx.Err()
			}
			if !errors.Is(err, ErrAssetNotFound) {
				a.logger.Debug("asset source failed", "name", name, "err", err)
				lastErr = err
			}
			continue
		}
		sprite, err := ParseSprite(data)
		if err != nil {
			a.logger.Debug("asset rejected", "name", name, "err", err)
			lastErr = err
			continue
		}
		return sprite, nil
	}
	return Sprite{}, lastErr
}

func (a *Assets) set(name string, s Sprite, st Status) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sprites[name] = s
	a.status[name] = st
}

// Ready reports whether a resource is usable for drawing.
func (a *Assets) Ready(name string) bool {
	return a.Status(name) == StatusReady
}

// Status returns the load state of a resource. Unknown names are missing.
func (a *Assets) Status(name string) Status {
	if a == nil {
		return StatusPending
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	st, ok := a.status[name]
	if !ok {
		return StatusMissing
	}
	return st
}

// Sprite returns a ready resource.
func (a *Assets) Sprite(name string) (Sprite, bool) {
	if a == nil {
		return Sprite{}, false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.status[name] != StatusReady {
		return Sprite{}, false
	}
	return a.sprites[name], true
}
