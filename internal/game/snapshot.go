// Package game holds the client's view of the authority's data: the state
// snapshot received on every poll, the commands sent back, and the phase
// derived from a snapshot. It performs no game logic of its own.
package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Tile symbols used by the authority's grid.
const (
	SymbolWall   = '#'
	SymbolPlayer = 'P'
	SymbolGoal   = 'G'
	SymbolDoor   = 'D'
)

// Tile is the classification of a grid symbol.
type Tile int

const (
	TileEmpty Tile = iota
	TileWall       // wall or platform
	TilePlayer
	TileGoal
	TileDoor
)

// String returns a human-readable name for the tile.
func (t Tile) String() string {
	switch t {
	case TileWall:
		return "wall"
	case TilePlayer:
		return "player"
	case TileGoal:
		return "goal"
	case TileDoor:
		return "door"
	default:
		return "empty"
	}
}

// Classify maps a grid symbol to its tile. Unknown symbols are empty.
func Classify(symbol rune) Tile {
	switch symbol {
	case SymbolWall:
		return TileWall
	case SymbolPlayer:
		return TilePlayer
	case SymbolGoal:
		return TileGoal
	case SymbolDoor:
		return TileDoor
	default:
		return TileEmpty
	}
}

var (
	// ErrDecode reports a /state body that is not a snapshot.
	ErrDecode = errors.New("game: cannot decode snapshot")

	// ErrMalformedSnapshot reports a decoded snapshot whose grid cannot be drawn.
	ErrMalformedSnapshot = errors.New("game: malformed snapshot")

	ErrMissingGrid   = fmt.Errorf("%w: grid missing", ErrMalformedSnapshot)
	ErrBadDimensions = fmt.Errorf("%w: width and height must be positive", ErrMalformedSnapshot)
	ErrRowCount      = fmt.Errorf("%w: row count does not match height", ErrMalformedSnapshot)
	ErrRowWidth      = fmt.Errorf("%w: row length does not match width", ErrMalformedSnapshot)
)

// Choice is one selectable option at a decision point.
type Choice struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Position is a grid coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Row is one grid row. On the wire it is either a string ("#P#") or an
// array of one-character strings (["#","P","#"]).
type Row []rune

// UnmarshalJSON accepts both row encodings.
func (r *Row) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Row(s)
		return nil
	}

	var cells []string
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("row must be a string or an array of symbols: %w", err)
	}
	row := make(Row, 0, len(cells))
	for i, c := range cells {
		runes := []rune(c)
		if len(runes) != 1 {
			return fmt.Errorf("row cell %d: %q is not a single symbol", i, c)
		}
		row = append(row, runes[0])
	}
	*r = row
	return nil
}

// MarshalJSON writes the row as a string, the way the authority sends it.
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

// String returns the row symbols.
func (r Row) String() string {
	return string(r)
}

// Snapshot is one immutable description of the authority's state.
// A new snapshot fully replaces the previous one; nothing is merged.
type Snapshot struct {
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Grid        []Row     `json:"grid,omitempty"`
	Tutorial    string    `json:"tutorial,omitempty"`
	Choices     []Choice  `json:"choices,omitempty"`
	GoalMessage string    `json:"goalMessage,omitempty"`
	Player      *Position `json:"player,omitempty"`
}

// Decode parses a /state response body.
// The choice list is checked here (ids positive and unique); grid shape is
// left to ValidateGrid so the renderer can report it separately.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := validateChoices(s.Choices); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return s, nil
}

func validateChoices(choices []Choice) error {
	seen := make(map[int]bool, len(choices))
	for _, c := range choices {
		if c.ID <= 0 {
			return fmt.Errorf("choice id %d is not positive", c.ID)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate choice id %d", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// ValidateGrid checks that the grid can be drawn: present, positive
// dimensions, height rows of exactly width symbols each.
func (s Snapshot) ValidateGrid() error {
	if s.Grid == nil {
		return ErrMissingGrid
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w (got %dx%d)", ErrBadDimensions, s.Width, s.Height)
	}
	if len(s.Grid) != s.Height {
		return fmt.Errorf("%w (got %d rows, height %d)", ErrRowCount, len(s.Grid), s.Height)
	}
	for y, row := range s.Grid {
		if len(row) != s.Width {
			return fmt.Errorf("%w (row %d has %d symbols, width %d)", ErrRowWidth, y, len(row), s.Width)
		}
	}
	return nil
}

// Symbol returns the grid symbol at (x, y), or a space outside the grid.
func (s Snapshot) Symbol(x, y int) rune {
	if y < 0 || y >= len(s.Grid) || x < 0 || x >= len(s.Grid[y]) {
		return ' '
	}
	return s.Grid[y][x]
}

// Tile returns the classified tile at (x, y).
func (s Snapshot) Tile(x, y int) Tile {
	return Classify(s.Symbol(x, y))
}

// Finished reports whether the run has ended (goal message present).
func (s Snapshot) Finished() bool {
	return s.GoalMessage != ""
}

// HasChoices reports whether the player is at a decision point.
func (s Snapshot) HasChoices() bool {
	return len(s.Choices) > 0
}

// HasTutorial reports whether an introductory hint is active.
func (s Snapshot) HasTutorial() bool {
	return s.Tutorial != ""
}
