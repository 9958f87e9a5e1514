// Package render draws authority snapshots as tile grids onto a core.Screen.
package render

import (
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/game"
)

// Default tile size in terminal cells. Two columns per tile keeps tiles
// roughly square in most fonts.
const (
	DefaultTileW = 2
	DefaultTileH = 1
)

// Options configures a TileRenderer.
type Options struct {
	TileW int
	TileH int
}

func (o Options) withDefaults() Options {
	if o.TileW <= 0 {
		o.TileW = DefaultTileW
	}
	if o.TileH <= 0 {
		o.TileH = DefaultTileH
	}
	return o
}

// Solid colors drawn when a sprite is not ready.
var placeholderColors = map[game.Tile]core.Color{
	game.TileWall:   core.ColorJungle,
	game.TilePlayer: core.ColorBrightRed,
	game.TileGoal:   core.ColorBrightYellow,
	game.TileDoor:   core.ColorOrange,
}

const (
	backgroundFill  = core.ColorMint
	placeholderRune = '█'
)

// TileRenderer paints snapshots onto a surface it owns.
type TileRenderer struct {
	surface *core.Screen
	assets  *Assets
	opts    Options
}

// New creates a renderer drawing into surface. assets may be nil, in which
// case every tile is a placeholder.
func New(surface *core.Screen, assets *Assets, opts Options) *TileRenderer {
	if surface == nil {
		surface = core.NewScreen(0, 0)
	}
	return &TileRenderer{
		surface: surface,
		assets:  assets,
		opts:    opts.withDefaults(),
	}
}

// Surface returns the drawing surface.
func (r *TileRenderer) Surface() *core.Screen {
	return r.surface
}

// Draw paints s. A snapshot whose grid fails validation is reported and
// nothing is drawn. The snapshot is never modified.
func (r *TileRenderer) Draw(s game.Snapshot) error {
	if err := s.ValidateGrid(); err != nil {
		return err
	}

	// Resize is a no-op when the dimensions are unchanged.
	r.surface.Resize(s.Width*r.opts.TileW, s.Height*r.opts.TileH)

	r.drawBackground(s.Width, s.Height)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			r.drawTile(x, y, s.Tile(x, y))
		}
	}
	return nil
}

// drawBackground clears the surface and lays the background sprite over it.
// Every cell is rewritten, so nothing of the previous frame survives.
func (r *TileRenderer) drawBackground(cols, rows int) {
	r.surface.Fill(core.Cell{Rune: ' ', Bg: backgroundFill})
	bg, ok := r.assets.Sprite(AssetBackground)
	if !ok {
		return
	}
	for ty := 0; ty < rows; ty++ {
		for tx := 0; tx < cols; tx++ {
			r.blit(tx, ty, bg)
		}
	}
}

func (r *TileRenderer) drawTile(tx, ty int, t game.Tile) {
	if t == game.TileEmpty {
		return
	}
	if sprite, ok := r.spriteFor(t); ok {
		r.blit(tx, ty, sprite)
		return
	}
	c := placeholderColors[t]
	r.surface.FillRect(r.tileRect(tx, ty), core.Cell{Rune: placeholderRune, Fg: c, Bg: c})
}

func (r *TileRenderer) spriteFor(t game.Tile) (Sprite, bool) {
	switch t {
	case game.TileWall:
		if s, ok := r.assets.Sprite(AssetWall); ok {
			return s, true
		}
		return r.assets.Sprite(AssetPlatform)
	case game.TilePlayer:
		return r.assets.Sprite(AssetPlayer)
	case game.TileGoal:
		return r.assets.Sprite(AssetGoal)
	case game.TileDoor:
		return r.assets.Sprite(AssetDoor)
	}
	return Sprite{}, false
}

func (r *TileRenderer) tileRect(tx, ty int) core.Rect {
	return core.NewRect(tx*r.opts.TileW, ty*r.opts.TileH, r.opts.TileW, r.opts.TileH)
}

// blit copies a sprite over one tile. A default background keeps whatever
// is already underneath.
func (r *TileRenderer) blit(tx, ty int, s Sprite) {
	ox, oy := tx*r.opts.TileW, ty*r.opts.TileH
	for dy := 0; dy < r.opts.TileH; dy++ {
		for dx := 0; dx < r.opts.TileW; dx++ {
			x, y := ox+dx, oy+dy
			cell := core.Cell{Rune: s.cell(dx, dy), Fg: s.Fg, Bg: s.Bg}
			if cell.Bg == core.ColorDefault {
				cell.Bg = r.surface.GetCell(x, y).Bg
			}
			r.surface.SetCell(x, y, cell)
		}
	}
}
