package dungeon

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tilecrawl/internal/core"
	"github.com/vovakirdan/tilecrawl/internal/tile"
)

const (
	hudHeight = 2
	// Terminal cells are roughly twice as tall as wide, so a tile is drawn
	// two cells wide to look square.
	cellsPerTileX = 2
	cellsPerTileY = 1
)

type glyph struct {
	r     rune
	color core.Color
}

var tileGlyphs = map[tile.Value]glyph{
	tile.Open:       {'·', core.ColorDarkGray},
	tile.Wall:       {'█', core.ColorLightGray},
	tile.StairsUp:   {'<', core.ColorCyan},
	tile.StairsDown: {'>', core.ColorMagenta},
}

var facingNames = [...]string{
	FacingRight: "east",
	FacingUp:    "north",
	FacingLeft:  "west",
	FacingDown:  "south",
}

// minScreen returns the smallest screen that shows one whole room.
func (g *Game) minScreen() (int, int) {
	w, h := g.cfg.World.ScreenTilesX, g.cfg.World.ScreenTilesY
	return w*cellsPerTileX + 2, h*cellsPerTileY + hudHeight
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.world == nil {
		msg := "No world"
		if g.err != nil {
			msg = g.err.Error()
		}
		g.renderOverlay(dst, "Could not build the dungeon", msg)
		return
	}

	g.renderHUD(dst)

	minW, minH := g.minScreen()
	if dst.Width() < minW || dst.Height() < minH {
		g.renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", minW, minH))
		return
	}

	view := core.NewRect(0, hudHeight, dst.Width(), dst.Height()-hudHeight)
	g.renderTiles(dst, view)
	g.renderPlayer(dst, view)

	switch {
	case g.over:
		g.renderOverlay(dst, fmt.Sprintf("Run ended: %d rooms explored", len(g.visited)), "R: restart   Esc: leave")
	case g.paused:
		g.renderOverlay(dst, "Paused", "P: continue   Esc: leave")
	}
}

func (g *Game) renderHUD(dst *core.Screen) {
	used, size := g.world.ArenaStats()
	hud := fmt.Sprintf(" %s | Floor %d | Rooms %d/%d | Facing %s | Arena %s/%s",
		g.Title(), g.player.AbsTileZ+1, len(g.visited), g.world.RoomCount(),
		facingNames[g.facing], formatBytes(used), formatBytes(size))
	dst.DrawTextColor(0, 0, hud, core.ColorBrightWhite)

	for x := range dst.Width() {
		dst.SetColor(x, 1, '─', core.ColorGray)
	}
}

// viewCenter returns the cell that shows the centre of the camera tile.
func viewCenter(view core.Rect) (int, int) {
	return view.X + view.W/2, view.Y + view.H/2
}

// renderTiles draws every tile that falls inside view around the camera.
// World +Y is up, screen +Y is down.
func (g *Game) renderTiles(dst *core.Screen, view core.Rect) {
	tm := g.world.TileMap
	cx, cy := viewCenter(view)

	for sy := view.Y; sy < view.Bottom(); sy++ {
		relRow := floorDiv(cy-sy, cellsPerTileY)
		for sx := view.X; sx < view.Right(); sx++ {
			relCol := floorDiv(sx-cx, cellsPerTileX)
			col := uint32(int64(g.camera.AbsTileX) + int64(relCol))
			row := uint32(int64(g.camera.AbsTileY) + int64(relRow))

			gl, ok := tileGlyphs[tm.TileValueAbs(col, row, g.camera.AbsTileZ)]
			if !ok {
				continue
			}
			dst.SetColor(sx, sy, gl.r, gl.color)
		}
	}
}

// renderPlayer places the player relative to the camera using the metric
// difference between the two positions.
func (g *Game) renderPlayer(dst *core.Screen, view core.Rect) {
	tm := g.world.TileMap
	side := tm.TileSideInMeters()
	cx, cy := viewCenter(view)

	diff := tm.Subtract(g.player, g.camera)
	px := cx + int(math.Floor(cellsPerTileX/2+diff.DX/side*cellsPerTileX))
	py := cy - int(math.Round(diff.DY/side*cellsPerTileY))

	if view.Contains(px, py) {
		dst.SetColor(px, py, '@', core.ColorBrightYellow)
	}
}

// renderOverlay draws a centered overlay message.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	maxLen := max(len([]rune(line1)), len([]rune(line2)))
	box := core.NewRect((dst.Width()-maxLen-4)/2, (dst.Height()-5)/2, maxLen+4, 5)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorWhite)
	dst.DrawTextCentered(box.Y+1, line1, core.ColorBrightWhite)
	dst.DrawTextCentered(box.Y+3, line2, core.ColorGray)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(n)/float64(1<<10))
	}
	return fmt.Sprintf("%dB", n)
}
