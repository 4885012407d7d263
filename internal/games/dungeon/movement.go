package dungeon

import (
	"math"

	"github.com/vovakirdan/tilecrawl/internal/core"
	"github.com/vovakirdan/tilecrawl/internal/tile"
)

// movePlayer integrates one frame of movement. Long frames are split into
// sub-steps of at most half a tile so a fast player cannot skip over a
// wall; movement stops at the first blocked sub-step.
func (g *Game) movePlayer(input core.InputFrame, dt float64) {
	dx, dy := input.Direction()
	if dx == 0 && dy == 0 {
		return
	}

	switch {
	case dx > 0:
		g.facing = FacingRight
	case dx < 0:
		g.facing = FacingLeft
	case dy > 0:
		g.facing = FacingUp
	default:
		g.facing = FacingDown
	}

	speed := g.cfg.Player.Speed
	if input.Has(core.ActionRun) {
		speed = g.cfg.Player.RunSpeed
	}
	if dx != 0 && dy != 0 {
		speed *= math.Sqrt2 / 2
	}

	stepX, stepY := dx*speed*dt, dy*speed*dt
	maxStep := 0.5 * g.world.TileMap.TileSideInMeters()
	steps := int(math.Ceil(math.Max(math.Abs(stepX), math.Abs(stepY)) / maxStep))
	steps = max(steps, 1)
	stepX /= float64(steps)
	stepY /= float64(steps)

	for i := 0; i < steps; i++ {
		if !g.tryMove(stepX, stepY) {
			return
		}
	}
}

// tryMove moves the player by (dx, dy) meters if the centre and both side
// extents of the body land on walkable tiles. Entering a stairs tile moves
// the player to the other floor.
func (g *Game) tryMove(dx, dy float64) bool {
	tm := g.world.TileMap
	candidate := tm.Offset(g.player, dx, dy)

	halfWidth := 0.5 * g.cfg.Player.Width()
	left := tm.Offset(candidate, -halfWidth, 0)
	right := tm.Offset(candidate, halfWidth, 0)

	if !tm.IsPointEmpty(candidate) || !tm.IsPointEmpty(left) || !tm.IsPointEmpty(right) {
		return false
	}

	if !tile.AreOnSameTile(g.player, candidate) {
		switch tm.TileValue(candidate) {
		case tile.StairsUp:
			candidate.AbsTileZ++
			g.floorChanges++
		case tile.StairsDown:
			candidate.AbsTileZ--
			g.floorChanges++
		}
	}

	g.player = candidate
	g.visit()
	return true
}

// updateCamera keeps the camera on the player's floor and flips it by a
// whole room once the player walks far enough past its edge.
func (g *Game) updateCamera() {
	tm := g.world.TileMap
	side := tm.TileSideInMeters()
	w, h := g.world.ScreenSize()

	g.camera.AbsTileZ = g.player.AbsTileZ

	diff := tm.Subtract(g.player, g.camera)
	limitX := float64(w/2+1) * side
	limitY := float64(h/2+1) * side
	switch {
	case diff.DX > limitX:
		g.camera.AbsTileX += w
	case diff.DX < -limitX:
		g.camera.AbsTileX -= w
	}
	switch {
	case diff.DY > limitY:
		g.camera.AbsTileY += h
	case diff.DY < -limitY:
		g.camera.AbsTileY -= h
	}
}
