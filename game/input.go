package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"skyburst/engine"
	"skyburst/geom"
)

// samplePointer polls the mouse and touch screen. An active touch wins over the mouse.
func (g *Game) samplePointer() engine.PointerSample {
	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	if len(g.touchIDs) > 0 {
		x, y := ebiten.TouchPosition(g.touchIDs[0])
		g.lastTouch = geom.Pt(float64(x), float64(y))
		g.touchActive = true
		return engine.PointerSample{Pos: g.lastTouch, Inside: true, Pressed: true, Touch: true}
	}
	if g.touchActive {
		// The finger lifted; report the release where it left the screen
		g.touchActive = false
		return engine.PointerSample{Pos: g.lastTouch, Touch: true}
	}

	x, y := ebiten.CursorPosition()
	w, h := g.stage.Surface.Size()
	p := geom.Pt(float64(x), float64(y))
	inside := ebiten.IsFocused() && p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h
	return engine.PointerSample{
		Pos:     p,
		Inside:  inside,
		Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
	}
}

// handleKeys processes the debug overlay and fullscreen toggles
func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.showDebug = !g.showDebug
	}

	// Alt+Enter toggles fullscreen
	alt := ebiten.IsKeyPressed(ebiten.KeyAlt)
	if alt && inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
}
