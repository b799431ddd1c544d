package game

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"skyburst/engine"
	"skyburst/geom"
)

const (
	hintText      = "drag anywhere to launch a firework"
	indicatorText = "release to launch"

	// glyphBase is the cap height of the fallback face in pixels
	glyphBase = 13.0
)

var (
	colorBackground = color.RGBA{8, 8, 24, 255}
	colorHint       = color.RGBA{200, 200, 220, 180}
	colorIndicator  = color.RGBA{255, 220, 140, 220}
)

// Renderer draws an engine surface onto an ebiten screen
type Renderer struct {
	images map[image.Image]*ebiten.Image
	face   text.Face
}

// NewRenderer creates a renderer with an empty image cache
func NewRenderer() *Renderer {
	return &Renderer{
		images: make(map[image.Image]*ebiten.Image),
		face:   text.NewGoXFace(basicfont.Face7x13),
	}
}

// Render draws every visible node in layer order, then the HUD text
func (r *Renderer) Render(screen *ebiten.Image, s *engine.Surface) {
	screen.Fill(colorBackground)

	for _, n := range s.Nodes() {
		if !n.Visible || n.Opacity <= 0 {
			continue
		}
		switch n.Type {
		case engine.NodeTypeLine:
			r.drawLine(screen, n)
		case engine.NodeTypeGlow:
			r.drawGlow(screen, n)
		case engine.NodeTypeSprite:
			if n.Image != nil {
				r.drawImage(screen, n)
			} else {
				r.drawGlyph(screen, n)
			}
		}
	}

	w, h := s.Size()
	if s.HintVisible {
		r.drawText(screen, hintText, w/2, h-40, colorHint)
	}
	if s.DragIndicatorVisible {
		r.drawText(screen, indicatorText, w/2, 40, colorIndicator)
	}
}

func (r *Renderer) drawLine(screen *ebiten.Image, n *engine.Node) {
	if n.From == n.To {
		return
	}
	vector.StrokeLine(screen,
		float32(n.From.X), float32(n.From.Y), float32(n.To.X), float32(n.To.Y),
		float32(n.Width), fade(n.Color, n.Opacity), true)
}

// drawGlow layers translucent discs so the centre reads brighter than the rim
func (r *Renderer) drawGlow(screen *ebiten.Image, n *engine.Node) {
	radius := n.Size / 2 * n.Scale
	for i, k := range []float64{1, 0.7, 0.4} {
		clr := fade(n.Color, n.Opacity*(0.5+0.25*float64(i)))
		vector.DrawFilledCircle(screen, float32(n.Pos.X), float32(n.Pos.Y), float32(radius*k), clr, true)
	}
}

func (r *Renderer) drawImage(screen *ebiten.Image, n *engine.Node) {
	img := r.image(n.Image)
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return
	}

	op := &colorm.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Translate(-w/2, -h/2)
	scale := n.Size * n.Scale / w
	op.GeoM.Scale(scale, scale)
	op.GeoM.Rotate(n.Rotation * math.Pi / 180)
	op.GeoM.Translate(n.Pos.X, n.Pos.Y)

	var cm colorm.ColorM
	if n.Hue != 0 {
		cm.RotateHue(n.Hue * math.Pi / 180)
	}
	cm.Scale(1, 1, 1, n.Opacity)
	colorm.DrawImage(screen, img, cm, op)
}

func (r *Renderer) drawGlyph(screen *ebiten.Image, n *engine.Node) {
	op := &text.DrawOptions{}
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	scale := n.Size * n.Scale / glyphBase
	op.GeoM.Scale(scale, scale)
	op.GeoM.Rotate(n.Rotation * math.Pi / 180)
	op.GeoM.Translate(n.Pos.X, n.Pos.Y)
	op.ColorScale.ScaleWithColor(n.Color)
	op.ColorScale.ScaleAlpha(float32(n.Opacity))
	text.Draw(screen, n.Glyph, r.face, op)
}

func (r *Renderer) drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.PrimaryAlign = text.AlignCenter
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, r.face, op)
}

// image converts a decoded image to a GPU image once and caches it
func (r *Renderer) image(src image.Image) *ebiten.Image {
	if img, ok := r.images[src]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(src)
	r.images[src] = img
	return img
}

// RenderDebug prints frame and engine statistics in the top-left corner
func (r *Renderer) RenderDebug(screen *ebiten.Image, fps float64, s *engine.Stage) {
	msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nNodes: %d  Particles: %d\nLaunched: %d  Gesture: %s\nAuto: %d ticks, %d skipped\nTasks: %d  Images: %d",
		fps, ebiten.ActualTPS(),
		s.Surface.Len(), s.Explosions.ActiveParticles(),
		s.Explosions.Launched(), s.Gestures.State(),
		s.AutoFire.Ticks(), s.AutoFire.Skipped(),
		s.Scheduler.Pending(), len(r.images))
	ebitenutil.DebugPrintAt(screen, msg, 8, 8)
}

// fade scales the alpha of c by opacity
func fade(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * geom.Clamp(0, 1, opacity)))
	return c
}
