package assets

import (
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Sprite is a resolved visual: either an image or a synthesised coloured glyph
type Sprite struct {
	Image image.Image
	Glyph string
	Color color.NRGBA
}

// FallbackGlyph is drawn when no image asset resolves
const FallbackGlyph = "*"

// HueColor returns a saturated colour for a hue in degrees
func HueColor(hue float64) color.NRGBA {
	h := math.Mod(hue, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsv(h, 0.75, 1.0).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Fallback synthesises a minimal marker: a glyph tinted by hue
func Fallback(hue float64) Sprite {
	return Sprite{
		Glyph: FallbackGlyph,
		Color: HueColor(hue),
	}
}

// PlaceholderImage draws a filled disc with a darker outline, for tables that
// need an image but have nothing to load
func PlaceholderImage(size int, clr color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	r := c - 1
	dark := color.RGBA{0, 0, 0, 255}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c)
			if d < r-1 {
				img.Set(x, y, clr)
			} else if d < r {
				img.Set(x, y, dark)
			}
		}
	}
	return img
}
