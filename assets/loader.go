package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed svg/*.svg
var svgFS embed.FS

const (
	markerPrefix   = "marker_"
	particlePrefix = "spark_"

	// MarkerSpriteSize is the raster size of drag marker sprites
	MarkerSpriteSize = 64
	// ParticleSpriteSize is the raster size of particle sprites
	ParticleSpriteSize = 32
)

// DragMarkers returns the embedded drag marker table
func DragMarkers() (*Catalog, error) {
	return loadEmbedded("drag marker", markerPrefix, MarkerSpriteSize)
}

// ExplosionParticles returns the embedded explosion particle table
func ExplosionParticles() (*Catalog, error) {
	return loadEmbedded("explosion particle", particlePrefix, ParticleSpriteSize)
}

// loadEmbedded builds a catalog from every embedded SVG whose name starts with prefix.
// The key is the file name without prefix and extension.
func loadEmbedded(name, prefix string, size int) (*Catalog, error) {
	entries, err := svgFS.ReadDir("svg")
	if err != nil {
		return nil, fmt.Errorf("read embedded svg dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".svg") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	c := NewCatalog(name, size)
	for _, n := range names {
		data, err := svgFS.ReadFile(path.Join("svg", n))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", n, err)
		}
		key := strings.TrimSuffix(strings.TrimPrefix(n, prefix), ".svg")
		c.AddSVG(key, data)
	}
	return c, nil
}

// svgToImage rasterises SVG data into a width x height RGBA image
func svgToImage(svgData []byte, width, height int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}

// SavePNG writes img to dir/name.png, creating dir if needed
func SavePNG(img image.Image, dir, name string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create sprite dir: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, name+".png"))
	if err != nil {
		return fmt.Errorf("create sprite file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode sprite: %w", err)
	}
	return nil
}
