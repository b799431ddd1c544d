package assets

import (
	"image"
	"log"
)

type entry struct {
	svg      []byte
	img      image.Image
	resolved bool
	failed   bool
}

// Catalog is a named lookup table of sprites keyed by id.
// SVG entries are rasterised on first lookup and cached; an entry that fails
// to rasterise is logged once and reported missing from then on.
type Catalog struct {
	name    string
	size    int
	keys    []string
	entries map[string]*entry
	logger  *log.Logger
}

// NewCatalog creates an empty catalog rasterising SVGs at size x size pixels
func NewCatalog(name string, size int) *Catalog {
	return &Catalog{
		name:    name,
		size:    size,
		entries: make(map[string]*entry),
		logger:  log.Default(),
	}
}

// SetLogger replaces the logger used for resolution failures
func (c *Catalog) SetLogger(l *log.Logger) {
	if l != nil {
		c.logger = l
	}
}

// Name returns the table name
func (c *Catalog) Name() string {
	return c.name
}

// AddSVG registers an SVG source under key
func (c *Catalog) AddSVG(key string, data []byte) {
	c.add(key, &entry{svg: data})
}

// AddImage registers an already decoded image under key. A nil image is kept
// as a key that never resolves.
func (c *Catalog) AddImage(key string, img image.Image) {
	c.add(key, &entry{img: img, resolved: true, failed: img == nil})
}

// AddMissing registers a key without any backing asset
func (c *Catalog) AddMissing(key string) {
	c.add(key, &entry{resolved: true, failed: true})
}

func (c *Catalog) add(key string, e *entry) {
	if _, ok := c.entries[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.entries[key] = e
}

// Keys returns the registered keys in insertion order
func (c *Catalog) Keys() []string {
	return c.keys
}

// Len returns the number of registered keys
func (c *Catalog) Len() int {
	return len(c.keys)
}

// Lookup resolves key to an image. ok is false when the key is unknown or its asset failed to load.
func (c *Catalog) Lookup(key string) (image.Image, bool) {
	e, ok := c.entries[key]
	if !ok {
		c.logger.Printf("assets: %s table has no key %q", c.name, key)
		return nil, false
	}

	if !e.resolved {
		e.resolved = true
		img, err := svgToImage(e.svg, c.size, c.size)
		if err != nil {
			c.logger.Printf("assets: %s %q failed to load: %v", c.name, key, err)
			e.failed = true
		} else {
			e.img = img
		}
	}

	if e.failed {
		return nil, false
	}
	return e.img, true
}

// Dump rasterises every entry and writes it as PNG into dir
func (c *Catalog) Dump(dir string) error {
	for _, key := range c.keys {
		img, ok := c.Lookup(key)
		if !ok {
			continue
		}
		if err := SavePNG(img, dir, c.name+"-"+key); err != nil {
			return err
		}
	}
	return nil
}
