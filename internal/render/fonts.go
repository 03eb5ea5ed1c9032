package render

import (
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"SheetBoard/internal/logging"
)

// fontCache keeps one Go Regular face per pixel size.
type fontCache struct {
	once   sync.Once
	source *text.FontSource
	faces  map[float64]text.Face
}

func newFontCache() *fontCache {
	return &fontCache{faces: make(map[float64]text.Face)}
}

func (c *fontCache) face(size float64) text.Face {
	if size <= 0 {
		return nil
	}
	c.once.Do(func() {
		src, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			logging.Logger().Warn("load font", "err", err)
			return
		}
		c.source = src
	})
	if c.source == nil {
		return nil
	}
	f, ok := c.faces[size]
	if !ok {
		f = c.source.Face(size)
		c.faces[size] = f
	}
	return f
}
