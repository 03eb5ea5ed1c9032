package render

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gogpu/gg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"SheetBoard/internal/logging"
	"SheetBoard/internal/state"
)

// DecodeImage decodes an ingested picture. PNG, JPEG, GIF, BMP, TIFF and
// WebP are understood.
func DecodeImage(data []byte) (image.Image, string, error) {
	return image.Decode(bytes.NewReader(data))
}

// imageCache holds decoded image elements by element id. A nil entry
// records a payload that failed to decode, so it is not retried on every
// repaint.
type imageCache struct {
	bufs map[string]*gg.ImageBuf
}

func newImageCache() *imageCache {
	return &imageCache{bufs: make(map[string]*gg.ImageBuf)}
}

func (c *imageCache) get(img *state.Image) *gg.ImageBuf {
	id := img.ID
	if buf, ok := c.bufs[id]; ok {
		return buf
	}
	decoded, _, err := DecodeImage(img.Data)
	if err != nil {
		logging.Logger().Debug("decode image element", "id", id, "err", err)
		c.bufs[id] = nil
		return nil
	}
	buf := gg.ImageBufFromImage(decoded)
	c.bufs[id] = buf
	return buf
}

func (c *imageCache) retain(live map[string]bool) {
	for id := range c.bufs {
		if !live[id] {
			delete(c.bufs, id)
		}
	}
}
