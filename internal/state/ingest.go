package state

// Image ingestion defaults.
const (
	MaxImageWidth  = 400
	MaxImageHeight = 400
)

// DefaultImageAnchor is where ingested images are placed.
var DefaultImageAnchor = Point{X: 50, Y: 50}

// FitImage scales a w×h picture down, keeping its aspect ratio, so that
// neither side exceeds the 400×400 box. Smaller pictures keep their size.
func FitImage(w, h int) (float64, float64) {
	width, height := float64(w), float64(h)
	if width > MaxImageWidth {
		ratio := MaxImageWidth / width
		width = MaxImageWidth
		height *= ratio
	}
	if height > MaxImageHeight {
		ratio := MaxImageHeight / height
		height = MaxImageHeight
		width *= ratio
	}
	return width, height
}
