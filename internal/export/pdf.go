package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gogpu/gg"
	"github.com/jung-kurt/gofpdf"
)

// encodePDF places the raster on a single landscape page sized to the
// raster in points, image at the origin.
func encodePDF(w io.Writer, dc *gg.Context) error {
	width, height := float64(dc.Width()), float64(dc.Height())

	var page bytes.Buffer
	if err := dc.EncodeJPEG(&page, JPEGQuality); err != nil {
		return fmt.Errorf("export: encode page image: %w", err)
	}

	// Landscape swaps the size, so pass it portrait side first.
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: height, Ht: width},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	opt := gofpdf.ImageOptions{ImageType: "JPG"}
	p.RegisterImageOptionsReader("sheet", opt, &page)
	p.ImageOptions("sheet", 0, 0, width, height, false, opt, 0, "")
	if err := p.Error(); err != nil {
		return fmt.Errorf("export: build pdf: %w", err)
	}
	return p.Output(w)
}
