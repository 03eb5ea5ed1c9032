// Package export encodes a rendered sheet into a downloadable file.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gogpu/gg"
)

// Format is an export file format.
type Format string

const (
	PNG Format = "png"
	JPG Format = "jpg"
	PDF Format = "pdf"
)

// Formats lists the supported formats in menu order.
var Formats = []Format{PNG, JPG, PDF}

// JPEGQuality is used for JPEG output and for the page image inside a PDF.
const JPEGQuality = 92

var ErrUnknownFormat = errors.New("export: unknown format")

// ParseFormat accepts a format name case-insensitively. "jpeg" is an alias
// for jpg.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PNG, JPG, PDF:
		return f, nil
	case "jpeg":
		return JPG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FileName returns the download name for a sheet, "<name>.<ext>".
func FileName(sheetName string, f Format) string {
	name := strings.TrimSpace(sheetName)
	if name == "" {
		name = "sheet"
	}
	return name + "." + string(f)
}

// Encode writes the current contents of dc to w in format f.
func Encode(w io.Writer, dc *gg.Context, f Format) error {
	if dc == nil {
		return errors.New("export: no surface")
	}
	switch f {
	case PNG:
		return dc.EncodePNG(w)
	case JPG:
		return dc.EncodeJPEG(w, JPEGQuality)
	case PDF:
		return encodePDF(w, dc)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
