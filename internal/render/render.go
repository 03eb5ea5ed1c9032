package render

import (
	"bytes"
	"math"

	"github.com/gogpu/gg"

	"SheetBoard/internal/logging"
	"SheetBoard/internal/state"
)

// TextScale converts a text element's size into a font size in pixels.
const TextScale = 5

// Renderer holds the caches needed between repaints.
type Renderer struct {
	// Background is the hex colour the surface is cleared to. Empty clears
	// to transparent.
	Background string

	fonts  *fontCache
	images *imageCache
}

// New returns a renderer clearing to background.
func New(background string) *Renderer {
	return &Renderer{
		Background: background,
		fonts:      newFontCache(),
		images:     newImageCache(),
	}
}

// NewSurface allocates a raster surface of w×h pixels.
func NewSurface(w, h int) *gg.Context {
	return gg.NewContext(w, h)
}

// Render repaints dc with elements. A nil surface aborts the repaint
// without touching anything.
func (r *Renderer) Render(dc *gg.Context, elements []state.Element) {
	if dc == nil {
		return
	}
	if r.Background == "" {
		dc.Clear()
	} else {
		dc.ClearWithColor(gg.Hex(r.Background))
	}
	for _, e := range elements {
		r.paint(dc, e)
	}
}

// paint draws one element and then restores the default paint, so no
// element's alpha or width leaks into the next one.
func (r *Renderer) paint(dc *gg.Context, e state.Element) {
	defer resetPaint(dc)

	var err error
	switch v := e.(type) {
	case *state.Freehand:
		err = paintFreehand(dc, v)
	case *state.Shape:
		err = paintShape(dc, v)
	case *state.Text:
		r.paintText(dc, v)
	case *state.Image:
		r.paintImage(dc, v)
	}
	if err != nil {
		logging.Logger().Debug("paint element", "id", e.ElementID(), "type", e.Type(), "err", err)
	}
}

// BrushScale returns the width and opacity multipliers for a freehand kind.
func BrushScale(kind state.FreehandKind) (width, opacity float64) {
	switch kind {
	case state.KindMarker:
		return 2, 0.5
	case state.KindPen:
		return 1.5, 1
	}
	return 1, 1
}

func paintFreehand(dc *gg.Context, f *state.Freehand) error {
	if len(f.Points) < 2 {
		return nil
	}
	widthScale, alphaScale := BrushScale(f.Kind)
	dc.SetLineWidth(f.StrokeWidth * widthScale)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.SetStrokeBrush(gg.Solid(withAlpha(f.Color, f.Opacity*alphaScale)))

	dc.MoveTo(f.Points[0].X, f.Points[0].Y)
	for _, p := range f.Points[1:] {
		dc.LineTo(p.X, p.Y)
	}
	return dc.Stroke()
}

func paintShape(dc *gg.Context, s *state.Shape) error {
	if !traceShape(dc, s) {
		return nil
	}
	if s.Filled {
		fill := s.FillColor
		if fill == "" {
			fill = s.Color
		}
		dc.SetFillBrush(gg.Solid(withAlpha(fill, s.Opacity)))
		if err := dc.FillPreserve(); err != nil {
			dc.ClearPath()
			return err
		}
	}
	dc.SetLineWidth(s.StrokeWidth)
	dc.SetStrokeBrush(gg.Solid(withAlpha(s.Color, s.Opacity)))
	return dc.Stroke()
}

// traceShape builds the outline path of s. It reports false for an unknown
// shape kind.
func traceShape(dc *gg.Context, s *state.Shape) bool {
	switch s.Kind {
	case state.ShapeRectangle:
		x, y, w, h := s.Bounds()
		dc.DrawRectangle(x, y, w, h)
	case state.ShapeCircle:
		c, radius := Circle(s)
		dc.DrawCircle(c.X, c.Y, radius)
	case state.ShapeTriangle:
		pts := Triangle(s)
		dc.MoveTo(pts[0].X, pts[0].Y)
		dc.LineTo(pts[1].X, pts[1].Y)
		dc.LineTo(pts[2].X, pts[2].Y)
		dc.ClosePath()
	case state.ShapeLine:
		dc.MoveTo(s.Anchor.X, s.Anchor.Y)
		dc.LineTo(s.Anchor.X+s.Width, s.Anchor.Y+s.Height)
	case state.ShapeArrow:
		tip, left, right := Arrow(s)
		dc.MoveTo(s.Anchor.X, s.Anchor.Y)
		dc.LineTo(tip.X, tip.Y)
		dc.LineTo(left.X, left.Y)
		dc.MoveTo(tip.X, tip.Y)
		dc.LineTo(right.X, right.Y)
	default:
		return false
	}
	return true
}

// Circle returns the centre and radius of a circle shape.
func Circle(s *state.Shape) (state.Point, float64) {
	c := state.Point{X: s.Anchor.X + s.Width/2, Y: s.Anchor.Y + s.Height/2}
	return c, math.Max(math.Abs(s.Width), math.Abs(s.Height)) / 2
}

// Triangle returns the apex and the two base corners of a triangle shape.
func Triangle(s *state.Shape) [3]state.Point {
	return [3]state.Point{
		{X: s.Anchor.X + s.Width/2, Y: s.Anchor.Y},
		{X: s.Anchor.X, Y: s.Anchor.Y + s.Height},
		{X: s.Anchor.X + s.Width, Y: s.Anchor.Y + s.Height},
	}
}

// Arrow returns the tip of an arrow shape and the far ends of its two head
// strokes. The head is 0.2×min(|w|,|h|) long and opens ±30° from the shaft.
func Arrow(s *state.Shape) (tip, left, right state.Point) {
	tip = state.Point{X: s.Anchor.X + s.Width, Y: s.Anchor.Y + s.Height}
	head := math.Min(math.Abs(s.Width), math.Abs(s.Height)) * 0.2
	angle := math.Atan2(s.Height, s.Width)
	left = state.Point{
		X: tip.X - head*math.Cos(angle-math.Pi/6),
		Y: tip.Y - head*math.Sin(angle-math.Pi/6),
	}
	right = state.Point{
		X: tip.X - head*math.Cos(angle+math.Pi/6),
		Y: tip.Y - head*math.Sin(angle+math.Pi/6),
	}
	return tip, left, right
}

func (r *Renderer) paintText(dc *gg.Context, t *state.Text) {
	if t.Content == "" {
		return
	}
	face := r.fonts.face(t.Size * TextScale)
	if face == nil {
		return
	}
	dc.SetFont(face)
	dc.SetFillBrush(gg.Solid(withAlpha(t.Color, t.Opacity)))
	dc.DrawString(t.Content, t.Anchor.X, t.Anchor.Y)
}

func (r *Renderer) paintImage(dc *gg.Context, img *state.Image) {
	// gg treats a zero opacity as fully opaque, so a transparent image is
	// skipped here instead.
	if img.Opacity <= 0 || img.Width <= 0 || img.Height <= 0 {
		return
	}
	buf := r.images.get(img)
	if buf == nil {
		return
	}
	dc.DrawImageEx(buf, gg.DrawImageOptions{
		X:             img.Anchor.X,
		Y:             img.Anchor.Y,
		DstWidth:      img.Width,
		DstHeight:     img.Height,
		Interpolation: gg.InterpBilinear,
		Opacity:       math.Min(img.Opacity, 1),
		BlendMode:     gg.BlendNormal,
	})
}

// Forget drops cached decodes for elements no longer on the sheet.
func (r *Renderer) Forget(elements []state.Element) {
	live := make(map[string]bool, len(elements))
	for _, e := range elements {
		if _, ok := e.(*state.Image); ok {
			live[e.ElementID()] = true
		}
	}
	r.images.retain(live)
}

func resetPaint(dc *gg.Context) {
	dc.ClearPath()
	dc.SetLineWidth(1)
	dc.SetStrokeBrush(gg.Solid(gg.Black))
}

func withAlpha(hex string, opacity float64) gg.RGBA {
	c := gg.Hex(hex)
	c.A *= math.Max(0, math.Min(opacity, 1))
	return c
}

// Snapshot encodes the surface as a PNG data URL, the form stored as a
// sheet's preview image.
func Snapshot(dc *gg.Context) (string, error) {
	if dc == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return "", err
	}
	return state.DataURL("image/png", buf.Bytes()), nil
}
