package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/gg"

	"SheetBoard/internal/state"
)

func pixel(t *testing.T, dc *gg.Context, x, y int) color.RGBA {
	t.Helper()
	img, ok := dc.Image().(*image.RGBA)
	if !ok {
		t.Fatalf("Image() is %T, want *image.RGBA", dc.Image())
	}
	return img.RGBAAt(x, y)
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBrushScale(t *testing.T) {
	tests := []struct {
		kind           state.FreehandKind
		width, opacity float64
	}{
		{state.KindMarker, 2, 0.5},
		{state.KindPen, 1.5, 1},
		{state.KindPencil, 1, 1},
	}
	for _, tt := range tests {
		w, o := BrushScale(tt.kind)
		if w != tt.width || o != tt.opacity {
			t.Errorf("BrushScale(%s) = (%v, %v), want (%v, %v)", tt.kind, w, o, tt.width, tt.opacity)
		}
	}
}

func TestArrowHorizontalHasZeroHead(t *testing.T) {
	s := &state.Shape{Kind: state.ShapeArrow, Anchor: state.Point{X: 10, Y: 20}, Width: 100}
	tip, left, right := Arrow(s)
	if tip != (state.Point{X: 110, Y: 20}) {
		t.Fatalf("tip = %v", tip)
	}
	// head length is 0.2×min(100, 0) = 0, so both strokes collapse onto the tip
	for _, p := range []state.Point{left, right} {
		if !near(p.X, tip.X) || !near(p.Y, tip.Y) {
			t.Errorf("head end = %v, want tip %v", p, tip)
		}
	}
}

func TestArrowHeadGeometry(t *testing.T) {
	s := &state.Shape{Kind: state.ShapeArrow, Anchor: state.Point{}, Width: 100, Height: 50}
	tip, left, right := Arrow(s)
	head := 10.0
	angle := math.Atan2(50, 100)
	wantLeft := state.Point{X: 100 - head*math.Cos(angle-math.Pi/6), Y: 50 - head*math.Sin(angle-math.Pi/6)}
	wantRight := state.Point{X: 100 - head*math.Cos(angle+math.Pi/6), Y: 50 - head*math.Sin(angle+math.Pi/6)}
	if tip != (state.Point{X: 100, Y: 50}) {
		t.Errorf("tip = %v", tip)
	}
	if !near(left.X, wantLeft.X) || !near(left.Y, wantLeft.Y) {
		t.Errorf("left = %v, want %v", left, wantLeft)
	}
	if !near(right.X, wantRight.X) || !near(right.Y, wantRight.Y) {
		t.Errorf("right = %v, want %v", right, wantRight)
	}
	if !near(tip.Dist(left), head) || !near(tip.Dist(right), head) {
		t.Errorf("head strokes are not %v long", head)
	}
}

func TestCircleAndTriangle(t *testing.T) {
	s := &state.Shape{Anchor: state.Point{X: 100, Y: 100}, Width: -40, Height: 20}
	c, r := Circle(s)
	if c != (state.Point{X: 80, Y: 110}) || r != 20 {
		t.Errorf("Circle = %v, %v", c, r)
	}
	pts := Triangle(s)
	want := [3]state.Point{{X: 80, Y: 100}, {X: 100, Y: 120}, {X: 60, Y: 120}}
	if pts != want {
		t.Errorf("Triangle = %v, want %v", pts, want)
	}
}

func TestRenderNilSurface(t *testing.T) {
	r := New("#ffffff")
	r.Render(nil, []state.Element{&state.Text{Content: "x", Size: 1, Opacity: 1}})
}

func TestRenderFilledRectangleWithNegativeExtent(t *testing.T) {
	dc := NewSurface(100, 100)
	r := New("#ffffff")
	rect := &state.Shape{
		Kind: state.ShapeRectangle, Anchor: state.Point{X: 80, Y: 80}, Width: -60, Height: -60,
		Color: "#0000ff", StrokeWidth: 2, Opacity: 1, Filled: true, FillColor: "#ff0000",
	}
	r.Render(dc, []state.Element{rect})

	if got := pixel(t, dc, 50, 50); got.R < 200 || got.G > 50 || got.B > 50 {
		t.Errorf("interior = %v, want red", got)
	}
	if got := pixel(t, dc, 5, 5); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("outside = %v, want white", got)
	}
}

func TestRenderLaterElementsOnTop(t *testing.T) {
	dc := NewSurface(100, 100)
	r := New("#ffffff")
	r.Render(dc, []state.Element{
		&state.Shape{Kind: state.ShapeRectangle, Anchor: state.Point{X: 10, Y: 10}, Width: 80, Height: 80, Color: "#ff0000", StrokeWidth: 1, Opacity: 1, Filled: true},
		&state.Shape{Kind: state.ShapeRectangle, Anchor: state.Point{X: 30, Y: 30}, Width: 40, Height: 40, Color: "#00ff00", StrokeWidth: 1, Opacity: 1, Filled: true},
	})
	if got := pixel(t, dc, 50, 50); got.G < 200 || got.R > 50 {
		t.Errorf("overlap = %v, want green", got)
	}
	if got := pixel(t, dc, 20, 20); got.R < 200 || got.G > 50 {
		t.Errorf("bottom shape = %v, want red", got)
	}
}

func TestRenderMarkerIsTranslucent(t *testing.T) {
	dc := NewSurface(100, 100)
	r := New("#ffffff")
	r.Render(dc, []state.Element{
		&state.Freehand{Kind: state.KindMarker, Points: []state.Point{{X: 10, Y: 50}, {X: 90, Y: 50}}, Color: "#000000", StrokeWidth: 10, Opacity: 1},
		&state.Freehand{Kind: state.KindPencil, Points: []state.Point{{X: 10, Y: 80}, {X: 90, Y: 80}}, Color: "#000000", StrokeWidth: 10, Opacity: 1},
	})
	marker := pixel(t, dc, 50, 50)
	if marker.R < 100 || marker.R > 160 {
		t.Errorf("marker pixel = %v, want mid grey", marker)
	}
	// the marker's half alpha must not leak into the stroke painted after it
	if pencil := pixel(t, dc, 50, 80); pencil.R > 20 {
		t.Errorf("pencil pixel = %v, want black", pencil)
	}
}

func TestRenderSinglePointStrokePaintsNothing(t *testing.T) {
	dc := NewSurface(20, 20)
	New("#ffffff").Render(dc, []state.Element{
		&state.Freehand{Kind: state.KindPen, Points: []state.Point{{X: 10, Y: 10}}, Color: "#000000", StrokeWidth: 8, Opacity: 1},
	})
	if got := pixel(t, dc, 10, 10); got.R != 255 {
		t.Errorf("pixel = %v, want untouched", got)
	}
}

func encodePNG(t *testing.T, c color.Color, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRenderImageScaled(t *testing.T) {
	dc := NewSurface(100, 100)
	r := New("#ffffff")
	img := &state.Image{
		ID: "img", Anchor: state.Point{X: 10, Y: 10}, Width: 40, Height: 40,
		MediaType: "image/png", Data: encodePNG(t, color.RGBA{0, 0, 255, 255}, 4, 4), Opacity: 1,
	}
	r.Render(dc, []state.Element{img})
	if got := pixel(t, dc, 30, 30); got.B < 200 || got.R > 50 {
		t.Errorf("image pixel = %v, want blue", got)
	}
	if got := pixel(t, dc, 70, 70); got.R != 255 {
		t.Errorf("outside image = %v, want white", got)
	}
}

func TestRenderUndecodableImageIsSkipped(t *testing.T) {
	dc := NewSurface(50, 50)
	r := New("#ffffff")
	bad := &state.Image{ID: "bad", Anchor: state.Point{}, Width: 50, Height: 50, Data: []byte("not an image"), Opacity: 1}
	r.Render(dc, []state.Element{bad})
	r.Render(dc, []state.Element{bad})
	if got := pixel(t, dc, 25, 25); got.R != 255 {
		t.Errorf("pixel = %v, want white", got)
	}
	r.Forget(nil)
	if len(r.images.bufs) != 0 {
		t.Errorf("Forget kept %d entries", len(r.images.bufs))
	}
}

func TestRenderText(t *testing.T) {
	dc := NewSurface(200, 60)
	New("#ffffff").Render(dc, []state.Element{
		&state.Text{Anchor: state.Point{X: 5, Y: 45}, Content: "Hello", Color: "#000000", Size: 8, Opacity: 1},
	})
	img := dc.Image().(*image.RGBA)
	dark := 0
	for y := 0; y < 60; y++ {
		for x := 0; x < 200; x++ {
			if img.RGBAAt(x, y).R < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("text painted no pixels")
	}
}

func TestRenderTransparentBackground(t *testing.T) {
	dc := NewSurface(10, 10)
	New("").Render(dc, nil)
	if got := pixel(t, dc, 5, 5); got.A != 0 {
		t.Errorf("pixel = %v, want transparent", got)
	}
}

func TestSnapshot(t *testing.T) {
	dc := NewSurface(8, 8)
	New("#ffffff").Render(dc, nil)
	s, err := Snapshot(dc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(s, "data:image/png;base64,") {
		t.Errorf("Snapshot = %.40q", s)
	}
	if s, _ := Snapshot(nil); s != "" {
		t.Errorf("Snapshot(nil) = %q", s)
	}
}
