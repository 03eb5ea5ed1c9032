package state

import "math"

// Point is a position in canvas pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Type is the discriminant stored with every element.
type Type string

const (
	TypePencil Type = "pencil"
	TypePen    Type = "pen"
	TypeMarker Type = "marker"
	TypeShape  Type = "shape"
	TypeText   Type = "text"
	TypeImage  Type = "image"
)

// FreehandKind selects the brush used for a freehand stroke.
type FreehandKind string

const (
	KindPencil FreehandKind = FreehandKind(TypePencil)
	KindPen    FreehandKind = FreehandKind(TypePen)
	KindMarker FreehandKind = FreehandKind(TypeMarker)
)

// Valid reports whether k is one of the known freehand kinds.
func (k FreehandKind) Valid() bool {
	switch k {
	case KindPencil, KindPen, KindMarker:
		return true
	}
	return false
}

// ShapeKind selects the geometry of a Shape.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeTriangle  ShapeKind = "triangle"
	ShapeLine      ShapeKind = "line"
	ShapeArrow     ShapeKind = "arrow"
)

// ShapeKinds lists every shape kind in toolbar order.
var ShapeKinds = []ShapeKind{ShapeRectangle, ShapeCircle, ShapeTriangle, ShapeLine, ShapeArrow}

// Element is one drawable unit of a sheet. The set of implementations is
// closed: *Freehand, *Shape, *Text and *Image.
type Element interface {
	ElementID() string
	Type() Type
	element()
}

// Freehand is a pencil, pen or marker stroke.
type Freehand struct {
	ID          string
	Kind        FreehandKind
	Points      []Point
	Color       string
	StrokeWidth float64
	Opacity     float64
}

// Shape is a rectangle, circle, triangle, line or arrow. Width and Height
// are signed offsets from Anchor in the direction of the drag.
type Shape struct {
	ID          string
	Kind        ShapeKind
	Anchor      Point
	Width       float64
	Height      float64
	Color       string
	StrokeWidth float64
	Opacity     float64
	Filled      bool
	FillColor   string
}

// Text is a single line of text whose baseline starts at Anchor.
type Text struct {
	ID      string
	Anchor  Point
	Content string
	Color   string
	Size    float64
	Opacity float64
}

// Image is a raster picture drawn scaled to Width x Height at Anchor.
// Data holds the encoded bytes exactly as they were ingested.
type Image struct {
	ID        string
	Anchor    Point
	Width     float64
	Height    float64
	MediaType string
	Data      []byte
	Opacity   float64
}

func (e *Freehand) ElementID() string { return e.ID }
func (e *Shape) ElementID() string    { return e.ID }
func (e *Text) ElementID() string     { return e.ID }
func (e *Image) ElementID() string    { return e.ID }

func (e *Freehand) Type() Type { return Type(e.Kind) }
func (e *Shape) Type() Type    { return TypeShape }
func (e *Text) Type() Type     { return TypeText }
func (e *Image) Type() Type    { return TypeImage }

func (*Freehand) element() {}
func (*Shape) element()    {}
func (*Text) element()     {}
func (*Image) element()    {}

// Bounds returns the shape's box with non-negative extents.
func (e *Shape) Bounds() (x, y, w, h float64) {
	x, w = e.Anchor.X, e.Width
	if w < 0 {
		x, w = x+w, -w
	}
	y, h = e.Anchor.Y, e.Height
	if h < 0 {
		y, h = y+h, -h
	}
	return x, y, w, h
}

// Center returns the centre of the shape's box.
func (e *Shape) Center() Point {
	return Point{X: e.Anchor.X + e.Width/2, Y: e.Anchor.Y + e.Height/2}
}

// Clone returns a deep copy of e.
func Clone(e Element) Element {
	switch v := e.(type) {
	case *Freehand:
		c := *v
		c.Points = append([]Point(nil), v.Points...)
		return &c
	case *Shape:
		c := *v
		return &c
	case *Text:
		c := *v
		return &c
	case *Image:
		c := *v
		c.Data = append([]byte(nil), v.Data...)
		return &c
	}
	return e
}
