package gesture

import "SheetBoard/internal/state"

// Tool is the active drawing tool.
type Tool string

const (
	ToolPencil     Tool = "pencil"
	ToolPen        Tool = "pen"
	ToolMarker     Tool = "marker"
	ToolEraser     Tool = "eraser"
	ToolEraserLine Tool = "eraser-line"
	ToolShape      Tool = "shape"
	ToolText       Tool = "text"
	ToolImage      Tool = "image"
	ToolFill       Tool = "fill"
)

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolPencil, ToolPen, ToolMarker, ToolEraser, ToolEraserLine, ToolShape, ToolText, ToolImage, ToolFill}

// Freehand reports whether t draws freehand strokes.
func (t Tool) Freehand() bool {
	return t == ToolPencil || t == ToolPen || t == ToolMarker
}

// Eraser reports whether t is one of the eraser variants.
func (t Tool) Eraser() bool {
	return t == ToolEraser || t == ToolEraserLine
}

// Settings are the toolbar values a new gesture picks up.
type Settings struct {
	Tool      Tool
	Color     string
	Size      float64
	Opacity   float64
	ShapeKind state.ShapeKind
	FillColor string
	Filled    bool
}

// DefaultSettings mirrors the toolbar's initial state.
func DefaultSettings() Settings {
	return Settings{
		Tool:      ToolPencil,
		Color:     "#000000",
		Size:      3,
		Opacity:   1,
		ShapeKind: state.ShapeRectangle,
		FillColor: "#ffffff",
	}
}
