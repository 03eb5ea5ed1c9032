package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"SheetBoard/internal/session"
	"SheetBoard/internal/state"
)

// BoardWidget shows the open sheet's raster and feeds pointer input to its
// gesture controller. The canvas has a fixed size; one widget unit is one
// canvas pixel.
type BoardWidget struct {
	widget.BaseWidget

	session *session.Session
	size    fyne.Size
	raster  *canvas.Image
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(width, height int) *BoardWidget {
	b := &BoardWidget{size: fyne.NewSize(float32(width), float32(height))}
	b.raster = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, width, height)))
	b.raster.FillMode = canvas.ImageFillStretch
	b.raster.ScaleMode = canvas.ImageScaleFastest
	b.ExtendBaseWidget(b)
	return b
}

// SetSession switches the widget to s. A nil session shows a blank board
// and ignores input.
func (b *BoardWidget) SetSession(s *session.Session) {
	if b.session != nil {
		b.session.OnRepaint = nil
	}
	b.session = s
	if s == nil {
		b.raster.Image = image.NewRGBA(image.Rect(0, 0, int(b.size.Width), int(b.size.Height)))
		b.raster.Refresh()
		return
	}
	s.OnRepaint = b.repaint
	b.repaint()
}

// Session returns the open sheet, or nil.
func (b *BoardWidget) Session() *session.Session { return b.session }

func (b *BoardWidget) repaint() {
	b.raster.Image = b.session.Image()
	b.raster.Refresh()
}

func point(p fyne.Position) state.Point {
	return state.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if b.session == nil || e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.session.Controller().PointerDown(point(e.Position))
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if b.session == nil || e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.session.Controller().PointerUp()
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if b.session == nil {
		return
	}
	b.session.Controller().PointerMove(point(e.Position))
}

func (b *BoardWidget) DragEnd() {
	if b.session == nil {
		return
	}
	b.session.Controller().PointerUp()
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	if b.session == nil {
		return
	}
	b.session.Controller().PointerMove(point(e.Position))
}

func (b *BoardWidget) MouseOut() {
	if b.session == nil {
		return
	}
	b.session.Controller().PointerLeave()
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.background = canvas.NewRectangle(color.NRGBA{R: 245, G: 246, B: 248, A: 255})
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.board.raster}
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.board.raster.Move(fyne.NewPos(0, 0))
	r.board.raster.Resize(r.board.size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size { return r.board.size }

func (r *boardWidgetRenderer) Refresh() {
	r.background.Refresh()
	r.board.raster.Refresh()
}

func (r *boardWidgetRenderer) Destroy() {}
