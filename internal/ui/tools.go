package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/gogpu/gg"

	"SheetBoard/internal/export"
	"SheetBoard/internal/gesture"
	"SheetBoard/internal/state"
)

// Palette is the colour swatch row, in toolbar order.
var Palette = []string{
	"#000000", "#ffffff", "#ff0000", "#00ff00", "#0000ff",
	"#ffff00", "#00ffff", "#ff00ff", "#c0c0c0", "#808080",
	"#800000", "#808000", "#008000", "#800080", "#008080", "#000080",
}

type colorSwatch struct {
	widget.BaseWidget
	Hex      string
	OnTapped func(hex string)
}

func newColorSwatch(hex string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Hex: hex, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func swatchColor(hex string) color.Color { return gg.Hex(hex).Color() }

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(swatchColor(s.Hex))
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Hex)
	}
}

// Toolbar holds the drawing settings and pushes them into the open
// sheet's controller whenever they change.
type Toolbar struct {
	board    *BoardWidget
	settings gesture.Settings

	// OnAddImage is called when the image tool is picked.
	OnAddImage func()
	// OnExport is called with the format chosen from the export menu.
	OnExport func(export.Format)

	current *canvas.Rectangle
}

func NewToolbar(board *BoardWidget) *Toolbar {
	return &Toolbar{board: board, settings: gesture.DefaultSettings()}
}

// Settings returns the values new gestures pick up.
func (t *Toolbar) Settings() gesture.Settings { return t.settings }

// Apply pushes the settings into the open sheet, if any.
func (t *Toolbar) Apply() {
	if s := t.board.Session(); s != nil {
		s.Controller().SetSettings(t.settings)
	}
}

func (t *Toolbar) update(f func(*gesture.Settings)) {
	f(&t.settings)
	t.Apply()
}

// SelectTool switches tools. Picking the image tool opens the file picker.
func (t *Toolbar) SelectTool(tool gesture.Tool) {
	t.update(func(s *gesture.Settings) { s.Tool = tool })
	if tool == gesture.ToolImage && t.OnAddImage != nil {
		t.OnAddImage()
	}
}

// SetColor sets the stroke colour, also used by the fill tool.
func (t *Toolbar) SetColor(hex string) {
	t.update(func(s *gesture.Settings) { s.Color = hex })
	if t.current != nil {
		t.current.FillColor = swatchColor(hex)
		t.current.Refresh()
	}
}

func toolNames() []string {
	names := make([]string, len(gesture.Tools))
	for i, tool := range gesture.Tools {
		names[i] = string(tool)
	}
	return names
}

func shapeNames() []string {
	names := make([]string, len(state.ShapeKinds))
	for i, k := range state.ShapeKinds {
		names[i] = string(k)
	}
	return names
}

// Build lays the toolbar out.
func (t *Toolbar) Build() fyne.CanvasObject {
	tools := widget.NewSelect(toolNames(), func(v string) { t.SelectTool(gesture.Tool(v)) })
	tools.SetSelected(string(t.settings.Tool))

	shapes := widget.NewSelect(shapeNames(), func(v string) {
		t.update(func(s *gesture.Settings) { s.ShapeKind = state.ShapeKind(v) })
	})
	shapes.SetSelected(string(t.settings.ShapeKind))

	t.current = canvas.NewRectangle(swatchColor(t.settings.Color))
	t.current.SetMinSize(fyne.NewSize(28, 28))
	palette := container.NewHBox()
	for _, hex := range Palette {
		palette.Add(newColorSwatch(hex, t.SetColor))
	}

	filled := widget.NewCheck("Filled", func(on bool) {
		t.update(func(s *gesture.Settings) { s.Filled = on })
	})
	fillColor := widget.NewSelect(Palette, func(v string) {
		t.update(func(s *gesture.Settings) { s.FillColor = v })
	})
	fillColor.SetSelected(t.settings.FillColor)

	size := widget.NewSlider(1, 20)
	size.SetValue(t.settings.Size)
	size.OnChanged = func(v float64) { t.update(func(s *gesture.Settings) { s.Size = v }) }

	opacity := widget.NewSlider(0.1, 1)
	opacity.Step = 0.1
	opacity.SetValue(t.settings.Opacity)
	opacity.OnChanged = func(v float64) { t.update(func(s *gesture.Settings) { s.Opacity = v }) }

	exports := widget.NewToolbar(
		widget.NewToolbarAction(theme.FileImageIcon(), func() { t.SelectTool(gesture.ToolImage) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { t.export(export.PNG) }),
		widget.NewToolbarAction(theme.MediaPhotoIcon(), func() { t.export(export.JPG) }),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), func() { t.export(export.PDF) }),
	)

	sliders := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), size, opacity)
	return container.NewVBox(
		container.NewHBox(
			widget.NewLabel("Tool:"), tools,
			widget.NewLabel("Shape:"), shapes,
			filled, fillColor,
			widget.NewSeparator(),
			widget.NewLabel("Size / Opacity:"), sliders,
			layout.NewSpacer(),
			exports,
		),
		container.NewHBox(widget.NewLabel("Color:"), t.current, palette),
	)
}

func (t *Toolbar) export(f export.Format) {
	if t.OnExport != nil {
		t.OnExport(f)
	}
}
