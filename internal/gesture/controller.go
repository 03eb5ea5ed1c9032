// Package gesture turns pointer input into changes to a sheet's element
// sequence.
//
// The Controller is a small state machine driven from the host's event
// loop: PointerDown starts a gesture, PointerMove extends it and
// PointerUp/PointerLeave finish it. Every change to the sequence is
// reported through OnCommit before the triggering call returns.
package gesture

import (
	"sync"

	"github.com/google/uuid"

	"SheetBoard/internal/logging"
	"SheetBoard/internal/render"
	"SheetBoard/internal/state"
)

// Phase is the controller's state.
type Phase int

const (
	Idle Phase = iota
	Active
	AwaitingText
)

func (p Phase) String() string {
	switch p {
	case Active:
		return "active"
	case AwaitingText:
		return "awaiting-text"
	}
	return "idle"
}

// TextPrompter asks the user for text. It must eventually call done exactly
// once, on the host event loop, with ok=false when the user cancels.
type TextPrompter interface {
	PromptText(done func(text string, ok bool))
}

// PromptFunc adapts a function to TextPrompter.
type PromptFunc func(done func(text string, ok bool))

func (f PromptFunc) PromptText(done func(string, bool)) { f(done) }

// Controller is the gesture state machine for one board. It is not safe
// for concurrent use.
type Controller struct {
	// Origin is subtracted from event positions to get canvas coordinates.
	Origin state.Point

	// OnCommit receives the sequence after every change.
	OnCommit func(elements []state.Element)

	// Post runs f on the host event loop. Image decoding finishes on
	// another goroutine and hands its result back through Post; the
	// default runs f in place, which only suits hosts without a loop.
	Post func(f func())

	// NewID generates element identifiers.
	NewID func() string

	board    *state.Board
	prompter TextPrompter
	settings Settings

	phase   Phase
	tool    Tool
	partial state.Element

	decodes sync.WaitGroup
}

// NewController returns an idle controller drawing on board. A nil prompter
// makes the text tool a no-op.
func NewController(board *state.Board, prompter TextPrompter) *Controller {
	return &Controller{
		Post:     func(f func()) { f() },
		NewID:    uuid.NewString,
		board:    board,
		prompter: prompter,
		settings: DefaultSettings(),
	}
}

// Board returns the board being edited.
func (c *Controller) Board() *state.Board { return c.board }

// Phase returns the current state.
func (c *Controller) Phase() Phase { return c.phase }

// Settings returns the toolbar values in effect.
func (c *Controller) Settings() Settings { return c.settings }

// SetSettings replaces the toolbar values. A gesture in progress keeps the
// tool it started with.
func (c *Controller) SetSettings(s Settings) { c.settings = s }

// SetTool changes only the active tool.
func (c *Controller) SetTool(t Tool) { c.settings.Tool = t }

// PointerDown starts a gesture at p.
func (c *Controller) PointerDown(p state.Point) {
	if c.phase != Idle {
		return
	}
	at := p.Sub(c.Origin)
	s := c.settings

	switch {
	case s.Tool.Freehand():
		c.begin(s.Tool, &state.Freehand{
			ID:          c.NewID(),
			Kind:        state.FreehandKind(s.Tool),
			Points:      []state.Point{at},
			Color:       s.Color,
			StrokeWidth: s.Size,
			Opacity:     s.Opacity,
		})
	case s.Tool == ToolShape:
		c.begin(s.Tool, &state.Shape{
			ID:          c.NewID(),
			Kind:        s.ShapeKind,
			Anchor:      at,
			Color:       s.Color,
			StrokeWidth: s.Size,
			Opacity:     s.Opacity,
			Filled:      s.Filled,
			FillColor:   s.FillColor,
		})
	case s.Tool == ToolText:
		c.promptText(at, s)
	case s.Tool == ToolFill:
		if state.ApplyFill(c.board.Elements(), at, s.Color) {
			c.commit()
		}
	case s.Tool.Eraser():
		c.phase, c.tool, c.partial = Active, s.Tool, nil
	}
}

func (c *Controller) begin(tool Tool, e state.Element) {
	c.board.Append(e)
	c.phase, c.tool, c.partial = Active, tool, e
	c.commit()
}

func (c *Controller) promptText(at state.Point, s Settings) {
	if c.prompter == nil {
		return
	}
	c.phase = AwaitingText
	c.prompter.PromptText(func(content string, ok bool) {
		c.phase = Idle
		if !ok || content == "" {
			return
		}
		c.board.Append(&state.Text{
			ID:      c.NewID(),
			Anchor:  at,
			Content: content,
			Color:   s.Color,
			Size:    s.Size,
			Opacity: s.Opacity,
		})
		c.commit()
	})
}

// PointerMove extends the active gesture to p.
func (c *Controller) PointerMove(p state.Point) {
	if c.phase != Active {
		return
	}
	at := p.Sub(c.Origin)

	if c.tool.Eraser() {
		c.erase(at)
		return
	}
	switch e := c.partial.(type) {
	case *state.Freehand:
		e.Points = append(e.Points, at)
	case *state.Shape:
		e.Width = at.X - e.Anchor.X
		e.Height = at.Y - e.Anchor.Y
	default:
		return
	}
	c.commit()
}

func (c *Controller) erase(at state.Point) {
	brush := c.settings.Size
	elements := c.board.Elements()
	changed := false
	if c.tool == ToolEraser {
		changed = state.ErasePoints(elements, at, brush)
	} else {
		elements, changed = state.EraseElements(elements, at, brush)
		if changed {
			c.board.Replace(elements)
		}
	}
	if changed {
		c.commit()
	}
}

// PointerUp finishes the active gesture.
func (c *Controller) PointerUp() { c.finish() }

// PointerLeave finishes the active gesture when the pointer leaves the
// canvas mid-drag.
func (c *Controller) PointerLeave() { c.finish() }

func (c *Controller) finish() {
	if c.phase != Active {
		return
	}
	c.phase, c.tool, c.partial = Idle, "", nil
}

// AddImage decodes data in the background and, once decoding succeeds,
// appends an image element at the default anchor. Nothing is appended
// while decoding is in flight, and a payload that fails to decode is
// dropped without a trace beyond a debug log.
func (c *Controller) AddImage(data []byte, mediaType string) {
	payload := append([]byte(nil), data...)
	c.decodes.Add(1)
	go func() {
		defer c.decodes.Done()
		img, format, err := render.DecodeImage(payload)
		if err != nil {
			logging.Logger().Debug("decode image", "err", err)
			return
		}
		if mediaType == "" {
			mediaType = "image/" + format
		}
		b := img.Bounds()
		w, h := state.FitImage(b.Dx(), b.Dy())
		c.Post(func() {
			c.board.Append(&state.Image{
				ID:        c.NewID(),
				Anchor:    state.DefaultImageAnchor,
				Width:     w,
				Height:    h,
				MediaType: mediaType,
				Data:      payload,
				Opacity:   1,
			})
			c.commit()
		})
	}()
}

func (c *Controller) commit() {
	c.board.Commit()
	if c.OnCommit != nil {
		c.OnCommit(c.board.Elements())
	}
}
