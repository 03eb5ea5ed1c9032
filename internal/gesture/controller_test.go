package gesture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"

	"SheetBoard/internal/state"
)

type recorder struct {
	commits int
	last    []state.Element
}

func newTestController(t *testing.T, prompter TextPrompter, elements ...state.Element) (*Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := NewController(state.NewBoard(state.SheetData{ID: "sheet", Elements: elements}), prompter)
	n := 0
	c.NewID = func() string { n++; return fmt.Sprintf("el-%d", n) }
	c.OnCommit = func(es []state.Element) {
		rec.commits++
		rec.last = es
	}
	return c, rec
}

func pt(x, y float64) state.Point { return state.Point{X: x, Y: y} }

func TestFreehandGesture(t *testing.T) {
	c, rec := newTestController(t, nil)
	s := DefaultSettings()
	s.Tool, s.Color, s.Size, s.Opacity = ToolMarker, "#123456", 4, 0.7
	c.SetSettings(s)

	c.PointerDown(pt(1, 1))
	if c.Phase() != Active {
		t.Fatalf("phase after down = %v", c.Phase())
	}
	c.PointerMove(pt(2, 2))
	c.PointerMove(pt(3, 3))
	c.PointerUp()

	if c.Phase() != Idle {
		t.Errorf("phase after up = %v", c.Phase())
	}
	if rec.commits != 3 {
		t.Errorf("commits = %d, want 3", rec.commits)
	}
	want := []state.Element{&state.Freehand{
		ID: "el-1", Kind: state.KindMarker, Points: []state.Point{pt(1, 1), pt(2, 2), pt(3, 3)},
		Color: "#123456", StrokeWidth: 4, Opacity: 0.7,
	}}
	if diff := cmp.Diff(want, rec.last); diff != "" {
		t.Errorf("elements (-want +got):\n%s", diff)
	}

	c.PointerMove(pt(9, 9))
	if got := len(c.Board().Last().(*state.Freehand).Points); got != 3 {
		t.Errorf("stroke grew after pointer up: %d points", got)
	}
}

func TestShapeDragThenLineErase(t *testing.T) {
	c, rec := newTestController(t, nil)
	c.SetTool(ToolShape)

	c.PointerDown(pt(10, 10))
	c.PointerMove(pt(300, 300))
	c.PointerMove(pt(110, 60))
	c.PointerUp()

	rect := c.Board().Last().(*state.Shape)
	if rect.Kind != state.ShapeRectangle || rect.Width != 100 || rect.Height != 50 {
		t.Fatalf("shape = %+v, want 100×50 rectangle", rect)
	}
	if c.Board().Len() != 1 {
		t.Fatalf("drag appended %d elements", c.Board().Len())
	}

	s := c.Settings()
	s.Tool, s.Size = ToolEraserLine, 20
	c.SetSettings(s)
	before := rec.commits
	c.PointerDown(pt(60, 35))
	if rec.commits != before {
		t.Error("eraser pointer down committed")
	}
	c.PointerMove(pt(60, 35))
	c.PointerUp()

	if c.Board().Len() != 0 {
		t.Errorf("board still has %d elements", c.Board().Len())
	}
	if rec.commits != before+1 || len(rec.last) != 0 {
		t.Errorf("commits = %d, last = %v", rec.commits-before, rec.last)
	}
}

func TestShapeKeepsSignedExtent(t *testing.T) {
	c, _ := newTestController(t, nil)
	c.SetTool(ToolShape)
	c.PointerDown(pt(50, 50))
	c.PointerMove(pt(20, 10))
	c.PointerLeave()
	s := c.Board().Last().(*state.Shape)
	if s.Width != -30 || s.Height != -40 {
		t.Errorf("extent = %v×%v, want -30×-40", s.Width, s.Height)
	}
	if c.Phase() != Idle {
		t.Errorf("leave did not finish the gesture")
	}
}

func TestOriginIsSubtracted(t *testing.T) {
	c, _ := newTestController(t, nil)
	c.Origin = pt(100, 200)
	c.PointerDown(pt(110, 220))
	f := c.Board().Last().(*state.Freehand)
	if f.Points[0] != pt(10, 20) {
		t.Errorf("first point = %v, want (10,20)", f.Points[0])
	}
}

func TestPointEraseScenario(t *testing.T) {
	stroke := &state.Freehand{ID: "f", Kind: state.KindPencil, Points: []state.Point{pt(0, 0), pt(5, 5), pt(10, 10)}}
	c, rec := newTestController(t, nil, stroke)
	s := c.Settings()
	s.Tool, s.Size = ToolEraser, 1
	c.SetSettings(s)

	c.PointerDown(pt(5, 5))
	c.PointerMove(pt(5, 5))
	c.PointerMove(pt(5, 5))
	c.PointerUp()

	if diff := cmp.Diff([]state.Point{pt(0, 0), pt(10, 10)}, stroke.Points); diff != "" {
		t.Errorf("points (-want +got):\n%s", diff)
	}
	if rec.commits != 1 {
		t.Errorf("commits = %d, want 1 (second pass removed nothing)", rec.commits)
	}
}

func TestTextPrompt(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		ok      bool
		appends bool
	}{
		{"entered", "hello", true, true},
		{"cancelled", "hello", false, false},
		{"empty", "", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompter := PromptFunc(func(done func(string, bool)) { done(tt.text, tt.ok) })
			c, rec := newTestController(t, prompter)
			s := c.Settings()
			s.Tool, s.Size = ToolText, 6
			c.SetSettings(s)

			c.PointerDown(pt(7, 8))
			if c.Phase() != Idle {
				t.Errorf("phase = %v, text has no drag phase", c.Phase())
			}
			if got := c.Board().Len() == 1; got != tt.appends {
				t.Fatalf("appended = %v, want %v", got, tt.appends)
			}
			if !tt.appends {
				if rec.commits != 0 {
					t.Errorf("commits = %d", rec.commits)
				}
				return
			}
			txt := c.Board().Last().(*state.Text)
			if txt.Anchor != pt(7, 8) || txt.Content != "hello" || txt.Size != 6 {
				t.Errorf("text = %+v", txt)
			}
		})
	}
}

func TestTextPromptSuspendsGestures(t *testing.T) {
	var resume func(string, bool)
	c, rec := newTestController(t, PromptFunc(func(done func(string, bool)) { resume = done }))
	c.SetTool(ToolText)

	c.PointerDown(pt(1, 1))
	if c.Phase() != AwaitingText {
		t.Fatalf("phase = %v, want awaiting-text", c.Phase())
	}
	c.SetTool(ToolPencil)
	c.PointerDown(pt(2, 2))
	c.PointerMove(pt(3, 3))
	if c.Board().Len() != 0 || rec.commits != 0 {
		t.Fatal("pointer events were handled while the prompt was open")
	}

	resume("note", true)
	if c.Phase() != Idle || c.Board().Len() != 1 || rec.commits != 1 {
		t.Errorf("after resume: phase=%v len=%d commits=%d", c.Phase(), c.Board().Len(), rec.commits)
	}
}

func TestFillTool(t *testing.T) {
	first := &state.Shape{ID: "a", Kind: state.ShapeRectangle, Anchor: pt(0, 0), Width: 50, Height: 50}
	second := &state.Shape{ID: "b", Kind: state.ShapeCircle, Anchor: pt(10, 10), Width: 20, Height: 20}
	c, rec := newTestController(t, nil, first, second)
	s := c.Settings()
	s.Tool, s.Color = ToolFill, "#ff00ff"
	c.SetSettings(s)

	c.PointerDown(pt(20, 20))
	if c.Phase() != Idle {
		t.Errorf("fill entered phase %v", c.Phase())
	}
	if !first.Filled || first.FillColor != "#ff00ff" || second.Filled {
		t.Errorf("first=%+v second=%+v", first, second)
	}
	if rec.commits != 1 {
		t.Errorf("commits = %d, want 1", rec.commits)
	}

	c.PointerDown(pt(500, 500))
	if rec.commits != 1 {
		t.Error("fill with no target committed")
	}
}

func TestSecondPointerDownIgnored(t *testing.T) {
	c, _ := newTestController(t, nil)
	c.PointerDown(pt(1, 1))
	c.SetTool(ToolShape)
	c.PointerDown(pt(5, 5))
	c.PointerMove(pt(6, 6))
	if c.Board().Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Board().Len())
	}
	if _, ok := c.Board().Last().(*state.Freehand); !ok {
		t.Errorf("active gesture switched tools mid-drag")
	}
}

func TestImageToolPointerIsNoop(t *testing.T) {
	c, rec := newTestController(t, nil)
	c.SetTool(ToolImage)
	c.PointerDown(pt(1, 1))
	if c.Phase() != Idle || rec.commits != 0 {
		t.Errorf("image tool reacted to pointer down")
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestAddImage(t *testing.T) {
	c, rec := newTestController(t, nil)
	posted := make(chan func(), 1)
	c.Post = func(f func()) { posted <- f }

	c.AddImage(pngBytes(t, 800, 400), "")
	if c.Board().Len() != 0 {
		t.Fatal("image appended before decode finished")
	}
	(<-posted)()

	img, ok := c.Board().Last().(*state.Image)
	if !ok {
		t.Fatalf("last element = %T", c.Board().Last())
	}
	if img.Anchor != state.DefaultImageAnchor || img.Width != 400 || img.Height != 200 {
		t.Errorf("image = anchor %v size %v×%v", img.Anchor, img.Width, img.Height)
	}
	if img.MediaType != "image/png" || rec.commits != 1 {
		t.Errorf("media type %q, commits %d", img.MediaType, rec.commits)
	}
}

func TestAddImageDecodeFailure(t *testing.T) {
	c, rec := newTestController(t, nil)
	posted := make(chan func(), 1)
	c.Post = func(f func()) { posted <- f }

	c.AddImage([]byte("definitely not an image"), "image/png")
	c.decodes.Wait()

	select {
	case <-posted:
		t.Fatal("failed decode posted an append")
	default:
	}
	if c.Board().Len() != 0 || rec.commits != 0 {
		t.Error("failed decode changed the board")
	}
}
