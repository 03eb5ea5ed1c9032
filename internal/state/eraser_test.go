package state

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestErasePointsMiddle(t *testing.T) {
	f := &Freehand{ID: "f", Kind: KindPencil, Points: []Point{{0, 0}, {5, 5}, {10, 10}}}
	if !ErasePoints([]Element{f}, Point{5, 5}, 1) {
		t.Fatal("ErasePoints reported no change")
	}
	want := []Point{{0, 0}, {10, 10}}
	if diff := cmp.Diff(want, f.Points); diff != "" {
		t.Errorf("points (-want +got):\n%s", diff)
	}
}

func TestErasePointsBoundary(t *testing.T) {
	// brush 2.5 gives a radius of exactly 5, the length of (3,4).
	tests := []struct {
		name string
		p    Point
		kept bool
	}{
		{"inside", Point{3, 3.9}, false},
		{"on boundary", Point{3, 4}, false},
		{"outside", Point{3, 4.01}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Freehand{Kind: KindPen, Points: []Point{tt.p}}
			ErasePoints([]Element{f}, Point{}, 2.5)
			if got := len(f.Points) == 1; got != tt.kept {
				t.Errorf("kept = %v, want %v", got, tt.kept)
			}
		})
	}
}

func TestErasePointsLeavesEmptyStroke(t *testing.T) {
	f := &Freehand{ID: "f", Kind: KindMarker, Points: []Point{{1, 1}}}
	s := &Shape{ID: "s", Kind: ShapeRectangle, Anchor: Point{0, 0}, Width: 2, Height: 2}
	elements := []Element{f, s}
	ErasePoints(elements, Point{1, 1}, 5)
	if len(f.Points) != 0 {
		t.Fatalf("points = %v, want none", f.Points)
	}
	if len(elements) != 2 {
		t.Errorf("sequence shrank to %d", len(elements))
	}
	if s.Width != 2 || s.Height != 2 {
		t.Error("shape was modified by point eraser")
	}
}

func TestErasePointsNoChange(t *testing.T) {
	f := &Freehand{Kind: KindPencil, Points: []Point{{100, 100}}}
	if ErasePoints([]Element{f}, Point{}, 1) {
		t.Error("ErasePoints reported a change")
	}
}

func TestEraseElementsRectangleScenario(t *testing.T) {
	rect := &Shape{ID: "r", Kind: ShapeRectangle, Anchor: Point{10, 10}, Width: 100, Height: 50}
	kept, changed := EraseElements([]Element{rect}, Point{60, 35}, 20)
	if !changed || len(kept) != 0 {
		t.Errorf("EraseElements = %v, %v; want rectangle removed", kept, changed)
	}
}

func TestEraseElementsBoundaryKeeps(t *testing.T) {
	// centre at (0,0); cursor at (4.5,0) is exactly 3×brush away.
	s := &Shape{ID: "s", Kind: ShapeCircle, Anchor: Point{-1, -1}, Width: 2, Height: 2}
	f := &Freehand{ID: "f", Kind: KindPen, Points: []Point{{0, 0}}}
	kept, changed := EraseElements([]Element{s, f}, Point{4.5, 0}, 1.5)
	if changed || len(kept) != 2 {
		t.Errorf("elements on the boundary were removed: %v", kept)
	}
}

func TestEraseElementsKinds(t *testing.T) {
	near := Point{0, 0}
	elements := []Element{
		&Freehand{ID: "far-stroke", Kind: KindPencil, Points: []Point{{100, 100}}},
		&Freehand{ID: "near-stroke", Kind: KindPencil, Points: []Point{{100, 100}, {1, 1}}},
		&Text{ID: "near-text", Anchor: Point{2, 0}},
		&Image{ID: "image", Anchor: Point{0, 0}, Width: 1, Height: 1},
		&Shape{ID: "far-shape", Kind: ShapeLine, Anchor: Point{50, 50}, Width: 10, Height: 10},
	}
	kept, changed := EraseElements(elements, near, 1)
	if !changed {
		t.Fatal("no change reported")
	}
	var ids []string
	for _, e := range kept {
		ids = append(ids, e.ElementID())
	}
	want := []string{"far-stroke", "image", "far-shape"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("kept ids (-want +got):\n%s", diff)
	}
}
