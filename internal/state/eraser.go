package state

// Eraser radii are multiples of the brush size.
const (
	pointEraseFactor   = 2
	elementEraseFactor = 3
)

// ErasePoints removes every freehand point within 2×brush of at. A point
// exactly on the boundary is removed; only points strictly farther away
// survive. Strokes left without points stay in the sequence. Other element
// types are untouched. It reports whether any point was removed.
func ErasePoints(elements []Element, at Point, brush float64) bool {
	radius := brush * pointEraseFactor
	changed := false
	for _, e := range elements {
		f, ok := e.(*Freehand)
		if !ok {
			continue
		}
		kept := make([]Point, 0, len(f.Points))
		for _, p := range f.Points {
			if p.Dist(at) > radius {
				kept = append(kept, p)
			}
		}
		if len(kept) != len(f.Points) {
			f.Points = kept
			changed = true
		}
	}
	return changed
}

// EraseElements drops whole elements near at and returns the surviving
// sequence in its original order. A freehand stroke goes if any of its
// points lies strictly inside 3×brush; a shape or text goes if its box
// centre does. Images are never matched.
func EraseElements(elements []Element, at Point, brush float64) ([]Element, bool) {
	radius := brush * elementEraseFactor
	kept := make([]Element, 0, len(elements))
	for _, e := range elements {
		if !touchesEraser(e, at, radius) {
			kept = append(kept, e)
		}
	}
	return kept, len(kept) != len(elements)
}

func touchesEraser(e Element, at Point, radius float64) bool {
	switch v := e.(type) {
	case *Freehand:
		for _, p := range v.Points {
			if p.Dist(at) < radius {
				return true
			}
		}
	case *Shape:
		return v.Center().Dist(at) < radius
	case *Text:
		// text carries no extent, so its centre is the anchor
		return v.Anchor.Dist(at) < radius
	}
	return false
}
