package state

// FillTarget returns the first shape, in insertion order, whose box
// contains at, together with its index. The box is taken from the raw
// signed extents, so a shape dragged up or left never matches. Because the
// scan runs bottom-up, the earliest overlapping shape wins over any shape
// drawn on top of it.
func FillTarget(elements []Element, at Point) (*Shape, int, bool) {
	for i, e := range elements {
		s, ok := e.(*Shape)
		if !ok {
			continue
		}
		if pointInBox(at, s.Anchor, s.Width, s.Height) {
			return s, i, true
		}
	}
	return nil, -1, false
}

// ApplyFill marks the fill target under at as filled with color. It reports
// whether a shape was found.
func ApplyFill(elements []Element, at Point, color string) bool {
	s, _, ok := FillTarget(elements, at)
	if !ok {
		return false
	}
	s.Filled = true
	s.FillColor = color
	return true
}

func pointInBox(p, origin Point, w, h float64) bool {
	return p.X >= origin.X && p.X <= origin.X+w &&
		p.Y >= origin.Y && p.Y <= origin.Y+h
}
