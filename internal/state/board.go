package state

// SheetData is the persisted content of one sheet.
type SheetData struct {
	ID       string   `json:"id"`
	Elements Elements `json:"elements"`
}

// Board owns the ordered element sequence of the open sheet. It is not
// safe for concurrent use; the host event loop is its only caller.
type Board struct {
	id       string
	elements []Element
	clock    Clock
}

// NewBoard opens a board over data. A nil element list is an empty sheet.
func NewBoard(data SheetData) *Board {
	return &Board{
		id:       data.ID,
		elements: append([]Element(nil), data.Elements...),
	}
}

// ID returns the sheet identifier.
func (b *Board) ID() string { return b.id }

// Len returns the number of elements.
func (b *Board) Len() int { return len(b.elements) }

// Elements returns the sequence in z-order. The slice is a copy; the
// elements are shared.
func (b *Board) Elements() []Element {
	return append([]Element(nil), b.elements...)
}

// Last returns the most recently appended element, or nil.
func (b *Board) Last() Element {
	if len(b.elements) == 0 {
		return nil
	}
	return b.elements[len(b.elements)-1]
}

// Append adds e on top of the sequence.
func (b *Board) Append(e Element) {
	b.elements = append(b.elements, e)
}

// Replace swaps in a new sequence, as produced by the whole-element eraser.
func (b *Board) Replace(elements []Element) {
	b.elements = elements
}

// Commit records that the sequence changed and returns the new revision.
func (b *Board) Commit() uint64 { return b.clock.Tick() }

// Revision returns the revision of the last commit.
func (b *Board) Revision() uint64 { return b.clock.Now() }

// Data returns the sheet content for persistence.
func (b *Board) Data() SheetData {
	return SheetData{ID: b.id, Elements: b.Elements()}
}
