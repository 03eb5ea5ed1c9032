package state

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownType  = errors.New("state: unknown element type")
	ErrMissingField = errors.New("state: missing element field")
	ErrImageData    = errors.New("state: malformed image data")
)

// wireElement is the persisted form of every variant. Optional fields are
// pointers so that an absent field is distinguishable from a zero value.
type wireElement struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Points    *[]Point  `json:"points,omitempty"`
	Color     string    `json:"color"`
	Size      float64   `json:"size"`
	Opacity   float64   `json:"opacity"`
	Text      *string   `json:"text,omitempty"`
	ShapeType ShapeKind `json:"shapeType,omitempty"`
	Position  *Point    `json:"position,omitempty"`
	Width     *float64  `json:"width,omitempty"`
	Height    *float64  `json:"height,omitempty"`
	ImageData string    `json:"imageData,omitempty"`
	Filled    *bool     `json:"filled,omitempty"`
	FillColor string    `json:"fillColor,omitempty"`
}

func (e *Freehand) MarshalJSON() ([]byte, error) {
	pts := e.Points
	if pts == nil {
		pts = []Point{}
	}
	return json.Marshal(wireElement{
		ID:      e.ID,
		Type:    e.Type(),
		Points:  &pts,
		Color:   e.Color,
		Size:    e.StrokeWidth,
		Opacity: e.Opacity,
	})
}

func (e *Shape) MarshalJSON() ([]byte, error) {
	pos, w, h, filled := e.Anchor, e.Width, e.Height, e.Filled
	return json.Marshal(wireElement{
		ID:        e.ID,
		Type:      TypeShape,
		Color:     e.Color,
		Size:      e.StrokeWidth,
		Opacity:   e.Opacity,
		ShapeType: e.Kind,
		Position:  &pos,
		Width:     &w,
		Height:    &h,
		Filled:    &filled,
		FillColor: e.FillColor,
	})
}

func (e *Text) MarshalJSON() ([]byte, error) {
	pos, content := e.Anchor, e.Content
	return json.Marshal(wireElement{
		ID:       e.ID,
		Type:     TypeText,
		Color:    e.Color,
		Size:     e.Size,
		Opacity:  e.Opacity,
		Text:     &content,
		Position: &pos,
	})
}

func (e *Image) MarshalJSON() ([]byte, error) {
	pos, w, h := e.Anchor, e.Width, e.Height
	return json.Marshal(wireElement{
		ID:        e.ID,
		Type:      TypeImage,
		Opacity:   e.Opacity,
		Position:  &pos,
		Width:     &w,
		Height:    &h,
		ImageData: DataURL(e.MediaType, e.Data),
	})
}

// DecodeElement parses one persisted element.
func DecodeElement(data []byte) (Element, error) {
	var w wireElement
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	switch w.Type {
	case TypePencil, TypePen, TypeMarker:
		if w.Points == nil {
			return nil, fmt.Errorf("%w: %s %s has no points", ErrMissingField, w.Type, w.ID)
		}
		return &Freehand{
			ID:          w.ID,
			Kind:        FreehandKind(w.Type),
			Points:      *w.Points,
			Color:       w.Color,
			StrokeWidth: w.Size,
			Opacity:     w.Opacity,
		}, nil
	case TypeShape:
		if w.Position == nil {
			return nil, fmt.Errorf("%w: shape %s has no position", ErrMissingField, w.ID)
		}
		return &Shape{
			ID:          w.ID,
			Kind:        w.ShapeType,
			Anchor:      *w.Position,
			Width:       deref(w.Width),
			Height:      deref(w.Height),
			Color:       w.Color,
			StrokeWidth: w.Size,
			Opacity:     w.Opacity,
			Filled:      w.Filled != nil && *w.Filled,
			FillColor:   w.FillColor,
		}, nil
	case TypeText:
		if w.Position == nil {
			return nil, fmt.Errorf("%w: text %s has no position", ErrMissingField, w.ID)
		}
		t := &Text{
			ID:      w.ID,
			Anchor:  *w.Position,
			Color:   w.Color,
			Size:    w.Size,
			Opacity: w.Opacity,
		}
		if w.Text != nil {
			t.Content = *w.Text
		}
		return t, nil
	case TypeImage:
		if w.Position == nil {
			return nil, fmt.Errorf("%w: image %s has no position", ErrMissingField, w.ID)
		}
		mediaType, payload, err := ParseDataURL(w.ImageData)
		if err != nil {
			return nil, fmt.Errorf("image %s: %w", w.ID, err)
		}
		return &Image{
			ID:        w.ID,
			Anchor:    *w.Position,
			Width:     deref(w.Width),
			Height:    deref(w.Height),
			MediaType: mediaType,
			Data:      payload,
			Opacity:   w.Opacity,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, w.Type)
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// Elements is an ordered element sequence. Order is z-order.
type Elements []Element

func (es Elements) MarshalJSON() ([]byte, error) {
	if es == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Element(es))
}

func (es *Elements) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Elements, 0, len(raw))
	for i, r := range raw {
		e, err := DecodeElement(r)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, e)
	}
	*es = out
	return nil
}

// DataURL encodes data as a base64 data URL.
func DataURL(mediaType string, data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL splits a base64 data URL into its media type and payload.
func ParseDataURL(s string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrImageData
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrImageData
	}
	mediaType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, ErrImageData
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrImageData, err)
	}
	return mediaType, data, nil
}
