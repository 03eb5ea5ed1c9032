package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"SheetBoard/internal/export"
	"SheetBoard/internal/gesture"
	sheetnet "SheetBoard/internal/net"
	"SheetBoard/internal/state"
	"SheetBoard/internal/store"
)

type capture struct {
	snaps []sheetnet.Snapshot
	err   error
}

func (c *capture) Publish(s sheetnet.Snapshot) error {
	c.snaps = append(c.snaps, s)
	return c.err
}

func openTest(t *testing.T, pub Publisher) (*Session, store.Store) {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemory()
	sh, err := st.CreateSheet(ctx, "local", "Board")
	require.NoError(t, err)
	s, err := Open(ctx, st, sh.ID, Options{Width: 200, Height: 120, Background: "#ffffff", Publisher: pub})
	require.NoError(t, err)
	return s, st
}

func TestOpenMissingSheet(t *testing.T) {
	_, err := Open(context.Background(), store.NewMemory(), "nope", Options{Width: 10, Height: 10})
	require.ErrorIs(t, err, store.ErrSheetNotFound)
}

func TestCommitPersistsAndPublishes(t *testing.T) {
	pub := &capture{}
	s, st := openTest(t, pub)
	repaints := 0
	s.OnRepaint = func() { repaints++ }

	c := s.Controller()
	c.SetTool(gesture.ToolShape)
	c.PointerDown(state.Point{X: 10, Y: 10})
	c.PointerMove(state.Point{X: 110, Y: 60})
	c.PointerUp()

	require.Equal(t, 2, repaints)
	data, err := st.LoadSheet(context.Background(), s.Sheet().ID)
	require.NoError(t, err)
	require.Len(t, data.Elements, 1)
	shape := data.Elements[0].(*state.Shape)
	require.Equal(t, 100.0, shape.Width)
	require.Equal(t, 50.0, shape.Height)

	sheet, err := st.GetSheet(context.Background(), s.Sheet().ID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(sheet.PreviewImage, "data:image/png;base64,"))

	require.Len(t, pub.snaps, 2)
	last := pub.snaps[1]
	require.Equal(t, s.Sheet().ID, last.SheetID)
	require.Equal(t, uint64(2), last.Revision)
	require.Equal(t, sheet.PreviewImage, last.PreviewImage)
	var published state.Elements
	require.NoError(t, json.Unmarshal(last.Elements, &published))
	require.Len(t, published, 1)
}

func TestEmptySheetKeepsPreview(t *testing.T) {
	s, st := openTest(t, nil)
	c := s.Controller()
	c.PointerDown(state.Point{X: 5, Y: 5})
	c.PointerMove(state.Point{X: 50, Y: 50})
	c.PointerUp()
	before := s.Sheet().PreviewImage
	require.NotEmpty(t, before)

	settings := c.Settings()
	settings.Tool, settings.Size = gesture.ToolEraserLine, 10
	c.SetSettings(settings)
	c.PointerDown(state.Point{X: 5, Y: 5})
	c.PointerMove(state.Point{X: 5, Y: 5})
	c.PointerUp()
	require.Zero(t, s.Board().Len())

	sheet, err := st.GetSheet(context.Background(), s.Sheet().ID)
	require.NoError(t, err)
	require.Equal(t, before, sheet.PreviewImage)
	data, err := st.LoadSheet(context.Background(), s.Sheet().ID)
	require.NoError(t, err)
	require.Empty(t, data.Elements)
}

func TestReopenRestoresElements(t *testing.T) {
	s, st := openTest(t, nil)
	c := s.Controller()
	c.PointerDown(state.Point{X: 1, Y: 1})
	c.PointerMove(state.Point{X: 40, Y: 40})
	c.PointerUp()

	again, err := Open(context.Background(), st, s.Sheet().ID, Options{Width: 200, Height: 120})
	require.NoError(t, err)
	require.Equal(t, 1, again.Board().Len())
	f := again.Board().Last().(*state.Freehand)
	require.Len(t, f.Points, 2)
}

func TestPublishErrorDoesNotStopCommit(t *testing.T) {
	pub := &capture{err: errors.New("queue gone")}
	s, _ := openTest(t, pub)
	s.Controller().PointerDown(state.Point{X: 3, Y: 3})
	require.Len(t, pub.snaps, 1)
	require.Equal(t, 1, s.Board().Len())
}

func TestRenameAndExport(t *testing.T) {
	s, st := openTest(t, nil)
	require.NoError(t, s.Rename("Roadmap"))
	sheet, err := st.GetSheet(context.Background(), s.Sheet().ID)
	require.NoError(t, err)
	require.Equal(t, "Roadmap", sheet.Name)
	require.Equal(t, "Roadmap.pdf", s.ExportName(export.PDF))

	var buf bytes.Buffer
	require.NoError(t, s.Export(&buf, export.PNG))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 200, img.Bounds().Dx())

	require.ErrorIs(t, s.Export(&buf, export.Format("tga")), export.ErrUnknownFormat)
}
