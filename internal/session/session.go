// Package session ties an open sheet's controller to the renderer, the
// store and the preview hub. Every commit repaints the surface, persists
// the content, refreshes the sheet's preview image and publishes a
// snapshot to live viewers.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"

	"SheetBoard/internal/export"
	"SheetBoard/internal/gesture"
	"SheetBoard/internal/logging"
	sheetnet "SheetBoard/internal/net"
	"SheetBoard/internal/render"
	"SheetBoard/internal/state"
	"SheetBoard/internal/store"
)

// Publisher receives a snapshot after every commit.
type Publisher interface {
	Publish(sheetnet.Snapshot) error
}

type Options struct {
	Width, Height int
	Background    string
	Prompter      gesture.TextPrompter
	Publisher     Publisher
}

// Session is one open sheet. Like the controller it drives, it belongs to
// the host event loop.
type Session struct {
	// OnRepaint runs after the surface was repainted.
	OnRepaint func()

	ctx        context.Context
	store      store.Store
	publisher  Publisher
	sheet      store.Sheet
	board      *state.Board
	controller *gesture.Controller
	renderer   *render.Renderer
	surface    *gg.Context
}

// Open loads sheet id from st and paints it once.
func Open(ctx context.Context, st store.Store, id string, opts Options) (*Session, error) {
	sheet, err := st.GetSheet(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := st.LoadSheet(ctx, id)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ctx:       ctx,
		store:     st,
		publisher: opts.Publisher,
		sheet:     sheet,
		board:     state.NewBoard(data),
		renderer:  render.New(opts.Background),
		surface:   render.NewSurface(opts.Width, opts.Height),
	}
	s.controller = gesture.NewController(s.board, opts.Prompter)
	s.controller.OnCommit = s.commit
	s.renderer.Render(s.surface, s.board.Elements())
	logging.Logger().Info("opened sheet", "id", id, "name", sheet.Name, "elements", s.board.Len())
	return s, nil
}

func (s *Session) Sheet() store.Sheet              { return s.sheet }
func (s *Session) Board() *state.Board             { return s.board }
func (s *Session) Controller() *gesture.Controller { return s.controller }
func (s *Session) Surface() *gg.Context            { return s.surface }

// Image returns a copy of the current raster.
func (s *Session) Image() image.Image { return s.surface.Image() }

func (s *Session) commit(elements []state.Element) {
	s.renderer.Render(s.surface, elements)
	s.renderer.Forget(elements)
	if s.OnRepaint != nil {
		s.OnRepaint()
	}

	encoded, err := json.Marshal(state.Elements(elements))
	if err != nil {
		logging.Logger().Error("encode sheet", "id", s.sheet.ID, "err", err)
		return
	}
	s.persist(elements)

	if s.publisher != nil {
		snap := sheetnet.Snapshot{
			SheetID:      s.sheet.ID,
			Revision:     s.board.Revision(),
			PreviewImage: s.sheet.PreviewImage,
			Elements:     encoded,
		}
		if err := s.publisher.Publish(snap); err != nil {
			logging.Logger().Warn("publish snapshot", "id", s.sheet.ID, "err", err)
		}
	}
}

// persist saves the content and, for a non-empty sheet, the preview image.
// Failures are logged; the in-memory sheet stays authoritative.
func (s *Session) persist(elements []state.Element) {
	data := state.SheetData{ID: s.sheet.ID, Elements: elements}
	if err := s.store.SaveSheet(s.ctx, data); err != nil {
		logging.Logger().Error("save sheet", "id", s.sheet.ID, "err", err)
		return
	}
	if len(elements) == 0 {
		return
	}
	preview, err := render.Snapshot(s.surface)
	if err != nil {
		logging.Logger().Warn("preview snapshot", "id", s.sheet.ID, "err", err)
		return
	}
	sheet := s.sheet
	sheet.PreviewImage = preview
	updated, err := s.store.UpdateSheet(s.ctx, sheet)
	if err != nil {
		logging.Logger().Error("update sheet preview", "id", s.sheet.ID, "err", err)
		return
	}
	s.sheet = updated
}

// Rename changes the sheet's display name.
func (s *Session) Rename(name string) error {
	sheet := s.sheet
	sheet.Name = name
	updated, err := s.store.UpdateSheet(s.ctx, sheet)
	if err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	s.sheet = updated
	return nil
}

// ExportName returns the download file name for format f.
func (s *Session) ExportName(f export.Format) string {
	return export.FileName(s.sheet.Name, f)
}

// Export writes the current raster to w.
func (s *Session) Export(w io.Writer, f export.Format) error {
	if err := export.Encode(w, s.surface, f); err != nil {
		return fmt.Errorf("export %s as %s: %w", s.sheet.Name, f, err)
	}
	return nil
}
