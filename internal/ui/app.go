// Package ui is the fyne desktop host: the sheet list, the toolbar and the
// drawing board.
package ui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"SheetBoard/internal/config"
	"SheetBoard/internal/export"
	"SheetBoard/internal/logging"
	"SheetBoard/internal/session"
	"SheetBoard/internal/store"
)

// Options carries what the host needs besides the configuration.
type Options struct {
	Store     store.Store
	Publisher session.Publisher
	// Forget is called with the id of a deleted sheet.
	Forget func(sheetID string)
	// PreviewURL is shown in the status bar when a preview server runs.
	PreviewURL string
}

type shell struct {
	ctx     context.Context
	cfg     config.Config
	opts    Options
	library *session.Library

	win     fyne.Window
	board   *BoardWidget
	toolbar *Toolbar
	sheets  *sheetList
	status  *widget.Label
}

// RunApp opens the main window and blocks until it is closed.
func RunApp(ctx context.Context, cfg config.Config, opts Options) error {
	myApp := app.NewWithID("io.sheetboard")
	win := myApp.NewWindow("SheetBoard")
	win.Resize(fyne.NewSize(float32(cfg.Canvas.Width)+260, float32(cfg.Canvas.Height)+140))

	s := &shell{
		ctx:     ctx,
		cfg:     cfg,
		opts:    opts,
		library: &session.Library{Store: opts.Store, UserID: cfg.UserID},
		win:     win,
		board:   NewBoardWidget(cfg.Canvas.Width, cfg.Canvas.Height),
		sheets:  newSheetList(),
		status:  widget.NewLabel("Ready"),
	}
	s.toolbar = NewToolbar(s.board)
	s.toolbar.OnAddImage = func() {
		if sess := s.board.Session(); sess != nil {
			showImageOpen(win, sess)
		}
	}
	s.toolbar.OnExport = func(f export.Format) {
		if sess := s.board.Session(); sess != nil {
			showExport(win, sess, f)
		}
	}
	s.sheets.OnOpen = func(sh store.Sheet) { s.open(sh) }

	side := container.NewBorder(
		widget.NewLabel("Sheets"),
		container.NewGridWithColumns(3,
			widget.NewButton("New", s.create),
			widget.NewButton("Rename", s.rename),
			widget.NewButton("Delete", s.remove),
		),
		nil, nil, s.sheets.list,
	)
	board := container.NewScroll(s.board)
	split := container.NewHSplit(side, board)
	split.Offset = 0.18
	win.SetContent(container.NewBorder(s.toolbar.Build(), s.status, nil, nil, split))

	initial, err := s.library.Initial(ctx)
	if err != nil {
		return fmt.Errorf("load sheets: %w", err)
	}
	s.open(initial)
	if opts.PreviewURL != "" {
		s.status.SetText("Live preview at " + opts.PreviewURL)
	}

	win.ShowAndRun()
	return nil
}

func (s *shell) open(sh store.Sheet) {
	if cur := s.board.Session(); cur != nil && cur.Sheet().ID == sh.ID {
		return
	}
	sess, err := session.Open(s.ctx, s.opts.Store, sh.ID, session.Options{
		Width:      s.cfg.Canvas.Width,
		Height:     s.cfg.Canvas.Height,
		Background: s.cfg.Canvas.Background,
		Prompter:   textPrompter{win: s.win},
		Publisher:  s.opts.Publisher,
	})
	if err != nil {
		logging.Logger().Error("open sheet", "id", sh.ID, "err", err)
		dialog.ShowError(err, s.win)
		return
	}
	sess.Controller().Post = fyne.Do
	s.board.SetSession(sess)
	s.toolbar.Apply()
	s.win.SetTitle("SheetBoard - " + sh.Name)
	s.reload()
}

// reload re-reads the sheet list, keeping the open sheet selected.
func (s *shell) reload() {
	sheets, err := s.library.Sheets(s.ctx)
	if err != nil {
		logging.Logger().Error("list sheets", "err", err)
		return
	}
	active := ""
	if cur := s.board.Session(); cur != nil {
		active = cur.Sheet().ID
	}
	s.sheets.set(sheets, active)
}

func (s *shell) create() {
	askName(s.win, "New sheet", session.DefaultName(len(s.sheets.sheets)), func(name string) {
		sh, err := s.library.Create(s.ctx, name)
		if err != nil {
			dialog.ShowError(err, s.win)
			return
		}
		s.open(sh)
	})
}

func (s *shell) rename() {
	cur := s.board.Session()
	if cur == nil {
		return
	}
	askName(s.win, "Rename sheet", cur.Sheet().Name, func(name string) {
		if name == cur.Sheet().Name {
			return
		}
		if err := cur.Rename(name); err != nil {
			dialog.ShowError(err, s.win)
			return
		}
		s.win.SetTitle("SheetBoard - " + name)
		s.reload()
	})
}

func (s *shell) remove() {
	cur := s.board.Session()
	if cur == nil {
		return
	}
	id := cur.Sheet().ID
	dialog.ShowConfirm("Delete sheet",
		"Are you sure you want to delete this sheet? This action cannot be undone.",
		func(ok bool) {
			if !ok {
				return
			}
			next, err := s.library.Delete(s.ctx, id)
			if err != nil {
				dialog.ShowError(err, s.win)
				return
			}
			if s.opts.Forget != nil {
				s.opts.Forget(id)
			}
			s.board.SetSession(nil)
			s.open(next)
		}, s.win)
}
