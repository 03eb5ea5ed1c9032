package ui

import (
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"SheetBoard/internal/export"
	"SheetBoard/internal/logging"
	"SheetBoard/internal/session"
)

// textPrompter asks for text with a modal form. The controller stays
// suspended until the form closes.
type textPrompter struct {
	win fyne.Window
}

func (p textPrompter) PromptText(done func(text string, ok bool)) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("Enter text")
	dialog.ShowForm("Add text", "Add", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Text", entry)},
		func(ok bool) { done(entry.Text, ok) },
		p.win)
}

// askName shows a single-field form and calls done with a non-empty name.
func askName(win fyne.Window, title, initial string, done func(string)) {
	entry := widget.NewEntry()
	entry.SetText(initial)
	dialog.ShowForm(title, "OK", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", entry)},
		func(ok bool) {
			if ok && entry.Text != "" {
				done(entry.Text)
			}
		}, win)
}

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// showImageOpen lets the user pick a picture and hands its bytes to the
// open sheet. Decoding happens in the controller.
func showImageOpen(win fyne.Window, s *session.Session) {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if r == nil {
			return
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		logging.Logger().Debug("adding image", "uri", r.URI().String(), "bytes", len(data))
		s.Controller().AddImage(data, r.URI().MimeType())
	}, win)
	d.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	d.Show()
}

// showExport saves the open sheet's raster in format f.
func showExport(win fyne.Window, s *session.Session, f export.Format) {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if w == nil {
			return
		}
		err = s.Export(w, f)
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			logging.Logger().Error("export", "sheet", s.Sheet().ID, "format", f, "err", err)
			dialog.ShowError(err, win)
			return
		}
		logging.Logger().Info("exported sheet", "sheet", s.Sheet().ID, "uri", w.URI().String())
	}, win)
	d.SetFileName(s.ExportName(f))
	d.Show()
}
