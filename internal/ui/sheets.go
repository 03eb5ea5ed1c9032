package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"SheetBoard/internal/store"
)

// sheetList is the sidebar listing the user's sheets.
type sheetList struct {
	sheets []store.Sheet
	list   *widget.List

	OnOpen func(store.Sheet)
}

func newSheetList() *sheetList {
	l := &sheetList{}
	l.list = widget.NewList(
		func() int { return len(l.sheets) },
		func() fyne.CanvasObject {
			return container.NewVBox(widget.NewLabel("name"), widget.NewLabel("updated"))
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			box := o.(*fyne.Container)
			sh := l.sheets[i]
			box.Objects[0].(*widget.Label).SetText(sh.Name)
			box.Objects[1].(*widget.Label).SetText(sh.UpdatedAt.Local().Format("Jan 2 15:04"))
		},
	)
	l.list.OnSelected = func(i widget.ListItemID) {
		if l.OnOpen != nil && i < len(l.sheets) {
			l.OnOpen(l.sheets[i])
		}
	}
	return l
}

// set replaces the listed sheets and highlights activeID without
// re-opening it.
func (l *sheetList) set(sheets []store.Sheet, activeID string) {
	l.sheets = sheets
	l.list.Refresh()
	open := l.OnOpen
	l.OnOpen = nil
	for i, sh := range sheets {
		if sh.ID == activeID {
			l.list.Select(i)
			break
		}
	}
	l.OnOpen = open
}
