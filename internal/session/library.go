package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"SheetBoard/internal/logging"
	"SheetBoard/internal/store"
)

var ErrEmptyName = errors.New("session: sheet name is empty")

// Library manages the sheet list of one user.
type Library struct {
	Store  store.Store
	UserID string
}

// Sheets lists the user's sheets, oldest first.
func (l *Library) Sheets(ctx context.Context) ([]store.Sheet, error) {
	return l.Store.ListSheets(ctx, l.UserID)
}

// DefaultName suggests a name for a new sheet given how many exist.
func DefaultName(existing int) string {
	return fmt.Sprintf("Sheet %d", existing+1)
}

func (l *Library) Create(ctx context.Context, name string) (store.Sheet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return store.Sheet{}, ErrEmptyName
	}
	sh, err := l.Store.CreateSheet(ctx, l.UserID, name)
	if err != nil {
		return store.Sheet{}, err
	}
	logging.Logger().Info("created sheet", "id", sh.ID, "name", name)
	return sh, nil
}

// Initial returns the sheet to open at start-up: the first one, or a new
// one when the user has none.
func (l *Library) Initial(ctx context.Context) (store.Sheet, error) {
	sheets, err := l.Sheets(ctx)
	if err != nil {
		return store.Sheet{}, err
	}
	if len(sheets) > 0 {
		return sheets[0], nil
	}
	return l.Create(ctx, DefaultName(0))
}

// Rename renames a sheet that is not open. Open sheets are renamed through
// their Session so its cached metadata stays current. An unchanged name
// is not written.
func (l *Library) Rename(ctx context.Context, id, name string) (store.Sheet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return store.Sheet{}, ErrEmptyName
	}
	sh, err := l.Store.GetSheet(ctx, id)
	if err != nil {
		return store.Sheet{}, err
	}
	if sh.Name == name {
		return sh, nil
	}
	sh.Name = name
	return l.Store.UpdateSheet(ctx, sh)
}

// Delete removes a sheet and returns the sheet to show next, creating a
// fresh one when the last sheet was deleted.
func (l *Library) Delete(ctx context.Context, id string) (store.Sheet, error) {
	if err := l.Store.DeleteSheet(ctx, id); err != nil {
		return store.Sheet{}, err
	}
	logging.Logger().Info("deleted sheet", "id", id)
	return l.Initial(ctx)
}
