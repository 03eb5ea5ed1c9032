// Package store persists sheet metadata and sheet content.
//
// Every backend keeps two records per sheet: the Sheet metadata shown in the
// sheet list and the SheetData holding the element sequence. Content is
// stored in the element wire format, so any backend can read what another
// one wrote.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"SheetBoard/internal/state"
)

var ErrSheetNotFound = errors.New("store: sheet not found")

// Sheet is the metadata of one sheet.
type Sheet struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	UserID       string    `json:"userId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	PreviewImage string    `json:"previewImage,omitempty"`
}

// Store is implemented by every persistence backend.
type Store interface {
	// ListSheets returns the sheets owned by userID, oldest first. An empty
	// userID lists every sheet.
	ListSheets(ctx context.Context, userID string) ([]Sheet, error)
	GetSheet(ctx context.Context, id string) (Sheet, error)
	CreateSheet(ctx context.Context, userID, name string) (Sheet, error)
	// UpdateSheet replaces the metadata of an existing sheet and stamps
	// UpdatedAt. The stored record is returned.
	UpdateSheet(ctx context.Context, sheet Sheet) (Sheet, error)
	// DeleteSheet removes the metadata and the content.
	DeleteSheet(ctx context.Context, id string) error

	// LoadSheet returns the content of a sheet; a sheet that was never
	// saved has an empty element sequence.
	LoadSheet(ctx context.Context, id string) (state.SheetData, error)
	// SaveSheet replaces the content and stamps the owning sheet's UpdatedAt.
	SaveSheet(ctx context.Context, data state.SheetData) error

	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendBolt     Backend = "bolt"
	BackendRedis    Backend = "redis"
	BackendPostgres Backend = "postgres"
	BackendMemory   Backend = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend     Backend
	Path        string // bolt database file
	RedisAddr   string
	DatabaseURL string
}

// Open connects to the backend named by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendBolt, "":
		return OpenBolt(opts.Path)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisAddr)
	case BackendPostgres:
		return OpenPostgres(ctx, opts.DatabaseURL)
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("store: unknown backend %q", opts.Backend)
}

// now is the timestamp source for every backend. Millisecond precision
// survives every backend's round trip.
var now = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

func newSheet(userID, name string) Sheet {
	t := now()
	return Sheet{
		ID:        uuid.NewString(),
		Name:      name,
		UserID:    userID,
		CreatedAt: t,
		UpdatedAt: t,
	}
}

func emptyData(id string) state.SheetData {
	return state.SheetData{ID: id, Elements: state.Elements{}}
}

func sortSheets(sheets []Sheet) {
	sort.Slice(sheets, func(i, j int) bool {
		if !sheets[i].CreatedAt.Equal(sheets[j].CreatedAt) {
			return sheets[i].CreatedAt.Before(sheets[j].CreatedAt)
		}
		return sheets[i].ID < sheets[j].ID
	})
}
