package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"SheetBoard/internal/state"
)

// DefaultBoltPath is used when no database file is configured.
const DefaultBoltPath = "sheetboard.db"

var (
	sheetsBucket = []byte("sheets")
	dataBucket   = []byte("sheet_data")
)

// Bolt stores sheets in a local bbolt file, one bucket for metadata and
// one for content, both keyed by sheet id.
type Bolt struct {
	db *bolt.DB
}

func OpenBolt(path string) (*Bolt, error) {
	if path == "" {
		path = DefaultBoltPath
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{sheetsBucket, dataBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init buckets: %w", err)
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) ListSheets(_ context.Context, userID string) ([]Sheet, error) {
	var out []Sheet
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sheetsBucket).ForEach(func(_, v []byte) error {
			var s Sheet
			if err := json.Unmarshal(v, &s); err != nil {
				return err
			}
			if userID == "" || s.UserID == userID {
				out = append(out, s)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("store: list sheets: %w", err)
	}
	sortSheets(out)
	return out, nil
}

func (b *Bolt) GetSheet(_ context.Context, id string) (Sheet, error) {
	var s Sheet
	err := b.db.View(func(tx *bolt.Tx) error {
		var err error
		s, err = getSheet(tx, id)
		return err
	})
	return s, err
}

func getSheet(tx *bolt.Tx, id string) (Sheet, error) {
	v := tx.Bucket(sheetsBucket).Get([]byte(id))
	if v == nil {
		return Sheet{}, fmt.Errorf("%w: %s", ErrSheetNotFound, id)
	}
	var s Sheet
	if err := json.Unmarshal(v, &s); err != nil {
		return Sheet{}, fmt.Errorf("store: decode sheet %s: %w", id, err)
	}
	return s, nil
}

func putSheet(tx *bolt.Tx, s Sheet) error {
	v, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return tx.Bucket(sheetsBucket).Put([]byte(s.ID), v)
}

func (b *Bolt) CreateSheet(_ context.Context, userID, name string) (Sheet, error) {
	s := newSheet(userID, name)
	if err := b.db.Update(func(tx *bolt.Tx) error { return putSheet(tx, s) }); err != nil {
		return Sheet{}, fmt.Errorf("store: create sheet: %w", err)
	}
	return s, nil
}

func (b *Bolt) UpdateSheet(_ context.Context, sheet Sheet) (Sheet, error) {
	err := b.db.Update(func(tx *bolt.Tx) error {
		if _, err := getSheet(tx, sheet.ID); err != nil {
			return err
		}
		sheet.UpdatedAt = now()
		return putSheet(tx, sheet)
	})
	if err != nil {
		return Sheet{}, err
	}
	return sheet, nil
}

func (b *Bolt) DeleteSheet(_ context.Context, id string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if _, err := getSheet(tx, id); err != nil {
			return err
		}
		if err := tx.Bucket(sheetsBucket).Delete([]byte(id)); err != nil {
			return err
		}
		return tx.Bucket(dataBucket).Delete([]byte(id))
	})
}

func (b *Bolt) LoadSheet(_ context.Context, id string) (state.SheetData, error) {
	data := emptyData(id)
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(dataBucket).Get([]byte(id))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &data)
	})
	if err != nil {
		return state.SheetData{}, fmt.Errorf("store: load sheet %s: %w", id, err)
	}
	return data, nil
}

func (b *Bolt) SaveSheet(_ context.Context, data state.SheetData) error {
	v, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("store: encode sheet %s: %w", data.ID, err)
	}
	err = b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(dataBucket).Put([]byte(data.ID), v); err != nil {
			return err
		}
		s, err := getSheet(tx, data.ID)
		if err != nil {
			// Content without metadata is still saved.
			return nil
		}
		s.UpdatedAt = now()
		return putSheet(tx, s)
	})
	if err != nil {
		return fmt.Errorf("store: save sheet %s: %w", data.ID, err)
	}
	return nil
}

func (b *Bolt) Close() error { return b.db.Close() }
