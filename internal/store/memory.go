package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"SheetBoard/internal/state"
)

// Memory keeps everything in process. Content is held encoded, so callers
// never share element pointers with the store.
type Memory struct {
	mu     sync.RWMutex
	sheets map[string]Sheet
	data   map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{
		sheets: make(map[string]Sheet),
		data:   make(map[string][]byte),
	}
}

func (m *Memory) ListSheets(_ context.Context, userID string) ([]Sheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Sheet, 0, len(m.sheets))
	for _, s := range m.sheets {
		if userID == "" || s.UserID == userID {
			out = append(out, s)
		}
	}
	sortSheets(out)
	return out, nil
}

func (m *Memory) GetSheet(_ context.Context, id string) (Sheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sheets[id]
	if !ok {
		return Sheet{}, fmt.Errorf("%w: %s", ErrSheetNotFound, id)
	}
	return s, nil
}

func (m *Memory) CreateSheet(_ context.Context, userID, name string) (Sheet, error) {
	s := newSheet(userID, name)
	m.mu.Lock()
	m.sheets[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

func (m *Memory) UpdateSheet(_ context.Context, sheet Sheet) (Sheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[sheet.ID]; !ok {
		return Sheet{}, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet.ID)
	}
	sheet.UpdatedAt = now()
	m.sheets[sheet.ID] = sheet
	return sheet, nil
}

func (m *Memory) DeleteSheet(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, id)
	}
	delete(m.sheets, id)
	delete(m.data, id)
	return nil
}

func (m *Memory) LoadSheet(_ context.Context, id string) (state.SheetData, error) {
	m.mu.RLock()
	raw, ok := m.data[id]
	m.mu.RUnlock()
	if !ok {
		return emptyData(id), nil
	}
	var data state.SheetData
	if err := json.Unmarshal(raw, &data); err != nil {
		return state.SheetData{}, fmt.Errorf("store: decode sheet %s: %w", id, err)
	}
	return data, nil
}

func (m *Memory) SaveSheet(_ context.Context, data state.SheetData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("store: encode sheet %s: %w", data.ID, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[data.ID] = raw
	if s, ok := m.sheets[data.ID]; ok {
		s.UpdatedAt = now()
		m.sheets[data.ID] = s
	}
	return nil
}

func (m *Memory) Close() error { return nil }
