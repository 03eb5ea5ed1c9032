package net

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"SheetBoard/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Snapshot is one committed state of a sheet as streamed to viewers.
type Snapshot struct {
	SheetID      string          `json:"sheetId"`
	Revision     uint64          `json:"revision"`
	PreviewImage string          `json:"previewImage,omitempty"`
	Elements     json.RawMessage `json:"elements"`
}

// viewer is one websocket connection following a single sheet.
type viewer struct {
	sheetID string
	conn    *websocket.Conn
	send    chan []byte
}

type message struct {
	sheetID string
	payload []byte
}

// Hub fans committed snapshots out to the viewers of each sheet and keeps
// the latest one per sheet for late joiners.
type Hub struct {
	register   chan *viewer
	unregister chan *viewer
	broadcast  chan message
	done       chan struct{}

	mu     sync.RWMutex
	latest map[string][]byte
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *viewer),
		unregister: make(chan *viewer),
		broadcast:  make(chan message, 64),
		done:       make(chan struct{}),
		latest:     make(map[string][]byte),
	}
}

// Run serves the hub until ctx is cancelled, then closes every viewer.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	viewers := make(map[*viewer]bool)
	drop := func(v *viewer) {
		if viewers[v] {
			delete(viewers, v)
			close(v.send)
		}
	}
	for {
		select {
		case <-ctx.Done():
			for v := range viewers {
				drop(v)
			}
			return
		case v := <-h.register:
			viewers[v] = true
			if last, ok := h.Latest(v.sheetID); ok {
				v.send <- last
			}
			logging.Logger().Debug("viewer joined", "sheet", v.sheetID, "viewers", len(viewers))
		case v := <-h.unregister:
			drop(v)
			logging.Logger().Debug("viewer left", "sheet", v.sheetID, "viewers", len(viewers))
		case m := <-h.broadcast:
			for v := range viewers {
				if v.sheetID != m.sheetID {
					continue
				}
				select {
				case v.send <- m.payload:
				default:
					logging.Logger().Warn("dropping slow viewer", "sheet", v.sheetID)
					drop(v)
				}
			}
		}
	}
}

// Publish records s as the latest snapshot of its sheet and queues it for
// the sheet's viewers. It never blocks the caller; when the queue is full
// viewers catch up from the next snapshot.
func (h *Hub) Publish(s Snapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.latest[s.SheetID] = payload
	h.mu.Unlock()

	select {
	case h.broadcast <- message{sheetID: s.SheetID, payload: payload}:
	default:
		logging.Logger().Warn("preview queue full", "sheet", s.SheetID, "revision", s.Revision)
	}
	return nil
}

// join registers v, reporting false once the hub has stopped.
func (h *Hub) join(v *viewer) bool {
	select {
	case h.register <- v:
		return true
	case <-h.done:
		return false
	}
}

// Latest returns the encoded latest snapshot of a sheet.
func (h *Hub) Latest(sheetID string) ([]byte, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	b, ok := h.latest[sheetID]
	return b, ok
}

// Forget drops the stored snapshot of a deleted sheet.
func (h *Hub) Forget(sheetID string) {
	h.mu.Lock()
	delete(h.latest, sheetID)
	h.mu.Unlock()
}

// readPump only watches for the connection closing; viewers never send
// edits.
func (v *viewer) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- v:
		case <-h.done:
		}
		v.conn.Close()
	}()
	v.conn.SetReadLimit(512)
	v.conn.SetReadDeadline(time.Now().Add(pongWait))
	v.conn.SetPongHandler(func(string) error {
		return v.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (v *viewer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		v.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-v.send:
			v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				v.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := v.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := v.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
