package net

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"SheetBoard/internal/logging"
	"SheetBoard/internal/state"
	"SheetBoard/internal/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server exposes the sheets of one user read-only over HTTP, with a
// websocket stream of committed snapshots per sheet.
type Server struct {
	Store  store.Store
	Hub    *Hub
	UserID string
}

// Handler returns the routed preview API.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/sheets", s.listSheets).Methods(http.MethodGet)
	r.HandleFunc("/sheets/{id}", s.getSheet).Methods(http.MethodGet)
	r.HandleFunc("/sheets/{id}/elements", s.getElements).Methods(http.MethodGet)
	r.HandleFunc("/sheets/{id}/preview.png", s.getPreview).Methods(http.MethodGet)
	r.HandleFunc("/sheets/{id}/live", s.serveLive).Methods(http.MethodGet)
	return r
}

// ListenAndServe serves Handler on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logging.Logger().Info("preview server listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger().Debug("write response", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrSheetNotFound) {
		http.Error(w, "sheet not found", http.StatusNotFound)
		return
	}
	logging.Logger().Error("preview request", "path", r.URL.Path, "err", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// sheet loads the routed sheet, hiding sheets of other users.
func (s *Server) sheet(r *http.Request) (store.Sheet, error) {
	id := mux.Vars(r)["id"]
	sh, err := s.Store.GetSheet(r.Context(), id)
	if err != nil {
		return store.Sheet{}, err
	}
	if s.UserID != "" && sh.UserID != s.UserID {
		return store.Sheet{}, store.ErrSheetNotFound
	}
	return sh, nil
}

func (s *Server) listSheets(w http.ResponseWriter, r *http.Request) {
	sheets, err := s.Store.ListSheets(r.Context(), s.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if sheets == nil {
		sheets = []store.Sheet{}
	}
	writeJSON(w, sheets)
}

func (s *Server) getSheet(w http.ResponseWriter, r *http.Request) {
	sh, err := s.sheet(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, sh)
}

func (s *Server) getElements(w http.ResponseWriter, r *http.Request) {
	sh, err := s.sheet(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := s.Store.LoadSheet(r.Context(), sh.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, data)
}

func (s *Server) getPreview(w http.ResponseWriter, r *http.Request) {
	sh, err := s.sheet(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if sh.PreviewImage == "" {
		http.Error(w, "no preview", http.StatusNotFound)
		return
	}
	mediaType, png, err := state.ParseDataURL(sh.PreviewImage)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", mediaType)
	w.Write(png)
}

func (s *Server) serveLive(w http.ResponseWriter, r *http.Request) {
	sh, err := s.sheet(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger().Debug("websocket upgrade", "err", err)
		return
	}
	v := &viewer{sheetID: sh.ID, conn: conn, send: make(chan []byte, sendBuffer)}
	if !s.Hub.join(v) {
		conn.Close()
		return
	}
	go v.writePump()
	go v.readPump(s.Hub)
}
