// Package web serves the running game to browsers: the latest snapshot as
// JSON and a websocket feed of every new one.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"termtris/spectate"
	"termtris/tetris"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Hub is the snapshot source. *spectate.Hub satisfies it.
type Hub interface {
	Subscribe() (<-chan *tetris.Snapshot, func())
	Latest() *tetris.Snapshot
}

type handler struct {
	hub      Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewRouter returns the spectator routes:
//
//	GET /state	latest snapshot, 204 before the first frame
//	GET /ws	websocket stream of snapshots
func NewRouter(l *slog.Logger, hub Hub) *mux.Router {
	h := &handler{
		hub:    hub,
		logger: l,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	r := mux.NewRouter()
	r.HandleFunc("/state", h.state).Methods(http.MethodGet)
	r.HandleFunc("/ws", h.stream).Methods(http.MethodGet)
	return r
}

func (h *handler) state(w http.ResponseWriter, _ *http.Request) {
	snap := h.hub.Latest()
	if snap == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(spectate.NewState(snap)); err != nil {
		h.logger.Error("unable to encode state", slog.String("error", err.Error()))
	}
}

func (h *handler) stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		h.logger.Debug("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close() //nolint: errcheck

	ch, cancel := h.hub.Subscribe()
	defer cancel()

	// spectators don't send anything, reading only notices when they leave.
	goneCh := make(chan struct{})
	go func() {
		defer close(goneCh)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-goneCh:
			return
		case snap, ok := <-ch:
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "game closed")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(spectate.NewState(snap)); err != nil {
				h.logger.Debug("websocket write failed", slog.String("error", err.Error()))
				return
			}
		}
	}
}
