package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"termtris/spectate"
	"termtris/tetris"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState(t *testing.T) {
	hub := spectate.NewHub()
	router := NewRouter(slog.New(slog.DiscardHandler), hub)

	t.Run("no content before the first frame", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("latest snapshot as json", func(t *testing.T) {
		session := tetris.NewTestSession(tetris.T)
		hub.Publish(session.Read())

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var got spectate.State
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, session.ID().String(), got.ID)
		assert.Equal(t, 1, got.Level)
		assert.Equal(t, "500ms", got.FallInterval)
		assert.Equal(t, "T", got.Next)
		require.Len(t, got.Board, tetris.Height)
		assert.Equal(t, "....TTT...", got.Board[0])
		assert.Equal(t, ".....T....", got.Board[1])
	})

	t.Run("other methods are not allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/state", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestStream(t *testing.T) {
	hub := spectate.NewHub()
	srv := httptest.NewServer(NewRouter(slog.New(slog.DiscardHandler), hub))
	defer srv.Close()

	session := tetris.NewTestSession(tetris.O)
	hub.Publish(session.Read())

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close() //nolint: errcheck
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var got spectate.State
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, session.ID().String(), got.ID)
	assert.Equal(t, "....OO....", got.Board[0])

	session.Action(tetris.DropDown)
	hub.Publish(session.Read())
	for got.Board[19] != "....OO...." {
		require.NoError(t, conn.ReadJSON(&got))
	}

	hub.Close()
	for {
		if err := conn.ReadJSON(&got); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
			break
		}
	}
}
