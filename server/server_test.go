package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/tetris"
)

func newTestServer(t *testing.T, opts ...Option) (*Hub, *httptest.Server) {
	t.Helper()
	opts = append([]Option{WithTick(5 * time.Millisecond), WithSeed(1)}, opts...)
	hub := NewHub(context.Background(), tetris.DefaultConfig(), opts...)
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func createRoom(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/rooms", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct{ Code string }
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Code
}

func dial(t *testing.T, srv *httptest.Server, code string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + code
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Outgoing {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Outgoing
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// readUntil reads snapshots until one satisfies ok.
func readUntil(t *testing.T, conn *websocket.Conn, ok func(tetris.Snapshot) bool) Outgoing {
	t.Helper()
	for range 100 {
		msg := read(t, conn)
		if msg.Type == TypeSnapshot && ok(*msg.Snapshot) {
			return msg
		}
	}
	t.Fatal("no matching snapshot")
	return Outgoing{}
}

func TestCreateRoomCodes(t *testing.T) {
	hub, srv := newTestServer(t)

	seen := map[string]bool{}
	for range 5 {
		code := createRoom(t, srv)
		assert.Len(t, code, CodeLength)
		for _, c := range code {
			assert.Contains(t, codeCharset, string(c))
		}
		assert.False(t, seen[code])
		seen[code] = true
	}
	assert.Equal(t, 5, hub.Len())

	r, err := hub.Room(strings.ToLower(createRoom(t, srv)))
	require.NoError(t, err)
	assert.Equal(t, 0, r.Clients())
}

func TestRoutes(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/rooms")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/NOROOM"
	_, resp, err = websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoomNotFound(t *testing.T) {
	hub, _ := newTestServer(t)
	_, err := hub.Room("ABCDEF")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestPlayOverWebsocket(t *testing.T) {
	_, srv := newTestServer(t)
	code := createRoom(t, srv)
	conn := dial(t, srv, code)

	first := read(t, conn)
	require.Equal(t, TypeSnapshot, first.Type)
	assert.Equal(t, tetris.Cancelled, first.Snapshot.State)
	assert.Equal(t, 10, first.Snapshot.Width)

	require.NoError(t, conn.WriteJSON(Incoming{Type: TypeCommand, Command: "startPause"}))
	playing := readUntil(t, conn, func(s tetris.Snapshot) bool { return s.State == tetris.Playing })
	assert.Greater(t, playing.Version, first.Version)
	require.NotNil(t, playing.Snapshot.Current)

	require.NoError(t, conn.WriteJSON(Incoming{Type: TypeCommand, Command: "hardDrop"}))
	dropped := readUntil(t, conn, func(s tetris.Snapshot) bool { return s.Score > 0 })
	assert.Equal(t, tetris.DefaultScoreRules().DropBonus, dropped.Snapshot.Score)
	assert.Greater(t, dropped.Version, playing.Version)
}

func TestSharedRoom(t *testing.T) {
	_, srv := newTestServer(t)
	code := createRoom(t, srv)
	a := dial(t, srv, code)
	b := dial(t, srv, code)
	read(t, a)
	read(t, b)

	require.NoError(t, a.WriteJSON(Incoming{Type: TypeCommand, Command: "startPause"}))
	readUntil(t, b, func(s tetris.Snapshot) bool { return s.State == tetris.Playing })
}

func TestBadMessages(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dial(t, srv, createRoom(t, srv))
	read(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	assert.Equal(t, TypeError, read(t, conn).Type)

	require.NoError(t, conn.WriteJSON(Incoming{Type: TypeCommand, Command: "jump"}))
	msg := read(t, conn)
	assert.Equal(t, TypeError, msg.Type)
	assert.Contains(t, msg.Error, "jump")
}

func TestIncomingGesture(t *testing.T) {
	tests := []struct {
		msg  Incoming
		want input.Gesture
	}{
		{Incoming{Type: TypeCommand, Command: "rotateClockwise"}, input.Gesture{Kind: input.GestureCommand, Command: tetris.RotateClockwise}},
		{Incoming{Type: TypeMoveTo, Column: 4}, input.Gesture{Kind: input.GestureMoveTo, Column: 4}},
		{Incoming{Type: TypeStepDown, Row: 12}, input.Gesture{Kind: input.GestureStepDown, Row: 12}},
	}
	for _, tt := range tests {
		t.Run(tt.msg.Type, func(t *testing.T) {
			g, err := tt.msg.Gesture()
			require.NoError(t, err)
			assert.Equal(t, tt.want, g)
		})
	}

	_, err := Incoming{Type: "chat"}.Gesture()
	assert.Error(t, err)
}

func TestIdleRoomsClose(t *testing.T) {
	hub, _ := newTestServer(t, WithIdleTimeout(20*time.Millisecond))
	r := hub.Create()

	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("idle room still running")
	}
	assert.Zero(t, hub.Len())
}

func TestCloseDisconnectsClients(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv, createRoom(t, srv))
	read(t, conn)

	hub.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
			break
		}
	}
}
