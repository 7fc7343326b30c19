// Package server hosts shared games over websockets.
//
// A client creates a room with POST /api/rooms, which answers
// {"code":"K3X9QZ"}, then connects to /ws/{code}. Every client of a room
// receives a snapshot message whenever the game changes and may send inputs.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/plus3/blockfall/tetris"
)

var ErrRoomNotFound = errors.New("server: room not found")

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the length of a room code.
const CodeLength = 6

type Option func(*Hub)

// WithTick sets how often rooms advance their game. The default is 60 Hz.
func WithTick(d time.Duration) Option {
	return func(h *Hub) { h.tick = d }
}

// WithIdleTimeout closes rooms that have had no client for d. Zero keeps
// rooms until the hub closes. The default is five minutes.
func WithIdleTimeout(d time.Duration) Option {
	return func(h *Hub) { h.idle = d }
}

// WithSeed makes room codes and game pieces reproducible.
func WithSeed(seed uint64) Option {
	return func(h *Hub) { h.rng = rand.New(rand.NewPCG(seed, seed^0x5bd1e995)) }
}

// Hub owns the rooms.
type Hub struct {
	cfg  tetris.Config
	tick time.Duration
	idle time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	rooms map[string]*Room
	rng   *rand.Rand
	wg    sync.WaitGroup

	upgrader websocket.Upgrader
}

// NewHub creates a hub whose rooms play cfg. Rooms stop when ctx is done or
// Close is called. cfg must be valid.
func NewHub(ctx context.Context, cfg tetris.Config, opts ...Option) *Hub {
	ctx, cancel := context.WithCancel(ctx)
	h := &Hub{
		cfg:    cfg,
		tick:   time.Second / 60,
		idle:   5 * time.Minute,
		ctx:    ctx,
		cancel: cancel,
		rooms:  make(map[string]*Room),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.rng == nil {
		h.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return h
}

// Create opens a room with a fresh game.
func (h *Hub) Create() *Room {
	h.mu.Lock()
	defer h.mu.Unlock()

	code := h.codeLocked()
	for h.rooms[code] != nil {
		code = h.codeLocked()
	}
	game := tetris.NewGame(h.cfg, tetris.WithSeed(h.rng.Uint64()))
	r := newRoom(code, game)
	h.rooms[code] = r

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		r.run(h.ctx, h.tick, h.idle, h.remove)
	}()

	logger().Info("room created", "room", code)
	return r
}

func (h *Hub) codeLocked() string {
	b := make([]byte, CodeLength)
	for i := range b {
		b[i] = codeCharset[h.rng.IntN(len(codeCharset))]
	}
	return string(b)
}

// Room finds a room by code, ignoring case.
func (h *Hub) Room(code string) (*Room, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[strings.ToUpper(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// Len returns the number of open rooms.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}

func (h *Hub) remove(r *Room) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[r.Code] == r {
		delete(h.rooms, r.Code)
	}
	logger().Info("room closed", "room", r.Code)
}

// Close stops every room, disconnects their clients and waits for the room
// goroutines to finish.
func (h *Hub) Close() {
	h.cancel()
	h.wg.Wait()
}

// Handler serves the room API:
//
//	POST /api/rooms     create a room
//	GET  /ws/{code}     join a room over a websocket
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rooms", h.handleCreate)
	mux.HandleFunc("GET /ws/{code}", h.handleJoin)
	return mux
}

func (h *Hub) handleCreate(w http.ResponseWriter, _ *http.Request) {
	r := h.Create()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"code": r.Code})
}

func (h *Hub) handleJoin(w http.ResponseWriter, req *http.Request) {
	room, err := h.Room(req.PathValue("code"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		logger().Warn("websocket upgrade", "room", room.Code, "err", err)
		return
	}
	c, ok := room.join(conn)
	if !ok {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "room closed"))
		conn.Close()
		return
	}
	room.serve(c)
}
