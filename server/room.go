package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/tetris"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 32
)

// Room is one game shared by every client connected with its code.
type Room struct {
	Code    string
	Created time.Time

	session *session.Session

	mu       sync.Mutex
	clients  map[*client]struct{}
	version  uint64
	lastSeen time.Time
	closed   bool

	done chan struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newRoom(code string, game *tetris.Game) *Room {
	now := time.Now()
	return &Room{
		Code:     code,
		Created:  now,
		session:  session.New(game),
		clients:  make(map[*client]struct{}),
		lastSeen: now,
		done:     make(chan struct{}),
	}
}

// Session returns the session driving the room's game.
func (r *Room) Session() *session.Session {
	return r.session
}

// Done is closed once the room has stopped.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// Clients returns the number of connected clients.
func (r *Room) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Version returns the version of the last snapshot broadcast.
func (r *Room) Version() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version
}

// run advances the game every tick and broadcasts changes. It returns when
// ctx is cancelled or the room has had no clients for idle.
func (r *Room) run(ctx context.Context, tick, idle time.Duration, onExit func(*Room)) {
	defer close(r.done)
	defer onExit(r)
	defer r.shutdown()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.session.Frame(now.Sub(last).Seconds())
			last = now

			if snap, ok := r.session.Changed(); ok {
				r.broadcast(snap)
			}
			if idle > 0 && r.idleSince(now) > idle {
				logger().Info("room idle", "room", r.Code)
				return
			}
		}
	}
}

func (r *Room) idleSince(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.clients) > 0 {
		r.lastSeen = now
		return 0
	}
	return now.Sub(r.lastSeen)
}

func (r *Room) broadcast(snap tetris.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.version++
	data, err := json.Marshal(Outgoing{Type: TypeSnapshot, Version: r.version, Snapshot: &snap})
	if err != nil {
		logger().Error("encode snapshot", "room", r.Code, "err", err)
		return
	}
	for c := range r.clients {
		select {
		case c.send <- data:
		default:
			logger().Warn("dropping slow client", "room", r.Code)
			r.removeLocked(c)
		}
	}
}

// join registers conn and queues the current snapshot for it.
func (r *Room) join(conn *websocket.Conn) (*client, bool) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, false
	}

	snap := r.session.Snapshot()
	data, err := json.Marshal(Outgoing{Type: TypeSnapshot, Version: r.version, Snapshot: &snap})
	if err != nil {
		return nil, false
	}
	c.send <- data
	r.clients[c] = struct{}{}
	r.lastSeen = time.Now()
	go c.writePump()

	logger().Info("client joined", "room", r.Code, "clients", len(r.clients))
	return c, true
}

func (r *Room) leave(c *client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c]; ok {
		r.removeLocked(c)
		logger().Info("client left", "room", r.Code, "clients", len(r.clients))
	}
}

func (r *Room) removeLocked(c *client) {
	delete(r.clients, c)
	close(c.send)
}

func (r *Room) shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for c := range r.clients {
		r.removeLocked(c)
	}
}

// serve reads client messages until the connection fails.
func (r *Room) serve(c *client) {
	defer r.leave(c)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger().Debug("read", "room", r.Code, "err", err)
			}
			return
		}

		var msg Incoming
		if err := json.Unmarshal(data, &msg); err != nil {
			r.reply(c, err.Error())
			continue
		}
		g, err := msg.Gesture()
		if err != nil {
			r.reply(c, err.Error())
			continue
		}
		r.session.PushGesture(g)
	}
}

func (r *Room) reply(c *client, text string) {
	data, err := json.Marshal(Outgoing{Type: TypeError, Error: text})
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			// Closing unblocks the reader, whose leave closes send.
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
