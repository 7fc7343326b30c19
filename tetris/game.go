package tetris

import (
	"math/rand/v2"
	"slices"
)

// Game is one falling-block game. It is not safe for concurrent use; callers
// that drive a game from several goroutines serialise access themselves.
type Game struct {
	cfg    Config
	shapes []Shape
	board  *Board
	rng    *rand.Rand

	current *Piece
	next    *Piece

	score    int
	rows     int
	delay    float64
	duration float64
	state    State
	queue    []Command

	// over is set by a spawn collision and cleared by reset.
	over bool
	// quiet suppresses events while the board is being cluttered.
	quiet bool

	invalid   Invalidation
	listeners []Listener
	stats     Stats
}

// Option configures a Game at construction.
type Option func(*Game)

// WithRand sets the random source used for piece selection and spawn columns.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) {
		g.rng = r
	}
}

// WithSeed seeds a PCG source for reproducible games.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithListener registers an event listener.
func WithListener(l Listener) Option {
	return func(g *Game) {
		g.listeners = append(g.listeners, l)
	}
}

// NewGame creates a cancelled game with an empty board. It panics if cfg does
// not pass Validate.
func NewGame(cfg Config, opts ...Option) *Game {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	g := &Game{
		cfg:     cfg,
		shapes:  slices.Clone(cfg.Shapes),
		board:   NewBoard(cfg.Width, cfg.Height),
		delay:   cfg.Delays.For(0),
		state:   Cancelled,
		invalid: InvalidAll,
	}
	g.cfg.Shapes = g.shapes
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

// Subscribe adds an event listener.
func (g *Game) Subscribe(l Listener) {
	g.listeners = append(g.listeners, l)
}

func (g *Game) Config() Config { return g.cfg }
func (g *Game) Board() *Board { return g.board }
func (g *Game) Score() int { return g.score }
func (g *Game) Rows() int { return g.rows }
func (g *Game) Delay() float64 { return g.delay }
func (g *Game) State() State { return g.state }
func (g *Game) Current() *Piece { return g.current }
func (g *Game) Next() *Piece { return g.next }
func (g *Game) QueueLen() int { return len(g.queue) }
func (g *Game) Stats() Stats { return g.stats }
func (g *Game) Clutter() Clutter { return g.cfg.Clutter }
func (g *Game) Invalidated() Invalidation { return g.invalid }

// ClearInvalidated returns the pending invalidation flags and resets them.
func (g *Game) ClearInvalidated() Invalidation {
	inv := g.invalid
	g.invalid = 0
	return inv
}

// SetClutter changes the pre-fill applied by the next start. It is refused
// while a game is in progress.
func (g *Game) SetClutter(c Clutter) bool {
	if g.state != Cancelled || c.Level < 0 || c.Level > MaxClutterLevel {
		return false
	}
	g.cfg.Clutter = c
	return true
}

// StartContinue starts a new game when cancelled and resumes a paused one.
func (g *Game) StartContinue() {
	switch g.state {
	case Playing:
		return
	case Cancelled:
		g.reset()
		if g.cfg.Clutter.Enabled {
			g.autoClutter()
			if g.over {
				g.emit(Event{Kind: EventGameOver})
				return
			}
		}
	}
	g.setState(Playing)
}

// Pause moves a playing game to paused.
func (g *Game) Pause() {
	if g.state == Playing {
		g.setState(Paused)
	}
}

// Cancel aborts a playing or paused game.
func (g *Game) Cancel() {
	if g.state != Cancelled {
		g.setState(Cancelled)
	}
}

// Toggle pauses a playing game and starts or resumes otherwise.
func (g *Game) Toggle() {
	if g.state == Playing {
		g.Pause()
		return
	}
	g.StartContinue()
}

// Apply dispatches a command: play-state controls take effect immediately and
// piece commands are queued for the next tick. It reports whether the command
// was accepted.
func (g *Game) Apply(cmd Command) bool {
	switch cmd {
	case StartPause:
		g.Toggle()
		return true
	case Cancel:
		if g.state == Cancelled {
			return false
		}
		g.Cancel()
		return true
	}
	return g.Enqueue(cmd)
}

// Enqueue appends a piece command to the action queue. Commands are only
// accepted while playing.
func (g *Game) Enqueue(cmd Command) bool {
	if g.state != Playing || !cmd.Queued() {
		return false
	}
	g.queue = append(g.queue, cmd)
	return true
}

// Update advances the game by dt seconds: at most one queued command is
// applied, then gravity moves the piece down once the fall delay has elapsed.
func (g *Game) Update(dt float64) {
	if g.state != Playing {
		return
	}
	g.stats.PlayTime += dt

	if len(g.queue) > 0 {
		cmd := g.queue[0]
		g.queue = g.queue[1:]
		g.perform(cmd)
		if g.state != Playing {
			return
		}
	}

	g.duration += dt
	if g.duration > g.delay {
		g.duration -= g.delay
		g.Drop(false)
	}
}

func (g *Game) perform(cmd Command) {
	switch cmd {
	case MoveLeft:
		g.Move(Left)
	case MoveRight:
		g.Move(Right)
	case SoftDrop:
		g.Drop(true)
	case HardDrop:
		g.DropDown(true)
	case RotateClockwise:
		g.Rotate(true)
	case RotateCounterclockwise:
		g.Rotate(false)
	}
}

// WillCollide reports whether p placed at (x, y) with the given orientation
// would leave the board or overlap a locked block.
func (g *Game) WillCollide(p *Piece, x, y, orientation int) bool {
	return p.Shape.First(x, y, orientation, func(cx, cy int) bool {
		return !g.board.InBounds(cx, cy) || g.board.Occupied(cx, cy)
	})
}

// Move translates the current piece by one cell. The move is rejected, and
// false returned, when the destination collides.
func (g *Game) Move(d Direction) bool {
	if g.current == nil {
		return false
	}
	x, y := g.current.X, g.current.Y
	switch d {
	case Left:
		x--
	case Right:
		x++
	case Down:
		y++
	}
	if g.WillCollide(g.current, x, y, g.current.Orientation) {
		return false
	}
	g.current.X, g.current.Y = x, y
	g.invalid |= InvalidBoard
	return true
}

// Rotate turns the current piece a quarter turn. There are no wall kicks: a
// rotation that would collide leaves the piece unchanged and returns false.
func (g *Game) Rotate(clockwise bool) bool {
	if g.current == nil {
		return false
	}
	o := g.current.Orientation + 1
	if !clockwise {
		o = g.current.Orientation + 3
	}
	o &= 3
	if g.WillCollide(g.current, g.current.X, g.current.Y, o) {
		return false
	}
	g.current.Orientation = o
	g.invalid |= InvalidBoard
	return true
}

// Drop moves the current piece one row down. When it cannot move it is locked
// into the board, complete rows are removed, the next piece spawns and Drop
// returns true. award adds the per-drop bonus on lock.
func (g *Game) Drop(award bool) bool {
	if g.current == nil {
		return false
	}
	if g.Move(Down) {
		return false
	}

	if award {
		g.addScore(g.cfg.Score.AddOnDrop(g.rows, g.score))
		if !g.quiet {
			g.stats.PlayerDrops++
		}
	}
	g.lock()
	g.removeLines()

	g.current = g.next
	g.next = g.randomPiece()
	g.queue = g.queue[:0]
	g.invalid |= InvalidBoard | InvalidUpcoming

	if g.WillCollide(g.current, g.current.X, g.current.Y, g.current.Orientation) {
		g.gameOver()
	}
	return true
}

// DropDown moves the current piece down until blocked and locks it.
func (g *Game) DropDown(award bool) {
	if g.current == nil {
		return
	}
	for g.Move(Down) {
	}
	g.Drop(award)
}

// MoveTo slides the current piece sideways until its leftmost block sits in
// column, stopping at the first blocked step. It only acts while playing.
func (g *Game) MoveTo(column int) {
	if g.current == nil || g.state != Playing {
		return
	}
	left, _ := g.current.Shape.Offset(g.current.Orientation)
	x := column - left
	if x < -left || x >= g.board.Width() {
		return
	}
	for g.current.X != x {
		d := Left
		if x > g.current.X {
			d = Right
		}
		if !g.Move(d) {
			return
		}
	}
}

// StepDownTo drops the current piece row by row until its top block reaches
// row. It stops early when the piece locks.
func (g *Game) StepDownTo(row int) {
	if g.current == nil {
		return
	}
	_, top := g.current.Shape.Offset(g.current.Orientation)
	y := row - top
	for g.state == Playing && g.current.Y < y {
		if g.Drop(true) {
			return
		}
	}
}

func (g *Game) lock() {
	c := g.current.Shape.Color
	g.current.All(func(x, y int) {
		g.board.Set(x, y, c)
	})
	if !g.quiet {
		g.stats.PiecesLocked++
	}
	g.emit(Event{Kind: EventLocked})
}

func (g *Game) removeLines() {
	n := g.board.RemoveCompleteRows()
	if n == 0 {
		return
	}
	g.setRows(g.rows + n)
	g.addScore(g.cfg.Score.AddOnRemovedLines(n, g.rows, g.score))
	if !g.quiet {
		g.stats.LinesCleared += n
	}
	g.emit(Event{Kind: EventLinesCleared, Lines: n})
}

func (g *Game) gameOver() {
	g.over = true
	g.queue = g.queue[:0]
	g.setState(Cancelled)
	g.emit(Event{Kind: EventGameOver})
}

func (g *Game) reset() {
	g.board.Clear()
	g.score = 0
	g.setRows(0)
	g.duration = 0
	g.queue = g.queue[:0]
	g.over = false

	g.current = g.next
	if g.current == nil {
		g.current = g.randomPiece()
	}
	g.next = g.randomPiece()

	g.stats.Games++
	g.invalid = InvalidAll
}

// autoClutter drops random pieces without bonus until the stack reaches the
// configured fraction of the board height.
func (g *Game) autoClutter() {
	h := g.board.Height()
	limit := g.board.Width() * h
	g.quiet = true
	defer func() { g.quiet = false }()

	for i := 0; i < limit && !g.over; i++ {
		filled := h - g.board.Topmost() - 1
		if float64(filled)/float64(h) >= g.cfg.Clutter.Level {
			return
		}
		g.DropDown(false)
	}
}

func (g *Game) randomPiece() *Piece {
	s := &g.shapes[g.rng.IntN(len(g.shapes))]
	return &Piece{
		Shape: s,
		X:     g.rng.IntN(g.board.Width() - s.Size + 1),
	}
}

func (g *Game) setRows(n int) {
	g.rows = n
	g.delay = g.cfg.Delays.For(n)
	g.invalid |= InvalidRows
}

func (g *Game) addScore(n int) {
	if n == 0 {
		return
	}
	g.score += n
	g.invalid |= InvalidScore
}

func (g *Game) setState(s State) {
	if g.state == s {
		return
	}
	g.state = s
	g.invalid |= InvalidState
	g.emit(Event{Kind: EventStateChanged})
}

func (g *Game) emit(e Event) {
	if g.quiet {
		return
	}
	e.Score, e.Rows, e.State = g.score, g.rows, g.state
	for _, l := range g.listeners {
		l(e)
	}
}
