package game

import (
	"fmt"
	"time"
)

// State is the phase of a Round.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Round drives one board: it spawns pieces, applies gravity and commands,
// locks pieces, clears rows and keeps the ledger. A Round is not safe for
// concurrent use; the scheduler that owns it calls every method from a single
// goroutine.
type Round struct {
	grid   *Grid
	ledger *Ledger
	rnd    Randomizer

	state   State
	piece   *Piece
	pending *Piece // hard-dropped, waiting for FinishDrop
	next    Kind
	hasNext bool

	events []Event
}

// Option configures a Round.
type Option func(*Round)

// WithRandomizer sets the source of preview kinds.
func WithRandomizer(r Randomizer) Option {
	return func(rd *Round) { rd.rnd = r }
}

// WithSize overrides the default 20x10 well.
func WithSize(rows, cols int) Option {
	return func(rd *Round) { rd.grid = NewGrid(rows, cols) }
}

// WithTopScore installs a persisted top score.
func WithTopScore(score int) Option {
	return func(rd *Round) { rd.ledger.SetTopScore(score) }
}

func NewRound(opts ...Option) *Round {
	r := &Round{
		grid:   NewGrid(BoardRows, BoardCols),
		ledger: NewLedger(),
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rnd == nil {
		r.rnd = NewUniformRandomizer(time.Now().UnixNano())
	}
	return r
}

func (r *Round) State() State  { return r.state }
func (r *Round) Grid() *Grid   { return r.grid }
func (r *Round) Piece() *Piece { return r.piece }

// Next returns the preview kind; ok is false before the first start.
func (r *Round) Next() (k Kind, ok bool) { return r.next, r.hasNext }

func (r *Round) Ledger() LedgerSnapshot { return r.ledger.Snapshot() }

func (r *Round) TopScore() int { return r.ledger.TopScore() }

func (r *Round) SetTopScore(score int) { r.ledger.SetTopScore(score) }

// Interval is the gravity period at the current speed.
func (r *Round) Interval() time.Duration {
	return time.Second / time.Duration(r.ledger.Speed())
}

// DropPending reports whether a hard-dropped piece is waiting for FinishDrop.
func (r *Round) DropPending() bool { return r.pending != nil }

// Events returns and clears the events emitted since the last call.
func (r *Round) Events() []Event {
	ev := r.events
	r.events = nil
	return ev
}

func (r *Round) emit(e Event) {
	r.events = append(r.events, e)
}

// Start begins a new round from Idle.
func (r *Round) Start() bool {
	if r.state != StateIdle {
		return false
	}
	r.ledger.NewRound()
	r.grid.Reset()
	r.piece = nil
	r.pending = nil
	if !r.hasNext {
		r.next = r.rnd.Next()
		r.hasNext = true
	}
	r.state = StateRunning
	r.spawnNext()
	return true
}

// Pause freezes a running round. A hard drop still in flight is finished
// first so nothing is left half-applied while paused.
func (r *Round) Pause() bool {
	if r.state != StateRunning {
		return false
	}
	if r.pending != nil {
		r.FinishDrop()
		if r.state != StateRunning {
			return false
		}
	}
	r.state = StatePaused
	return true
}

func (r *Round) Resume() bool {
	if r.state != StatePaused {
		return false
	}
	r.state = StateRunning
	return true
}

// Toggle starts an idle round, pauses a running one and resumes a paused one.
func (r *Round) Toggle() State {
	switch r.state {
	case StateIdle:
		r.Start()
	case StateRunning:
		r.Pause()
	case StatePaused:
		r.Resume()
	}
	return r.state
}

func (r *Round) active() bool {
	return r.state == StateRunning && r.piece != nil
}

// Tick applies one step of gravity.
func (r *Round) Tick() {
	if !r.active() {
		return
	}
	if !r.piece.MoveDown() {
		p := r.piece
		r.piece = nil
		r.lock(p)
	}
}

func (r *Round) MoveLeft() {
	if r.active() && r.piece.MoveLeft() {
		r.emit(Event{Kind: EventPieceMoved, Piece: r.piece.Kind()})
	}
}

func (r *Round) MoveRight() {
	if r.active() && r.piece.MoveRight() {
		r.emit(Event{Kind: EventPieceMoved, Piece: r.piece.Kind()})
	}
}

// MoveDown is a player soft drop: one row down, locking if the piece is
// already resting.
func (r *Round) MoveDown() {
	if !r.active() {
		return
	}
	if r.piece.MoveDown() {
		r.emit(Event{Kind: EventPieceMoved, Piece: r.piece.Kind()})
		return
	}
	p := r.piece
	r.piece = nil
	r.lock(p)
}

func (r *Round) Rotate() {
	if r.active() && r.piece.Rotate() {
		r.emit(Event{Kind: EventPieceRotated, Piece: r.piece.Kind()})
	}
}

// HardDrop moves the active piece to its resting cells and detaches it, so
// gravity ticks can no longer reach it. The lock happens in FinishDrop, which
// the scheduler calls once its drop effect is over.
func (r *Round) HardDrop() bool {
	if !r.active() {
		return false
	}
	r.piece.Drop()
	r.pending = r.piece
	r.piece = nil
	return true
}

// FinishDrop locks the piece left by HardDrop.
func (r *Round) FinishDrop() {
	if r.pending == nil || r.state == StateIdle {
		return
	}
	p := r.pending
	r.pending = nil
	r.lock(p)
}

// Drop is HardDrop immediately followed by FinishDrop.
func (r *Round) Drop() {
	if r.HardDrop() {
		r.FinishDrop()
	}
}

// ChangeSpeed cycles the speed level. It is ignored while paused.
func (r *Round) ChangeSpeed() int {
	if r.state == StatePaused {
		return r.ledger.Speed()
	}
	speed := r.ledger.ChangeSpeed()
	r.emit(Event{Kind: EventSpeedChanged, Speed: speed})
	return speed
}

func (r *Round) lock(p *Piece) {
	res := r.grid.Land(p.Cells(), p.Color())
	r.emit(Event{Kind: EventPieceLocked, Piece: p.Kind(), Cells: p.Cells()})

	if res.Count == 0 {
		r.ledger.BreakCombo()
		r.spawnNext()
		return
	}

	freed := r.grid.ClearRows(res.FullRows)
	r.emit(Event{Kind: EventRowsCleared, Rows: res.FullRows, Freed: freed})

	raised := false
	for range res.FullRows {
		if r.ledger.ClearOneRow() {
			raised = true
		}
	}
	if raised {
		r.emit(Event{Kind: EventSpeedChanged, Speed: r.ledger.Speed()})
	}
	if r.ledger.NewHigh() {
		r.emit(Event{Kind: EventTopScoreBeaten, Score: r.ledger.Score()})
	}
	r.spawnNext()
}

func (r *Round) spawnNext() {
	p, ok := Spawn(r.grid, r.next)
	if !ok {
		r.gameOver()
		return
	}
	r.piece = p
	r.next = r.rnd.Next()
	r.emit(Event{Kind: EventPieceSpawned, Piece: p.Kind()})
}

func (r *Round) gameOver() {
	r.emit(Event{Kind: EventGameOver, Score: r.ledger.Score(), Grid: r.grid.Cells()})
	r.grid.Reset()
	r.ledger.NewRound()
	r.piece = nil
	r.pending = nil
	r.state = StateIdle
}

// Snapshot copies the round state for renderers.
func (r *Round) Snapshot() Snapshot {
	s := Snapshot{
		State:  r.state,
		Rows:   r.grid.Rows(),
		Cols:   r.grid.Cols(),
		Grid:   r.grid.Cells(),
		Next:   r.next,
		Ledger: r.ledger.Snapshot(),
	}
	p := r.piece
	if p == nil {
		p = r.pending
	}
	if p != nil {
		s.HasPiece = true
		s.Piece = p.Kind()
		s.Cells = p.Cells()
		s.Ghost = p.DropTarget()
	}
	return s
}
