package server

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hersh/gotris/internal/game"
	"github.com/hersh/gotris/internal/input"
	"github.com/hersh/gotris/internal/protocol"
	"github.com/hersh/gotris/internal/store"
)

// DefaultDropDelay is how long a hard-dropped piece is shown at rest before it
// locks.
const DefaultDropDelay = 160 * time.Millisecond

// Options configures the sessions a Registry opens.
type Options struct {
	Scores         store.TopScores
	NewRandomizer  func() game.Randomizer
	DropDelay      time.Duration
	RepeatDelay    time.Duration
	RepeatInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.NewRandomizer == nil {
		o.NewRandomizer = func() game.Randomizer { return game.NewUniformRandomizer(time.Now().UnixNano()) }
	}
	if o.DropDelay == 0 {
		o.DropDelay = DefaultDropDelay
	}
	if o.RepeatDelay == 0 {
		o.RepeatDelay = input.DefaultDelay
	}
	if o.RepeatInterval == 0 {
		o.RepeatInterval = input.DefaultInterval
	}
	return o
}

// Frame is one outgoing websocket message.
type Frame struct {
	Type int // websocket.TextMessage or websocket.BinaryMessage
	Data []byte
}

// Session owns one Round for one connection. Every Round call happens on the
// goroutine running Run; other goroutines talk to it through channels.
type Session struct {
	id     uint64
	opts   Options
	round  *game.Round
	loaded int

	inbox   chan protocol.CommandPayload
	repeats chan protocol.Command
	out     chan Frame
	done    chan struct{}
	once    sync.Once

	rep *input.Repeater

	gravity   *time.Ticker
	gravityOn bool
	interval  time.Duration
	dropC     <-chan time.Time
}

func newSession(id uint64, opts Options) *Session {
	opts = opts.withDefaults()
	s := &Session{
		id:      id,
		opts:    opts,
		inbox:   make(chan protocol.CommandPayload, 64),
		repeats: make(chan protocol.Command, 16),
		out:     make(chan Frame, 256),
		done:    make(chan struct{}),
	}
	if opts.Scores != nil {
		s.loaded = store.LoadOrZero(opts.Scores)
	}
	s.round = game.NewRound(
		game.WithRandomizer(opts.NewRandomizer()),
		game.WithTopScore(s.loaded),
	)
	s.rep = input.NewRepeater(opts.RepeatDelay, opts.RepeatInterval, func(action string) {
		select {
		case s.repeats <- protocol.Command(action):
		default:
		}
	})
	return s
}

func (s *Session) ID() uint64 { return s.id }

// Out carries the frames to write to the client.
func (s *Session) Out() <-chan Frame { return s.out }

func (s *Session) Done() <-chan struct{} { return s.done }

// Close stops Run. It is safe to call more than once.
func (s *Session) Close() {
	s.once.Do(func() { close(s.done) })
}

// HandleMessage decodes one text frame from the client and queues its
// command. Malformed messages are answered with an error frame.
func (s *Session) HandleMessage(raw []byte) error {
	in, err := protocol.Decode(raw)
	if err != nil {
		s.sendError(err)
		return err
	}
	if in.Type != protocol.MsgCommand {
		err := fmt.Errorf("unexpected message type %q", in.Type)
		s.sendError(err)
		return err
	}
	var cmd protocol.CommandPayload
	if err := in.Decode(&cmd); err != nil {
		s.sendError(err)
		return err
	}
	if err := cmd.Validate(); err != nil {
		s.sendError(err)
		return err
	}
	select {
	case s.inbox <- cmd:
	case <-s.done:
	}
	return nil
}

// Run drives the round until Close is called.
func (s *Session) Run() {
	s.gravity = time.NewTicker(time.Hour)
	s.gravity.Stop()
	defer func() {
		s.gravity.Stop()
		s.rep.ReleaseAll()
		s.saveTopScore()
	}()

	s.sendJSON(protocol.Envelope{
		Type:    protocol.MsgAssignID,
		Payload: protocol.AssignIDPayload{SessionID: s.id},
	})
	s.flush()

	for {
		var gravityC <-chan time.Time
		if s.gravityOn {
			gravityC = s.gravity.C
		}

		select {
		case <-s.done:
			return
		case cmd := <-s.inbox:
			s.apply(cmd)
		case cmd := <-s.repeats:
			s.exec(cmd)
		case <-gravityC:
			s.round.Tick()
		case <-s.dropC:
			s.dropC = nil
			s.round.FinishDrop()
		}
		s.flush()
	}
}

func (s *Session) apply(cmd protocol.CommandPayload) {
	if cmd.Command.Repeats() {
		switch cmd.Key {
		case protocol.KeyPress:
			s.rep.Press(string(cmd.Command))
		case protocol.KeyRelease:
			s.rep.Release(string(cmd.Command))
		default:
			s.exec(cmd.Command)
		}
		return
	}
	if cmd.Key != protocol.KeyRelease {
		s.exec(cmd.Command)
	}
}

func (s *Session) exec(cmd protocol.Command) {
	switch cmd {
	case protocol.CmdStart:
		s.round.Start()
	case protocol.CmdPause:
		s.round.Pause()
	case protocol.CmdResume:
		s.round.Resume()
	case protocol.CmdToggle:
		s.round.Toggle()
	case protocol.CmdMoveLeft:
		s.round.MoveLeft()
	case protocol.CmdMoveRight:
		s.round.MoveRight()
	case protocol.CmdMoveDown:
		s.round.MoveDown()
	case protocol.CmdRotate:
		s.round.Rotate()
	case protocol.CmdHardDrop:
		if s.round.HardDrop() {
			s.dropC = time.After(s.opts.DropDelay)
		}
	case protocol.CmdChangeSpeed:
		s.round.ChangeSpeed()
	}
}

// flush publishes pending events and a fresh snapshot, then brings the
// gravity timer in line with the round.
func (s *Session) flush() {
	for _, e := range s.round.Events() {
		s.sendJSON(protocol.Envelope{Type: protocol.MsgEvent, Payload: protocol.NewEventPayload(e)})
		if e.Kind == game.EventGameOver {
			s.rep.ReleaseAll()
			s.saveTopScore()
		}
	}
	if !s.round.DropPending() {
		s.dropC = nil
	}

	data, err := protocol.EncodeSnapshot(s.round.Snapshot())
	if err != nil {
		log.Printf("session %d: %v", s.id, err)
	} else {
		s.send(Frame{Type: websocket.BinaryMessage, Data: data})
	}

	s.syncGravity()
}

func (s *Session) syncGravity() {
	want := s.round.State() == game.StateRunning &&
		!s.round.DropPending() &&
		!s.rep.Held(string(protocol.CmdMoveDown))
	interval := s.round.Interval()

	switch {
	case want && (!s.gravityOn || interval != s.interval):
		s.gravity.Reset(interval)
		s.gravityOn = true
		s.interval = interval
	case !want && s.gravityOn:
		s.gravity.Stop()
		s.gravityOn = false
	}
}

func (s *Session) saveTopScore() {
	top := s.round.TopScore()
	if s.opts.Scores == nil || top <= s.loaded {
		return
	}
	store.SaveIfHigher(s.opts.Scores, top)
	s.loaded = top
}

func (s *Session) sendError(err error) {
	s.sendJSON(protocol.Envelope{Type: protocol.MsgError, Payload: protocol.ErrorPayload{Message: err.Error()}})
}

func (s *Session) sendJSON(env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("marshal error for session %d: %v", s.id, err)
		return
	}
	s.send(Frame{Type: websocket.TextMessage, Data: data})
}

func (s *Session) send(f Frame) {
	select {
	case s.out <- f:
	default:
		log.Printf("send channel full for session %d, dropping message", s.id)
	}
}
