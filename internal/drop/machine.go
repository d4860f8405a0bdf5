package drop

import (
	"context"
	"sync"
	"time"

	"textdrop/internal/errors"
	"textdrop/internal/log"
	"textdrop/pkg/types"

	"github.com/google/uuid"
)

// Listener receives the machine's output events. Callbacks may arrive on any
// goroutine but never concurrently, and always in transition order.
type Listener interface {
	PhaseChanged(hovering bool)
	ContentReady(text string)
	ReadFailed(err error)
}

// ListenerFuncs adapts plain functions to Listener; nil fields are skipped
type ListenerFuncs struct {
	OnPhase   func(hovering bool)
	OnContent func(text string)
	OnFailure func(err error)
}

func (l ListenerFuncs) PhaseChanged(hovering bool) {
	if l.OnPhase != nil {
		l.OnPhase(hovering)
	}
}

func (l ListenerFuncs) ContentReady(text string) {
	if l.OnContent != nil {
		l.OnContent(text)
	}
}

func (l ListenerFuncs) ReadFailed(err error) {
	if l.OnFailure != nil {
		l.OnFailure(err)
	}
}

// Recorder observes the machine for metrics
type Recorder interface {
	GestureStarted()
	ItemsDropped(n int)
	ReadFinished(result string, bytes int, elapsed time.Duration)
}

// Read results reported to a Recorder
const (
	ResultOK         = "ok"
	ResultFailed     = "failed"
	ResultSuperseded = "superseded"
)

type nopRecorder struct{}

func (nopRecorder) GestureStarted()                         {}
func (nopRecorder) ItemsDropped(int)                        {}
func (nopRecorder) ReadFinished(string, int, time.Duration) {}

// Option configures a Machine
type Option func(*Machine)

// WithConcurrency bounds the number of parallel reads per drop
func WithConcurrency(n int) Option {
	return func(m *Machine) { m.limit = n }
}

// WithTimeout bounds how long the reads of one drop may take
func WithTimeout(d time.Duration) Option {
	return func(m *Machine) { m.timeout = d }
}

// WithRecorder reports gestures and reads to r
func WithRecorder(r Recorder) Option {
	return func(m *Machine) {
		if r != nil {
			m.recorder = r
		}
	}
}

// WithLogger logs through l instead of the package logger
func WithLogger(l *log.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// Adapter is the gesture surface platform drop plumbing drives
type Adapter interface {
	Enter() error
	Drop(items ...Item) error
	DropAddresses(addrs ...types.Address) error
	Exit()
}

var _ Adapter = (*Machine)(nil)

// Machine runs Transition for a single drop target and executes its effects.
// It is safe for concurrent use; adapters call Enter, Drop and Exit, reads
// complete on background goroutines.
type Machine struct {
	reader   Reader
	listener Listener
	limit    int
	timeout  time.Duration
	recorder Recorder
	logger   *log.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	reads    sync.WaitGroup
	outcomes sync.WaitGroup // queued ContentReady/ReadFailed not yet delivered

	mu       sync.Mutex
	state    State
	closed   bool
	ids      map[uint64]string
	cancels  map[uint64]context.CancelFunc
	queue    []Effect
	draining bool
}

// NewMachine creates an idle machine that reads dropped items with r and
// reports to l.
func NewMachine(r Reader, l Listener, opts ...Option) *Machine {
	if l == nil {
		l = ListenerFuncs{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Machine{
		reader:   r,
		listener: l,
		recorder: nopRecorder{},
		logger:   log.LogWithFields(log.F("component", "drop")),
		ctx:      ctx,
		cancel:   cancel,
		ids:      make(map[uint64]string),
		cancels:  make(map[uint64]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Enter starts a gesture. It fails with ErrGestureInProgress while another
// gesture is hovering.
func (m *Machine) Enter() error {
	return m.dispatch(EnterEvent{}, func(s State) error {
		if s.Hovering {
			return errors.ErrGestureInProgress
		}
		return nil
	})
}

// Drop appends items to the current gesture in the order given. It never
// waits for the items to resolve.
func (m *Machine) Drop(items ...Item) error {
	return m.dispatch(ItemsDroppedEvent{Items: items}, func(s State) error {
		if !s.Hovering {
			return errors.ErrNoGesture
		}
		return nil
	})
}

// DropAddresses appends already resolved addresses to the current gesture
func (m *Machine) DropAddresses(addrs ...types.Address) error {
	return m.Drop(ResolvedItems(addrs...)...)
}

// Exit ends the current gesture. If items were dropped their reads start in
// the background; Exit itself never blocks on them. Exit while idle is a no-op.
func (m *Machine) Exit() {
	_ = m.dispatch(ExitEvent{}, nil)
}

// State returns a snapshot of the current state
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state
	s.Pending = append([]Item(nil), m.state.Pending...)
	return s
}

// Hovering reports whether a gesture is over the target
func (m *Machine) Hovering() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Hovering
}

// Wait blocks until every read started so far has finished and its result
// has been delivered to the listener. It must not be called from a listener.
func (m *Machine) Wait() {
	m.reads.Wait()
	m.outcomes.Wait()
}

// Close cancels running reads, waits for them and rejects further gestures.
// Reads cut short by Close are not reported to the listener.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.cancel()
	m.reads.Wait()
}

// dispatch applies ev if guard accepts the current state, executes the
// resulting effects and delivers notifications.
func (m *Machine) dispatch(ev Event, guard func(State) error) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return errors.ErrTargetClosed
	}
	if guard != nil {
		if err := guard(m.state); err != nil {
			m.mu.Unlock()
			m.logger.WithError(err).Warn("drop notification rejected")
			return err
		}
	}

	next, effects := Transition(m.state, ev)
	m.trace(m.state, next, ev)
	m.state = next

	for _, e := range effects {
		switch e := e.(type) {
		case ReadContent:
			m.startRead(e)
		case CancelRead:
			if cancel, ok := m.cancels[e.Gesture]; ok {
				cancel()
				delete(m.cancels, e.Gesture)
			}
			m.logger.With(log.F("gesture", m.ids[e.Gesture])).Debug("in-flight read superseded")
		default:
			if isOutcome(e) {
				m.outcomes.Add(1)
			}
			m.queue = append(m.queue, e)
		}
	}
	m.mu.Unlock()

	m.flush()
	return nil
}

// trace keeps gesture ids and metrics in step with the transition. Caller holds mu.
func (m *Machine) trace(prev, next State, ev Event) {
	switch ev := ev.(type) {
	case EnterEvent:
		if next.Gesture != prev.Gesture {
			id := uuid.NewString()
			m.ids[next.Gesture] = id
			m.recorder.GestureStarted()
			m.logger.With(log.F("gesture", id)).Debug("drop gesture entered")
		}
	case ItemsDroppedEvent:
		if len(next.Pending) != len(prev.Pending) {
			m.recorder.ItemsDropped(len(ev.Items))
			m.logger.With(log.F("gesture", m.ids[next.Gesture]), log.F("items", len(ev.Items))).Debug("items dropped")
		}
	case ExitEvent:
		if prev.Hovering {
			m.logger.With(log.F("gesture", m.ids[prev.Gesture]), log.F("pending", len(prev.Pending))).Debug("drop gesture exited")
			if len(prev.Pending) == 0 {
				delete(m.ids, prev.Gesture)
			}
		}
	case ReadCompletedEvent:
		delete(m.ids, ev.Gesture)
	}
}

// startRead runs one ReadContent effect. Caller holds mu.
func (m *Machine) startRead(e ReadContent) {
	var ctx context.Context
	var cancel context.CancelFunc
	if m.timeout > 0 {
		ctx, cancel = context.WithTimeout(m.ctx, m.timeout)
	} else {
		ctx, cancel = context.WithCancel(m.ctx)
	}
	m.cancels[e.Gesture] = cancel
	logger := m.logger.With(log.F("gesture", m.ids[e.Gesture]), log.F("items", len(e.Items)))

	m.reads.Add(1)
	go func() {
		defer m.reads.Done()
		start := time.Now()
		text, err := Aggregate(ctx, m.reader, e.Items, m.limit)
		cancel()

		m.mu.Lock()
		delete(m.cancels, e.Gesture)
		closed := m.closed
		stale := closed || m.state.InFlight != e.Gesture
		m.mu.Unlock()

		switch {
		case stale:
			m.recorder.ReadFinished(ResultSuperseded, 0, time.Since(start))
			logger.Debug("discarding superseded read")
		case err != nil:
			m.recorder.ReadFinished(ResultFailed, 0, time.Since(start))
			logger.WithError(err).Debug("drop read failed")
		default:
			m.recorder.ReadFinished(ResultOK, len(text), time.Since(start))
			logger.With(log.F("bytes", len(text))).Debug("drop read complete")
		}

		if closed {
			return
		}
		_ = m.dispatch(ReadCompletedEvent{Gesture: e.Gesture, Text: text, Err: err}, nil)
	}()
}

// flush delivers queued notifications in order. Only one goroutine drains at
// a time; listeners may call back into the machine.
func (m *Machine) flush() {
	m.mu.Lock()
	if m.draining {
		m.mu.Unlock()
		return
	}
	m.draining = true
	for len(m.queue) > 0 {
		e := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		m.deliver(e)
		if isOutcome(e) {
			m.outcomes.Done()
		}
		m.mu.Lock()
	}
	m.draining = false
	m.mu.Unlock()
}

func (m *Machine) deliver(e Effect) {
	switch e := e.(type) {
	case PhaseChanged:
		m.listener.PhaseChanged(e.Hovering)
	case ContentReady:
		m.listener.ContentReady(e.Text)
	case ReadFailed:
		m.listener.ReadFailed(e.Err)
	}
}

// isOutcome reports whether e carries the result of a read
func isOutcome(e Effect) bool {
	switch e.(type) {
	case ContentReady, ReadFailed:
		return true
	}
	return false
}
