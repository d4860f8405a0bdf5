// Package drop implements the drop-target state machine: an adapter reports
// enter, dropped items and exit; on exit the pending items are read, joined in
// drop order and handed to the host as one piece of text.
//
// Transition is a pure function over State. Machine owns a State, runs
// Transition for every adapter notification and executes the resulting effects.
package drop

// Separator joins the contents of the files in one drop
const Separator = "\n"

// State is the full state of one drop target.
type State struct {
	// Hovering is true between enter and exit.
	Hovering bool
	// Pending holds the items dropped during the current gesture, in arrival order.
	Pending []Item
	// Gesture numbers gestures; it increases on every accepted enter.
	Gesture uint64
	// InFlight is the gesture whose read is still running, zero if none.
	InFlight uint64
}

// Idle reports whether no gesture is hovering the target
func (s State) Idle() bool {
	return !s.Hovering
}

// Event is an input to Transition
type Event interface {
	event()
}

// EnterEvent: a drag carrying an accepted type started hovering the target.
type EnterEvent struct{}

// ItemsDroppedEvent: the user released the drag over the target.
type ItemsDroppedEvent struct {
	Items []Item
}

// ExitEvent: the drag left the target or completed.
type ExitEvent struct{}

// ReadCompletedEvent reports the outcome of a ReadContent effect.
type ReadCompletedEvent struct {
	Gesture uint64
	Text    string
	Err     error
}

func (EnterEvent) event()         {}
func (ItemsDroppedEvent) event()  {}
func (ExitEvent) event()          {}
func (ReadCompletedEvent) event() {}

// Effect is an instruction produced by Transition for the executor
type Effect interface {
	effect()
}

// PhaseChanged tells the view the hovering flag changed
type PhaseChanged struct {
	Hovering bool
}

// ReadContent asks the executor to read and join Items for Gesture
type ReadContent struct {
	Gesture uint64
	Items   []Item
}

// CancelRead asks the executor to abandon the read for Gesture
type CancelRead struct {
	Gesture uint64
}

// ContentReady carries the combined text of a completed drop
type ContentReady struct {
	Gesture uint64
	Text    string
}

// ReadFailed reports that a completed drop could not be read
type ReadFailed struct {
	Gesture uint64
	Err     error
}

func (PhaseChanged) effect() {}
func (ReadContent) effect()  {}
func (CancelRead) effect()   {}
func (ContentReady) effect() {}
func (ReadFailed) effect()   {}

// Transition computes the next state and the effects of ev. It never mutates s.
//
// Notifications that do not fit the lifecycle (enter while hovering, a drop
// while idle, exit while idle) leave the state unchanged and produce no effects.
func Transition(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case EnterEvent:
		if s.Hovering {
			return s, nil
		}
		var effects []Effect
		// A new gesture supersedes any read still running for the previous one.
		if s.InFlight != 0 {
			effects = append(effects, CancelRead{Gesture: s.InFlight})
			s.InFlight = 0
		}
		s.Hovering = true
		s.Gesture++
		s.Pending = nil
		return s, append(effects, PhaseChanged{Hovering: true})

	case ItemsDroppedEvent:
		if !s.Hovering || len(ev.Items) == 0 {
			return s, nil
		}
		pending := make([]Item, 0, len(s.Pending)+len(ev.Items))
		pending = append(pending, s.Pending...)
		s.Pending = append(pending, ev.Items...)
		return s, nil

	case ExitEvent:
		if !s.Hovering {
			return s, nil
		}
		s.Hovering = false
		effects := []Effect{PhaseChanged{Hovering: false}}
		if len(s.Pending) == 0 {
			return s, effects
		}
		effects = append(effects, ReadContent{Gesture: s.Gesture, Items: s.Pending})
		s.Pending = nil
		s.InFlight = s.Gesture
		return s, effects

	case ReadCompletedEvent:
		if ev.Gesture == 0 || ev.Gesture != s.InFlight {
			return s, nil
		}
		s.InFlight = 0
		if ev.Err != nil {
			return s, []Effect{ReadFailed{Gesture: ev.Gesture, Err: ev.Err}}
		}
		return s, []Effect{ContentReady{Gesture: ev.Gesture, Text: ev.Text}}
	}

	return s, nil
}
