package messages

// PhaseMsg reports that a gesture started or ended hovering the target
type PhaseMsg struct {
	Hovering bool
}

// ContentReadyMsg carries the combined text of a finished drop
type ContentReadyMsg struct {
	Text string
}

// ReadFailedMsg reports that reading a drop failed
type ReadFailedMsg struct {
	Err error
}

// ExitMsg ends the gesture started by a paste
type ExitMsg struct {
	Gesture int
}

type ErrorMsg struct {
	Err error
}
