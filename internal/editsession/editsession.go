// Package editsession tracks which workout, if any, is being edited.
package editsession

// State is either Idle or Editing.
type State int

const (
	Idle State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "idle"
}

// Session is a single-slot edit state machine: Idle -> Editing(id) -> Idle.
type Session struct {
	state State
	id    string
}

// Begin enters Editing(id). When another edit was already open its ID is
// returned with replaced set so the caller can close it first.
func (s *Session) Begin(id string) (previous string, replaced bool) {
	if s.state == Editing {
		previous, replaced = s.id, true
	}
	s.state, s.id = Editing, id
	return previous, replaced
}

// Active returns the ID being edited.
func (s *Session) Active() (string, bool) {
	return s.id, s.state == Editing
}

// End returns to Idle.
func (s *Session) End() {
	s.state, s.id = Idle, ""
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}
