package daemon

// Visibility is the overlay window state.
type Visibility int

const (
	Hidden Visibility = iota
	Visible
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Visible:
		return "visible"
	default:
		return "unknown"
	}
}

// AutoHide decides when the overlay goes away. Every request marks
// activity; the slow tick hides the window only if no request arrived
// since the previous tick. Not safe for concurrent use: it lives on the
// GTK main loop.
type AutoHide struct {
	state   Visibility
	pending bool
}

// NewAutoHide returns a timer in the Hidden state.
func NewAutoHide() *AutoHide {
	return &AutoHide{state: Hidden}
}

// State returns the current visibility.
func (a *AutoHide) State() Visibility { return a.state }

// Activity records a request and makes the overlay visible.
func (a *AutoHide) Activity() {
	a.state = Visible
	a.pending = true
}

// Tick is called on every slow interval. It reports whether the overlay
// should be hidden now.
func (a *AutoHide) Tick() bool {
	if a.state == Hidden {
		return false
	}
	if a.pending {
		a.pending = false
		return false
	}
	a.state = Hidden
	return true
}
