package ipc

import (
	"errors"
	"fmt"
)

// ErrAlreadyRunning is returned by Listen when a live overlay owns the socket.
var ErrAlreadyRunning = errors.New("overlay already running")

// DeliveryError reports a request that could not be handed to the overlay,
// usually because no overlay is listening.
type DeliveryError struct {
	Path string
	Err  error
}

func (e *DeliveryError) Error() string {
	if e.NoListener() {
		return fmt.Sprintf("no overlay listening on %s (start it with 'volbrt init'): %v", e.Path, e.Err)
	}
	return fmt.Sprintf("deliver request to %s: %v", e.Path, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// NoListener reports whether the socket was missing or refused the connection.
func (e *DeliveryError) NoListener() bool {
	return isSocketMissing(e.Err) || isConnectionRefused(e.Err)
}

// ProtocolError reports an inbound payload that is not a valid request.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("malformed request: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// BindError reports a socket address that stayed unavailable after stale
// socket cleanup.
type BindError struct {
	Path string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Path, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }
