package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/jmylchreest/volbrt/internal/model"
)

// Send delivers one request to the overlay listening on path and closes
// the connection. There is no acknowledgement and no retry.
func Send(ctx context.Context, path string, req model.Request) error {
	payload, err := Encode(req)
	if err != nil {
		return err
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return &DeliveryError{Path: path, Err: err}
	}
	defer conn.Close()

	if _, err := conn.Write(payload); err != nil {
		return &DeliveryError{Path: path, Err: fmt.Errorf("write request: %w", err)}
	}
	// Half-close so the overlay sees end-of-stream.
	if uc, ok := conn.(*net.UnixConn); ok {
		if err := uc.CloseWrite(); err != nil {
			return &DeliveryError{Path: path, Err: fmt.Errorf("close request: %w", err)}
		}
	}
	return nil
}

// Probe checks whether an overlay is currently listening on path.
// It connects and disconnects without sending a request.
func Probe(ctx context.Context, path string, timeout time.Duration) (bool, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err == nil {
		_ = conn.Close()
		return true, nil
	}
	if isSocketMissing(err) || isConnectionRefused(err) {
		return false, nil
	}
	return false, fmt.Errorf("probe socket: %w", err)
}

// isSocketMissing reports absent-socket failures.
func isSocketMissing(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrNotExist)
}

// isConnectionRefused reports no-listener failures.
func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}
