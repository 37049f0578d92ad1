package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jmylchreest/volbrt/internal/model"
)

// Timeouts applied by the overlay side.
const (
	ProbeTimeout = 200 * time.Millisecond
	ReadTimeout  = time.Second

	acceptRetryMin = 5 * time.Millisecond
	acceptRetryMax = time.Second
)

// Sink receives decoded requests. Push must not block.
type Sink interface {
	Push(model.Request)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(model.Request)

func (f SinkFunc) Push(req model.Request) { f(req) }

// Listen binds the overlay socket at path. If the address is taken it
// probes the existing socket: a live owner yields ErrAlreadyRunning, a
// stale file is removed and the bind retried once.
func Listen(ctx context.Context, path string) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, &BindError{Path: path, Err: fmt.Errorf("ensure socket dir: %w", err)}
	}

	listener, err := net.Listen("unix", path)
	if err == nil {
		_ = os.Chmod(path, 0o600)
		return listener, nil
	}
	if !isAddrInUse(err) {
		return nil, &BindError{Path: path, Err: err}
	}

	alive, probeErr := Probe(ctx, path, ProbeTimeout)
	if alive {
		return nil, ErrAlreadyRunning
	}
	if probeErr != nil {
		return nil, &BindError{Path: path, Err: probeErr}
	}

	if removeErr := os.Remove(path); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		return nil, &BindError{Path: path, Err: fmt.Errorf("remove stale socket: %w", removeErr)}
	}

	listener, err = net.Listen("unix", path)
	if err != nil {
		return nil, &BindError{Path: path, Err: err}
	}
	_ = os.Chmod(path, 0o600)
	return listener, nil
}

// Serve accepts connections one at a time until ctx is cancelled or the
// listener is closed. Each connection is read to end-of-stream, decoded and
// pushed to sink. Malformed payloads are logged and dropped. Other accept
// failures, such as running out of file descriptors, are logged and retried
// with a growing delay.
func Serve(ctx context.Context, listener net.Listener, sink Sink, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	var retry time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}

			if retry == 0 {
				retry = acceptRetryMin
			} else {
				retry = min(retry*2, acceptRetryMax)
			}
			logger.Warn("accept failed, retrying", "error", err, "delay", retry)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(retry):
			}
			continue
		}
		retry = 0

		payload, err := readRequest(conn)
		_ = conn.Close()
		if err != nil {
			logger.Warn("failed to read request", "error", err)
			continue
		}

		// Probe connections close without sending anything.
		if len(payload) == 0 {
			logger.Debug("probe connection")
			continue
		}

		req, err := Decode(payload)
		if err != nil {
			logger.Warn("dropping request", "error", err, "bytes", len(payload))
			continue
		}

		logger.Debug("received request", "id", req.ID, "request", req.String())
		sink.Push(req)
	}
}

func readRequest(conn net.Conn) ([]byte, error) {
	if err := conn.SetReadDeadline(time.Now().Add(ReadTimeout)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	payload, err := io.ReadAll(io.LimitReader(conn, MaxMessageSize+1))
	if err != nil {
		return nil, err
	}
	if len(payload) > MaxMessageSize {
		return nil, &ProtocolError{Err: fmt.Errorf("payload exceeds %d bytes", MaxMessageSize)}
	}
	return payload, nil
}

func isAddrInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE)
}
