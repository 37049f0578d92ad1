package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SocketEnv overrides the overlay socket path when set.
const SocketEnv = "VOLBRT_SOCKET"

// SocketPath resolves the overlay socket path once at process start.
// Resolution order: explicit value, $VOLBRT_SOCKET, $XDG_RUNTIME_DIR/volbrt.sock,
// then /tmp/volbrt-<uid>.sock. Debug builds get a "-debug" suffix so a
// development overlay can run next to an installed one.
func SocketPath(explicit string, debug bool) string {
	if explicit != "" {
		return explicit
	}
	if env := strings.TrimSpace(os.Getenv(SocketEnv)); env != "" {
		return env
	}

	name := appName
	if debug {
		name += "-debug"
	}

	if runtimeDir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")); runtimeDir != "" {
		return filepath.Join(runtimeDir, name+".sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d.sock", name, os.Getuid()))
}
