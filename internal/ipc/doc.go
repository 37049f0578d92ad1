// Package ipc carries display requests from the CLI to the overlay over a
// unix socket. Each connection holds exactly one CBOR-encoded request and
// nothing is sent back: delivery is fire-and-forget.
package ipc
