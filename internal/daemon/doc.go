// Package daemon runs the overlay process. It owns the socket listener,
// hands decoded requests to the GTK main loop through a queue, and hides
// the overlay after a quiet period.
package daemon
