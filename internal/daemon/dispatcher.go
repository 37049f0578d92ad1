package daemon

import (
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/volbrt/internal/model"
)

// View renders the overlay.
type View interface {
	Show(req model.Request)
	Hide()
}

// Feedback reacts to rendered requests, e.g. by playing a sound.
type Feedback interface {
	OnRequest(req model.Request)
}

// Dispatcher moves requests from the queue to the view. Poll and Tick
// must be called from the GTK main loop.
type Dispatcher struct {
	queue    *Queue
	hide     *AutoHide
	view     View
	feedback Feedback
	logger   *slog.Logger

	last model.Request
}

// NewDispatcher creates a dispatcher. feedback may be nil.
func NewDispatcher(queue *Queue, view View, feedback Feedback, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		queue:    queue,
		hide:     NewAutoHide(),
		view:     view,
		feedback: feedback,
		logger:   logger,
	}
}

// State returns the overlay visibility.
func (d *Dispatcher) State() Visibility { return d.hide.State() }

// Poll drains the queue without blocking. Every request counts as
// activity, but only the newest one in the backlog is rendered, and a
// request older than the one already on screen is skipped.
func (d *Dispatcher) Poll() {
	batch := d.queue.Drain()
	if len(batch) == 0 {
		return
	}

	var (
		render model.Request
		found  bool
	)
	for _, req := range batch {
		d.hide.Activity()

		if d.isStale(req) {
			d.logger.Debug("skipping stale request", "id", req.ID, "last", d.last.ID)
			continue
		}
		render = req
		found = true
		d.last = req
	}

	if !found {
		return
	}

	d.view.Show(render)
	if d.feedback != nil {
		d.feedback.OnRequest(render)
	}
}

// Tick runs on the slow interval and hides the overlay after a quiet period.
func (d *Dispatcher) Tick() {
	if d.hide.Tick() {
		d.logger.Debug("hiding overlay")
		d.view.Hide()
	}
}

func (d *Dispatcher) isStale(req model.Request) bool {
	if req.ID == (ulid.ULID{}) {
		return false
	}
	return d.last.NewerThan(req)
}
