// Package bridge keeps a remote location fragment, such as the one shown in
// a browser address bar, in step with the navigator.
//
// Fragments received from the remote side are navigated to; every location
// the navigator publishes is pushed back. A location is never echoed back to
// the side it came from.
package bridge

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/specialistvlad/viewparams/internal/ctxlog"
	"github.com/specialistvlad/viewparams/internal/navigator"
)

// Transport carries fragments between the remote side and the bridge.
type Transport interface {
	// OnFragment registers fn for every fragment the remote side reports.
	OnFragment(fn func(fragment string))
	// PushLocation sends a location to the remote side.
	PushLocation(loc string) error
	Close() error
}

// Bridge connects a Transport to a navigator.
type Bridge struct {
	logger    *slog.Logger
	transport Transport
	nav       *navigator.Navigator
	lock      sync.Locker

	// last is the location most recently exchanged with the remote side.
	last string
}

// New wires t to nav. Navigation triggered by a remote fragment runs with
// lock held; the caller must hold the same lock around its own navigator
// calls.
func New(ctx context.Context, t Transport, nav *navigator.Navigator, lock sync.Locker) *Bridge {
	b := &Bridge{
		logger:    ctxlog.FromContext(ctx).With("component", "bridge"),
		transport: t,
		nav:       nav,
		lock:      lock,
	}
	nav.OnLocationChange(b.push)
	t.OnFragment(b.receive)
	return b
}

// Sync pushes the displayed location to the remote side.
func (b *Bridge) Sync() {
	b.lock.Lock()
	defer b.lock.Unlock()

	loc := b.nav.Location()
	if loc == "" {
		return
	}
	b.last = ""
	b.push(loc)
}

// Close closes the transport.
func (b *Bridge) Close() error {
	return b.transport.Close()
}

func (b *Bridge) receive(fragment string) {
	b.lock.Lock()
	defer b.lock.Unlock()

	loc := strings.TrimPrefix(strings.TrimPrefix(fragment, "#"), "!")
	if loc == b.nav.Location() {
		b.logger.Debug("Ignoring fragment for the displayed location.", "location", loc)
		return
	}
	b.logger.Debug("Navigating to remote fragment.", "location", loc)
	b.last = loc
	if err := b.nav.NavigateTo(loc); err != nil {
		b.logger.Warn("Remote navigation failed.", "location", loc, "error", err)
	}
}

// push runs inside the navigator's publish, so the lock is already held.
func (b *Bridge) push(loc string) {
	if loc == b.last {
		return
	}
	b.last = loc
	if err := b.transport.PushLocation(loc); err != nil {
		b.logger.Warn("Failed to push location.", "location", loc, "error", err)
		return
	}
	b.logger.Debug("Pushed location.", "location", loc)
}
