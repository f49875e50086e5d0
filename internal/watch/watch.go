// Package watch turns file changes and database notifications into refresh calls.
package watch

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrNoNotifiers is returned by Run when it has nothing to listen to.
var ErrNoNotifiers = errors.New("nothing to watch")

// Notifier reports changes of an input until its context ends.
type Notifier interface {
	// Watch sends a short reason on changes for every change it observes.
	// It returns nil when ctx is cancelled.
	Watch(ctx context.Context, changes chan<- string) error
}

// Run starts every notifier and calls onChange after each burst of changes has
// been quiet for the debounce window. Calls to onChange never overlap.
// Run blocks until ctx ends or a notifier fails.
func Run(ctx context.Context, debounce time.Duration, onChange func(reason string), notifiers ...Notifier) error {
	if len(notifiers) == 0 {
		return ErrNoNotifiers
	}

	changes := make(chan string, 16)
	g, gctx := errgroup.WithContext(ctx)
	for _, n := range notifiers {
		g.Go(func() error {
			return n.Watch(gctx, changes)
		})
	}
	g.Go(func() error {
		debounceLoop(gctx, debounce, changes, onChange)
		return nil
	})
	return g.Wait()
}

// debounceLoop coalesces changes and reports the latest reason once the
// window has elapsed without further changes. A non-positive window reports
// every change immediately.
func debounceLoop(ctx context.Context, window time.Duration, changes <-chan string, onChange func(string)) {
	var timer *time.Timer
	var fire <-chan time.Time
	var pending string
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case reason := <-changes:
			if window <= 0 {
				onChange(reason)
				continue
			}
			pending = reason
			if timer == nil {
				timer = time.NewTimer(window)
			} else {
				timer.Reset(window)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onChange(pending)
		}
	}
}

// send delivers a reason unless ctx ends first.
func send(ctx context.Context, changes chan<- string, reason string) {
	select {
	case changes <- reason:
	case <-ctx.Done():
	}
}
