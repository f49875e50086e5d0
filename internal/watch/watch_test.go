package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chanNotifier forwards reasons from a test-controlled channel.
type chanNotifier struct {
	in  chan string
	err error
}

func (n *chanNotifier) Watch(ctx context.Context, changes chan<- string) error {
	if n.err != nil {
		return n.err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-n.in:
			send(ctx, changes, r)
		}
	}
}

// recorder collects onChange calls.
type recorder struct {
	mu      sync.Mutex
	reasons []string
}

func (r *recorder) add(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons = append(r.reasons, reason)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.reasons...)
}

func TestRunNoNotifiers(t *testing.T) {
	err := Run(context.Background(), time.Millisecond, func(string) {})
	assert.ErrorIs(t, err, ErrNoNotifiers)
}

func TestRunCoalescesBursts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := &chanNotifier{in: make(chan string)}
	rec := &recorder{}
	done := make(chan error, 1)
	go func() { done <- Run(ctx, 50*time.Millisecond, rec.add, n) }()

	n.in <- "first"
	n.in <- "second"
	n.in <- "third"

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"third"}, rec.snapshot())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRunWithoutDebounce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := &chanNotifier{in: make(chan string)}
	rec := &recorder{}
	go func() { _ = Run(ctx, 0, rec.add, n) }()

	n.in <- "a"
	n.in <- "b"
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, rec.snapshot())
}

func TestRunNotifierFailure(t *testing.T) {
	boom := errors.New("boom")
	err := Run(context.Background(), time.Millisecond, func(string) {}, &chanNotifier{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestFileWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "events.csv")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("data,evento,usuario\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan string, 8)
	w := NewFileWatcher(target)
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, changes) }()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("data,evento,usuario\n2025-01-02,entrada,A\n"), 0o644))

	select {
	case reason := <-changes:
		assert.Equal(t, "file events.csv", reason)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestFileWatcherMissingDir(t *testing.T) {
	w := NewFileWatcher(filepath.Join(t.TempDir(), "missing", "events.csv"))
	err := w.Watch(context.Background(), make(chan string))
	assert.Error(t, err)
}

func TestPGListenerRequiresChannel(t *testing.T) {
	err := NewPGListener("host=localhost dbname=x", "").Watch(context.Background(), make(chan string))
	assert.Error(t, err)
}
