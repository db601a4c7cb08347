package bootstrap

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/matzehuels/skillgraph/pkg/errors"
)

// Library polling defaults.
const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultPollAttempts = 50
)

// Library is an external capability that must be loaded before rendering.
type Library interface {
	// Ready reports whether the library can be used.
	Ready() bool
	// Load starts loading the library. It may return before the library is
	// ready.
	Load(ctx context.Context) error
}

// StaticLibrary is a library whose readiness is set explicitly.
type StaticLibrary struct {
	ready atomic.Bool
}

// Available returns a library that is always ready.
func Available() *StaticLibrary {
	l := &StaticLibrary{}
	l.ready.Store(true)
	return l
}

// Ready implements Library.
func (l *StaticLibrary) Ready() bool { return l.ready.Load() }

// Load implements Library. It does nothing.
func (l *StaticLibrary) Load(context.Context) error { return nil }

// SetReady changes the readiness.
func (l *StaticLibrary) SetReady(ready bool) { l.ready.Store(ready) }

// FuncLibrary adapts functions to the Library interface. A nil LoadFunc
// loads nothing; a nil ReadyFunc is never ready.
type FuncLibrary struct {
	ReadyFunc func() bool
	LoadFunc  func(ctx context.Context) error
}

// Ready implements Library.
func (l FuncLibrary) Ready() bool { return l.ReadyFunc != nil && l.ReadyFunc() }

// Load implements Library.
func (l FuncLibrary) Load(ctx context.Context) error {
	if l.LoadFunc == nil {
		return nil
	}
	return l.LoadFunc(ctx)
}

// WaitReady loads lib and polls Ready every interval, at most attempts
// times. It returns a LIBRARY_UNAVAILABLE error when the budget runs out.
func WaitReady(ctx context.Context, lib Library, interval time.Duration, attempts int) error {
	if lib == nil {
		return errors.New(errors.ErrCodeLibraryUnavailable, "no rendering library configured")
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if attempts <= 0 {
		attempts = DefaultPollAttempts
	}
	if lib.Ready() {
		return nil
	}
	if err := lib.Load(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeLibraryUnavailable, err, "load rendering library")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range attempts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if lib.Ready() {
			return nil
		}
	}
	return errors.New(errors.ErrCodeLibraryUnavailable, "rendering library not ready after %d attempts", attempts)
}
