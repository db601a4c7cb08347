package bootstrap

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skillgraph/pkg/errors"
	"github.com/matzehuels/skillgraph/pkg/hierarchy"
	"github.com/matzehuels/skillgraph/pkg/layout"
	"github.com/matzehuels/skillgraph/pkg/navigate"
	"github.com/matzehuels/skillgraph/pkg/observability"
	"github.com/matzehuels/skillgraph/pkg/present"
)

// Relayout defaults.
const (
	DefaultRelayoutDelay      = 60 * time.Millisecond
	DefaultMaxRelayoutRetries = 5
)

// Status describes what the controller can currently show.
type Status int

// Controller statuses.
const (
	StatusLoading Status = iota
	StatusReady
	StatusUnavailable
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusUnavailable:
		return "unavailable"
	case StatusFailed:
		return "failed"
	default:
		return "loading"
	}
}

// LoadFunc produces a fresh forest.
type LoadFunc func(ctx context.Context) (hierarchy.Forest, error)

// Frame is the outcome of one render pass or status change.
type Frame struct {
	Status Status
	State  navigate.State
	Result *layout.Result
	Scene  *present.Scene

	// Retry is the outer retry index of this pass, 0 for a fresh trigger.
	Retry          int
	RetryScheduled bool
	// Exhausted is set on the last degraded pass once retries ran out.
	Exhausted      bool

	Err error
}

// Config configures a Controller.
type Config struct {
	Source  hierarchy.Kind
	Solver  *layout.Solver
	Layout  layout.Options
	Library Library

	PollInterval time.Duration
	PollAttempts int

	RelayoutDelay      time.Duration
	MaxRelayoutRetries int

	// OnFrame is called on the event loop after every pass. It must not
	// block or call back into the controller synchronously.
	OnFrame func(Frame)

	Logger *log.Logger
}

func (c *Config) setDefaults() {
	if c.Source == "" {
		c.Source = hierarchy.KindSkill
	}
	if c.Solver == nil {
		c.Solver = layout.NewSolver(nil, c.Logger)
	}
	if c.Library == nil {
		c.Library = Available()
	}
	if c.RelayoutDelay <= 0 {
		c.RelayoutDelay = DefaultRelayoutDelay
	}
	if c.MaxRelayoutRetries < 0 {
		c.MaxRelayoutRetries = 0
	} else if c.MaxRelayoutRetries == 0 {
		c.MaxRelayoutRetries = DefaultMaxRelayoutRetries
	}
	if c.OnFrame == nil {
		c.OnFrame = func(Frame) {}
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	c.Layout.SetDefaults()
}

// Controller serializes loads, navigation and relayout on one goroutine.
type Controller struct {
	cfg    Config
	logger *log.Logger

	events    chan func()
	done      chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	startOnce sync.Once
	closeOnce sync.Once

	mu   sync.Mutex
	last Frame

	// Owned by the event loop.
	nav        *navigate.Navigator
	source     hierarchy.Kind
	status     Status
	libReady   bool
	gen        int
	retry      int
	retryToken int
	timer      *time.Timer
	closed     bool
}

// New creates a controller. Call Start to run it.
func New(cfg Config) *Controller {
	cfg.setDefaults()
	return &Controller{
		cfg:    cfg,
		logger: cfg.Logger,
		events: make(chan func(), 64),
		done:   make(chan struct{}),
		source: cfg.Source,
	}
}

// Start runs the event loop, begins polling the library and starts the first
// load. It returns immediately.
func (c *Controller) Start(ctx context.Context, load LoadFunc) {
	c.startOnce.Do(func() {
		select {
		case <-c.done:
			return
		default:
		}
		c.ctx, c.cancel = context.WithCancel(ctx)
		go c.run()
		go c.pollLibrary()
		c.Reload(load)
	})
}

// Close tears the controller down and waits for the loop to exit.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		if c.cancel == nil {
			close(c.done)
			return
		}
		c.cancel()
		<-c.done
	})
}

// Done is closed once the controller has shut down.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Snapshot returns the most recent frame.
func (c *Controller) Snapshot() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Reload starts a new load. Results of earlier loads still in flight are
// dropped.
func (c *Controller) Reload(load LoadFunc) {
	c.post(func() {
		c.gen++
		gen := c.gen
		c.status = StatusLoading
		ctx := c.ctx
		go func() {
			start := time.Now()
			forest, err := load(ctx)
			c.logger.Debug("load finished", "generation", gen, "elapsed", time.Since(start), "error", err)
			c.post(func() { c.applyLoad(gen, forest, err) })
		}()
	})
}

// Click forwards a region click, by view path, to the navigator.
func (c *Controller) Click(path ...string) {
	c.post(func() {
		if c.nav != nil && c.nav.ClickPath(path...) {
			c.relayout()
		}
	})
}

// Background forwards a background click to the navigator.
func (c *Controller) Background() {
	c.post(func() {
		if c.nav != nil && c.nav.Background() {
			c.relayout()
		}
	})
}

// SetSource switches the hierarchy source.
func (c *Controller) SetSource(kind hierarchy.Kind) {
	c.post(func() {
		c.source = kind
		if c.nav == nil {
			return
		}
		if err := c.nav.SetSource(kind); err != nil {
			c.emit(Frame{Status: c.status, State: c.nav.State(), Err: err})
			return
		}
		c.relayout()
	})
}

func (c *Controller) post(fn func()) {
	select {
	case c.events <- fn:
	case <-c.done:
	}
}

func (c *Controller) run() {
	defer close(c.done)
	for {
		select {
		case <-c.ctx.Done():
			c.teardown()
			return
		case fn := <-c.events:
			fn()
		}
	}
}

func (c *Controller) teardown() {
	c.closed = true
	c.stopRetry()
	c.logger.Debug("controller stopped", "generation", c.gen)
}

func (c *Controller) pollLibrary() {
	err := WaitReady(c.ctx, c.cfg.Library, c.cfg.PollInterval, c.cfg.PollAttempts)
	c.post(func() {
		if c.closed || c.ctx.Err() != nil {
			return
		}
		if err != nil {
			c.logger.Error("rendering library unavailable", "error", err)
			c.status = StatusUnavailable
			c.emit(Frame{Status: StatusUnavailable, State: c.state(), Err: err})
			return
		}
		c.libReady = true
		c.relayout()
	})
}

func (c *Controller) applyLoad(gen int, forest hierarchy.Forest, err error) {
	if c.closed || gen != c.gen {
		c.logger.Debug("discarding stale load", "generation", gen, "current", c.gen)
		return
	}
	if err != nil {
		c.logger.Error("data load failed", "error", err)
		c.status = StatusFailed
		if !errors.Is(err, errors.ErrCodeDataFetch) {
			err = errors.Wrap(errors.ErrCodeDataFetch, err, "load hierarchy data")
		}
		c.emit(Frame{Status: StatusFailed, State: c.state(), Err: err})
		return
	}
	if c.nav == nil {
		c.nav = navigate.New(forest, c.source)
	} else {
		c.nav.SetForest(forest)
	}
	if c.status != StatusUnavailable {
		c.status = StatusLoading
	}
	c.relayout()
}

func (c *Controller) state() navigate.State {
	if c.nav == nil {
		return navigate.State{Mode: navigate.World, Source: c.source}
	}
	return c.nav.State()
}

// relayout handles a fresh trigger: any pending retry is dropped.
func (c *Controller) relayout() {
	c.stopRetry()
	c.retry = 0
	c.render()
}

func (c *Controller) render() {
	if !c.libReady || c.nav == nil || c.status == StatusUnavailable {
		return
	}

	opts := c.cfg.Layout
	// Solve keeps its seed across attempts; a retry pass starts from a new one.
	opts.Tessellation.Seed += int64(c.retry)

	res, err := c.cfg.Solver.Solve(c.ctx, c.nav.View(), opts)
	if err != nil {
		if c.ctx.Err() != nil {
			return
		}
		c.emit(Frame{Status: StatusFailed, State: c.nav.State(), Retry: c.retry, Err: err})
		return
	}

	c.status = StatusReady
	scene := present.Build(res)
	f := Frame{
		Status: StatusReady,
		State:  c.nav.State(),
		Result: res,
		Scene:  &scene,
		Retry:  c.retry,
	}
	if res.Degraded {
		if c.retry < c.cfg.MaxRelayoutRetries {
			c.retry++
			c.scheduleRetry()
			f.RetryScheduled = true
			observability.Layout().OnRelayout(c.ctx, c.retry, false)
		} else {
			f.Exhausted = true
			f.Err = errors.New(errors.ErrCodeDegradedLayout, "layout still degraded after %d relayout retries", c.retry)
			observability.Layout().OnRelayout(c.ctx, c.retry, true)
			c.logger.Warn("degraded layout", "retries", c.retry, "isolated", res.IsolatedNames())
		}
	}
	c.emit(f)
}

func (c *Controller) scheduleRetry() {
	token := c.retryToken
	c.timer = time.AfterFunc(c.cfg.RelayoutDelay, func() {
		c.post(func() {
			if c.closed || token != c.retryToken {
				return
			}
			c.timer = nil
			c.render()
		})
	})
}

func (c *Controller) stopRetry() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.retryToken++
}

func (c *Controller) emit(f Frame) {
	c.mu.Lock()
	c.last = f
	c.mu.Unlock()
	c.cfg.OnFrame(f)
}
