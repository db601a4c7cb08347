package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type countingLayout struct {
	NoopLayoutHooks
	attempts int
}

func (c *countingLayout) OnSolveAttempt(context.Context, int, int, error) { c.attempts++ }

func TestRegistryDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Fetch().(NoopFetchHooks); !ok {
		t.Errorf("Fetch() = %T, want no-op", Fetch())
	}
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Errorf("Layout() = %T, want no-op", Layout())
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Errorf("Render() = %T, want no-op", Render())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want no-op", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want no-op", HTTP())
	}
}

func TestRegisterKeepsUnsetCategories(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	layout := &countingLayout{}
	Register(Hooks{Layout: layout})
	Register(Hooks{})

	Layout().OnSolveAttempt(context.Background(), 1, 0, nil)
	if layout.attempts != 1 {
		t.Errorf("attempts = %d, want 1", layout.attempts)
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want untouched no-op", Cache())
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore the no-op layout hooks")
	}
}

func TestLogHooks(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	Register(LogHooks(logger))

	ctx := context.Background()
	Fetch().OnLoadStart(ctx, "https://data.example.com")
	Fetch().OnLoadComplete(ctx, "https://data.example.com", 4, time.Second, nil)
	Layout().OnSolveStart(ctx, "skill", 3)
	Layout().OnSolveAttempt(ctx, 2, 1, nil)
	Layout().OnSolveComplete(ctx, 2, true, time.Millisecond, nil)
	Layout().OnRelayout(ctx, 5, true)
	Render().OnRenderStart(ctx, []string{"svg"})
	Render().OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "scene")
	Cache().OnCacheMiss(ctx, "hierarchy")
	Cache().OnCacheSet(ctx, "artifact", 512)
	HTTP().OnRequest(ctx, "GET", "data.example.com", "/entities.json")
	HTTP().OnResponse(ctx, "GET", "data.example.com", "/entities.json", 200, time.Millisecond)
	HTTP().OnError(ctx, "GET", "data.example.com", "/entities.json", errors.New("reset"))

	out := buf.String()
	for _, want := range []string{
		"load start", "load done", "solve start", "solve attempt", "solve done",
		"relayout", "exhausted=true", "render done", "cache hit", "cache miss",
		"bytes=512", "http request", "status=200", "http error",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q", want)
		}
	}
}

func TestLogHooksQuietAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	h := LogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	h.Layout.OnSolveStart(context.Background(), "role", 2)
	if buf.Len() != 0 {
		t.Errorf("info logger wrote %q", buf.String())
	}
}
