package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks returns hooks that write every event to logger at debug level.
func LogHooks(logger *log.Logger) Hooks {
	l := logHooks{logger: logger}
	return Hooks{Fetch: l, Layout: l, Render: l, Cache: l, HTTP: l}
}

type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnLoadStart(_ context.Context, base string) {
	h.logger.Debug("load start", "base", base)
}

func (h logHooks) OnLoadComplete(_ context.Context, base string, entities int, d time.Duration, err error) {
	h.logger.Debug("load done", "base", base, "entities", entities, "duration", d, "err", err)
}

func (h logHooks) OnSolveStart(_ context.Context, root string, topLevel int) {
	h.logger.Debug("solve start", "root", root, "domains", topLevel)
}

func (h logHooks) OnSolveAttempt(_ context.Context, attempt, isolated int, err error) {
	h.logger.Debug("solve attempt", "attempt", attempt, "isolated", isolated, "err", err)
}

func (h logHooks) OnSolveComplete(_ context.Context, attempts int, degraded bool, d time.Duration, err error) {
	h.logger.Debug("solve done", "attempts", attempts, "degraded", degraded, "duration", d, "err", err)
}

func (h logHooks) OnRelayout(_ context.Context, retry int, exhausted bool) {
	h.logger.Debug("relayout", "retry", retry, "exhausted", exhausted)
}

func (h logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render done", "formats", formats, "duration", d, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
