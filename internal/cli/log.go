package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

const logTimeFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// progress times the stages of one command. Each lap logs the stage with
// its own duration and the running total.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, last: now}
}

func (p *progress) lap(stage string, keyvals ...any) {
	now := time.Now()
	keyvals = append(keyvals,
		"took", now.Sub(p.last).Round(time.Millisecond),
		"total", now.Sub(p.start).Round(time.Millisecond))
	p.last = now
	p.logger.Info(stage, keyvals...)
}
