package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Debug("solve attempt", "attempt", 2)
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %q", buf.String())
	}

	logger.Info("loaded", "domains", 3)
	line := buf.String()
	if !strings.Contains(line, "loaded") || !strings.Contains(line, "domains=3") {
		t.Errorf("info line = %q", line)
	}
	stamp := strings.Fields(line)[0]
	if _, err := time.Parse(logTimeFormat, stamp); err != nil {
		t.Errorf("line does not start with a %s timestamp: %q", logTimeFormat, line)
	}
}

func TestProgressLaps(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))

	time.Sleep(5 * time.Millisecond)
	p.lap("loaded", "input", "examples/team")
	p.lap("rendered")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	for _, want := range []string{"loaded", "input=examples/team", "took=", "total="} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("first lap %q missing %q", lines[0], want)
		}
	}
	if !strings.Contains(lines[1], "rendered") {
		t.Errorf("second lap = %q", lines[1])
	}
	if !p.last.After(p.start) {
		t.Error("lap did not advance the stage clock")
	}
}
