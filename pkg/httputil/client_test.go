package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/skillgraph/pkg/cache"
	"github.com/matzehuels/skillgraph/pkg/errors"
)

func newTestClient(c cache.Cache) *Client {
	client := NewClient(c, nil)
	client.Delay = time.Millisecond
	return client
}

func TestClient_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		w.Write([]byte(`{"name":"go"}`))
	}))
	defer srv.Close()

	var got struct{ Name string }
	if err := newTestClient(nil).GetJSON(context.Background(), "test", srv.URL, &got); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if got.Name != "go" {
		t.Errorf("Name = %q", got.Name)
	}
}

func TestClient_Status(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []int
		wantCalls int32
		wantCode  errors.Code
		wantErr   bool
	}{
		{"ok", []int{200}, 1, "", false},
		{"404 not retried", []int{404}, 1, errors.ErrCodeNotFound, true},
		{"500 then ok", []int{500, 200}, 2, "", false},
		{"429 then ok", []int{429, 200}, 2, "", false},
		{"500 exhausted", []int{500, 502, 503}, 3, "", true},
		{"400 not retried", []int{400}, 1, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				status := tt.statuses[min(int(n), len(tt.statuses))-1]
				w.WriteHeader(status)
				if status == 200 {
					w.Write([]byte(`[]`))
				}
			}))
			defer srv.Close()

			_, err := newTestClient(nil).Get(context.Background(), "test", srv.URL)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantCode != "" && !errors.Is(err, tt.wantCode) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), tt.wantCode)
			}
			if calls.Load() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls.Load(), tt.wantCalls)
			}
		})
	}
}

func TestClient_Cache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`"cached"`))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := newTestClient(fc)
	ctx := context.Background()

	for range 3 {
		var s string
		if err := client.GetJSON(ctx, "ns", srv.URL, &s); err != nil || s != "cached" {
			t.Fatalf("GetJSON = %q, %v", s, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("server calls = %d, want 1", calls.Load())
	}
}

func TestClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{broken`))
	}))
	defer srv.Close()

	var v map[string]any
	err := newTestClient(nil).GetJSON(context.Background(), "test", srv.URL, &v)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	transient := Retryable(errors.New(errors.ErrCodeNetwork, "flaky"))
	fatal := errors.New(errors.ErrCodeNotFound, "gone")

	calls := 0
	err := Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return transient
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("transient: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return fatal
	})
	if err != fatal || calls != 1 {
		t.Errorf("fatal: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return transient
	})
	if !IsRetryable(err) || calls != 3 {
		t.Errorf("exhausted: err=%v calls=%d, want last transient error after 3 calls", err, calls)
	}

	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}

func TestRetry_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error {
		return Retryable(errors.New(errors.ErrCodeNetwork, "down"))
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
