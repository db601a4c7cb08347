package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/skillgraph/pkg/errors"
	"github.com/matzehuels/skillgraph/pkg/hierarchy"
	"github.com/matzehuels/skillgraph/pkg/httputil"
)

var fixture = map[string]string{
	"categories.json": `[
		{"key":"k1","type":"skill","name":"Go","group":"backend","totalSubCheckpoints":4},
		{"key":"k2","type":"skill","name":"CSS","group":"frontend","totalSubCheckpoints":2},
		{"key":"r1","type":"role","name":"SRE","group":"ops","totalSubCheckpoints":10}
	]`,
	"entities.json": `[{"id":"e1","name":"Ada"},{"id":"e2","name":"Linus"}]`,
	"entities/e1.json": `{"roadmaps":{
		"k1":{"completions":{"a":true,"b":true}},
		"r1":{"completions":{"x":1,"y":1,"z":1,"w":1,"v":1}}
	}}`,
	"entities/e2.json": `{"roadmaps":{"k2":{"completions":{"a":true,"b":true}}}}`,
}

func writeFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func serveFixture(files map[string]string, hits *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		body, ok := files[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
}

func checkForest(t *testing.T, f hierarchy.Forest) {
	t.Helper()
	goLeaf := f.Skill.Find("backend", "Go")
	if goLeaf == nil {
		t.Fatal("missing skill leaf backend/Go")
	}
	if goLeaf.Weight != 1 || goLeaf.Frequency != 50 {
		t.Errorf("Go = weight %d freq %v, want 1/50", goLeaf.Weight, goLeaf.Frequency)
	}
	css := f.Skill.Find("frontend", "CSS")
	if css == nil || css.Frequency != 100 {
		t.Errorf("CSS = %v, want frequency 100", css)
	}
	sre := f.Role.Find("ops", "SRE")
	if sre == nil || sre.Frequency != 50 {
		t.Errorf("SRE = %v, want frequency 50", sre)
	}
}

func TestSource_LocalDir(t *testing.T) {
	s, err := New(writeFixture(t, fixture), Options{}, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	checkForest(t, f)
}

func TestSource_HTTP(t *testing.T) {
	srv := serveFixture(fixture, nil)
	defer srv.Close()

	s, err := New(srv.URL+"/", Options{Concurrency: 2}, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ds, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(ds.Categories) != 3 || len(ds.Entities) != 2 || len(ds.Records) != 2 {
		t.Fatalf("dataset sizes = %d/%d/%d", len(ds.Categories), len(ds.Entities), len(ds.Records))
	}
	if ds.Records[0].Entity != "e1" || ds.Records[1].Entity != "e2" {
		t.Errorf("records out of index order: %s, %s", ds.Records[0].Entity, ds.Records[1].Entity)
	}
	checkForest(t, ds.Forest())
}

func TestSource_MissingDetailIsFatal(t *testing.T) {
	files := map[string]string{}
	for k, v := range fixture {
		files[k] = v
	}
	delete(files, "entities/e2.json")

	t.Run("http", func(t *testing.T) {
		var hits atomic.Int32
		srv := serveFixture(files, &hits)
		defer srv.Close()

		client := httputil.NewClient(nil, nil)
		client.Delay = time.Millisecond
		s, _ := New(srv.URL, Options{}, client, nil)
		_, err := s.Load(context.Background())
		if !errors.Is(err, errors.ErrCodeDataFetch) {
			t.Fatalf("err = %v, want DATA_FETCH", err)
		}
		if hits.Load() > 4 {
			t.Errorf("404 should not be retried, saw %d requests", hits.Load())
		}
	})

	t.Run("dir", func(t *testing.T) {
		s, _ := New(writeFixture(t, files), Options{}, nil, nil)
		if _, err := s.Load(context.Background()); !errors.Is(err, errors.ErrCodeDataFetch) {
			t.Fatalf("err = %v, want DATA_FETCH", err)
		}
	})
}

func TestSource_BadIndex(t *testing.T) {
	files := map[string]string{"categories.json": `{not json`, "entities.json": `[]`}
	s, _ := New(writeFixture(t, files), Options{}, nil, nil)
	if _, err := s.Load(context.Background()); !errors.Is(err, errors.ErrCodeDataFetch) {
		t.Fatalf("err = %v, want DATA_FETCH", err)
	}
}

func TestSource_EmptyEntities(t *testing.T) {
	files := map[string]string{"categories.json": fixture["categories.json"], "entities.json": `[]`}
	s, _ := New(writeFixture(t, files), Options{}, nil, nil)
	f, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Skill == nil || len(f.Skill.Children) != 0 {
		t.Errorf("skill root = %v, want empty root", f.Skill)
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		base string
		opts Options
	}{
		{"empty base", "  ", Options{}},
		{"detail without placeholder", "/data", Options{Paths: Paths{Detail: "detail.json"}}},
		{"detail with two placeholders", "/data", Options{Paths: Paths{Detail: "%s/%s.json"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.base, tt.opts, nil, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("err = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, base := range []string{"http://", "https:///categories"} {
		if _, err := New(base, Options{}, nil, nil); !errors.Is(err, errors.ErrCodeInvalidSource) {
			t.Errorf("New(%q) err = %v, want INVALID_SOURCE", base, err)
		}
	}
}

func TestNew_RejectsTraversal(t *testing.T) {
	opts := Options{Paths: Paths{Categories: "../secrets.json"}}
	if _, err := New("/data", opts, nil, nil); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("err = %v, want INVALID_PATH", err)
	}
}

func TestFetch_BadEntityID(t *testing.T) {
	files := map[string]string{
		"categories.json": `[]`,
		"entities.json":   `[{"id":"../e1","name":"Ada"}]`,
	}
	s, _ := New(writeFixture(t, files), Options{}, nil, nil)
	if _, err := s.Fetch(context.Background()); !errors.Is(err, errors.ErrCodeDataFetch) {
		t.Errorf("err = %v, want DATA_FETCH", err)
	}
}

func TestOptions_SetDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()
	if o.Concurrency != DefaultConcurrency || o.Paths != DefaultPaths() {
		t.Errorf("defaults = %+v", o)
	}
}
