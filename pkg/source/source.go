package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/matzehuels/skillgraph/pkg/errors"
	"github.com/matzehuels/skillgraph/pkg/hierarchy"
	"github.com/matzehuels/skillgraph/pkg/httputil"
	"github.com/matzehuels/skillgraph/pkg/observability"
)

// DefaultConcurrency bounds parallel detail fetches.
const DefaultConcurrency = 8

// Paths locates the data files relative to the base. Detail must contain a
// single %s for the entity ID.
type Paths struct {
	Categories string `toml:"categories" json:"categories"`
	Entities   string `toml:"entities" json:"entities"`
	Detail     string `toml:"detail" json:"detail"`
}

// DefaultPaths returns the standard file layout.
func DefaultPaths() Paths {
	return Paths{
		Categories: "categories.json",
		Entities:   "entities.json",
		Detail:     "entities/%s.json",
	}
}

// Options configures a Source.
type Options struct {
	Concurrency int   `toml:"concurrency" json:"concurrency"`
	Paths       Paths `toml:"paths" json:"paths"`
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	def := DefaultPaths()
	if o.Paths.Categories == "" {
		o.Paths.Categories = def.Categories
	}
	if o.Paths.Entities == "" {
		o.Paths.Entities = def.Entities
	}
	if o.Paths.Detail == "" {
		o.Paths.Detail = def.Detail
	}
}

// Entity is one entry of the entity index.
type Entity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type detailFile struct {
	Roadmaps map[string]struct {
		Completions map[string]json.RawMessage `json:"completions"`
	} `json:"roadmaps"`
}

// Dataset is the raw content of one load.
type Dataset struct {
	Categories []hierarchy.Category
	Entities   []Entity
	Records    []hierarchy.Record
}

// Forest aggregates the dataset.
func (d Dataset) Forest() hierarchy.Forest {
	return hierarchy.Aggregate(d.Categories, d.Records)
}

// Loader produces a forest. It is the collaborator the bootstrap
// controller and the server depend on.
type Loader interface {
	Load(ctx context.Context) (hierarchy.Forest, error)
}

// Source reads data files from a URL or directory.
type Source struct {
	base   string
	remote bool
	opts   Options
	client *httputil.Client
	logger *log.Logger
}

// New creates a source for base. A nil client gets an uncached default.
func New(base string, opts Options, client *httputil.Client, logger *log.Logger) (*Source, error) {
	if strings.TrimSpace(base) == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "data source base is empty")
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if client == nil {
		client = httputil.NewClient(nil, logger)
	}
	opts.SetDefaults()
	if strings.Count(opts.Paths.Detail, "%s") != 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "detail path %q must contain exactly one %%s", opts.Paths.Detail)
	}
	for _, p := range []string{opts.Paths.Categories, opts.Paths.Entities, opts.Paths.Detail} {
		if err := errors.ValidateDataPath(p); err != nil {
			return nil, err
		}
	}

	remote := strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://")
	if remote {
		if err := errors.ValidateBaseURL(base); err != nil {
			return nil, err
		}
		base = strings.TrimRight(base, "/")
	}
	return &Source{base: base, remote: remote, opts: opts, client: client, logger: logger}, nil
}

// Base returns the configured base.
func (s *Source) Base() string { return s.base }

// Load fetches everything and aggregates it.
func (s *Source) Load(ctx context.Context) (hierarchy.Forest, error) {
	ds, err := s.Fetch(ctx)
	if err != nil {
		return hierarchy.Forest{}, err
	}
	return ds.Forest(), nil
}

// Fetch reads both indexes, then every detail file in parallel.
func (s *Source) Fetch(ctx context.Context) (ds Dataset, err error) {
	hooks := observability.Fetch()
	hooks.OnLoadStart(ctx, s.base)
	start := time.Now()
	defer func() {
		hooks.OnLoadComplete(ctx, s.base, len(ds.Entities), time.Since(start), err)
	}()

	if err = s.read(ctx, "categories", s.opts.Paths.Categories, &ds.Categories); err != nil {
		return Dataset{}, err
	}
	if err = s.read(ctx, "entities", s.opts.Paths.Entities, &ds.Entities); err != nil {
		return Dataset{}, err
	}

	ds.Records = make([]hierarchy.Record, len(ds.Entities))
	p := pool.New().
		WithMaxGoroutines(s.opts.Concurrency).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()
	for i, e := range ds.Entities {
		p.Go(func(ctx context.Context) error {
			rec, err := s.detail(ctx, e)
			if err != nil {
				return err
			}
			ds.Records[i] = rec
			return nil
		})
	}
	if err = p.Wait(); err != nil {
		return Dataset{}, err
	}

	s.logger.Info("data loaded",
		"base", s.base,
		"categories", len(ds.Categories),
		"entities", len(ds.Entities),
		"duration", time.Since(start).Round(time.Millisecond))
	return ds, nil
}

func (s *Source) detail(ctx context.Context, e Entity) (hierarchy.Record, error) {
	if err := errors.ValidateEntityID(e.ID); err != nil {
		return hierarchy.Record{}, errors.Wrap(errors.ErrCodeDataFetch, err, "entity %q", e.Name)
	}
	var df detailFile
	if err := s.read(ctx, "detail", fmt.Sprintf(s.opts.Paths.Detail, url.PathEscape(e.ID)), &df); err != nil {
		return hierarchy.Record{}, err
	}
	rec := hierarchy.Record{Entity: e.ID, Completions: make(map[string][]string, len(df.Roadmaps))}
	for key, rm := range df.Roadmaps {
		items := make([]string, 0, len(rm.Completions))
		for id := range rm.Completions {
			items = append(items, id)
		}
		rec.Completions[key] = items
	}
	return rec, nil
}

// read decodes one file. Every failure is a DATA_FETCH error.
func (s *Source) read(ctx context.Context, namespace, rel string, v any) error {
	if s.remote {
		target := s.base + "/" + strings.TrimLeft(rel, "/")
		if err := s.client.GetJSON(ctx, namespace, target, v); err != nil {
			return errors.Wrap(errors.ErrCodeDataFetch, err, "fetch %s", target)
		}
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.base, filepath.FromSlash(rel))
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataFetch, err, "read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeDataFetch, err, "decode %s", path)
	}
	return nil
}

var _ Loader = (*Source)(nil)
