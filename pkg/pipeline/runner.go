package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skillgraph/pkg/cache"
	"github.com/matzehuels/skillgraph/pkg/errors"
	"github.com/matzehuels/skillgraph/pkg/hierarchy"
	"github.com/matzehuels/skillgraph/pkg/layout"
	"github.com/matzehuels/skillgraph/pkg/navigate"
	"github.com/matzehuels/skillgraph/pkg/present"
	"github.com/matzehuels/skillgraph/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state; multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Solver *layout.Solver
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means DefaultKeyer, a nil cache
// disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Solver: layout.NewSolver(nil, logger),
		Logger: logger,
	}
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Execute runs the view, scene and render stages on a loaded forest.
func (r *Runner) Execute(ctx context.Context, forest hierarchy.Forest, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	view, err := View(forest, opts)
	if err != nil {
		return nil, err
	}
	result := &Result{View: view, HierarchyHash: HashTree(view)}

	sceneStart := time.Now()
	res, sc, hit, err := r.SceneWithCacheInfo(ctx, view, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Scene = sc
	result.CacheInfo.SceneHit = hit
	result.Stats.SceneTime = time.Since(sceneStart)
	result.Stats.Domains = len(sc.Domains)
	result.Stats.Cells = len(sc.Cells)
	result.Stats.Attempts = sc.Attempts
	result.Stats.Degraded = sc.Degraded

	r.Logger.Info("computed scene",
		"view", opts.Describe(),
		"cells", len(sc.Cells),
		"attempts", sc.Attempts,
		"cached", hit,
		"duration", result.Stats.SceneTime)
	if sc.Degraded {
		r.Logger.Warn("degraded layout", "view", opts.Describe())
	}

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result.HierarchyHash, sc, view, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// LoadWithCacheInfo loads a forest through src, cached under base.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, src source.Loader, base string, refresh bool) (hierarchy.Forest, bool, error) {
	key := r.Keyer.HierarchyKey(base, cache.HierarchyKeyOpts{})

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if f, err := hierarchy.UnmarshalForest(data); err == nil {
				return f, true, nil
			}
		}
	}

	f, err := src.Load(ctx)
	if err != nil {
		return hierarchy.Forest{}, false, err
	}
	if data, err := hierarchy.MarshalForest(f); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLHierarchy)
	}
	return f, false, nil
}

// Load is LoadWithCacheInfo without the hit flag.
func (r *Runner) Load(ctx context.Context, src source.Loader, base string, refresh bool) (hierarchy.Forest, error) {
	f, _, err := r.LoadWithCacheInfo(ctx, src, base, refresh)
	return f, err
}

// View returns the projected tree for the requested source and domain.
func View(forest hierarchy.Forest, opts Options) (*hierarchy.Node, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	kind := opts.Kind()
	if forest.Get(kind) == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no %s hierarchy loaded", kind)
	}
	nav := navigate.New(forest, kind)
	if opts.Domain != "" {
		if err := nav.Drill(opts.Domain); err != nil {
			return nil, err
		}
	}
	return nav.View(), nil
}

// SceneWithCacheInfo solves and presents view. On a cache hit the returned
// layout result is nil.
func (r *Runner) SceneWithCacheInfo(ctx context.Context, view *hierarchy.Node, opts Options) (*layout.Result, present.Scene, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, present.Scene{}, false, err
	}
	key := r.Keyer.SceneKey(HashTree(view), opts.SceneKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var sc present.Scene
			if err := json.Unmarshal(data, &sc); err == nil {
				return nil, sc, true, nil
			}
		}
	}

	res, err := r.Solver.Solve(ctx, view, opts.Layout)
	if err != nil {
		return nil, present.Scene{}, false, err
	}
	sc := present.Build(res)

	if data, err := json.Marshal(sc); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLScene)
	}
	return res, sc, false, nil
}

// RenderWithCacheInfo renders every requested format, reusing cached
// artifacts. The hit flag is true only when all formats came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, hierarchyHash string, sc present.Scene, view *hierarchy.Node, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	sceneData, _ := json.Marshal(sc)
	sceneHash := cache.Hash(append([]byte(hierarchyHash), sceneData...))

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	partial := opts
	partial.Formats = missing
	rendered, err := Render(ctx, sc, view, partial)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		_ = r.Cache.Set(ctx, r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return artifacts, false, nil
}

// HashTree returns the content hash of a tree's JSON encoding.
func HashTree(n *hierarchy.Node) string {
	data, _ := json.Marshal(n)
	return cache.Hash(data)
}
