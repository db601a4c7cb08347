// Package cache stores computed hierarchies, scenes and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON envelope per key under a directory (CLI)
//   - [RedisCache]: a shared Redis instance (server)
//   - [NullCache]: caching disabled
//
// [Instrument] wraps any backend and reports hits, misses and writes to the
// registered observability hooks.
//
// # Keys
//
// A [Keyer] derives keys from content hashes and options, so a changed input
// or option never hits a stale entry. [ScopedKeyer] prefixes every key for
// tenant isolation.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Entry lifetimes.
const (
	TTLHTTP      = 24 * time.Hour
	TTLHierarchy = time.Hour
	TTLScene     = 7 * 24 * time.Hour
	TTLArtifact  = 7 * 24 * time.Hour
)

// HierarchyKeyOpts identifies a data load.
type HierarchyKeyOpts struct {
	Concurrency int `json:"concurrency,omitempty"`
}

// SceneKeyOpts holds every option that changes a computed scene.
type SceneKeyOpts struct {
	Source            string  `json:"source"`
	Domain            string  `json:"domain,omitempty"`
	Radius            float64 `json:"radius"`
	CircleSteps       int     `json:"circle_steps"`
	FocusCategory     string  `json:"focus_category,omitempty"`
	FocusShareMinimum float64 `json:"focus_share_minimum"`
	MaxAttempts       int     `json:"max_attempts"`
	BoostFactor       float64 `json:"boost_factor"`
	BoundaryMargin    float64 `json:"boundary_margin"`
	ConvergenceRatio  float64 `json:"convergence_ratio"`
	MaxIterations     int     `json:"max_iterations"`
	MinWeightRatio    float64 `json:"min_weight_ratio"`
	Seed              int64   `json:"seed"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	Labels      bool   `json:"labels"`
	Badges      bool   `json:"badges"`
	Tinted      bool   `json:"tinted"`
	Interactive bool   `json:"interactive"`
	Detailed    bool   `json:"detailed"`
}

// Keyer derives cache keys.
type Keyer interface {
	HTTPKey(namespace, key string) string
	HierarchyKey(base string, opts HierarchyKeyOpts) string
	SceneKey(hierarchyHash string, opts SceneKeyOpts) string
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey generates a key for a cached HTTP response.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// HierarchyKey generates a key for a loaded forest.
func (DefaultKeyer) HierarchyKey(base string, opts HierarchyKeyOpts) string {
	return hashKey("hierarchy", base, opts)
}

// SceneKey generates a key for a computed scene.
func (DefaultKeyer) SceneKey(hierarchyHash string, opts SceneKeyOpts) string {
	return hashKey("scene", hierarchyHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
