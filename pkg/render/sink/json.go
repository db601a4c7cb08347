package sink

import (
	"encoding/json"

	"github.com/matzehuels/skillgraph/pkg/present"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	source string
	domain string
	seed   int64
}

// WithJSONSource records which hierarchy the scene was built from.
func WithJSONSource(s string) JSONOption { return func(r *jsonRenderer) { r.source = s } }

// WithJSONDomain records the drill-down domain, empty for the world view.
func WithJSONDomain(d string) JSONOption { return func(r *jsonRenderer) { r.domain = d } }

// WithJSONSeed records the tessellation seed for reproducible re-rendering.
func WithJSONSeed(seed int64) JSONOption { return func(r *jsonRenderer) { r.seed = seed } }

// Document is the JSON export of one scene.
type Document struct {
	Source string        `json:"source,omitempty"`
	Domain string        `json:"domain,omitempty"`
	Seed   int64         `json:"seed,omitempty"`
	Scene  present.Scene `json:"scene"`
}

// RenderJSON exports a scene with its render context.
func RenderJSON(sc present.Scene, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}
	return json.MarshalIndent(Document{
		Source: r.source,
		Domain: r.domain,
		Seed:   r.seed,
		Scene:  sc,
	}, "", "  ")
}

// ReadJSON parses a document written by [RenderJSON].
func ReadJSON(data []byte) (Document, error) {
	var doc Document
	err := json.Unmarshal(data, &doc)
	return doc, err
}
