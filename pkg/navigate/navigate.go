// Package navigate implements the two-level drill-down state machine over a
// hierarchy forest.
//
// A [Navigator] is either in [World] mode, showing the flattened two-level
// projection of the selected hierarchy, or in [Drilldown] mode, showing the
// projection of a single domain. Clicking any region in World drills into
// the domain owning it. Clicking a region while drilled down does nothing;
// only a background click returns to World.
//
// Navigators are not safe for concurrent use.
package navigate

import (
	"github.com/matzehuels/skillgraph/pkg/errors"
	"github.com/matzehuels/skillgraph/pkg/hierarchy"
)

// Mode is the navigator state.
type Mode int

// Navigator modes.
const (
	World Mode = iota
	Drilldown
)

func (m Mode) String() string {
	if m == Drilldown {
		return "drilldown"
	}
	return "world"
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "world":
		*m = World
	case "drilldown":
		*m = Drilldown
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown mode %q", b)
	}
	return nil
}

// State is the externally visible view state.
type State struct {
	Mode         Mode           `json:"mode"`
	ActiveDomain string         `json:"active_domain,omitempty"`
	Source       hierarchy.Kind `json:"source"`
}

// Navigator tracks which view of a forest is displayed.
type Navigator struct {
	forest hierarchy.Forest
	source hierarchy.Kind
	mode   Mode
	domain string

	view    *hierarchy.Node
	parents map[*hierarchy.Node]*hierarchy.Node
}

// New returns a navigator in World mode showing source.
func New(forest hierarchy.Forest, source hierarchy.Kind) *Navigator {
	n := &Navigator{forest: forest, source: source}
	n.toWorld()
	return n
}

// State returns the current view state.
func (n *Navigator) State() State {
	return State{Mode: n.mode, ActiveDomain: n.domain, Source: n.source}
}

// View returns the projected tree currently displayed. It is rebuilt on every
// transition; callers must not hold on to nodes across transitions.
func (n *Navigator) View() *hierarchy.Node { return n.view }

// Parent returns the parent of a node of the current view.
func (n *Navigator) Parent(node *hierarchy.Node) *hierarchy.Node { return n.parents[node] }

// Find looks up a node of the current view by path from the view root.
func (n *Navigator) Find(path ...string) *hierarchy.Node {
	if n.view == nil {
		return nil
	}
	return n.view.Find(path...)
}

// Click handles a click on a region of the current view. It reports whether
// the state changed.
func (n *Navigator) Click(region *hierarchy.Node) bool {
	if n.mode != World || region == nil || n.view == nil {
		return false
	}
	parent, ok := n.parents[region]
	if !ok {
		return false
	}
	domain := region
	if parent != n.view {
		domain = parent
	}
	if domain.IsLeaf() {
		return false
	}
	return n.drill(domain.Name)
}

// ClickPath is Click for the node at path in the current view.
func (n *Navigator) ClickPath(path ...string) bool {
	if len(path) == 0 {
		return false
	}
	return n.Click(n.Find(path...))
}

// Background handles a click outside any region. It reports whether the
// state changed.
func (n *Navigator) Background() bool {
	if n.mode == World {
		return false
	}
	n.toWorld()
	return true
}

// Drill jumps straight into the named domain of the current source.
func (n *Navigator) Drill(domain string) error {
	d := n.root().Child(domain)
	if d == nil {
		return errors.New(errors.ErrCodeNotFound, "domain %q not found in %s hierarchy", domain, n.source)
	}
	if d.IsLeaf() {
		return errors.New(errors.ErrCodeInvalidInput, "domain %q has nothing to drill into", domain)
	}
	n.drill(domain)
	return nil
}

// SetSource switches the displayed hierarchy and returns to World.
func (n *Navigator) SetSource(kind hierarchy.Kind) error {
	if kind != hierarchy.KindRole && kind != hierarchy.KindSkill {
		return errors.New(errors.ErrCodeInvalidSource, "unknown hierarchy source %q", kind)
	}
	n.source = kind
	n.toWorld()
	return nil
}

// SetForest replaces the data after a reload. A drill-down stays active if its
// domain still exists.
func (n *Navigator) SetForest(forest hierarchy.Forest) {
	n.forest = forest
	if n.mode == Drilldown {
		if d := n.root().Child(n.domain); d != nil && !d.IsLeaf() {
			n.drill(n.domain)
			return
		}
	}
	n.toWorld()
}

func (n *Navigator) root() *hierarchy.Node {
	return n.forest.Get(n.source)
}

func (n *Navigator) drill(domain string) bool {
	d := n.root().Child(domain)
	if d == nil {
		return false
	}
	n.mode = Drilldown
	n.domain = domain
	n.setView(hierarchy.Project(d))
	return true
}

func (n *Navigator) toWorld() {
	n.mode = World
	n.domain = ""
	n.setView(hierarchy.Project(n.root()))
}

func (n *Navigator) setView(view *hierarchy.Node) {
	n.view = view
	n.parents = make(map[*hierarchy.Node]*hierarchy.Node)
	if view == nil {
		return
	}
	view.Walk(func(node, parent *hierarchy.Node, _ int) bool {
		if parent != nil {
			n.parents[node] = parent
		}
		return true
	})
}
