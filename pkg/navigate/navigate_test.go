package navigate

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/skillgraph/pkg/errors"
	"github.com/matzehuels/skillgraph/pkg/hierarchy"
)

func testForest() hierarchy.Forest {
	skill := &hierarchy.Node{Name: "skill", Weight: 7, Children: []*hierarchy.Node{
		{Name: "frontend", Weight: 4, Frequency: 50, Children: []*hierarchy.Node{
			{Name: "react", Weight: 3, Frequency: 50, Children: []*hierarchy.Node{
				{Name: "hooks", Weight: 1, Frequency: 50},
				{Name: "jsx", Weight: 2, Frequency: 50},
			}},
			{Name: "css", Weight: 1, Frequency: 50},
		}},
		{Name: "backend", Weight: 3, Frequency: 20, Children: []*hierarchy.Node{
			{Name: "go", Weight: 3, Frequency: 20},
		}},
	}}
	role := &hierarchy.Node{Name: "role", Weight: 2, Children: []*hierarchy.Node{
		{Name: "ops", Weight: 2, Frequency: 10, Children: []*hierarchy.Node{
			{Name: "sre", Weight: 2, Frequency: 10},
		}},
		{Name: "solo", Weight: 0},
	}}
	return hierarchy.Forest{Role: role, Skill: skill}
}

func TestWorldViewIsFlattened(t *testing.T) {
	n := New(testForest(), hierarchy.KindSkill)
	if st := n.State(); st.Mode != World || st.ActiveDomain != "" || st.Source != hierarchy.KindSkill {
		t.Fatalf("State() = %+v", st)
	}
	react := n.Find("frontend", "react")
	if react == nil || !react.IsLeaf() {
		t.Fatal("World view should drop sub-skills")
	}
	if n.Parent(react) != n.Find("frontend") {
		t.Error("Parent(react) should be frontend")
	}
}

func TestClickTransitions(t *testing.T) {
	tests := []struct {
		name       string
		path       []string
		wantDomain string
	}{
		{"click skill drills into its domain", []string{"frontend", "css"}, "frontend"},
		{"click domain drills into itself", []string{"backend"}, "backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New(testForest(), hierarchy.KindSkill)
			if !n.ClickPath(tt.path...) {
				t.Fatal("ClickPath() = false, want state change")
			}
			st := n.State()
			if st.Mode != Drilldown || st.ActiveDomain != tt.wantDomain {
				t.Errorf("State() = %+v, want Drilldown(%s)", st, tt.wantDomain)
			}
			if n.View().Name != tt.wantDomain {
				t.Errorf("View root = %s, want %s", n.View().Name, tt.wantDomain)
			}
		})
	}
}

func TestDrilldownProjectsDomain(t *testing.T) {
	n := New(testForest(), hierarchy.KindSkill)
	n.ClickPath("frontend")

	// Inside frontend, react becomes top-level and keeps its sub-skills.
	jsx := n.Find("react", "jsx")
	if jsx == nil {
		t.Fatal("drill-down view should show sub-skills one level below")
	}
	if jsx.Weight != 2 {
		t.Errorf("jsx weight = %d, want 2", jsx.Weight)
	}
}

func TestClickInDrilldownIsInert(t *testing.T) {
	n := New(testForest(), hierarchy.KindSkill)
	n.ClickPath("frontend")
	before := n.State()

	if n.ClickPath("react", "jsx") {
		t.Error("click inside drill-down changed state")
	}
	if n.ClickPath("css") {
		t.Error("click inside drill-down changed state")
	}
	if n.State() != before {
		t.Errorf("State() = %+v, want %+v", n.State(), before)
	}
}

func TestClickNoOps(t *testing.T) {
	n := New(testForest(), hierarchy.KindRole)
	if n.ClickPath("solo") {
		t.Error("domain without children should not drill")
	}
	if n.Click(nil) {
		t.Error("nil click should be ignored")
	}
	if n.Click(&hierarchy.Node{Name: "stranger"}) {
		t.Error("node outside the view should be ignored")
	}
	if n.ClickPath() {
		t.Error("empty path should be ignored")
	}
	if n.State().Mode != World {
		t.Error("no-op clicks left World")
	}
}

func TestRoundTrip(t *testing.T) {
	n := New(testForest(), hierarchy.KindSkill)
	world := n.State()
	for i := 0; i < 5; i++ {
		if !n.ClickPath("frontend", "react") {
			t.Fatalf("cycle %d: drill failed", i)
		}
		if !n.Background() {
			t.Fatalf("cycle %d: background click did not return", i)
		}
		if n.State() != world {
			t.Fatalf("cycle %d: State() = %+v, want %+v", i, n.State(), world)
		}
		if n.Find("frontend", "react") == nil {
			t.Fatalf("cycle %d: world view not re-projected", i)
		}
	}
	if n.Background() {
		t.Error("background click in World should not change state")
	}
}

func TestSetSourceResets(t *testing.T) {
	n := New(testForest(), hierarchy.KindSkill)
	n.ClickPath("frontend")

	if err := n.SetSource(hierarchy.KindRole); err != nil {
		t.Fatal(err)
	}
	st := n.State()
	if st.Mode != World || st.ActiveDomain != "" || st.Source != hierarchy.KindRole {
		t.Errorf("State() = %+v", st)
	}
	if n.View().Name != "role" {
		t.Errorf("View root = %s, want role", n.View().Name)
	}

	if err := n.SetSource("team"); !errors.Is(err, errors.ErrCodeInvalidSource) {
		t.Errorf("SetSource(team) = %v", err)
	}
}

func TestDrill(t *testing.T) {
	n := New(testForest(), hierarchy.KindSkill)
	if err := n.Drill("backend"); err != nil {
		t.Fatal(err)
	}
	if n.State().ActiveDomain != "backend" {
		t.Errorf("ActiveDomain = %q", n.State().ActiveDomain)
	}
	if err := n.Drill("nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Drill(nope) = %v", err)
	}
}

func TestSetForestKeepsDrilldown(t *testing.T) {
	n := New(testForest(), hierarchy.KindSkill)
	n.ClickPath("backend")

	n.SetForest(testForest())
	if n.State().Mode != Drilldown || n.State().ActiveDomain != "backend" {
		t.Errorf("State() = %+v, want Drilldown(backend)", n.State())
	}

	f := testForest()
	f.Skill.Children = f.Skill.Children[:1]
	n.SetForest(f)
	if n.State().Mode != World {
		t.Errorf("State() = %+v, want World after domain vanished", n.State())
	}
}

func TestModeString(t *testing.T) {
	if World.String() != "world" || Drilldown.String() != "drilldown" {
		t.Errorf("Mode strings = %s, %s", World, Drilldown)
	}
}

func TestStateJSON(t *testing.T) {
	in := State{Mode: Drilldown, ActiveDomain: "frontend", Source: hierarchy.KindSkill}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"mode":"drilldown","active_domain":"frontend","source":"skill"}`; string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
	var out State
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}

	var m Mode
	if err := m.UnmarshalText([]byte("sideways")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("UnmarshalText(sideways) = %v, want INVALID_INPUT", err)
	}
}
