package hierarchy

import (
	"testing"
)

func sampleCategories() []Category {
	return []Category{
		{Key: "k1", Type: KindSkill, Name: "React", Group: "frontend", TotalSubCheckpoints: 4},
		{Key: "k2", Type: KindSkill, Name: "CSS", Group: "frontend", TotalSubCheckpoints: 10},
		{Key: "k3", Type: KindSkill, Name: "Go", Group: "backend", TotalSubCheckpoints: 5},
		{Key: "k4", Type: KindSkill, Name: "Rust", Group: "backend", TotalSubCheckpoints: 5},
		{Key: "r1", Type: KindRole, Name: "SRE", Group: "ops", TotalSubCheckpoints: 0},
	}
}

func sampleRecords() []Record {
	return []Record{
		{Entity: "alice", Completions: map[string][]string{
			"k1": {"a", "b"},
			"k2": {"a", "b", "c", "d", "e"},
			"k3": {"a"},
			"r1": {"x"},
		}},
		{Entity: "bob", Completions: map[string][]string{
			"k1": {"a", "b", "c", "d"},
			"k3": {},
		}},
	}
}

func TestAggregateSingleEntityScenario(t *testing.T) {
	cats := []Category{{Key: "k1", Type: KindSkill, Name: "k1", Group: "g", TotalSubCheckpoints: 4}}
	recs := []Record{{Entity: "e1", Completions: map[string][]string{"k1": {"s1", "s2"}}}}

	f := Aggregate(cats, recs)
	leaf := f.Skill.Find("g", "k1")
	if leaf == nil {
		t.Fatal("leaf k1 missing")
	}
	if leaf.Weight != 1 {
		t.Errorf("Weight = %d, want 1", leaf.Weight)
	}
	if leaf.Frequency != 50 {
		t.Errorf("Frequency = %v, want 50", leaf.Frequency)
	}
}

func TestAggregateLeaves(t *testing.T) {
	f := Aggregate(sampleCategories(), sampleRecords())

	tests := []struct {
		path []string
		want Node
	}{
		// alice 50%, bob 100%
		{[]string{"frontend", "React"}, Node{Weight: 2, Frequency: 75}},
		{[]string{"frontend", "CSS"}, Node{Weight: 1, Frequency: 50}},
		// alice 20%, bob 0% -> round(10)
		{[]string{"backend", "Go"}, Node{Weight: 2, Frequency: 10}},
	}
	for _, tt := range tests {
		n := f.Skill.Find(tt.path...)
		if n == nil {
			t.Fatalf("missing node %v", tt.path)
		}
		if n.Weight != tt.want.Weight || n.Frequency != tt.want.Frequency {
			t.Errorf("%v = w%d f%v, want w%d f%v", tt.path, n.Weight, n.Frequency, tt.want.Weight, tt.want.Frequency)
		}
	}

	if f.Skill.Find("backend", "Rust") != nil {
		t.Error("category without records should be discarded")
	}
}

func TestAggregateGroups(t *testing.T) {
	f := Aggregate(sampleCategories(), sampleRecords())

	if got := len(f.Skill.Children); got != 2 {
		t.Fatalf("skill groups = %d, want 2", got)
	}
	if f.Skill.Children[0].Name != "frontend" || f.Skill.Children[1].Name != "backend" {
		t.Errorf("group order = %s, %s; want first-appearance order", f.Skill.Children[0].Name, f.Skill.Children[1].Name)
	}

	frontend := f.Skill.Child("frontend")
	if frontend.Weight != 3 {
		t.Errorf("frontend weight = %d, want 3", frontend.Weight)
	}
	// (2*75 + 1*50) / 3
	want := 200.0 / 3.0
	if frontend.Frequency != want {
		t.Errorf("frontend frequency = %v, want %v", frontend.Frequency, want)
	}

	if f.Skill.Weight != 5 {
		t.Errorf("root weight = %d, want 5", f.Skill.Weight)
	}
	if f.Skill.Frequency != 0 {
		t.Errorf("root frequency = %v, want 0", f.Skill.Frequency)
	}
}

func TestAggregateZeroCheckpoints(t *testing.T) {
	f := Aggregate(sampleCategories(), sampleRecords())
	sre := f.Role.Find("ops", "SRE")
	if sre == nil {
		t.Fatal("SRE missing")
	}
	if sre.Weight != 1 || sre.Frequency != 0 {
		t.Errorf("SRE = w%d f%v, want w1 f0", sre.Weight, sre.Frequency)
	}
}

func TestAggregateRateCapped(t *testing.T) {
	cats := []Category{{Key: "k", Type: KindRole, Name: "k", Group: "g", TotalSubCheckpoints: 1}}
	recs := []Record{{Completions: map[string][]string{"k": {"a", "b", "c"}}}}
	f := Aggregate(cats, recs)
	if got := f.Role.Find("g", "k").Frequency; got != 100 {
		t.Errorf("Frequency = %v, want 100", got)
	}
}

func TestAggregateInvariants(t *testing.T) {
	f := Aggregate(sampleCategories(), sampleRecords())
	for _, kind := range Kinds {
		if err := Validate(f.Get(kind)); err != nil {
			t.Errorf("%s: %v", kind, err)
		}
	}
}

func TestAggregateIdempotent(t *testing.T) {
	a := Aggregate(sampleCategories(), sampleRecords())
	b := Aggregate(sampleCategories(), sampleRecords())
	for _, kind := range Kinds {
		if !Equal(a.Get(kind), b.Get(kind)) {
			t.Errorf("%s hierarchy differs between runs", kind)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	f := Aggregate(nil, nil)
	if f.Role == nil || f.Skill == nil {
		t.Fatal("roots must always exist")
	}
	if f.Role.Weight != 0 || len(f.Role.Children) != 0 {
		t.Errorf("empty role root = %v", f.Role)
	}
}

func TestAggregateDuplicateNames(t *testing.T) {
	cats := []Category{
		{Key: "k1", Type: KindSkill, Name: "Go", Group: "g", TotalSubCheckpoints: 1},
		{Key: "k2", Type: KindSkill, Name: "Go", Group: "g", TotalSubCheckpoints: 1},
		{Key: "k3", Type: KindSkill, Name: "k9", Group: "g", TotalSubCheckpoints: 1},
		{Key: "k9", Type: KindSkill, Name: "k9", Group: "g", TotalSubCheckpoints: 1},
		{Key: "k5", Type: KindSkill, Name: "Go", Group: "other", TotalSubCheckpoints: 1},
	}
	recs := []Record{
		{Entity: "e1", Completions: map[string][]string{"k1": {"a"}, "k2": {}, "k3": {"a"}, "k9": {}, "k5": {}}},
		{Entity: "e2", Completions: map[string][]string{"k2": {"a"}}},
	}

	f := Aggregate(cats, recs)
	if err := Validate(f.Skill); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	g := f.Skill.Child("g")
	var names []string
	for _, c := range g.Children {
		names = append(names, c.Name)
	}
	want := []string{"Go", "k2", "k9", "k9-2"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names = %v, want %v", names, want)
			break
		}
	}
	if got := f.Skill.Find("g", "k2"); got == nil || got.Weight != 2 {
		t.Errorf("k2 leaf = %v, want weight 2", got)
	}
	if f.Skill.Find("other", "Go") == nil {
		t.Error("names only need to be unique within a group")
	}
}
