package hierarchy

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestProjectDropsThirdLevel(t *testing.T) {
	src := deepTree()
	p := Project(src)

	a1 := p.Find("a", "a1")
	if a1 == nil {
		t.Fatal("a1 missing from projection")
	}
	if !a1.IsLeaf() {
		t.Error("projected skill should be a leaf")
	}
	if a1.Weight != 3 {
		t.Errorf("projected weight = %d, want 3", a1.Weight)
	}
	if err := Validate(p); err != nil {
		t.Errorf("projection invalid: %v", err)
	}

	if len(src.Find("a", "a1").Children) != 2 {
		t.Error("projection must not mutate the source tree")
	}
	if p.Children[0] == src.Children[0] {
		t.Error("projection must not share nodes with the source")
	}
}

func TestProjectNil(t *testing.T) {
	if Project(nil) != nil {
		t.Error("Project(nil) should be nil")
	}
}

func TestCloneEqual(t *testing.T) {
	src := deepTree()
	c := Clone(src)
	if !Equal(src, c) {
		t.Fatal("clone should equal source")
	}
	c.Children[1].Frequency = 11
	if Equal(src, c) {
		t.Error("Equal should detect frequency change")
	}
}

func TestForestFile(t *testing.T) {
	f := Aggregate(sampleCategories(), sampleRecords())
	path := filepath.Join(t.TempDir(), "hierarchy.json")
	if err := WriteForestFile(f, path); err != nil {
		t.Fatalf("WriteForestFile() = %v", err)
	}
	got, err := ReadForestFile(path)
	if err != nil {
		t.Fatalf("ReadForestFile() = %v", err)
	}
	if !Equal(f.Skill, got.Skill) || !Equal(f.Role, got.Role) {
		t.Error("forest changed across file round trip")
	}
}

func TestReadForestRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"missing root":   `{"role": {"name": "role"}}`,
		"bad weight sum": `{"role": {"name":"role","weight":3,"children":[{"name":"g","weight":1}]}, "skill": {"name":"skill"}}`,
		"not json":       `{`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadForest(bytes.NewReader([]byte(body))); err == nil {
				t.Error("ReadForest() = nil error, want failure")
			}
		})
	}
}
