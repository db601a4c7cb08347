package nodelink

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/skillgraph/pkg/hierarchy"
)

func testTree() *hierarchy.Node {
	return &hierarchy.Node{Name: "skill", Weight: 3, Children: []*hierarchy.Node{
		{Name: "backend", Weight: 2, Frequency: 60, Children: []*hierarchy.Node{
			{Name: "Go", Weight: 2, Frequency: 60},
		}},
		{Name: "frontend", Weight: 1, Frequency: 40, Children: []*hierarchy.Node{
			{Name: "Go", Weight: 1, Frequency: 40},
		}},
	}}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testTree(), Options{})

	for _, want := range []string{
		"rankdir=LR",
		`"skill" -> "skill/backend";`,
		`"skill/backend" -> "skill/backend/Go";`,
		`"skill/frontend" -> "skill/frontend/Go";`,
		`label="Go"`,
		"dashed",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if n := strings.Count(dot, "->"); n != 4 {
		t.Errorf("edges = %d, want 4", n)
	}
}

func TestToDOT_DomainColors(t *testing.T) {
	dot := ToDOT(testTree(), Options{})
	stroke := func(id string) string {
		for _, line := range strings.Split(dot, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), fmt.Sprintf("%q [", id)) {
				const attr = `, color="`
				if i := strings.Index(line, attr); i >= 0 {
					return line[i+len(attr) : i+len(attr)+7]
				}
			}
		}
		return ""
	}

	backend, frontend := stroke("skill/backend"), stroke("skill/frontend")
	if backend == "" || frontend == "" {
		t.Fatalf("domain strokes missing:\n%s", dot)
	}
	if backend == frontend {
		t.Errorf("domains share stroke %s", backend)
	}
	if got := stroke("skill/backend/Go"); got != backend {
		t.Errorf("leaf stroke = %s, want its domain's %s", got, backend)
	}
}

func TestToDOT_Options(t *testing.T) {
	detailed := ToDOT(testTree(), Options{Detailed: true})
	if !strings.Contains(detailed, `weight: 2\nfrequency: 60%`) {
		t.Errorf("detailed labels missing metrics:\n%s", detailed)
	}

	shallow := ToDOT(testTree(), Options{MaxDepth: 1})
	if strings.Contains(shallow, "backend/Go") {
		t.Error("MaxDepth 1 should stop at domains")
	}
	if n := strings.Count(shallow, "->"); n != 2 {
		t.Errorf("edges = %d, want 2", n)
	}

	if empty := ToDOT(nil, Options{}); !strings.HasSuffix(empty, "}\n") || strings.Contains(empty, "->") {
		t.Errorf("nil root DOT = %q", empty)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testTree(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("root element not normalized: %.200s", s)
	}
	if !strings.Contains(s, "frontend") {
		t.Error("rendered SVG missing node text")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox = %s", got)
	}

	noBox := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(noBox)) != string(noBox) {
		t.Error("SVG without viewBox should be unchanged")
	}
}
