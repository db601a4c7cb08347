package hierarchy

import (
	"fmt"
	"math"
)

// Category is one entry of the category index.
type Category struct {
	Key                 string `json:"key"`
	Type                Kind   `json:"type"`
	Name                string `json:"name"`
	Group               string `json:"group"`
	TotalSubCheckpoints int    `json:"totalSubCheckpoints"`
}

// DisplayName returns the category name, falling back to its key.
func (c Category) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Key
}

// Record holds one entity's completion data: category key to the IDs of the
// sub-checkpoints the entity completed. A key being present at all means the
// entity has a completion record for that category, even with no items.
type Record struct {
	Entity      string              `json:"entity"`
	Completions map[string][]string `json:"completions"`
}

// Forest holds the two parallel hierarchies built from one data load.
type Forest struct {
	Role  *Node `json:"role" bson:"role"`
	Skill *Node `json:"skill" bson:"skill"`
}

// Get returns the root for kind.
func (f Forest) Get(kind Kind) *Node {
	switch kind {
	case KindRole:
		return f.Role
	case KindSkill:
		return f.Skill
	default:
		return nil
	}
}

// Aggregate builds one weighted hierarchy per kind from the category index
// and the entity completion records.
//
// For every category, the leaf weight is the number of entities holding a
// completion record for it and the leaf frequency is the rounded mean
// completion rate (completed / total sub-checkpoints * 100) over those
// entities. Categories nobody touched are dropped. Leaves are grouped by their
// declared group into domain nodes, in first-appearance order. A leaf whose
// display name is already taken in its group is named by its key instead.
func Aggregate(categories []Category, records []Record) Forest {
	return Forest{
		Role:  aggregateKind(KindRole, categories, records),
		Skill: aggregateKind(KindSkill, categories, records),
	}
}

func aggregateKind(kind Kind, categories []Category, records []Record) *Node {
	root := &Node{Name: string(kind)}
	groups := make(map[string]*Node)
	taken := make(map[*Node]map[string]bool)

	for _, c := range categories {
		if c.Type != kind {
			continue
		}
		leaf, ok := aggregateCategory(c, records)
		if !ok {
			continue
		}
		g, exists := groups[c.Group]
		if !exists {
			g = &Node{Name: c.Group}
			groups[c.Group] = g
			taken[g] = make(map[string]bool)
			root.Children = append(root.Children, g)
		}
		leaf.Name = uniqueName(taken[g], leaf.Name, c.Key)
		g.Children = append(g.Children, leaf)
	}

	for _, g := range root.Children {
		summarize(g)
		root.Weight += g.Weight
	}
	return root
}

func aggregateCategory(c Category, records []Record) (*Node, bool) {
	count := 0
	totalRate := 0.0
	for _, r := range records {
		completed, ok := r.Completions[c.Key]
		if !ok {
			continue
		}
		count++
		totalRate += completionRate(len(completed), c.TotalSubCheckpoints)
	}
	if count == 0 {
		return nil, false
	}
	return &Node{
		Name:      c.DisplayName(),
		Weight:    count,
		Frequency: math.Round(totalRate / float64(count)),
	}, true
}

// uniqueName keeps sibling names distinct: a display name already used in the
// group falls back to the category key, then to the key with a counter.
func uniqueName(taken map[string]bool, name, key string) string {
	if taken[name] {
		name = key
	}
	for i := 2; taken[name]; i++ {
		name = fmt.Sprintf("%s-%d", key, i)
	}
	taken[name] = true
	return name
}

// completionRate is capped at 100 so stale indexes with fewer declared
// sub-checkpoints than recorded completions stay within bounds.
func completionRate(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return min(100, float64(completed)/float64(total)*100)
}

// summarize sets a group's weight to the sum of its children and its
// frequency to their weight-weighted average.
func summarize(g *Node) {
	weighted := 0.0
	g.Weight = 0
	for _, c := range g.Children {
		g.Weight += c.Weight
		weighted += float64(c.Weight) * c.Frequency
	}
	if g.Weight == 0 {
		g.Frequency = 0
		return
	}
	g.Frequency = weighted / float64(g.Weight)
}
