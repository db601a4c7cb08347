package present

import (
	"math"

	"github.com/matzehuels/skillgraph/pkg/geometry"
)

// Label thresholds.
const (
	// MinFontArea is the smallest area that reaches font sizing.
	MinFontArea = 900.0
	// MinLabelArea is the smallest area that gets a label.
	MinLabelArea = 1400.0

	MinFontSize = 8.0
	MaxFontSize = 14.0
	fontDivisor = 7.0

	ellipsis = "…"
)

// budgetTiers maps minimum (exclusive) area to character budget, largest first.
var budgetTiers = []struct {
	area   float64
	budget int
}{
	{12000, 18},
	{8000, 14},
	{5000, 11},
	{3000, 9},
}

const minBudget = 7

// Label is the text drawn inside a leaf cell.
type Label struct {
	Text      string         `json:"text"`
	Position  geometry.Point `json:"position"`
	FontSize  float64        `json:"font_size"`
	Truncated bool           `json:"truncated,omitempty"`
}

// FontSize returns sqrt(area)/7 clamped to [MinFontSize, MaxFontSize].
func FontSize(area float64) float64 {
	return min(MaxFontSize, max(MinFontSize, math.Sqrt(area)/fontDivisor))
}

// CharBudget returns the maximum label length for a cell of the given area.
func CharBudget(area float64) int {
	for _, t := range budgetTiers {
		if area > t.area {
			return t.budget
		}
	}
	return minBudget
}

// Truncate shortens s to at most budget runes, ending in an ellipsis when
// anything was cut.
func Truncate(s string, budget int) (string, bool) {
	r := []rune(s)
	if len(r) <= budget {
		return s, false
	}
	if budget <= 1 {
		return ellipsis, true
	}
	return string(r[:budget-1]) + ellipsis, true
}

// PlaceLabel computes the label for a leaf named name occupying poly. ok is
// false when the cell is too small to carry one.
func PlaceLabel(name string, poly geometry.Polygon) (Label, bool) {
	area := math.Abs(poly.SignedArea())
	if area < MinFontArea {
		return Label{}, false
	}
	size := FontSize(area)
	if area < MinLabelArea {
		return Label{}, false
	}
	text, cut := Truncate(name, CharBudget(area))
	return Label{
		Text:      text,
		Position:  poly.Centroid(),
		FontSize:  size,
		Truncated: cut,
	}, true
}
