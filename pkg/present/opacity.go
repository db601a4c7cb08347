package present

// Opacity scale constants.
const (
	OpacityBase = 0.35
	OpacitySpan = 0.6
	OpacityFlat = 0.75
)

// OpacityScale maps frequencies to fill opacity.
type OpacityScale struct {
	Min, Max float64
	empty    bool
}

// NewOpacityScale spans the given frequencies.
func NewOpacityScale(freqs []float64) OpacityScale {
	if len(freqs) == 0 {
		return OpacityScale{empty: true}
	}
	s := OpacityScale{Min: freqs[0], Max: freqs[0]}
	for _, f := range freqs[1:] {
		s.Min = min(s.Min, f)
		s.Max = max(s.Max, f)
	}
	return s
}

// Opacity returns the opacity for frequency f.
func (s OpacityScale) Opacity(f float64) float64 {
	if s.empty || s.Min == s.Max {
		return OpacityFlat
	}
	return OpacityBase + OpacitySpan*(f-s.Min)/(s.Max-s.Min)
}
