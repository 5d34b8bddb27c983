package combat

// scriptedRandom returns the scripted samples in order, then fallback forever.
type scriptedRandom struct {
	samples  []float64
	fallback float64
	calls    int
}

// Scripted returns a Random that yields samples in order and then fallback.
// For tests that need a battle to follow an exact path; not safe for
// concurrent use.
func Scripted(fallback float64, samples ...float64) Random {
	return &scriptedRandom{samples: samples, fallback: fallback}
}

func (s *scriptedRandom) Float64() float64 {
	defer func() { s.calls++ }()
	if s.calls < len(s.samples) {
		return s.samples[s.calls]
	}
	return s.fallback
}
