// Package belief maintains the distribution over the human's
// rationality parameter and updates it from observed motion.
package belief

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Mode selects how the rationality belief behaves.
type Mode string

const (
	// ModeIrrational pins rationality to the lowest support point.
	ModeIrrational Mode = "irrational"
	// ModeRational pins rationality to the highest support point.
	ModeRational Mode = "rational"
	// ModeAdaptive updates the belief from evidence every tick.
	ModeAdaptive Mode = "adaptive"
)

// ParseMode validates a mode string from configuration.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeIrrational, ModeRational, ModeAdaptive:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown rationality mode %q", s)
}

// Belief is a discrete probability distribution over a fixed support of
// rationality (inverse temperature) values. It is owned by a single
// estimator and never shared for concurrent writes.
type Belief struct {
	Support []float64 `json:"support"`
	Probs   []float64 `json:"probs"`
}

// NewBelief builds a belief over the given ascending support. A nil
// prior yields the uniform distribution.
func NewBelief(support, prior []float64) (Belief, error) {
	if len(support) == 0 {
		return Belief{}, fmt.Errorf("belief support must not be empty")
	}
	for i := 1; i < len(support); i++ {
		if support[i] <= support[i-1] {
			return Belief{}, fmt.Errorf("belief support must be strictly ascending")
		}
	}
	probs := make([]float64, len(support))
	if prior == nil {
		for i := range probs {
			probs[i] = 1 / float64(len(probs))
		}
	} else {
		if len(prior) != len(support) {
			return Belief{}, fmt.Errorf("prior length %d does not match support length %d", len(prior), len(support))
		}
		sum := 0.0
		for _, p := range prior {
			if p < 0 {
				return Belief{}, fmt.Errorf("negative prior weight %v", p)
			}
			sum += p
		}
		if sum <= 0 {
			return Belief{}, fmt.Errorf("prior weights sum to zero")
		}
		for i, p := range prior {
			probs[i] = p / sum
		}
	}
	sup := make([]float64, len(support))
	copy(sup, support)
	return Belief{Support: sup, Probs: probs}, nil
}

// Mean returns the expected rationality under the belief.
func (b Belief) Mean() float64 {
	return stat.Mean(b.Support, b.Probs)
}

// Clone returns an independent copy of the belief.
func (b Belief) Clone() Belief {
	sup := make([]float64, len(b.Support))
	copy(sup, b.Support)
	probs := make([]float64, len(b.Probs))
	copy(probs, b.Probs)
	return Belief{Support: sup, Probs: probs}
}
