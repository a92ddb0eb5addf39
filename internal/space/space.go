package space

import (
	"sort"

	"golang.org/x/exp/rand"

	"github.com/danielpatrickdp/hyper-tuner/go-tuner/internal/distribution"
)

// #region types

// Space maps parameter names to their distributions. A space is
// value-like: narrowing builds a whole new map and never touches the
// distributions already handed out.
type Space map[string]distribution.Distribution

// Samples is one flat draw from a space: parameter name to primitive
// value (number, boolean, or string).
type Samples map[string]any

// #endregion types

// #region sampling

// Names returns the parameter names in sorted order, so iteration and
// sampling are deterministic for a given seed.
func (s Space) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sample draws one value per parameter, in sorted name order.
func (s Space) Sample(rng *rand.Rand) Samples {
	out := make(Samples, len(s))
	for _, name := range s.Names() {
		out[name] = s[name].Sample(rng)
	}
	return out
}

// #endregion sampling

// #region narrowing

// Narrow rebuilds the space with every parameter narrowed toward its
// best guess using one shared kept ratio. Parameters without a guess
// carry over unchanged.
func (s Space) Narrow(guesses map[string]any, keptRatio float64) Space {
	return s.NarrowWith(guesses, nil, keptRatio)
}

// NarrowWith is Narrow with per-parameter kept ratios; defaultRatio
// applies to parameters absent from ratios.
func (s Space) NarrowWith(guesses map[string]any, ratios map[string]float64, defaultRatio float64) Space {
	next := make(Space, len(s))
	for name, dist := range s {
		guess, ok := guesses[name]
		if !ok {
			next[name] = dist
			continue
		}
		ratio := defaultRatio
		if r, ok := ratios[name]; ok {
			ratio = r
		}
		next[name] = dist.Narrow(guess, ratio)
	}
	return next
}

// Revert rebuilds the space from each parameter's pre-narrowing
// original.
func (s Space) Revert() Space {
	next := make(Space, len(s))
	for name, dist := range s {
		next[name] = dist.RevertToOriginal()
	}
	return next
}

// NarrowingRatios reports the cumulative kept ratio per parameter.
func (s Space) NarrowingRatios() map[string]float64 {
	out := make(map[string]float64, len(s))
	for name, dist := range s {
		out[name] = dist.CurrentNarrowingRatio()
	}
	return out
}

// #endregion narrowing
