package distribution

import (
	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

// #region contract

// Default kept-space ratios used by callers that do not pick their own.
// Families with a numeric narrowing rule keep half the space per step;
// the plain collapse path keeps nothing.
const (
	DefaultKeptRatio     = 0.5
	DefaultCollapseRatio = 0.0
)

// Distribution is the sampling and narrowing contract shared by every
// family. Sampling is side-effect free: each call draws from the same
// immutable parameters using the caller's rng. Narrow never mutates the
// receiver; it returns a fresh instance biased toward bestGuess, with
// keptRatio in [0, 1] controlling how much of the current space survives
// (1 keeps everything, 0 collapses straight to Fixed).
//
// The closed set of implementations lives in this package: Fixed,
// Boolean, Choice, Uniform, RandInt, LogUniform, Normal, LogNormal and
// Quantized.
type Distribution interface {
	// ID returns the identity token assigned at construction. Clones made
	// for reverting share the token; narrowed instances get a new one.
	ID() string

	// Sample draws one value from the distribution's support.
	Sample(rng *rand.Rand) any

	// Narrow returns a tighter distribution biased toward bestGuess.
	Narrow(bestGuess any, keptRatio float64) Distribution

	// RevertToOriginal returns a duplicate of the pre-narrowing original,
	// or a duplicate of the receiver if it was never narrowed.
	RevertToOriginal() Distribution

	// CurrentNarrowingRatio is the cumulative product of every keptRatio
	// applied so far (1.0 for a virgin distribution).
	CurrentNarrowingRatio() float64

	clone() Distribution
}

// Same reports identity equality: two values refer to the same
// originally constructed distribution (possibly through clones). It says
// nothing about parameter equality.
func Same(a, b Distribution) bool {
	return a.ID() == b.ID()
}

// #endregion contract

// #region trace

// trace is the narrowing bookkeeping embedded in every family: the
// identity token, the cumulative kept-space ratio, and a non-owning
// reference to the pre-narrowing original. The original reference is
// only consulted by RevertToOriginal, never by narrowing math, and by
// construction the chain is at most one level deep: a stored original is
// itself already reverted.
type trace struct {
	id       string
	ratio    float64
	original Distribution
}

func newTrace() trace {
	return trace{id: uuid.New().String(), ratio: 1.0}
}

// ID implements the identity part of Distribution.
func (t *trace) ID() string { return t.id }

// CurrentNarrowingRatio implements the ratio part of Distribution.
func (t *trace) CurrentNarrowingRatio() float64 { return t.ratio }

// wasNarrowedFrom stamps a freshly built child with its provenance: the
// parent's cumulative ratio times this step's keptRatio, and the
// parent's one-level-reverted original.
func (t *trace) wasNarrowedFrom(keptRatio float64, parent Distribution) {
	t.ratio = parent.CurrentNarrowingRatio() * keptRatio
	t.original = parent.RevertToOriginal()
}

// revertOf returns a duplicate of original when present, else a
// duplicate of self. The duplicate is never the live instance, so
// callers cannot mutate history through the returned handle.
func revertOf(self, original Distribution) Distribution {
	if original != nil {
		return original.clone()
	}
	return self.clone()
}

// collapseTo is the shared degenerate path: narrowing that ran out of
// space returns Fixed(bestGuess) with the trace carried over.
func collapseTo(bestGuess any, keptRatio float64, parent Distribution) Distribution {
	f := NewFixed(bestGuess)
	f.wasNarrowedFrom(keptRatio, parent)
	return f
}

// #endregion trace

// #region coercion

// toFloat coerces the numeric types a best guess may arrive as after a
// trip through sampling or JSON.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// #endregion coercion
