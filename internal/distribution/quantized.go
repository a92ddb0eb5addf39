package distribution

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// #region quantized

// Quantized wraps one inner distribution and rounds its samples to the
// nearest integer. It carries no parameters of its own.
type Quantized struct {
	trace
	inner Distribution
}

// NewQuantized wraps inner in a quantizing layer.
func NewQuantized(inner Distribution) *Quantized {
	return &Quantized{trace: newTrace(), inner: inner}
}

// Inner returns the wrapped distribution.
func (q *Quantized) Inner() Distribution { return q.inner }

// Sample rounds the inner draw to the nearest integer. A non-numeric
// inner value passes through untouched.
func (q *Quantized) Sample(rng *rand.Rand) any {
	v := q.inner.Sample(rng)
	f, ok := toFloat(v)
	if !ok {
		return v
	}
	return int(math.Round(f))
}

// Narrow narrows the inner distribution and re-wraps the result.
func (q *Quantized) Narrow(bestGuess any, keptRatio float64) Distribution {
	child := NewQuantized(q.inner.Narrow(bestGuess, keptRatio))
	child.wasNarrowedFrom(keptRatio, q)
	return child
}

// RevertToOriginal returns a duplicate of the pre-narrowing original.
func (q *Quantized) RevertToOriginal() Distribution { return revertOf(q, q.original) }

func (q *Quantized) clone() Distribution {
	c := *q
	return &c
}

func (q *Quantized) String() string { return fmt.Sprintf("Quantized(%v)", q.inner) }

// #endregion quantized
