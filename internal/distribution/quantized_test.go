package distribution

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestQuantized_SampleIsIntegerInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	q := NewQuantized(NewUniform(0.0, 10.0))

	for i := 0; i < 300; i++ {
		v, ok := q.Sample(rng).(int)
		if !ok {
			t.Fatalf("sample returned non-integer")
		}
		if v < 0 || v > 10 {
			t.Fatalf("sample %d: %d outside [0, 10]", i, v)
		}
	}
}

func TestQuantized_NarrowRecursesAndRewraps(t *testing.T) {
	q := NewQuantized(NewUniform(0.0, 10.0))

	got := q.Narrow(5.0, 0.5)

	narrowed, ok := got.(*Quantized)
	require.True(t, ok, "got %T, want *Quantized", got)

	inner, ok := narrowed.Inner().(*Uniform)
	require.True(t, ok, "inner is %T, want *Uniform", narrowed.Inner())
	lo, hi := inner.Bounds()
	require.InDelta(t, 2.5, lo, 1e-12)
	require.InDelta(t, 7.5, hi, 1e-12)

	require.InDelta(t, 0.5, narrowed.CurrentNarrowingRatio(), 1e-12)
}

func TestQuantized_NarrowCollapsedInnerStaysWrapped(t *testing.T) {
	q := NewQuantized(NewUniform(0.0, 10.0))

	got := q.Narrow(5.0, 0.0)

	narrowed, ok := got.(*Quantized)
	require.True(t, ok, "got %T, want *Quantized", got)
	fixed, ok := narrowed.Inner().(*Fixed)
	require.True(t, ok, "inner is %T, want *Fixed", narrowed.Inner())
	require.Equal(t, 5.0, fixed.Value())
}

func TestQuantized_NonNumericInnerPassesThrough(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	q := NewQuantized(NewFixed("not-a-number"))

	require.Equal(t, "not-a-number", q.Sample(rng))
}
