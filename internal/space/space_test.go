package space

import (
	"reflect"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/danielpatrickdp/hyper-tuner/go-tuner/internal/distribution"
)

func testSpace() Space {
	return Space{
		"learning_rate": distribution.NewUniform(0.0, 1.0),
		"layers":        distribution.NewRandInt(1, 8),
		"optimizer":     distribution.NewChoice([]any{"sgd", "adam"}),
		"use_bias":      distribution.NewBoolean(),
	}
}

func TestSample_CoversEveryParameter(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := testSpace()

	got := s.Sample(rng)

	if len(got) != len(s) {
		t.Fatalf("got %d samples, want %d", len(got), len(s))
	}
	for name := range s {
		if _, ok := got[name]; !ok {
			t.Errorf("missing sample for %q", name)
		}
	}
}

func TestSample_DeterministicForSeed(t *testing.T) {
	s := testSpace()

	a := s.Sample(rand.New(rand.NewSource(7)))
	b := s.Sample(rand.New(rand.NewSource(7)))

	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced different draws:\n%v\n%v", a, b)
	}
}

func TestNarrow_RebuildsEveryGuessedParameter(t *testing.T) {
	s := testSpace()
	guesses := map[string]any{
		"learning_rate": 0.5,
		"layers":        4,
	}

	next := s.Narrow(guesses, 0.5)

	if len(next) != len(s) {
		t.Fatalf("narrowed space has %d parameters, want %d", len(next), len(s))
	}
	for name := range guesses {
		if distribution.Same(next[name], s[name]) {
			t.Errorf("%q: expected a new distribution after narrowing", name)
		}
		if got := next[name].CurrentNarrowingRatio(); got != 0.5 {
			t.Errorf("%q: got ratio %v, want 0.5", name, got)
		}
	}
	// Unguessed parameters carry over as-is.
	if !distribution.Same(next["optimizer"], s["optimizer"]) {
		t.Errorf("optimizer should carry over unchanged")
	}
}

func TestNarrow_PriorGenerationUntouched(t *testing.T) {
	s := testSpace()
	u := s["learning_rate"].(*distribution.Uniform)

	_ = s.Narrow(map[string]any{"learning_rate": 0.5}, 0.25)

	lo, hi := u.Bounds()
	if lo != 0.0 || hi != 1.0 {
		t.Errorf("parent bounds changed to [%v, %v]", lo, hi)
	}
	if u.CurrentNarrowingRatio() != 1.0 {
		t.Errorf("parent ratio changed to %v", u.CurrentNarrowingRatio())
	}
}

func TestNarrowWith_PerParameterRatios(t *testing.T) {
	s := testSpace()
	guesses := map[string]any{
		"learning_rate": 0.5,
		"layers":        4,
	}
	ratios := map[string]float64{"learning_rate": 0.8}

	next := s.NarrowWith(guesses, ratios, 0.5)

	if got := next["learning_rate"].CurrentNarrowingRatio(); got != 0.8 {
		t.Errorf("learning_rate: got ratio %v, want 0.8", got)
	}
	if got := next["layers"].CurrentNarrowingRatio(); got != 0.5 {
		t.Errorf("layers: got ratio %v, want 0.5", got)
	}
}

func TestRevert_RecoversOriginals(t *testing.T) {
	s := testSpace()

	narrowed := s.Narrow(map[string]any{"learning_rate": 0.5}, 0.5)
	reverted := narrowed.Revert()

	if !distribution.Same(reverted["learning_rate"], s["learning_rate"]) {
		t.Errorf("revert should recover the original identity")
	}
	lo, hi := reverted["learning_rate"].(*distribution.Uniform).Bounds()
	if lo != 0.0 || hi != 1.0 {
		t.Errorf("reverted bounds are [%v, %v], want [0, 1]", lo, hi)
	}
}

func TestFlatten_DottedNames(t *testing.T) {
	nested := map[string]any{
		"learning_rate": 0.01,
		"encoder": map[string]any{
			"layers": 4,
			"attention": map[string]any{
				"heads": 8,
			},
		},
	}

	got := Flatten(nested)

	want := map[string]any{
		"learning_rate":           0.01,
		"encoder.layers":          4,
		"encoder.attention.heads": 8,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
