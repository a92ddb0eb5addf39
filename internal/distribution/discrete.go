package distribution

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// #region fixed

// Fixed is a hyperparameter that no longer varies but is still expressed
// as a distribution. It is the terminal state of the narrowing lattice:
// no family narrows further than Fixed.
type Fixed struct {
	trace
	value any
}

// NewFixed creates a distribution that always samples value.
func NewFixed(value any) *Fixed {
	return &Fixed{trace: newTrace(), value: value}
}

// Value returns the wrapped constant.
func (f *Fixed) Value() any { return f.value }

// Sample returns the value given at creation.
func (f *Fixed) Sample(_ *rand.Rand) any { return f.value }

// Narrow is the identity for Fixed: an equivalent Fixed wrapping the
// same value, trace-updated.
func (f *Fixed) Narrow(_ any, keptRatio float64) Distribution {
	child := NewFixed(f.value)
	child.wasNarrowedFrom(keptRatio, f)
	return child
}

// RevertToOriginal returns a duplicate of the pre-narrowing original.
func (f *Fixed) RevertToOriginal() Distribution { return revertOf(f, f.original) }

func (f *Fixed) clone() Distribution {
	c := *f
	return &c
}

func (f *Fixed) String() string { return fmt.Sprintf("Fixed(%v)", f.value) }

// #endregion fixed

// #region boolean

// Boolean samples uniformly from {true, false}. It carries no parameters
// and uses the default collapse-to-Fixed narrowing.
type Boolean struct {
	trace
}

// NewBoolean creates a uniform boolean distribution.
func NewBoolean() *Boolean {
	return &Boolean{trace: newTrace()}
}

// Sample returns true or false with equal probability.
func (b *Boolean) Sample(rng *rand.Rand) any { return rng.Intn(2) == 1 }

// Narrow collapses to Fixed(bestGuess); there is no tighter boolean
// space than a single value.
func (b *Boolean) Narrow(bestGuess any, keptRatio float64) Distribution {
	return collapseTo(bestGuess, keptRatio, b)
}

// RevertToOriginal returns a duplicate of the pre-narrowing original.
func (b *Boolean) RevertToOriginal() Distribution { return revertOf(b, b.original) }

func (b *Boolean) clone() Distribution {
	c := *b
	return &c
}

func (b *Boolean) String() string { return "Boolean" }

// #endregion boolean

// #region choice

// Choice samples uniformly from an ordered candidate list. Narrowing
// never shrinks the list; it only tracks how much of the space has been
// given up, and collapses to Fixed(bestGuess) once fewer than one
// effective slot per candidate remains.
type Choice struct {
	trace
	choices []any
}

// NewChoice creates a uniform categorical distribution over choices.
func NewChoice(choices []any) *Choice {
	return &Choice{trace: newTrace(), choices: choices}
}

// Choices returns the candidate list. Callers must not mutate it.
func (c *Choice) Choices() []any { return c.choices }

// Sample returns one of the candidates at random, or nil for an empty
// list.
func (c *Choice) Sample(rng *rand.Rand) any {
	if len(c.choices) == 0 {
		return nil
	}
	return c.choices[rng.Intn(len(c.choices))]
}

// Narrow collapses once the cumulative kept ratio falls to 1/len or the
// list has at most one candidate; otherwise it returns a trace-updated
// copy with the list intact.
func (c *Choice) Narrow(bestGuess any, keptRatio float64) Distribution {
	if len(c.choices) <= 1 {
		return collapseTo(bestGuess, keptRatio, c)
	}
	if c.ratio*keptRatio <= 1.0/float64(len(c.choices)) {
		return collapseTo(bestGuess, keptRatio, c)
	}
	child := c.clone().(*Choice)
	child.wasNarrowedFrom(keptRatio, c)
	return child
}

// RevertToOriginal returns a duplicate of the pre-narrowing original.
func (c *Choice) RevertToOriginal() Distribution { return revertOf(c, c.original) }

func (c *Choice) clone() Distribution {
	d := *c
	return &d
}

func (c *Choice) String() string { return fmt.Sprintf("Choice(%v)", c.choices) }

// #endregion choice
