package distribution

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// epsilon is the spacing between 1.0 and the next float64, used to floor
// log2 lower bounds away from the non-positive domain.
var epsilon = math.Nextafter(1, 2) - 1

// #region uniform

// Uniform draws a float uniformly between two inclusive bounds.
type Uniform struct {
	trace
	min float64
	max float64
}

// NewUniform creates a uniform distribution over [minIncluded,
// maxIncluded]. Inverted bounds are tolerated; sampling normalizes them.
func NewUniform(minIncluded, maxIncluded float64) *Uniform {
	return &Uniform{trace: newTrace(), min: minIncluded, max: maxIncluded}
}

// Bounds returns the configured min and max.
func (u *Uniform) Bounds() (float64, float64) { return u.min, u.max }

// Sample returns a float in [min(a,b), max(a,b)].
func (u *Uniform) Sample(rng *rand.Rand) any {
	lo, hi := orderBounds(u.min, u.max)
	return distuv.Uniform{Min: lo, Max: hi, Src: rng}.Rand()
}

// Narrow interpolates both bounds toward bestGuess, keeping keptRatio of
// the current span. Degenerate bounds collapse to Fixed.
func (u *Uniform) Narrow(bestGuess any, keptRatio float64) Distribution {
	guess, ok := toFloat(bestGuess)
	if !ok {
		return collapseTo(bestGuess, keptRatio, u)
	}
	lost := 1.0 - keptRatio
	newMin := u.min*keptRatio + guess*lost
	newMax := u.max*keptRatio + guess*lost
	if newMax <= newMin || keptRatio == 0.0 {
		return collapseTo(bestGuess, keptRatio, u)
	}
	child := NewUniform(newMin, newMax)
	child.wasNarrowedFrom(keptRatio, u)
	return child
}

// RevertToOriginal returns a duplicate of the pre-narrowing original.
func (u *Uniform) RevertToOriginal() Distribution { return revertOf(u, u.original) }

func (u *Uniform) clone() Distribution {
	c := *u
	return &c
}

func (u *Uniform) String() string { return fmt.Sprintf("Uniform(%g, %g)", u.min, u.max) }

// #endregion uniform

// #region randint

// RandInt draws an integer uniformly between two inclusive bounds.
type RandInt struct {
	trace
	min int
	max int
}

// NewRandInt creates a uniform integer distribution over [minIncluded,
// maxIncluded].
func NewRandInt(minIncluded, maxIncluded int) *RandInt {
	return &RandInt{trace: newTrace(), min: minIncluded, max: maxIncluded}
}

// Bounds returns the configured min and max.
func (r *RandInt) Bounds() (int, int) { return r.min, r.max }

// Sample returns an integer in [min(a,b), max(a,b)].
func (r *RandInt) Sample(rng *rand.Rand) any {
	lo, hi := r.min, r.max
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// Narrow interpolates both bounds toward bestGuess and rounds them back
// to integers. Degenerate bounds collapse to Fixed.
func (r *RandInt) Narrow(bestGuess any, keptRatio float64) Distribution {
	guess, ok := toFloat(bestGuess)
	if !ok {
		return collapseTo(bestGuess, keptRatio, r)
	}
	lost := 1.0 - keptRatio
	newMin := int(math.Round(float64(r.min)*keptRatio + guess*lost))
	newMax := int(math.Round(float64(r.max)*keptRatio + guess*lost))
	if newMax <= newMin || keptRatio == 0.0 {
		return collapseTo(bestGuess, keptRatio, r)
	}
	child := NewRandInt(newMin, newMax)
	child.wasNarrowedFrom(keptRatio, r)
	return child
}

// RevertToOriginal returns a duplicate of the pre-narrowing original.
func (r *RandInt) RevertToOriginal() Distribution { return revertOf(r, r.original) }

func (r *RandInt) clone() Distribution {
	c := *r
	return &c
}

func (r *RandInt) String() string { return fmt.Sprintf("RandInt(%d, %d)", r.min, r.max) }

// #endregion randint

// #region loguniform

// LogUniform draws uniformly in log2 space and exponentiates, which
// suits scales that vary over orders of magnitude such as learning
// rates. Bounds are stored as base-2 logarithms.
type LogUniform struct {
	trace
	log2Min float64
	log2Max float64
}

// NewLogUniform creates a log-uniform distribution over [minIncluded,
// maxIncluded]. Both bounds must be strictly positive.
func NewLogUniform(minIncluded, maxIncluded float64) (*LogUniform, error) {
	if minIncluded <= 0 || maxIncluded <= 0 {
		return nil, fmt.Errorf("log-uniform bounds must be positive, got [%g, %g]", minIncluded, maxIncluded)
	}
	return &LogUniform{
		trace:   newTrace(),
		log2Min: math.Log2(minIncluded),
		log2Max: math.Log2(maxIncluded),
	}, nil
}

// Log2Bounds returns the stored base-2 logarithms of the bounds.
func (l *LogUniform) Log2Bounds() (float64, float64) { return l.log2Min, l.log2Max }

// Sample returns 2 raised to a uniform draw between the log2 bounds.
func (l *LogUniform) Sample(rng *rand.Rand) any {
	lo, hi := orderBounds(l.log2Min, l.log2Max)
	return math.Exp2(distuv.Uniform{Min: lo, Max: hi, Src: rng}.Rand())
}

// Narrow interpolates the log2 bounds toward log2(bestGuess), flooring
// the lower bound at epsilon. A non-positive guess or degenerate bounds
// collapse to Fixed.
func (l *LogUniform) Narrow(bestGuess any, keptRatio float64) Distribution {
	guess, ok := toFloat(bestGuess)
	if !ok || guess <= 0 {
		return collapseTo(bestGuess, keptRatio, l)
	}
	lost := 1.0 - keptRatio
	logGuess := math.Log2(guess)
	newMin := math.Max(l.log2Min*keptRatio+logGuess*lost, epsilon)
	newMax := l.log2Max*keptRatio + logGuess*lost
	if newMax <= newMin || keptRatio == 0.0 {
		return collapseTo(bestGuess, keptRatio, l)
	}
	child := &LogUniform{trace: newTrace(), log2Min: newMin, log2Max: newMax}
	child.wasNarrowedFrom(keptRatio, l)
	return child
}

// RevertToOriginal returns a duplicate of the pre-narrowing original.
func (l *LogUniform) RevertToOriginal() Distribution { return revertOf(l, l.original) }

func (l *LogUniform) clone() Distribution {
	c := *l
	return &c
}

func (l *LogUniform) String() string {
	return fmt.Sprintf("LogUniform(%g, %g)", math.Exp2(l.log2Min), math.Exp2(l.log2Max))
}

// #endregion loguniform

// #region normal

// Normal draws from a Gaussian with optional hard clip bounds applied
// after the draw.
type Normal struct {
	trace
	mean    float64
	std     float64
	clipMin float64
	clipMax float64
}

// NewNormal creates an unclipped normal distribution.
func NewNormal(mean, std float64) *Normal {
	return NewClippedNormal(mean, std, math.Inf(-1), math.Inf(1))
}

// NewClippedNormal creates a normal distribution whose samples are
// clamped to [clipMin, clipMax]. Pass an infinity to leave a side open.
func NewClippedNormal(mean, std, clipMin, clipMax float64) *Normal {
	return &Normal{trace: newTrace(), mean: mean, std: std, clipMin: clipMin, clipMax: clipMax}
}

// Params returns the mean and standard deviation.
func (n *Normal) Params() (float64, float64) { return n.mean, n.std }

// Clip returns the hard clip bounds.
func (n *Normal) Clip() (float64, float64) { return n.clipMin, n.clipMax }

// Sample returns a Gaussian draw clamped to the clip bounds.
func (n *Normal) Sample(rng *rand.Rand) any {
	v := distuv.Normal{Mu: n.mean, Sigma: n.std, Src: rng}.Rand()
	return clamp(v, n.clipMin, n.clipMax)
}

// Narrow moves the mean toward bestGuess and scales the standard
// deviation by keptRatio, keeping the clip bounds unchanged. A vanished
// standard deviation collapses to Fixed.
func (n *Normal) Narrow(bestGuess any, keptRatio float64) Distribution {
	guess, ok := toFloat(bestGuess)
	if !ok {
		return collapseTo(bestGuess, keptRatio, n)
	}
	lost := 1.0 - keptRatio
	newMean := n.mean*keptRatio + guess*lost
	newStd := n.std * keptRatio
	if newStd <= 0.0 {
		return collapseTo(bestGuess, keptRatio, n)
	}
	child := NewClippedNormal(newMean, newStd, n.clipMin, n.clipMax)
	child.wasNarrowedFrom(keptRatio, n)
	return child
}

// RevertToOriginal returns a duplicate of the pre-narrowing original.
func (n *Normal) RevertToOriginal() Distribution { return revertOf(n, n.original) }

func (n *Normal) clone() Distribution {
	c := *n
	return &c
}

func (n *Normal) String() string { return fmt.Sprintf("Normal(%g, %g)", n.mean, n.std) }

// #endregion normal

// #region lognormal

// LogNormal draws a Gaussian in log2 space and exponentiates, with
// optional hard clip bounds applied after the exponent.
type LogNormal struct {
	trace
	log2Mean float64
	log2Std  float64
	clipMin  float64
	clipMax  float64
}

// NewLogNormal creates a log-normal distribution. The mean and standard
// deviation are given in log2 space; the clip bounds of the clipped
// variant apply in natural space.
func NewLogNormal(log2Mean, log2Std float64) *LogNormal {
	return NewClippedLogNormal(log2Mean, log2Std, math.Inf(-1), math.Inf(1))
}

// NewClippedLogNormal creates a log-normal distribution whose samples
// are clamped to [clipMin, clipMax] after exponentiation.
func NewClippedLogNormal(log2Mean, log2Std, clipMin, clipMax float64) *LogNormal {
	return &LogNormal{trace: newTrace(), log2Mean: log2Mean, log2Std: log2Std, clipMin: clipMin, clipMax: clipMax}
}

// Params returns the log2-space mean and standard deviation.
func (l *LogNormal) Params() (float64, float64) { return l.log2Mean, l.log2Std }

// Clip returns the hard clip bounds.
func (l *LogNormal) Clip() (float64, float64) { return l.clipMin, l.clipMax }

// Sample returns 2 raised to a Gaussian draw, clamped to the clip
// bounds.
func (l *LogNormal) Sample(rng *rand.Rand) any {
	v := math.Exp2(distuv.Normal{Mu: l.log2Mean, Sigma: l.log2Std, Src: rng}.Rand())
	return clamp(v, l.clipMin, l.clipMax)
}

// Narrow moves the log2 mean toward log2(bestGuess) and scales the log2
// standard deviation by keptRatio, keeping the clip bounds unchanged.
// The narrowed distribution stays log-normal.
func (l *LogNormal) Narrow(bestGuess any, keptRatio float64) Distribution {
	guess, ok := toFloat(bestGuess)
	if !ok || guess <= 0 {
		return collapseTo(bestGuess, keptRatio, l)
	}
	lost := 1.0 - keptRatio
	newMean := l.log2Mean*keptRatio + math.Log2(guess)*lost
	newStd := l.log2Std * keptRatio
	if newStd <= 0.0 {
		return collapseTo(bestGuess, keptRatio, l)
	}
	child := NewClippedLogNormal(newMean, newStd, l.clipMin, l.clipMax)
	child.wasNarrowedFrom(keptRatio, l)
	return child
}

// RevertToOriginal returns a duplicate of the pre-narrowing original.
func (l *LogNormal) RevertToOriginal() Distribution { return revertOf(l, l.original) }

func (l *LogNormal) clone() Distribution {
	c := *l
	return &c
}

func (l *LogNormal) String() string { return fmt.Sprintf("LogNormal(%g, %g)", l.log2Mean, l.log2Std) }

// #endregion lognormal

// #region helpers

func orderBounds(a, b float64) (float64, float64) {
	if b < a {
		return b, a
	}
	return a, b
}

func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// #endregion helpers
