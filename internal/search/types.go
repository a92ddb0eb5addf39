package search

import (
	"github.com/danielpatrickdp/hyper-tuner/go-tuner/internal/distribution"
	"github.com/danielpatrickdp/hyper-tuner/go-tuner/internal/space"
)

// #region objective

// Objective evaluates one sampled configuration and returns its score.
// A returned error marks the trial as failed rather than aborting the
// search.
type Objective func(samples space.Samples) (float64, error)

// #endregion objective

// #region config

// Config controls a search run.
type Config struct {
	Rounds         int     // narrowing generations
	TrialsPerRound int     // configurations sampled per generation
	KeptRatio      float64 // space kept per narrowing step, in [0, 1]
	HigherIsBetter bool    // score direction
	Seed           uint64  // rng seed; a fixed seed reproduces the run
}

// DefaultConfig returns the standard search configuration.
func DefaultConfig() Config {
	return Config{
		Rounds:         5,
		TrialsPerRound: 10,
		KeptRatio:      distribution.DefaultKeptRatio,
		HigherIsBetter: true,
		Seed:           1,
	}
}

// #endregion config

// #region results

// TrialResult is one evaluated configuration within a round.
type TrialResult struct {
	Samples space.Samples
	Score   float64
	Err     error
}

// RoundStats summarizes one search round.
type RoundStats struct {
	Round     int
	Evaluated int
	Failures  int
	BestScore float64
	MeanScore float64
	// Ratios is the cumulative kept-space ratio per parameter for the
	// space the round sampled from.
	Ratios map[string]float64
}

// Result is the outcome of a full search run.
type Result struct {
	BestSamples space.Samples
	BestScore   float64
	Rounds      []RoundStats
	FinalSpace  space.Space
}

// #endregion results
