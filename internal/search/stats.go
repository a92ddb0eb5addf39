package search

import (
	"github.com/danielpatrickdp/hyper-tuner/go-tuner/internal/space"
)

// #region round-summary

// summarizeRound condenses a round's trials into metrics. Scores are
// aggregated over successful trials only; a round with no successes
// reports zero scores and a matching failure count.
func summarizeRound(round int, roundTrials []TrialResult, sampled space.Space, higherIsBetter bool) RoundStats {
	stats := RoundStats{
		Round:     round,
		Evaluated: len(roundTrials),
		Ratios:    sampled.NarrowingRatios(),
	}

	var sum float64
	var successes int
	for i := range roundTrials {
		trial := &roundTrials[i]
		if trial.Err != nil {
			stats.Failures++
			continue
		}
		sum += trial.Score
		if successes == 0 || better(trial.Score, stats.BestScore, higherIsBetter) {
			stats.BestScore = trial.Score
		}
		successes++
	}
	if successes > 0 {
		stats.MeanScore = sum / float64(successes)
	}
	return stats
}

// #endregion round-summary
