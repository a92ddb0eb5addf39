package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"

	"golang.org/x/exp/rand"

	"github.com/danielpatrickdp/hyper-tuner/go-tuner/internal/space"
	"github.com/danielpatrickdp/hyper-tuner/go-tuner/internal/trials"
)

// ErrNoSuccessfulTrial is returned when every trial of a run failed.
var ErrNoSuccessfulTrial = errors.New("no trial evaluated successfully")

// #region tuner-struct

// Tuner runs round-based random search with narrowing: each round
// samples the current space, evaluates and persists the trials, then
// narrows every parameter toward the round's best configuration.
type Tuner struct {
	space     space.Space
	repo      trials.Repository
	objective Objective
	config    Config
	rng       *rand.Rand
	logger    *log.Logger
	narrowing bool
}

// #endregion tuner-struct

// #region constructor

// NewTuner creates a tuner over sp. repo may be nil to skip
// persistence. Kill switch: set TUNER_NARROWING=off to freeze the space
// across rounds.
func NewTuner(sp space.Space, repo trials.Repository, objective Objective, config Config) (*Tuner, error) {
	if len(sp) == 0 {
		return nil, errors.New("empty hyperparameter space")
	}
	if objective == nil {
		return nil, errors.New("nil objective")
	}
	if config.Rounds <= 0 || config.TrialsPerRound <= 0 {
		return nil, fmt.Errorf("rounds and trials per round must be positive, got %d and %d",
			config.Rounds, config.TrialsPerRound)
	}
	if config.KeptRatio < 0 || config.KeptRatio > 1 {
		return nil, fmt.Errorf("kept ratio must be in [0, 1], got %v", config.KeptRatio)
	}

	narrowing := true
	if v := os.Getenv("TUNER_NARROWING"); v == "off" {
		narrowing = false
	}

	return &Tuner{
		space:     sp,
		repo:      repo,
		objective: objective,
		config:    config,
		rng:       rand.New(rand.NewSource(config.Seed)),
		logger:    log.Default(),
		narrowing: narrowing,
	}, nil
}

// SetLogger redirects run logging, e.g. to io.Discard in tests.
func (t *Tuner) SetLogger(logger *log.Logger) { t.logger = logger }

// #endregion constructor

// #region run

// Run executes the configured rounds and returns the best configuration
// found. The context is checked between trials; cancellation returns
// the partial result with the context's error.
func (t *Tuner) Run(ctx context.Context) (Result, error) {
	current := t.space
	var best *TrialResult
	var result Result

	for round := 1; round <= t.config.Rounds; round++ {
		roundTrials := make([]TrialResult, 0, t.config.TrialsPerRound)

		for i := 0; i < t.config.TrialsPerRound; i++ {
			select {
			case <-ctx.Done():
				result.FinalSpace = current
				return result, ctx.Err()
			default:
			}

			samples := current.Sample(t.rng)
			if err := t.recordNew(samples); err != nil {
				return result, err
			}

			score, err := t.objective(samples)
			if err != nil {
				if rerr := t.recordFailure(samples, err); rerr != nil {
					return result, rerr
				}
				roundTrials = append(roundTrials, TrialResult{Samples: samples, Err: err})
				continue
			}
			if err := t.recordSuccess(samples, score); err != nil {
				return result, err
			}

			trial := TrialResult{Samples: samples, Score: score}
			roundTrials = append(roundTrials, trial)
			if best == nil || better(score, best.Score, t.config.HigherIsBetter) {
				b := trial
				best = &b
			}
		}

		stats := summarizeRound(round, roundTrials, current, t.config.HigherIsBetter)
		result.Rounds = append(result.Rounds, stats)
		t.logger.Printf("round %d: evaluated=%d failures=%d best=%.6g mean=%.6g",
			stats.Round, stats.Evaluated, stats.Failures, stats.BestScore, stats.MeanScore)

		roundBest := bestOf(roundTrials, t.config.HigherIsBetter)
		if roundBest == nil || !t.narrowing {
			continue
		}
		next := current.Narrow(roundBest.Samples, t.config.KeptRatio)
		t.logNarrowing(round, roundBest.Samples, next)
		current = next
	}

	result.FinalSpace = current
	if best == nil {
		return result, ErrNoSuccessfulTrial
	}
	result.BestSamples = best.Samples
	result.BestScore = best.Score
	return result, nil
}

// #endregion run

// #region persistence

func (t *Tuner) recordNew(samples space.Samples) error {
	if t.repo == nil {
		return nil
	}
	if err := t.repo.CreateNewTrial(samples); err != nil {
		return fmt.Errorf("record new trial: %w", err)
	}
	return nil
}

func (t *Tuner) recordSuccess(samples space.Samples, score float64) error {
	if t.repo == nil {
		return nil
	}
	if err := t.repo.SaveScoreForSuccessTrial(samples, score); err != nil {
		return fmt.Errorf("record success: %w", err)
	}
	return nil
}

func (t *Tuner) recordFailure(samples space.Samples, trialErr error) error {
	if t.repo == nil {
		return nil
	}
	if err := t.repo.SaveFailedTrial(samples, trialErr); err != nil {
		return fmt.Errorf("record failure: %w", err)
	}
	return nil
}

// logNarrowing writes narrowing provenance when the repository keeps it.
// Provenance failures are logged, not fatal: the search result does not
// depend on them.
func (t *Tuner) logNarrowing(round int, guesses space.Samples, next space.Space) {
	nl, ok := t.repo.(trials.NarrowingLogger)
	if !ok {
		return
	}
	names := make([]string, 0, len(guesses))
	for name := range guesses {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entry := trials.NarrowingEntry{
			Round:     round,
			Param:     name,
			BestGuess: fmt.Sprintf("%v", guesses[name]),
			KeptRatio: t.config.KeptRatio,
			Result:    fmt.Sprintf("%v", next[name]),
		}
		if err := nl.LogNarrowing(entry); err != nil {
			t.logger.Printf("narrowing log: %v", err)
		}
	}
}

// #endregion persistence

// #region selection

func better(a, b float64, higherIsBetter bool) bool {
	if higherIsBetter {
		return a > b
	}
	return a < b
}

func bestOf(roundTrials []TrialResult, higherIsBetter bool) *TrialResult {
	var best *TrialResult
	for i := range roundTrials {
		trial := &roundTrials[i]
		if trial.Err != nil {
			continue
		}
		if best == nil || better(trial.Score, best.Score, higherIsBetter) {
			best = trial
		}
	}
	return best
}

// #endregion selection
