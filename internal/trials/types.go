package trials

import "time"

// #region trial

// Status is a trial's lifecycle state.
type Status string

const (
	StatusNew     Status = "new"     // sampled, not yet evaluated
	StatusFailed  Status = "failed"  // evaluation raised an error
	StatusSuccess Status = "success" // evaluated with a score
)

// Trial is one persisted evaluation of a flat hyperparameter set.
type Trial struct {
	Hyperparams map[string]any
	Score       *float64
	Exception   string
	Status      Status
	CreatedAt   time.Time
}

// #endregion trial

// #region repository

// Repository persists trial records keyed by the deterministic hash of
// their flat hyperparameter mapping.
type Repository interface {
	CreateNewTrial(hyperparams map[string]any) error
	SaveScoreForSuccessTrial(hyperparams map[string]any, score float64) error
	SaveFailedTrial(hyperparams map[string]any, trialErr error) error
	LoadAllTrials() ([]Trial, error)
}

// #endregion repository

// #region narrowing-log

// NarrowingEntry records one parameter's narrowing step during a search
// round: what the space moved toward and what it became.
type NarrowingEntry struct {
	Round     int
	Param     string
	BestGuess string
	KeptRatio float64
	Result    string
	CreatedAt time.Time
}

// NarrowingLogger is implemented by repositories that keep narrowing
// provenance alongside trials.
type NarrowingLogger interface {
	LogNarrowing(entry NarrowingEntry) error
}

// #endregion narrowing-log
