package trials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// #region json-repository

const (
	newPrefix    = "NEW_"
	failedPrefix = "FAILED_"
)

// JSONRepository stores one JSON file per trial in a directory. The file
// name encodes the trial status: NEW_<hash>.json for pending trials,
// FAILED_<hash>.json for failures, and <score>_<hash>.json (with the
// decimal point written as a comma) for scored trials.
type JSONRepository struct {
	dir string
}

// NewJSONRepository creates the directory if needed and returns a
// repository over it.
func NewJSONRepository(dir string) (*JSONRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create trials dir: %w", err)
	}
	return &JSONRepository{dir: dir}, nil
}

// trialFile is the on-disk JSON shape of a trial.
type trialFile struct {
	Hyperparams map[string]any `json:"hyperparams"`
	Score       *float64       `json:"score"`
	Exception   string         `json:"exception,omitempty"`
}

// #endregion json-repository

// #region writes

// CreateNewTrial records a sampled, not-yet-evaluated trial.
func (r *JSONRepository) CreateNewTrial(hyperparams map[string]any) error {
	hash, err := TrialHash(hyperparams)
	if err != nil {
		return err
	}
	return r.write(newPrefix+hash+".json", trialFile{Hyperparams: hyperparams})
}

// SaveScoreForSuccessTrial records a scored trial and retires the NEW
// file for the same hyperparameters.
func (r *JSONRepository) SaveScoreForSuccessTrial(hyperparams map[string]any, score float64) error {
	hash, err := TrialHash(hyperparams)
	if err != nil {
		return err
	}
	name := scoreString(score) + "_" + hash + ".json"
	if err := r.write(name, trialFile{Hyperparams: hyperparams, Score: &score}); err != nil {
		return err
	}
	return r.removeNew(hash)
}

// SaveFailedTrial records a failed trial and retires the NEW file for
// the same hyperparameters.
func (r *JSONRepository) SaveFailedTrial(hyperparams map[string]any, trialErr error) error {
	hash, err := TrialHash(hyperparams)
	if err != nil {
		return err
	}
	name := failedPrefix + hash + ".json"
	if err := r.write(name, trialFile{Hyperparams: hyperparams, Exception: trialErr.Error()}); err != nil {
		return err
	}
	return r.removeNew(hash)
}

func (r *JSONRepository) write(name string, file trialFile) error {
	encoded, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode trial: %w", err)
	}
	path := filepath.Join(r.dir, name)
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write trial %s: %w", name, err)
	}
	return nil
}

func (r *JSONRepository) removeNew(hash string) error {
	err := os.Remove(filepath.Join(r.dir, newPrefix+hash+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("retire new trial: %w", err)
	}
	return nil
}

// #endregion writes

// #region load

// LoadAllTrials reads every trial file, ordered by file name.
func (r *JSONRepository) LoadAllTrials() ([]Trial, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read trials dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var out []Trial
	for _, name := range names {
		path := filepath.Join(r.dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read trial %s: %w", name, err)
		}
		var file trialFile
		if err := json.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("decode trial %s: %w", name, err)
		}

		trial := Trial{
			Hyperparams: file.Hyperparams,
			Score:       file.Score,
			Exception:   file.Exception,
			Status:      statusFromName(name),
		}
		if info, err := os.Stat(path); err == nil {
			trial.CreatedAt = info.ModTime().UTC()
		}
		out = append(out, trial)
	}
	return out, nil
}

func statusFromName(name string) Status {
	switch {
	case strings.HasPrefix(name, newPrefix):
		return StatusNew
	case strings.HasPrefix(name, failedPrefix):
		return StatusFailed
	default:
		return StatusSuccess
	}
}

// #endregion load

// #region score-string

// scoreString renders a score for a file name: always with a decimal
// part, and with ',' in place of '.' so the value survives as a single
// name segment.
func scoreString(score float64) string {
	s := strconv.FormatFloat(score, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return strings.ReplaceAll(s, ".", ",")
}

// #endregion score-string
