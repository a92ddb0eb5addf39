package trials

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS trials (
	trial_hash       TEXT PRIMARY KEY,
	trial_id         TEXT NOT NULL,
	status           TEXT NOT NULL,
	hyperparams_json TEXT NOT NULL,
	score            REAL,
	exception        TEXT,
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS narrowing_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	round       INTEGER NOT NULL,
	param       TEXT NOT NULL,
	best_guess  TEXT NOT NULL,
	kept_ratio  REAL NOT NULL,
	result      TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
`
// #endregion schema

// #region store-struct
// Store is a SQLite-backed trial repository with a narrowing provenance
// log.
type Store struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
// #endregion close

// #region trial-writes

// CreateNewTrial upserts a trial in the new state.
func (s *Store) CreateNewTrial(hyperparams map[string]any) error {
	return s.upsert(hyperparams, StatusNew, nil, "")
}

// SaveScoreForSuccessTrial transitions a trial to success with its
// score, creating the row if sampling was never recorded.
func (s *Store) SaveScoreForSuccessTrial(hyperparams map[string]any, score float64) error {
	return s.upsert(hyperparams, StatusSuccess, &score, "")
}

// SaveFailedTrial transitions a trial to failed with its error text.
func (s *Store) SaveFailedTrial(hyperparams map[string]any, trialErr error) error {
	return s.upsert(hyperparams, StatusFailed, nil, trialErr.Error())
}

func (s *Store) upsert(hyperparams map[string]any, status Status, score *float64, exception string) error {
	hash, err := TrialHash(hyperparams)
	if err != nil {
		return err
	}
	hpJSON, err := json.Marshal(hyperparams)
	if err != nil {
		return fmt.Errorf("marshal hyperparams: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var scorePtr any
	if score != nil {
		scorePtr = *score
	}
	var exceptionPtr any
	if exception != "" {
		exceptionPtr = exception
	}

	_, err = s.db.Exec(
		`INSERT INTO trials (trial_hash, trial_id, status, hyperparams_json, score, exception, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(trial_hash) DO UPDATE SET
		   status = excluded.status,
		   score = excluded.score,
		   exception = excluded.exception,
		   updated_at = excluded.updated_at`,
		hash, uuid.New().String(), string(status), string(hpJSON), scorePtr, exceptionPtr, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert trial %s: %w", hash, err)
	}
	return nil
}

// #endregion trial-writes

// #region trial-load

// LoadAllTrials returns every trial ordered by creation time.
func (s *Store) LoadAllTrials() ([]Trial, error) {
	rows, err := s.db.Query(
		`SELECT status, hyperparams_json, score, exception, created_at
		 FROM trials ORDER BY created_at, trial_hash`,
	)
	if err != nil {
		return nil, fmt.Errorf("load trials: %w", err)
	}
	defer rows.Close()

	var out []Trial
	for rows.Next() {
		var trial Trial
		var status string
		var hpJSON string
		var score sql.NullFloat64
		var exception sql.NullString
		var createdStr string

		if err := rows.Scan(&status, &hpJSON, &score, &exception, &createdStr); err != nil {
			return nil, fmt.Errorf("scan trial: %w", err)
		}
		trial.Status = Status(status)
		if err := json.Unmarshal([]byte(hpJSON), &trial.Hyperparams); err != nil {
			return nil, fmt.Errorf("unmarshal hyperparams: %w", err)
		}
		if score.Valid {
			v := score.Float64
			trial.Score = &v
		}
		if exception.Valid {
			trial.Exception = exception.String
		}
		trial.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, trial)
	}
	return out, rows.Err()
}

// #endregion trial-load

// #region narrowing-log

// LogNarrowing appends one narrowing provenance entry.
func (s *Store) LogNarrowing(entry NarrowingEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO narrowing_log (round, param, best_guess, kept_ratio, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Round, entry.Param, entry.BestGuess, entry.KeptRatio, entry.Result,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log narrowing: %w", err)
	}
	return nil
}

// ListNarrowing returns the most recent narrowing entries, newest first.
func (s *Store) ListNarrowing(limit int) ([]NarrowingEntry, error) {
	rows, err := s.db.Query(
		`SELECT round, param, best_guess, kept_ratio, result, created_at
		 FROM narrowing_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list narrowing: %w", err)
	}
	defer rows.Close()

	var out []NarrowingEntry
	for rows.Next() {
		var entry NarrowingEntry
		var createdStr string
		if err := rows.Scan(&entry.Round, &entry.Param, &entry.BestGuess, &entry.KeptRatio, &entry.Result, &createdStr); err != nil {
			return nil, fmt.Errorf("scan narrowing: %w", err)
		}
		entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, entry)
	}
	return out, rows.Err()
}

// #endregion narrowing-log
