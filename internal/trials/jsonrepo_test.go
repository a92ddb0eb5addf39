package trials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestTrialHash_Deterministic(t *testing.T) {
	a := map[string]any{"learning_rate": 0.01, "layers": 4}
	b := map[string]any{"layers": 4, "learning_rate": 0.01}

	hashA, err := TrialHash(a)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	hashB, err := TrialHash(b)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if hashA != hashB {
		t.Errorf("insertion order changed the hash: %s vs %s", hashA, hashB)
	}

	c := map[string]any{"learning_rate": 0.02, "layers": 4}
	hashC, _ := TrialHash(c)
	if hashA == hashC {
		t.Errorf("different hyperparams hashed identically")
	}
}

func TestJSONRepository_CreateNewTrial(t *testing.T) {
	repo, err := NewJSONRepository(t.TempDir())
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	hyperparams := map[string]any{"learning_rate": 0.01}

	if err := repo.CreateNewTrial(hyperparams); err != nil {
		t.Fatalf("create: %v", err)
	}

	hash, _ := TrialHash(hyperparams)
	raw, err := os.ReadFile(filepath.Join(repo.dir, "NEW_"+hash+".json"))
	if err != nil {
		t.Fatalf("read NEW file: %v", err)
	}
	var file trialFile
	if err := json.Unmarshal(raw, &file); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if file.Hyperparams["learning_rate"] != 0.01 {
		t.Errorf("got hyperparams %v", file.Hyperparams)
	}
	if file.Score != nil {
		t.Errorf("new trial should have a null score, got %v", *file.Score)
	}
}

func TestJSONRepository_SaveSuccessRetiresNewFile(t *testing.T) {
	repo, err := NewJSONRepository(t.TempDir())
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	hyperparams := map[string]any{"learning_rate": 0.01}
	hash, _ := TrialHash(hyperparams)

	if err := repo.CreateNewTrial(hyperparams); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.SaveScoreForSuccessTrial(hyperparams, 1); err != nil {
		t.Fatalf("save score: %v", err)
	}

	if _, err := os.Stat(filepath.Join(repo.dir, "NEW_"+hash+".json")); !os.IsNotExist(err) {
		t.Errorf("NEW file should be removed after scoring")
	}
	raw, err := os.ReadFile(filepath.Join(repo.dir, "1,0_"+hash+".json"))
	if err != nil {
		t.Fatalf("read scored file: %v", err)
	}
	var file trialFile
	if err := json.Unmarshal(raw, &file); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if file.Score == nil || *file.Score != 1 {
		t.Errorf("got score %v, want 1", file.Score)
	}
}

func TestJSONRepository_SaveFailedTrial(t *testing.T) {
	repo, err := NewJSONRepository(t.TempDir())
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	hyperparams := map[string]any{"learning_rate": 0.01}
	hash, _ := TrialHash(hyperparams)

	if err := repo.SaveFailedTrial(hyperparams, os.ErrDeadlineExceeded); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(repo.dir, "FAILED_"+hash+".json"))
	if err != nil {
		t.Fatalf("read FAILED file: %v", err)
	}
	var file trialFile
	if err := json.Unmarshal(raw, &file); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if file.Exception == "" {
		t.Errorf("failed trial should record the exception text")
	}
	if file.Score != nil {
		t.Errorf("failed trial should have a null score")
	}
}

func TestJSONRepository_LoadAllTrialsOrdered(t *testing.T) {
	repo, err := NewJSONRepository(t.TempDir())
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	for i := 0; i < 2; i++ {
		hyperparams := map[string]any{"learning_rate": 0.01 + float64(i)*0.01}
		if err := repo.SaveScoreForSuccessTrial(hyperparams, float64(i+1)); err != nil {
			t.Fatalf("save score %d: %v", i, err)
		}
	}

	loaded, err := repo.LoadAllTrials()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("got %d trials, want 2", len(loaded))
	}
	// File names sort by score, so trial order follows it.
	for i, trial := range loaded {
		if trial.Status != StatusSuccess {
			t.Errorf("trial %d: status %q, want success", i, trial.Status)
		}
		if trial.Score == nil || *trial.Score != float64(i+1) {
			t.Errorf("trial %d: got score %v, want %d", i, trial.Score, i+1)
		}
		want := 0.01 + float64(i)*0.01
		if trial.Hyperparams["learning_rate"] != want {
			t.Errorf("trial %d: got hyperparams %v", i, trial.Hyperparams)
		}
	}
}

func TestScoreString(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{1, "1,0"},
		{0.5, "0,5"},
		{12.25, "12,25"},
		{-3, "-3,0"},
	}

	for _, tt := range tests {
		if got := scoreString(tt.score); got != tt.want {
			t.Errorf("scoreString(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
