package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/danielpatrickdp/hyper-tuner/go-tuner/internal/trials"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to tuner_trials.db")
	jsonDir := flag.String("dir", "", "path to a JSON trial directory (alternative to --db)")
	narrowing := flag.Bool("narrowing", false, "show the narrowing log instead of trials (sqlite only)")
	last := flag.Int("last", 20, "show N most recent narrowing entries")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" && *jsonDir == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/tuner_trials.db [--narrowing] [--last N] [--json]")
		fmt.Fprintln(os.Stderr, "       inspect --dir path/to/trials [--json]")
		os.Exit(2)
	}

	if *narrowing {
		if *dbPath == "" {
			fmt.Fprintln(os.Stderr, "the narrowing log lives in the sqlite repository; pass --db")
			os.Exit(2)
		}
		if err := runNarrowingMode(*dbPath, *last, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runTrialsMode(*dbPath, *jsonDir, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region trials-mode

func runTrialsMode(dbPath, jsonDir string, jsonOut bool) error {
	repo, cleanup, err := openRepository(dbPath, jsonDir)
	if err != nil {
		return err
	}
	defer cleanup()

	loaded, err := repo.LoadAllTrials()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(loaded)
	}

	fmt.Printf("%-8s  %-12s  %s\n", "STATUS", "SCORE", "HYPERPARAMS")
	for _, trial := range loaded {
		score := "-"
		if trial.Score != nil {
			score = fmt.Sprintf("%.6g", *trial.Score)
		}
		fmt.Printf("%-8s  %-12s  %s\n", trial.Status, score, compactParams(trial.Hyperparams))
		if trial.Exception != "" {
			fmt.Printf("%-8s  %-12s    exception: %s\n", "", "", trial.Exception)
		}
	}
	fmt.Printf("%d trials\n", len(loaded))
	return nil
}

func compactParams(hyperparams map[string]any) string {
	names := make([]string, 0, len(hyperparams))
	for name := range hyperparams {
		names = append(names, name)
	}
	sort.Strings(names)

	out := ""
	for i, name := range names {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s=%v", name, hyperparams[name])
	}
	return out
}

// #endregion trials-mode

// #region narrowing-mode

func runNarrowingMode(dbPath string, last int, jsonOut bool) error {
	store, err := trials.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.ListNarrowing(last)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(entries)
	}

	fmt.Printf("%-6s  %-16s  %-12s  %-6s  %s\n", "ROUND", "PARAM", "BEST GUESS", "KEPT", "RESULT")
	for _, entry := range entries {
		fmt.Printf("%-6d  %-16s  %-12s  %-6.3f  %s\n",
			entry.Round, entry.Param, entry.BestGuess, entry.KeptRatio, entry.Result)
	}
	return nil
}

// #endregion narrowing-mode

// #region helpers

func openRepository(dbPath, jsonDir string) (trials.Repository, func(), error) {
	if dbPath != "" {
		store, err := trials.NewStore(dbPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	repo, err := trials.NewJSONRepository(jsonDir)
	if err != nil {
		return nil, nil, err
	}
	return repo, func() {}, nil
}

func printJSON(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

// #endregion helpers
