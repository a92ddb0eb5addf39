package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"

	"github.com/danielpatrickdp/hyper-tuner/go-tuner/internal/distribution"
	"github.com/danielpatrickdp/hyper-tuner/go-tuner/internal/search"
	"github.com/danielpatrickdp/hyper-tuner/go-tuner/internal/space"
	"github.com/danielpatrickdp/hyper-tuner/go-tuner/internal/trials"
)

// #region main
func main() {
	repoKind := envOr("TUNER_REPO", "sqlite")
	dbPath := envOr("TUNER_DB", "tuner_trials.db")
	trialsDir := envOr("TUNER_TRIALS_DIR", "trials")

	config := search.DefaultConfig()
	config.Rounds = envOrInt("TUNER_ROUNDS", config.Rounds)
	config.TrialsPerRound = envOrInt("TUNER_TRIALS_PER_ROUND", config.TrialsPerRound)
	config.KeptRatio = envOrFloat("TUNER_KEPT_RATIO", config.KeptRatio)
	config.Seed = uint64(envOrInt("TUNER_SEED", int(config.Seed)))

	repo, closeRepo, err := openRepository(repoKind, dbPath, trialsDir)
	if err != nil {
		log.Fatalf("failed to open trial repository: %v", err)
	}
	defer closeRepo()

	sp, err := demoSpace()
	if err != nil {
		log.Fatalf("failed to build search space: %v", err)
	}

	tuner, err := search.NewTuner(sp, repo, demoObjective, config)
	if err != nil {
		log.Fatalf("failed to create tuner: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Hyperparameter tuner ready.")
	fmt.Printf("  repo: %s | rounds: %d | trials/round: %d | kept ratio: %.2f\n",
		repoKind, config.Rounds, config.TrialsPerRound, config.KeptRatio)

	result, err := tuner.Run(ctx)
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}

	fmt.Printf("\nBest score: %.6f\n", result.BestScore)
	fmt.Println("Best configuration:")
	names := make([]string, 0, len(result.BestSamples))
	for name := range result.BestSamples {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-16s %v\n", name, result.BestSamples[name])
	}
	fmt.Println("Final space:")
	for _, name := range result.FinalSpace.Names() {
		fmt.Printf("  %-16s %v (kept ratio %.4f)\n",
			name, result.FinalSpace[name], result.FinalSpace[name].CurrentNarrowingRatio())
	}
}

// #endregion main

// #region demo-problem

// demoSpace is a typical neural-network tuning space.
func demoSpace() (space.Space, error) {
	learningRate, err := distribution.NewLogUniform(1e-4, 1e-1)
	if err != nil {
		return nil, err
	}
	return space.Space{
		"learning_rate": learningRate,
		"momentum":      distribution.NewUniform(0.1, 0.99),
		"layers":        distribution.NewRandInt(1, 8),
		"batch_size":    distribution.NewQuantized(distribution.NewUniform(16, 256)),
		"init_std":      distribution.NewClippedLogNormal(-2.0, 1.0, 1e-4, 1.0),
		"optimizer":     distribution.NewChoice([]any{"sgd", "adam", "rmsprop"}),
		"use_bias":      distribution.NewBoolean(),
	}, nil
}

// demoObjective is a synthetic stand-in for a training run: a smooth
// score surface peaked at a known-good configuration, so narrowing has
// something to find.
func demoObjective(samples space.Samples) (float64, error) {
	lr := samples["learning_rate"].(float64)
	momentum := samples["momentum"].(float64)
	layers := samples["layers"].(int)
	batch := samples["batch_size"].(int)

	score := 1.0
	score -= math.Pow(math.Log10(lr)+2.0, 2) * 0.05 // peak at lr = 1e-2
	score -= math.Pow(momentum-0.9, 2)              // peak at momentum = 0.9
	score -= math.Pow(float64(layers)-4.0, 2) * 0.01
	score -= math.Pow(float64(batch)-64.0, 2) * 1e-5
	if samples["optimizer"].(string) == "adam" {
		score += 0.05
	}
	return score, nil
}

// #endregion demo-problem

// #region repository

func openRepository(kind, dbPath, trialsDir string) (trials.Repository, func(), error) {
	switch kind {
	case "sqlite":
		store, err := trials.NewStore(dbPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case "json":
		repo, err := trials.NewJSONRepository(trialsDir)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	case "none":
		return nil, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown repository kind %q (want sqlite, json, or none)", kind)
	}
}

// #endregion repository

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// #endregion helpers
