package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/colorfall/internal/autoplay"
	"github.com/vovakirdan/colorfall/internal/session"
	"github.com/vovakirdan/colorfall/internal/storage"
)

var (
	flagStrategy    string
	flagGames       int
	flagSave        bool
	flagRotateEvery int
)

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Let a strategy play headlessly",
	Long: `Play boards to completion without a terminal UI.

Strategies:
  largest   - Always remove the biggest region
  smallest  - Always remove the smallest region
  first     - Remove the first region in reading order
  random    - Remove a random region

Examples:
  colorfall auto
  colorfall auto --strategy random --games 50 --seed 7
  colorfall auto --preset hard --games 10 --save
  colorfall auto --rotate-every 3`,
	Args: cobra.NoArgs,
	RunE: runAuto,
}

func init() {
	autoCmd.Flags().StringVar(&flagStrategy, "strategy", "largest", "Strategy: largest, smallest, first, random")
	autoCmd.Flags().IntVarP(&flagGames, "games", "n", 1, "Number of boards to play")
	autoCmd.Flags().BoolVar(&flagSave, "save", false, "Record results in the database")
	autoCmd.Flags().IntVar(&flagRotateEvery, "rotate-every", 0, "Rotate right after every N moves (0 = never)")
}

func runAuto(cmd *cobra.Command, args []string) error {
	strategy, err := autoplay.ParseStrategy(flagStrategy)
	if err != nil {
		return err
	}
	if flagGames < 1 {
		return fmt.Errorf("--games must be at least 1, got %d", flagGames)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	var store *storage.Store
	if flagSave {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			return fmt.Errorf("error opening results database: %w", err)
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := autoplay.Options{
		Strategy: strategy,
		Games:    flagGames,
		Session: session.Options{
			Size:     cfg.Board.Size,
			Colors:   len(cfg.Board.Palette),
			Layout:   cfg.Layout(),
			Rotation: cfg.Rules.Rotation,
			Seed:     seed(),
			Logger:   logger,
		},
		RotateEvery: flagRotateEvery,
		Logger:      logger,
	}

	fmt.Printf("  %-4s  %-6s  %-8s  %s\n", "Game", "Moves", "Time", "Seed")
	fmt.Printf("  %-4s  %-6s  %-8s  %s\n", "----", "-----", "----", "----")

	game := 0
	results, err := autoplay.Run(ctx, opts, func(r session.Result) error {
		game++
		fmt.Printf("  %-4d  %-6d  %-8s  %d\n", game, r.Moves, r.Elapsed.Round(time.Microsecond), r.Seed)
		if store == nil {
			return nil
		}
		_, saveErr := store.SaveResult(storage.Result{
			SessionID: r.SessionID,
			Size:      r.Size,
			Colors:    r.Colors,
			Seed:      r.Seed,
			Moves:     r.Moves,
			Elapsed:   r.Elapsed,
			Strategy:  string(strategy),
		})
		return saveErr
	})
	if err != nil {
		return err
	}

	printSummary(strategy, results)
	return nil
}

// printSummary prints best, worst and average move counts.
func printSummary(strategy autoplay.Strategy, results []session.Result) {
	if len(results) == 0 {
		return
	}
	best, worst, total := results[0].Moves, results[0].Moves, 0
	for _, r := range results {
		best = min(best, r.Moves)
		worst = max(worst, r.Moves)
		total += r.Moves
	}

	fmt.Println()
	fmt.Printf("Strategy %s, %d games: best %d, worst %d, average %.1f moves\n",
		strategy, len(results), best, worst, float64(total)/float64(len(results)))
}
