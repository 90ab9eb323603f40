package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/colorfall/internal/platform/tui"
	"github.com/vovakirdan/colorfall/internal/storage"
)

var (
	flagInteractive bool
	flagClear       bool
	flagLimit       int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [size]",
	Short: "Show best completed results",
	Long: `Display the best completed results, fewest moves first.

Without a size, a summary of every board size is shown.

Examples:
  colorfall scores
  colorfall scores 7
  colorfall scores -i
  colorfall scores 5 --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse results in a table")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all results for the given size")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of results to show")
}

func runScores(cmd *cobra.Command, args []string) error {
	size := 0
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid board size %q", args[0])
		}
		size = n
	}
	if flagClear && size == 0 {
		return errors.New("--clear needs a board size")
	}

	// Open result storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening results database: %w", err)
	}
	defer store.Close()

	switch {
	case flagClear:
		if err := store.ClearResults(size); err != nil {
			return err
		}
		fmt.Printf("Cleared results for %dx%d.\n", size, size)
		return nil

	case flagInteractive:
		fd := int(os.Stdout.Fd())
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(fd); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, width, height)

	case size == 0:
		return printStats(store)
	}
	return printTop(store, size)
}

// printStats prints one summary line per board size.
func printStats(store *storage.Store) error {
	stats, err := store.Stats()
	if err != nil {
		return err
	}

	fmt.Println("Completed boards")
	fmt.Println()
	if len(stats) == 0 {
		fmt.Println("No boards cleared yet.")
		fmt.Println()
		fmt.Println("Play 'colorfall play' to record the first result!")
		return nil
	}

	fmt.Printf("  %-6s  %-6s  %-10s  %-9s  %s\n", "Size", "Games", "Best moves", "Best time", "Avg moves")
	fmt.Printf("  %-6s  %-6s  %-10s  %-9s  %s\n", "----", "-----", "----------", "---------", "---------")
	for _, st := range stats {
		fmt.Printf("  %-6s  %-6d  %-10d  %-9s  %.1f\n",
			fmt.Sprintf("%dx%d", st.Size, st.Size), st.Completed, st.BestMoves, st.BestElapsed, st.AvgMoves)
	}
	return nil
}

// printTop prints the best results for one board size.
func printTop(store *storage.Store, size int) error {
	results, err := store.TopResults(size, flagLimit)
	if err != nil {
		return fmt.Errorf("error retrieving results: %w", err)
	}

	fmt.Printf("Best results - %dx%d\n", size, size)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No results recorded yet.")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-6s  %-9s  %-9s  %s\n", "Rank", "Moves", "Time", "By", "Date")
	fmt.Printf("  %-4s  %-6s  %-9s  %-9s  %s\n", "----", "-----", "----", "--", "----")

	for i, r := range results {
		by := "player"
		if r.Strategy != "" {
			by = r.Strategy
		}
		fmt.Printf("  %-4d  %-6d  %-9s  %-9s  %s\n",
			i+1, r.Moves, r.Elapsed, by, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
