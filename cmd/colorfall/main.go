// colorfall is a tile-matching puzzle for the terminal: remove connected
// regions of one color, let the rest fall, and clear the board in as few
// moves as possible.
//
// Usage:
//
//	colorfall play           - Play interactively
//	colorfall auto           - Let a strategy play headlessly
//	colorfall scores [size]  - Show best completed results
//	colorfall config         - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Config file (default: search order)
//	--preset <name>     - Difficulty preset: easy, normal, hard
//	--seed <value>      - RNG seed for reproducible boards
//	--db <path>         - Results database (default: ~/.colorfall/results.db)
//	--log-level <lvl>   - debug, info, warn, error
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/colorfall/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagPreset   string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "colorfall",
	Short: "Colorfall - clear the board one color region at a time",
	Long: `Colorfall is a tile-matching puzzle played in your terminal.

Pick a cell to remove its whole connected region of one color. The
remaining tiles fall down to fill the gaps, and in the rotation variant
the whole board can be turned left or right. The game ends when every
cell is empty; fewer moves is better.

Available commands:
  play     - Play interactively
  auto     - Let a strategy play headlessly
  scores   - View best completed results
  config   - Print the effective configuration

Examples:
  colorfall play
  colorfall play --preset hard
  colorfall auto --strategy largest --games 20 --save
  colorfall scores 7`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.colorfall/results.db", "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(autoCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig resolves the config file and applies the preset flag.
func loadConfig() (config.Config, error) {
	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}

	config.ApplyPreset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds the process logger. Logs go to --log-file when set and
// to fallback otherwise. The returned func closes the log file.
func newLogger(fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	w := fallback
	closeFn := func() {}
	if flagLogFile != "" {
		if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "colorfall",
		Level:           level,
	})
	log.SetDefault(logger)
	return logger, closeFn, nil
}

// seed returns the --seed value, or a time-based seed when it is zero.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
