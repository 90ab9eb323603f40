package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/colorfall/internal/platform/tui"
	"github.com/vovakirdan/colorfall/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play interactively",
	Long: `Start an interactive game in the terminal.

Controls:
  Arrows/hjkl    - Move the cursor
  Space/Enter    - Remove the region under the cursor
  Mouse click    - Remove the clicked region
  Z / X          - Rotate the board left / right (rotation variant)
  R              - New board
  Ctrl+S         - Export the board as a layout
  ?              - Toggle help
  Q/Ctrl+C       - Quit

Examples:
  colorfall play
  colorfall play --preset normal
  colorfall play --seed 42
  colorfall play --config ./puzzle.yaml --log-file /tmp/colorfall.log`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("play needs an interactive terminal; try 'colorfall auto'")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Bubble Tea owns the terminal, so logs are dropped unless --log-file is set.
	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	if w, h, termErr := term.GetSize(fd); termErr == nil {
		// Board rows plus HUD, status and help lines
		if n := cfg.Dimension(); w < 2+n*3 || h < n+6 {
			fmt.Fprintf(os.Stderr, "Warning: terminal is %dx%d, a %dx%d board may not fit\n", w, h, n, n)
			logger.Warn("terminal may be too small", "width", w, "height", h, "board", n)
		}
	}

	// Open result storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(tui.Options{
		Config: cfg,
		Seed:   flagSeed,
		Store:  store,
		Logger: logger,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		return fmt.Errorf("error running game: %w", runErr)
	}
	return nil
}
