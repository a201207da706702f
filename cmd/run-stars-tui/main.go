// Command run_stars_tui observes any number of concurrent run_stars_runner
// batches by watching the runtime and persistent state directories and
// rendering their live progress (§6).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joeycumines/run-stars/internal/logging"
	"github.com/joeycumines/run-stars/internal/tui"
	"github.com/joeycumines/run-stars/internal/xdg"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "run_stars_tui [dir]",
		Short: "Observe live run_stars_runner batches",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewStderr(debug)

			var initialSelection string
			if len(args) == 1 {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("resolve %s: %w", args[0], err)
				}
				initialSelection = abs
			}

			if err := xdg.EnsureDir(xdg.RuntimeDir()); err != nil {
				return fmt.Errorf("create runtime directory: %w", err)
			}
			if err := xdg.EnsureDir(xdg.StateDir()); err != nil {
				return fmt.Errorf("create state directory: %w", err)
			}

			model, err := tui.NewModel(xdg.RuntimeDir(), xdg.StateDir(), initialSelection, logger)
			if err != nil {
				return fmt.Errorf("start monitor: %w", err)
			}

			program := tea.NewProgram(model, tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "emit debug-level structured logs")

	return cmd
}
