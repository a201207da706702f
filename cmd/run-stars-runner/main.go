// Command run_stars_runner executes every regular file in a target
// directory as a child process, publishing live per-task status to the
// runtime state directory and a final snapshot to the persistent state
// directory (§6).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joeycumines/run-stars/internal/logging"
	"github.com/joeycumines/run-stars/internal/runner"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		list    bool
		limit   int
		reverse bool
		debug   bool
	)

	cmd := &cobra.Command{
		Use:   "run_stars_runner <dir>",
		Short: "Run every executable in a directory, reporting live status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewStderr(debug)

			opts := runner.Options{
				Dir:     args[0],
				List:    list,
				Limit:   limit,
				Reverse: reverse,
			}

			result, err := runner.Run(context.Background(), opts, func(writeErr error) {
				logger.Err().Err(writeErr).Log("runtime state write failed")
			})
			if err != nil {
				logger.Err().Err(err).Log("run failed")
				printErrChain(cmd.ErrOrStderr(), err)
				return err
			}

			if opts.List {
				return runner.WriteListing(cmd.OutOrStdout(), result.Tasks)
			}

			if result.Failed() {
				logger.Info().Log("batch completed with failures")
			} else {
				logger.Info().Log("batch completed successfully")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "print enumerated absolute paths and exit without running anything")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of children running concurrently (0 = unbounded)")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "run tasks in descending path order")
	cmd.Flags().BoolVar(&debug, "debug", false, "emit debug-level structured logs")

	return cmd
}

// printErrChain renders err's summary followed by every wrapped cause on
// its own continuation line, per §7 ("chained I/O causes are rendered on
// the next line with a continuation arrow prefix").
func printErrChain(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(w, "  -> %v\n", cause)
	}
}
