package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/fraudwatch/internal/batch"
	"github.com/Veraticus/fraudwatch/internal/cli"
	"github.com/Veraticus/fraudwatch/internal/common"
	"github.com/spf13/cobra"
)

func batchCmd() *cobra.Command {
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "batch FILE|-",
		Short: "Score one transaction per line",
		Long: `Score every transaction in FILE, one comma-separated feature list per line.
Use - to read from standard input. Blank lines and lines starting with # are
skipped. A line that cannot be scored is reported and the batch continues.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			handler, err := initHandler(cfg)
			if err != nil {
				return err
			}

			in, closeIn, err := openInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer closeIn()

			var progress io.Writer
			if !noProgress {
				progress = cmd.ErrOrStderr()
			}

			interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx := interrupts.HandleInterrupts(cmd.Context(), "Results printed so far are complete.")

			runner := batch.NewRunner(handler, cmd.OutOrStdout(), progress)
			return runBatch(ctx, runner, in, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "hide the progress bar")

	return cmd
}

func runBatch(ctx context.Context, runner *batch.Runner, in io.Reader, out io.Writer) error {
	summary, runErr := runner.Run(ctx, in)

	if _, err := fmt.Fprintln(out, renderSummary(summary)); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if runErr != nil {
		return fmt.Errorf("batch stopped after %d transactions: %w", summary.Total, runErr)
	}

	status := cli.FormatSuccess("All transactions scored")
	if summary.Failed > 0 {
		status = cli.FormatWarning(fmt.Sprintf("%d of %d transactions could not be scored", summary.Failed, summary.Total))
	}
	if _, err := fmt.Fprintln(out, status); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func renderSummary(s batch.Summary) string {
	content := fmt.Sprintf("Total:  %d\nFraud:  %d\nSafe:   %d\nFailed: %d",
		s.Total, s.Fraud, s.Safe, s.Failed)
	return cli.RenderBox(cli.ChartIcon+" Batch Summary", content)
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}

	f, err := os.Open(path) //nolint:gosec // path is supplied by the user on purpose
	if err != nil {
		return nil, nil, common.NewUserError(fmt.Sprintf("Could not open %s", path), err)
	}
	return f, func() { _ = f.Close() }, nil
}
