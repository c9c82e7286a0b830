package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/Veraticus/fraudwatch/internal/cli"
	"github.com/Veraticus/fraudwatch/internal/common"
	"github.com/Veraticus/fraudwatch/internal/tui"
	"github.com/spf13/cobra"
)

// numericFlag matches the pflag error for an argument like "-1.36, ...".
var numericFlag = regexp.MustCompile(`^unknown shorthand flag: '[0-9.]'`)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [FEATURES]",
		Short: "Score a single transaction",
		Long: `Score one transaction and print the verdict.

FEATURES is the comma-separated list V1..V28, Time, Amount. When omitted, one
line is read from standard input. Put -- before FEATURES when the first value
is negative, so it is not read as a flag. The exit status is 1 only when the
input could not be scored; a fraud verdict is a normal result.`,
		Example: `  fraudwatch check -- "-1.36, -0.07, 2.54, ..., 0, 149.62"
  head -1 transactions.csv | fraudwatch check`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			handler, err := initHandler(cfg)
			if err != nil {
				return err
			}
			return runCheck(cmd.Context(), handler, args, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.SetFlagErrorFunc(checkFlagError)

	return cmd
}

func checkFlagError(_ *cobra.Command, err error) error {
	if numericFlag.MatchString(err.Error()) {
		return common.NewUserError(`Features starting with "-" must follow --, e.g. fraudwatch check -- "-1.36, ..."`, err)
	}
	return err
}

func runCheck(ctx context.Context, detector tui.Detector, args []string, in io.Reader, out io.Writer) error {
	var input string
	if len(args) == 1 {
		input = args[0]
	} else {
		line, err := cli.NewLineReader(in).ReadLine(ctx)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read transaction: %w", err)
		}
		input = line
	}

	res := detector.Handle(input)
	if _, err := fmt.Fprintln(out, cli.FormatResult(res.Text, res.Severity)); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if !res.OK() {
		return fmt.Errorf("transaction could not be scored: %w", res.Err)
	}
	return nil
}
