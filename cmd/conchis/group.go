package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/conchis/internal/cli"
	"github.com/Veraticus/conchis/internal/common"
	"github.com/Veraticus/conchis/internal/grouping"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func groupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group [file]",
		Short: "Ask the remote model to group clippings",
		Long: `Read clippings from a file, or stdin when no file is given, and ask the
remote model to sort them into labeled groups. Each line is one clipping
unless --separator names a line that splits them.

Examples:
  conchis group history.txt
  conchis group --separator=--- < clippings.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGroup,
	}

	cmd.Flags().String("separator", "", "line that separates clippings (default: one clipping per line)")

	return cmd
}

func runGroup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	separator, _ := cmd.Flags().GetString("separator")

	var input io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open clippings: %w", err)
		}
		defer func() { _ = f.Close() }()
		input = f
	}

	clippings, err := cli.ReadClippings(input, separator)
	if err != nil {
		return err
	}
	if len(clippings) == 0 {
		return common.NewUserError("no clippings to group", common.ErrInvalidArgument)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	svc, err := initService(ctx, store)
	if err != nil {
		return err
	}

	advisor := grouping.NewAdvisor(svc, grouping.WithMaxClippingChars(viper.GetInt("grouping.max_clipping_chars")))

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx = handler.HandleInterrupts(ctx, "Grouping")

	description := fmt.Sprintf("Grouping %d clippings", len(clippings))
	outcome := cli.AwaitWithSpinner(cmd.ErrOrStderr(), description, advisor.SuggestGroupsAsync(ctx, clippings))

	switch {
	case errors.Is(outcome.Err, common.ErrNotConfigured), errors.Is(outcome.Err, common.ErrRateLimited):
		return reportGated(out, svc)
	case outcome.Err != nil:
		writeLine(out, cli.FormatResult(outcome.Result))
		return outcome.Err
	}

	writeLine(out, cli.FormatTitle(fmt.Sprintf("%d groups", len(outcome.Groups))))
	writeLine(out, cli.FormatGroups(outcome.Groups, clippings))
	writeLine(out, cli.FormatResult(outcome.Result))
	return nil
}
