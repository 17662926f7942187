package main

import (
	"fmt"

	"github.com/Veraticus/conchis/internal/cli"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show remote usage for today and this month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			svc, err := initService(ctx, store)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprint(out, cli.FormatStats(svc.Stats()))
			if svc.IsRateLimited() {
				writeLine(out, cli.FormatRateLimited(svc.UntilNextRequest()))
			}
			if !svc.IsConfigured() {
				writeLine(out, cli.FormatNotConfigured())
			}
			return nil
		},
	}
}

func resetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear usage counters and the rate limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			force, _ := cmd.Flags().GetBool("force")

			if !force {
				reader := cli.NewNonBlockingReader(cmd.InOrStdin())
				ok, err := cli.Confirm(ctx, reader, out, "Clear all usage counters?")
				if err != nil {
					return err
				}
				if !ok {
					writeLine(out, cli.FormatInfo("Nothing changed"))
					return nil
				}
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
			if err := svc.Reset(ctx); err != nil {
				return err
			}

			writeLine(out, cli.FormatSuccess("Usage counters cleared"))
			return nil
		},
	}
	cmd.Flags().BoolP("force", "f", false, "skip confirmation")
	return cmd
}
