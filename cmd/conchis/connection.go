package main

import (
	"github.com/Veraticus/conchis/internal/cli"
	"github.com/Veraticus/conchis/internal/common"
	"github.com/spf13/cobra"
)

func testConnectionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test-connection",
		Short: "Check that the remote model answers",
		Long: `Send a minimal request to the remote model. The call is governed and
counted like any other remote call.`,
		Args: cobra.NoArgs,
		RunE: runTestConnection,
	}
}

func runTestConnection(cmd *cobra.Command, _ []string) error {
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

	result := svc.TestConnection(ctx)
	if result == nil {
		return reportGated(out, svc)
	}

	writeLine(out, cli.FormatResult(*result))
	if !result.Success {
		return common.NewUserError("connection test failed", nil)
	}
	writeLine(out, cli.FormatSuccess("Connection OK"))
	return nil
}
