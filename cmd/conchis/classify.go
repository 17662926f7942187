package main

import (
	"log/slog"

	"github.com/Veraticus/conchis/internal/classification"
	"github.com/Veraticus/conchis/internal/cli"
	"github.com/spf13/cobra"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [text]",
		Short: "Classify clipboard content",
		Long: `Classify content into Code, Link, Data, Text or Unknown using local
heuristics. Content is read from the arguments, or from stdin when none are
given.

With --remote the content is also sent to the remote model for a category
and a one-line summary. Remote calls are rate limited; a denied call reports
how long until the next one is allowed.

Examples:
  conchis classify "https://go.dev/doc"
  pbpaste | conchis classify --remote`,
		RunE: runClassify,
	}

	cmd.Flags().Bool("remote", false, "also classify with the remote model")
	cmd.Flags().Bool("explain", false, "show which local rule decided the category")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	remote, _ := cmd.Flags().GetBool("remote")
	explain, _ := cmd.Flags().GetBool("explain")

	content, err := cli.ReadContent(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	category := classification.ClassifyLocally(content)
	rule := classification.Explain(content)
	slog.Debug("Local classification", "category", category, "rule", rule)

	writeLine(out, "Local category: "+cli.FormatCategory(category))
	if explain {
		writeLine(out, cli.SubtleStyle.Render("  rule: "+rule))
	}

	if !remote {
		return nil
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

	result := svc.ClassifyWithLLM(ctx, content)
	if result == nil {
		return reportGated(out, svc)
	}

	writeLine(out, cli.FormatResult(*result))
	return nil
}
