package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Veraticus/conchis/internal/cli"
	"github.com/Veraticus/conchis/internal/common"
	"github.com/Veraticus/conchis/internal/model"
	"github.com/Veraticus/conchis/internal/prompts"
	"github.com/Veraticus/conchis/internal/storage"
	"github.com/spf13/cobra"
)

func promptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Manage the reusable prompt library",
	}

	cmd.AddCommand(promptsAddCmd())
	cmd.AddCommand(promptsListCmd())
	cmd.AddCommand(promptsRemoveCmd())
	cmd.AddCommand(promptsMatchCmd())
	cmd.AddCommand(promptsTagsCmd())
	cmd.AddCommand(promptsImportCmd())
	cmd.AddCommand(promptsExportCmd())
	cmd.AddCommand(promptsAnalyzeCmd())

	return cmd
}

// withLibrary opens the database-backed library and runs fn with it.
func withLibrary(ctx context.Context, fn func(*storage.SQLiteStorage, *prompts.Library) error) error {
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	lib, err := prompts.OpenLibrary(ctx, store)
	if err != nil {
		return err
	}
	return fn(store, lib)
}

func promptsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a prompt (text from arguments or stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, _ := cmd.Flags().GetStringSlice("tag")
			text, err := cli.ReadContent(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			return withLibrary(cmd.Context(), func(_ *storage.SQLiteStorage, lib *prompts.Library) error {
				if err := lib.Add(cmd.Context(), strings.TrimSpace(text), tags); err != nil {
					return err
				}
				writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added prompt %d", lib.Len()-1)))
				return nil
			})
		},
	}
	cmd.Flags().StringSliceP("tag", "t", nil, "tag for the prompt (repeatable)")
	return cmd
}

func promptsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all prompts with their indices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLibrary(cmd.Context(), func(_ *storage.SQLiteStorage, lib *prompts.Library) error {
				entries := lib.All()
				if len(entries) == 0 {
					writeLine(cmd.OutOrStdout(), cli.FormatInfo("The prompt library is empty"))
					return nil
				}
				_, err := fmt.Fprint(cmd.OutOrStdout(), cli.FormatPrompts(entries, nil))
				return err
			})
		},
	}
}

func promptsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index>",
		Short: "Remove the prompt at an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return common.NewUserError("index must be a number", common.ErrInvalidArgument)
			}

			return withLibrary(cmd.Context(), func(_ *storage.SQLiteStorage, lib *prompts.Library) error {
				if err := lib.RemoveAt(cmd.Context(), index); err != nil {
					if errors.Is(err, prompts.ErrIndexOutOfRange) {
						return common.NewUserError(fmt.Sprintf("no prompt at index %d (library has %d)", index, lib.Len()), err)
					}
					return err
				}
				writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Removed prompt %d", index)))
				return nil
			})
		},
	}
}

func promptsMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <tag>...",
		Short: "List prompts sharing any of the given tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(cmd.Context(), func(_ *storage.SQLiteStorage, lib *prompts.Library) error {
				entries, indices := matchingWithIndices(lib.All(), args)
				if len(entries) == 0 {
					writeLine(cmd.OutOrStdout(), cli.FormatInfo("No prompts match "+strings.Join(args, ", ")))
					return nil
				}
				_, err := fmt.Fprint(cmd.OutOrStdout(), cli.FormatPrompts(entries, indices))
				return err
			})
		},
	}
}

// matchingWithIndices filters like Library.Matching but keeps each entry's
// library index for display.
func matchingWithIndices(all []model.PromptEntry, tags []string) ([]model.PromptEntry, []int) {
	var entries []model.PromptEntry
	var indices []int
	for i, e := range all {
		if e.HasAnyTag(tags) {
			entries = append(entries, e)
			indices = append(indices, i)
		}
	}
	return entries, indices
}

func promptsTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "Show tags in use and how many prompts carry each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLibrary(cmd.Context(), func(_ *storage.SQLiteStorage, lib *prompts.Library) error {
				counts := lib.Tags()
				if len(counts) == 0 {
					writeLine(cmd.OutOrStdout(), cli.FormatInfo("No tags in use"))
					return nil
				}
				writeLine(cmd.OutOrStdout(), cli.FormatTagCounts(counts))
				return nil
			})
		},
	}
}

func promptsImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import prompts from YAML (file or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			replace, _ := cmd.Flags().GetBool("replace")

			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open import file: %w", err)
				}
				defer func() { _ = f.Close() }()
				r = f
			}

			return withLibrary(cmd.Context(), func(_ *storage.SQLiteStorage, lib *prompts.Library) error {
				n, err := lib.ImportYAML(cmd.Context(), r, replace)
				if err != nil {
					return err
				}
				writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %d prompts (library has %d)", n, lib.Len())))
				return nil
			})
		},
	}
	cmd.Flags().Bool("replace", false, "replace the library instead of appending")
	return cmd
}

func promptsExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export prompts as YAML (file or stdout)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(cmd.Context(), func(_ *storage.SQLiteStorage, lib *prompts.Library) error {
				if len(args) == 0 {
					return lib.ExportYAML(cmd.OutOrStdout())
				}

				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("failed to create export file: %w", err)
				}
				if err := lib.ExportYAML(f); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("failed to write export file: %w", err)
				}
				writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d prompts to %s", lib.Len(), args[0])))
				return nil
			})
		},
	}
}

func promptsAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Ask the remote model whether content is a reusable prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			save, _ := cmd.Flags().GetBool("save")
			out := cmd.OutOrStdout()

			content, err := cli.ReadContent(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			return withLibrary(cmd.Context(), func(store *storage.SQLiteStorage, lib *prompts.Library) error {
				svc, err := initService(cmd.Context(), store)
				if err != nil {
					return err
				}

				entry, result, err := prompts.NewAnalyzer(svc).Analyze(cmd.Context(), content)
				switch {
				case errors.Is(err, common.ErrNotConfigured), errors.Is(err, common.ErrRateLimited):
					return reportGated(out, svc)
				case err != nil:
					writeLine(out, cli.FormatResult(result))
					return err
				}

				writeLine(out, cli.FormatResult(result))
				if entry == nil {
					writeLine(out, cli.FormatInfo("Not a reusable prompt"))
					return nil
				}

				_, _ = fmt.Fprint(out, cli.FormatPrompts([]model.PromptEntry{*entry}, []int{lib.Len()}))
				if !save {
					writeLine(out, cli.SubtleStyle.Render("Use --save to add it to the library"))
					return nil
				}
				if err := lib.Add(cmd.Context(), entry.Text, entry.Tags); err != nil {
					return err
				}
				writeLine(out, cli.FormatSuccess("Saved to the library"))
				return nil
			})
		},
	}
	cmd.Flags().Bool("save", false, "add the suggested prompt to the library")
	return cmd
}
