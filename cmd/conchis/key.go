package main

import (
	"fmt"

	"github.com/Veraticus/conchis/internal/cli"
	"github.com/Veraticus/conchis/internal/common"
	"github.com/Veraticus/conchis/internal/config"
	"github.com/Veraticus/conchis/internal/credentials"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func keyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the remote API key",
		Long: `Manage the API key used for remote calls. The key is stored in a
credentials file readable only by you. CONCHIS_API_KEY or OPENROUTER_API_KEY,
when set, take precedence over the stored key.`,
	}

	cmd.AddCommand(keySetCmd())
	cmd.AddCommand(keyClearCmd())
	cmd.AddCommand(keyStatusCmd())

	return cmd
}

func keySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [key]",
		Short: "Store an API key (from the argument or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := cli.ReadContent(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			key = credentials.Normalize(key)
			if !credentials.IsPlausibleKey(key) {
				return common.NewUserError(
					fmt.Sprintf("that does not look like an API key (need at least %d printable characters, no spaces)", credentials.MinKeyLength),
					common.ErrInvalidArgument)
			}

			if err := keyStore().SetKey(key); err != nil {
				return err
			}
			writeLine(cmd.OutOrStdout(), cli.FormatSuccess("Stored key "+credentials.Mask(key)))
			return nil
		},
	}
}

func keyClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys := keyStore()
			if err := keys.Clear(); err != nil {
				return err
			}
			writeLine(cmd.OutOrStdout(), cli.FormatSuccess("Stored key removed"))
			if name, _ := keys.FromEnv(); name != "" {
				writeLine(cmd.OutOrStdout(), cli.FormatWarning(name+" is still set and will be used"))
			}
			return nil
		},
	}
}

func keyStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the API key comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			keys := keyStore()

			if name, key := keys.FromEnv(); name != "" {
				writeLine(out, keyStatusLine(key, "environment variable "+name))
				return nil
			}

			key, ok, err := keys.GetKey()
			if err != nil {
				return err
			}
			if !ok {
				writeLine(out, cli.FormatNotConfigured())
				return nil
			}
			writeLine(out, keyStatusLine(key, config.ExpandPath(viper.GetString("credentials.path"))))
			return nil
		},
	}
}

func keyStatusLine(key, source string) string {
	line := fmt.Sprintf("%s %s from %s", cli.KeyIcon, credentials.Mask(key), source)
	if !credentials.IsPlausibleKey(key) {
		return cli.FormatWarning(line + " (not a plausible key; remote calls are disabled)")
	}
	return cli.FormatSuccess(line)
}
