package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// keyCmd manages the API key
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the inference API key",
	Long: `Manage the API key used for the inference provider.

Available subcommands:
  rotate - Save a new key as the next versioned key file and use it
  show   - Show the current key, masked`,
}

var keyRotateCmd = &cobra.Command{
	Use:   "rotate [api-key]",
	Short: "Save and use a new API key",
	Long: `Writes the key to the next versioned key file (.env_1, .env_2, ...)
without touching earlier files, then rebinds the inference client to it.`,
	Args: cobra.ExactArgs(1),
	RunE: runKeyRotate,
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current API key, masked",
	Args:  cobra.NoArgs,
	RunE:  runKeyShow,
}

func init() {
	keyCmd.AddCommand(keyRotateCmd)
	keyCmd.AddCommand(keyShowCmd)
}

func runKeyRotate(cmd *cobra.Command, args []string) error {
	if _, err := application.Credentials.Rotate(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("please enter a valid key: %w", err)
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "API key updated and saved (%s)\n", application.Credentials.Current())
	return err
}

func runKeyShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if !application.Credentials.HasCredential() {
		_, err := fmt.Fprintln(out, "no API key configured")
		return err
	}
	_, err := fmt.Fprintf(out, "%s (provider: %s)\n", application.Credentials.Current(), application.Inference.ProviderName())
	return err
}
