package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"labelscan/internal/domain"
	"labelscan/internal/inference"
)

// askCmd sends one free-form question to the text model
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the text model a question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

// promptCmd prints the default extraction prompt
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the default label extraction prompt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), inference.DefaultPrompt+"\n")
		return err
	},
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("please enter a valid question: %w", domain.ErrEmptyQuestion)
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), timeout)
	defer cancel()

	answer, err := application.Inference.AskText(ctx, question)
	if err != nil {
		if inference.IsQuotaExhausted(err) {
			return fmt.Errorf("API limit hit; update the API key with 'labelctl key rotate': %w", err)
		}
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), answer)
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
