package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"labelscan/internal/domain"
	"labelscan/internal/inference"
	"labelscan/internal/service"
)

var (
	analyzePrompt     string
	analyzePromptFile string
	analyzeOut        string
)

// analyzeCmd runs a batch of label images through the vision model
var analyzeCmd = &cobra.Command{
	Use:   "analyze [image files...]",
	Short: "Extract text from label images into a zip of JSON documents",
	Long: `Sends every image to the vision model with one shared prompt and writes
the successful extractions to a zip archive, one JSON document per image.

Files that hit the API limit or fail otherwise are reported and skipped; they
never stop the batch. Without --prompt or --prompt-file the default label
prompt is used; --prompt "" sends the images alone.

Example:
  labelctl analyze drawer12/*.jpg --out drawer12.zip`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	addAnalyzeFlags(analyzeCmd)
}

func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&analyzePrompt, "prompt", "", "Prompt sent with every image (default: built-in label prompt)")
	cmd.Flags().StringVar(&analyzePromptFile, "prompt-file", "", "Read the prompt from a file")
	cmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Archive path (default: batch.archive_name)")
	cmd.MarkFlagsMutuallyExclusive("prompt", "prompt-file")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	prompt, err := resolvePrompt(cmd)
	if err != nil {
		return err
	}

	uploads := make([]domain.Upload, 0, len(args))
	for _, path := range args {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		uploads = append(uploads, domain.Upload{Filename: filepath.Base(path), Data: data})
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), timeout)
	defer cancel()

	outcome, err := application.Batches.Process(ctx, service.BatchInput{
		Prompt:    prompt,
		Uploads:   uploads,
		OnOutcome: func(fo domain.FileOutcome) { printOutcome(out, fo) },
	})
	if err != nil {
		return err
	}

	printSummary(out, outcome)
	if !outcome.HasArchive() {
		return domain.ErrBatchFailed
	}

	target := analyzeOut
	if target == "" {
		target = outcome.ArchiveName
	}
	if dir := filepath.Dir(target); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(fs, target, outcome.Archive, 0o644); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}

	zl.Info("analyze: archive written", zap.String("path", target), zap.Int("entries", len(outcome.Results)))
	_, err = fmt.Fprintf(out, "Saved %d extraction(s) to %s\n", len(outcome.Results), target)
	return err
}

func resolvePrompt(cmd *cobra.Command) (string, error) {
	switch {
	case cmd.Flags().Changed("prompt-file"):
		data, err := afero.ReadFile(fs, analyzePromptFile)
		if err != nil {
			return "", fmt.Errorf("reading prompt file: %w", err)
		}
		return string(data), nil
	case cmd.Flags().Changed("prompt"):
		return analyzePrompt, nil
	default:
		return inference.DefaultPrompt, nil
	}
}

func printOutcome(out io.Writer, fo domain.FileOutcome) {
	if fo.Succeeded() {
		fmt.Fprintf(out, "Text extracted from %s:\n%s\n\n", fo.Filename, fo.Result.ExtractedText)
		return
	}
	fmt.Fprintln(out, fo.Failure.Message)
}

func printSummary(out io.Writer, outcome *domain.BatchOutcome) {
	if !outcome.HasArchive() {
		fmt.Fprintln(out, "No files were processed due to errors or quota limits.")
	}
	if quota := outcome.QuotaFailures(); len(quota) > 0 {
		fmt.Fprintf(out, "API limit hit for: %s. Consider rotating the API key.\n", strings.Join(quota, ", "))
	}
	if failed := outcome.FailedFilenames(); len(failed) > 0 {
		fmt.Fprintln(out, "The following files had issues and were not included in the archive:")
		for _, name := range failed {
			fmt.Fprintf(out, "  - %s\n", name)
		}
	}
}
