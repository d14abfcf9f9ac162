package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/observability"
	"github.com/jonathan/candidate-ranker/internal/pipeline"
	"github.com/jonathan/candidate-ranker/internal/schemas"
)

var rankCmd = &cobra.Command{
	Use:   "rank <requisition-id>",
	Short: "Rank the candidate pool against a job requirement",
	Long:  "Scores every candidate record against the requisition's requirement and stores the result as a ranking artifact. An existing ranking is returned unless --force is set.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRank,
}

var (
	rankForce  bool
	rankOutput string
)

func init() {
	rankCmd.Flags().BoolVarP(&rankForce, "force", "f", false, "Recompute even if a ranking already exists")
	rankCmd.Flags().StringVarP(&rankOutput, "out", "o", "", "Also write the artifact JSON to this path")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	printer := observability.NewPrinter(cmd.OutOrStdout())
	var onProgress pipeline.ProgressCallback
	if cfg.Log.Debug {
		onProgress = func(e pipeline.ProgressEvent) {
			printer.PrintStep(e.Step, e.Message)
		}
	}

	a, err := newApp(cmd.Context(), cfg, log, onProgress)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.service.Rank(cmd.Context(), args[0], rankForce)
	if err != nil {
		return err
	}

	if rankOutput != "" {
		if err := writeArtifactJSON(rankOutput, result.Artifact); err != nil {
			return err
		}
	}

	printer.PrintArtifact(result.Artifact, result.Reused)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Message)
	return nil
}

// writeArtifactJSON validates v against the artifact schema and writes it indented
func writeArtifactJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}
	if err := schemas.ValidateArtifact(data); err != nil {
		return fmt.Errorf("artifact failed schema validation: %w", err)
	}

	// Ensure output directory exists
	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
