package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/types"
)

var getCmd = &cobra.Command{
	Use:   "get <artifact-id>",
	Short: "Print a stored ranking as JSON",
	Long:  "Prints a ranking artifact. With --latest the argument is a requisition id and its newest ranking is printed.",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var getLatest bool

func init() {
	getCmd.Flags().BoolVar(&getLatest, "latest", false, "Treat the argument as a requisition id and print its newest ranking")

	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	a, err := newApp(cmd.Context(), cfg, log, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	var artifact *types.RankingArtifact
	if getLatest {
		artifact, err = a.service.LatestArtifact(cmd.Context(), args[0])
	} else {
		artifact, err = a.service.GetArtifact(cmd.Context(), args[0])
	}
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
