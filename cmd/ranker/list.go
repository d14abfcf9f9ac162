package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/observability"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rankings, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var listRequisition string

func init() {
	listCmd.Flags().StringVarP(&listRequisition, "requisition", "r", "", "Only list rankings of this requisition")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
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

	summaries, err := a.service.ListArtifacts(cmd.Context(), listRequisition)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintSummaries(summaries)
	return nil
}
