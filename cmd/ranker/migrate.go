package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/db"
	"github.com/jonathan/candidate-ranker/internal/records"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the Postgres schema",
	Long:  "Creates the ranker tables in database_url. With --import-dir, requirement and candidate records from a records directory are upserted as well.",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var migrateImportDir string

func init() {
	migrateCmd.Flags().StringVar(&migrateImportDir, "import-dir", "", "Records directory to import into Postgres after migrating")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("'database_url' is required for migrate")
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}
	log.Info("schema applied")

	if migrateImportDir == "" {
		return nil
	}

	src := records.NewDirSource(migrateImportDir)
	dst := database.Records()

	ids, err := src.RequirementIDs()
	if err != nil {
		return err
	}
	for _, id := range ids {
		req, err := src.GetRequirement(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load requirement %s: %w", id, err)
		}
		if err := dst.PutRequirement(ctx, req); err != nil {
			return err
		}
	}

	pool, err := src.ListCandidates(ctx)
	if err != nil {
		return err
	}
	for i := range pool.Candidates {
		if err := dst.PutCandidate(ctx, &pool.Candidates[i]); err != nil {
			return err
		}
	}
	for _, issue := range pool.Rejected {
		log.Warn("skipped candidate record", zap.String("file", issue.CandidateID), zap.String("reason", issue.Reason))
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d requirements and %d candidates (%d skipped)\n",
		len(ids), len(pool.Candidates), len(pool.Rejected))
	return nil
}
