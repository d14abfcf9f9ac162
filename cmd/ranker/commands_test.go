package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/candidate-ranker/internal/pipeline"
	"github.com/jonathan/candidate-ranker/internal/types"
)

const testRequirement = `{
  "job_id": "JD-001",
  "role_title": "Backend Developer",
  "mandatory_skills": ["Python", "Docker"],
  "good_to_have_skills": ["Redis"],
  "experience_min": 2,
  "experience_max": 6,
  "location": "Bangalore"
}`

const testCandidateA = `{
  "candidate_id": "CAND-1",
  "name": "Asha",
  "target_job_title": "Backend Developer",
  "total_experience_years": 4,
  "current_location": "Bangalore",
  "technical_skills": {"programming_languages": ["Python"], "devops_tools": ["Docker"]}
}`

const testCandidateB = `candidate_id: CAND-2
name: Ravi
target_job_title: Senior Backend Developer
total_experience_years: 1
current_location: Pune
technical_skills:
  programming_languages: [Python]
`

var artifactIDPattern = regexp.MustCompile(`RANK-JD-001-\d+`)

// setupEnv points the CLI at fresh record and store directories
func setupEnv(t *testing.T) (recordsDir, storeDir string) {
	t.Helper()
	recordsDir = t.TempDir()
	storeDir = t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(recordsDir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	write("requirements/JD-001.json", testRequirement)
	write("candidates/cand-1.json", testCandidateA)
	write("candidates/cand-2.yaml", testCandidateB)

	t.Setenv("RANKER_STORE_BACKEND", "file")
	t.Setenv("RANKER_STORE_DIR", storeDir)
	t.Setenv("RANKER_RECORDS_SOURCE", "dir")
	t.Setenv("RANKER_RECORDS_DIR", recordsDir)
	t.Setenv("RANKER_REDIS_ADDR", "")
	t.Setenv("RANKER_DATABASE_URL", "")
	return recordsDir, storeDir
}

// resetFlags restores every flag to its default so runs do not leak state
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRankCommand(t *testing.T) {
	_, _ = setupEnv(t)
	outPath := filepath.Join(t.TempDir(), "out", "ranking.json")

	out, err := execute(t, "rank", "JD-001", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "CANDIDATE RANKING")
	assert.Contains(t, out, "Ranking completed. Ranking ID: RANK-JD-001-")
	assert.Contains(t, out, "CAND-1")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var artifact types.RankingArtifact
	require.NoError(t, json.Unmarshal(data, &artifact))
	assert.Equal(t, "JD-001", artifact.RequisitionID)
	require.Len(t, artifact.Entries, 2)
	assert.Equal(t, "CAND-1", artifact.Entries[0].CandidateID)

	// A second run reuses the stored artifact
	out, err = execute(t, "rank", "JD-001")
	require.NoError(t, err)
	assert.Contains(t, out, "Returned existing ranking")
	assert.Contains(t, out, "(reused)")
}

func TestRankCommand_DebugPrintsSteps(t *testing.T) {
	_, _ = setupEnv(t)

	out, err := execute(t, "rank", "JD-001", "--debug")
	require.NoError(t, err)
	assert.Contains(t, out, "[check_existing]")
	assert.Contains(t, out, "[persist]")
}

func TestRankCommand_RequirementNotFound(t *testing.T) {
	_, _ = setupEnv(t)

	_, err := execute(t, "rank", "JD-404")
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrRequirementNotFound)
}

func TestRankCommand_MissingArgument(t *testing.T) {
	_, _ = setupEnv(t)

	_, err := execute(t, "rank")
	assert.Error(t, err)
}

func TestGetListExportCommands(t *testing.T) {
	_, _ = setupEnv(t)

	out, err := execute(t, "rank", "JD-001")
	require.NoError(t, err)
	artifactID := artifactIDPattern.FindString(out)
	require.NotEmpty(t, artifactID)

	out, err = execute(t, "get", artifactID)
	require.NoError(t, err)
	var artifact types.RankingArtifact
	require.NoError(t, json.Unmarshal([]byte(out), &artifact))
	assert.Equal(t, artifactID, artifact.ArtifactID)

	out, err = execute(t, "get", "--latest", "JD-001")
	require.NoError(t, err)
	assert.Contains(t, out, artifactID)

	_, err = execute(t, "get", "RANK-NOPE-1")
	assert.ErrorIs(t, err, pipeline.ErrArtifactNotFound)

	out, err = execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "RANKINGS (1)")
	assert.Contains(t, out, artifactID)

	out, err = execute(t, "list", "--requisition", "JD-999")
	require.NoError(t, err)
	assert.Contains(t, out, "No rankings found")

	xlsxBase := filepath.Join(t.TempDir(), "ranking")
	out, err = execute(t, "export", artifactID, "--out", xlsxBase)
	require.NoError(t, err)
	assert.Contains(t, out, xlsxBase+".xlsx")

	f, err := excelize.OpenFile(xlsxBase + ".xlsx")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Contains(t, f.GetSheetList(), "Ranked Candidates")
}

func TestExportCommand_RequiresOut(t *testing.T) {
	_, _ = setupEnv(t)

	_, err := execute(t, "export", "RANK-JD-001-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out")
}

func TestInvalidConfig(t *testing.T) {
	_, _ = setupEnv(t)
	t.Setenv("RANKER_STORE_BACKEND", "bogus")

	_, err := execute(t, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store backend")
}

func TestConfigFile(t *testing.T) {
	_, storeDir := setupEnv(t)
	t.Setenv("RANKER_STORE_DIR", "")

	cfgPath := filepath.Join(t.TempDir(), "ranker.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("store:\n  backend: file\n  dir: "+storeDir+"\n"), 0644))

	out, err := execute(t, "--config", cfgPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No rankings found")

	_, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "list")
	assert.Error(t, err)
}

func TestMigrateCommand_RequiresDatabase(t *testing.T) {
	_, _ = setupEnv(t)

	_, err := execute(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url")
}
