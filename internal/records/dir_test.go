package records

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-ranker/internal/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDirSource_GetRequirement_JSON(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "requirements", "JD-001.json"), `{
		"job_id": "JD-001",
		"role_title": "Backend Developer",
		"mandatory_skills": ["Python", "Docker"],
		"good_to_have_skills": ["AWS"],
		"experience_min": 3,
		"experience_max": 6,
		"location": "Bangalore",
		"salary_min": 1200000,
		"salary_max": 1800000
	}`)

	req, err := NewDirSource(root).GetRequirement(context.Background(), "JD-001")
	require.NoError(t, err)

	assert.Equal(t, "JD-001", req.ID)
	assert.Equal(t, "Backend Developer", req.RoleTitle)
	assert.Equal(t, []string{"Python", "Docker"}, req.MandatorySkills)
	assert.Equal(t, 3, req.ExperienceMin)
	assert.Equal(t, 6, req.ExperienceMax)
	require.NotNil(t, req.SalaryMax)
	assert.Equal(t, int64(1800000), *req.SalaryMax)
}

func TestDirSource_GetRequirement_YAML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "requirements", "JD-002.yaml"), `
role_title: Data Engineer
mandatory_skills: [Spark, SQL]
experience_min: 2
experience_max: 5
location: Remote
`)

	req, err := NewDirSource(root).GetRequirement(context.Background(), "JD-002")
	require.NoError(t, err)

	assert.Equal(t, "JD-002", req.ID, "id falls back to the file name")
	assert.Equal(t, "Data Engineer", req.RoleTitle)
	assert.Equal(t, []string{"Spark", "SQL"}, req.MandatorySkills)
	assert.Nil(t, req.SalaryMin)
}

func TestDirSource_GetRequirement_NotFound(t *testing.T) {
	src := NewDirSource(t.TempDir())

	for _, id := range []string{"JD-404", "", "../etc", `a\b`, ".."} {
		_, err := src.GetRequirement(context.Background(), id)
		assert.True(t, errors.Is(err, ErrRequirementNotFound), "id %q", id)
	}
}

func TestDirSource_GetRequirement_Malformed(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "requirements", "JD-003.json"), `{ invalid json }`)

	_, err := NewDirSource(root).GetRequirement(context.Background(), "JD-003")
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Error(), "failed to unmarshal JSON")
	assert.False(t, errors.Is(err, ErrRequirementNotFound))
}

func TestDirSource_ListCandidates(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "candidates")
	writeFile(t, filepath.Join(dir, "b.json"), `{
		"candidate_id": "CAND-B",
		"name": "Bala",
		"target_job_title": "Backend Developer",
		"technical_skills": {"programming_languages": ["Go"], "databases": ["Postgres"]},
		"total_experience_years": 4.5,
		"current_location": "Pune",
		"relocation_willing": true
	}`)
	writeFile(t, filepath.Join(dir, "a.yml"), `
candidate_id: CAND-A
name: Anu
target_job_title: Backend Developer
technical_skills:
  frameworks: [Django]
total_experience_years: 6
expected_salary: 1500000
`)
	writeFile(t, filepath.Join(dir, "broken.json"), `{"candidate_id": `)
	writeFile(t, filepath.Join(dir, "notes.txt"), `ignored`)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "archive"), 0755))

	pool, err := NewDirSource(root).ListCandidates(context.Background())
	require.NoError(t, err)

	require.Len(t, pool.Candidates, 2)
	assert.Equal(t, "CAND-A", pool.Candidates[0].ID)
	assert.Equal(t, "CAND-B", pool.Candidates[1].ID)
	assert.Equal(t, 6.0, pool.Candidates[0].Years())
	assert.Equal(t, []string{"Go", "Postgres"}, pool.Candidates[1].Skills.All())
	assert.True(t, pool.Candidates[1].WillingToRelocate())

	require.Len(t, pool.Rejected, 1)
	assert.Equal(t, "broken.json", pool.Rejected[0].CandidateID)
	assert.Equal(t, "loader", pool.Rejected[0].Source)
	assert.Equal(t, 3, pool.Size())
}

func TestDirSource_ListCandidates_MissingDir(t *testing.T) {
	pool, err := NewDirSource(t.TempDir()).ListCandidates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, pool.Size())
}

func TestDirSource_WriteRecord(t *testing.T) {
	root := t.TempDir()
	src := NewDirSource(root)

	years := 3.0
	require.NoError(t, src.WriteRecord(CandidatesDir, "CAND-1", types.CandidateProfile{
		ID: "CAND-1", TargetJobTitle: "QA Engineer", TotalExperienceYears: &years,
	}))

	pool, err := src.ListCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, pool.Candidates, 1)
	assert.Equal(t, "QA Engineer", pool.Candidates[0].TargetJobTitle)
}

func TestDirSource_RequirementIDs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, RequirementsDir, "JD-2.yaml"), "role_title: SRE\n")
	writeFile(t, filepath.Join(root, RequirementsDir, "JD-1.json"), `{"role_title":"QA"}`)
	writeFile(t, filepath.Join(root, RequirementsDir, "JD-1.yml"), "role_title: QA\n")
	writeFile(t, filepath.Join(root, RequirementsDir, "notes.txt"), "ignored")

	ids, err := NewDirSource(root).RequirementIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"JD-1", "JD-2"}, ids)

	ids, err = NewDirSource(t.TempDir()).RequirementIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMemorySource(t *testing.T) {
	src := NewMemorySource()
	src.PutRequirement(types.JobRequirement{ID: "JD-1", RoleTitle: "SRE"})
	src.AddCandidates(types.CandidateProfile{ID: "c1"}, types.CandidateProfile{ID: "c2"})
	src.AddRejected(types.CandidateIssue{CandidateID: "bad", Reason: "decode"})

	req, err := src.GetRequirement(context.Background(), "JD-1")
	require.NoError(t, err)
	assert.Equal(t, "SRE", req.RoleTitle)

	_, err = src.GetRequirement(context.Background(), "JD-2")
	assert.ErrorIs(t, err, ErrRequirementNotFound)

	pool, err := src.ListCandidates(context.Background())
	require.NoError(t, err)
	assert.Len(t, pool.Candidates, 2)
	assert.Len(t, pool.Rejected, 1)
	assert.Equal(t, 3, pool.Size())
}
