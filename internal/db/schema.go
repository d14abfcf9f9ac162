package db

// Schema is the DDL applied by Migrate. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS job_requirements (
    requisition_id TEXT PRIMARY KEY,
    content        JSONB NOT NULL,
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS candidate_profiles (
    candidate_id TEXT PRIMARY KEY,
    content      JSONB NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS ranking_artifacts (
    artifact_id       TEXT PRIMARY KEY,
    requisition_id    TEXT NOT NULL,
    requisition_title TEXT NOT NULL,
    created_at        TIMESTAMPTZ NOT NULL,
    total_evaluated   INTEGER NOT NULL,
    top_count         INTEGER NOT NULL,
    content           JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ranking_artifacts_requisition
    ON ranking_artifacts (requisition_id, created_at DESC);

CREATE TABLE IF NOT EXISTS ranking_latest (
    requisition_id TEXT PRIMARY KEY,
    artifact_id    TEXT NOT NULL REFERENCES ranking_artifacts (artifact_id),
    created_at     TIMESTAMPTZ NOT NULL
);
`
