package records

// Schema contains the complete DDL for the records tables. Calendar dates
// are TEXT in ISO form; event timestamps are INTEGER unix milliseconds.
const Schema = `
CREATE TABLE IF NOT EXISTS people (
    id          TEXT PRIMARY KEY,
    first_name  TEXT NOT NULL,
    last_name   TEXT NOT NULL,
    email       TEXT NOT NULL UNIQUE,
    created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_people_email ON people(email);

CREATE TABLE IF NOT EXISTS projects (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    deadline    TEXT,
    percent     INTEGER NOT NULL DEFAULT 0,
    status      TEXT NOT NULL DEFAULT 'não iniciada',
    created_at  INTEGER NOT NULL,
    updated_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_projects_name ON projects(name);

CREATE TABLE IF NOT EXISTS tasks (
    id            TEXT PRIMARY KEY,
    project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    assignee_id   TEXT NOT NULL REFERENCES people(id),
    name          TEXT NOT NULL,
    how_to        TEXT NOT NULL DEFAULT '',
    category      TEXT NOT NULL DEFAULT '',
    phase         TEXT NOT NULL DEFAULT '',
    ref_doc       TEXT NOT NULL DEFAULT '',
    priority      TEXT NOT NULL DEFAULT 'média',
    condition     TEXT NOT NULL DEFAULT 'SEMPRE',
    percent       INTEGER NOT NULL DEFAULT 0,
    status        TEXT NOT NULL DEFAULT 'não iniciada',
    start_date    TEXT,
    end_date      TEXT NOT NULL,
    completed_at  INTEGER,
    created_at    INTEGER NOT NULL,
    updated_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
`
