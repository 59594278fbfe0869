package records

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// InsertProject inserts a new project, assigning an ID when empty.
func (s *Store) InsertProject(ctx context.Context, p *Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = StatusNotStarted
	}
	now := time.Now().UnixMilli()
	if p.CreatedAt == 0 {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO projects (id, name, deadline, percent, status, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?)`,
		p.ID, p.Name, dateText(p.Deadline), p.Percent, string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// SaveProject persists the mutable fields of an existing project.
func (s *Store) SaveProject(ctx context.Context, p *Project) error {
	p.UpdatedAt = time.Now().UnixMilli()
	_, err := s.DB.ExecContext(ctx, `
		UPDATE projects SET name = ?, deadline = ?, percent = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, dateText(p.Deadline), p.Percent, string(p.Status), p.UpdatedAt, p.ID,
	)
	return err
}

// ProjectByID retrieves a project by ID. Missing is (nil, nil).
func (s *Store) ProjectByID(ctx context.Context, id string) (*Project, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, deadline, percent, status, created_at, updated_at
		FROM projects WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanProject(rows)
}

// Projects returns every project ordered by name.
func (s *Store) Projects(ctx context.Context) ([]*Project, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, deadline, percent, status, created_at, updated_at
		FROM projects ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProject(rows *sql.Rows) (*Project, error) {
	p := &Project{}
	var deadline sql.NullString
	var status string
	if err := rows.Scan(&p.ID, &p.Name, &deadline, &p.Percent, &status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Deadline = parseDate(deadline)
	p.Status = Status(status)
	return p, nil
}
