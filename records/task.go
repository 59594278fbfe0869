package records

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
)

const taskColumns = `id, project_id, assignee_id, name, how_to, category, phase, ref_doc,
	priority, condition, percent, status, start_date, end_date, completed_at,
	created_at, updated_at`

// InsertTask inserts a new task, assigning an ID and defaults when empty.
func (s *Store) InsertTask(ctx context.Context, t *Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Condition == "" {
		t.Condition = CondAlways
	}
	if t.Status == "" {
		t.Status = StatusForPercent(t.Percent)
	}
	now := time.Now().UnixMilli()
	if t.CreatedAt == 0 {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	var completed any
	if t.CompletedAt != nil {
		completed = t.CompletedAt.UnixMilli()
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		t.ID, t.ProjectID, t.AssigneeID, t.Name, t.HowTo, t.Category, t.Phase, t.RefDoc,
		string(t.Priority), string(t.Condition), t.Percent, string(t.Status),
		dateText(t.StartDate), t.EndDate.Format(dateLayout), completed,
		t.CreatedAt, t.UpdatedAt,
	)
	return err
}

// SaveTask persists the mutable fields of an existing task.
func (s *Store) SaveTask(ctx context.Context, t *Task) error {
	t.UpdatedAt = time.Now().UnixMilli()
	var completed any
	if t.CompletedAt != nil {
		completed = t.CompletedAt.UnixMilli()
	}
	_, err := s.DB.ExecContext(ctx, `
		UPDATE tasks SET assignee_id = ?, name = ?, how_to = ?, category = ?, phase = ?,
			ref_doc = ?, priority = ?, condition = ?, percent = ?, status = ?,
			start_date = ?, end_date = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`,
		t.AssigneeID, t.Name, t.HowTo, t.Category, t.Phase,
		t.RefDoc, string(t.Priority), string(t.Condition), t.Percent, string(t.Status),
		dateText(t.StartDate), t.EndDate.Format(dateLayout), completed, t.UpdatedAt,
		t.ID,
	)
	return err
}

// Tasks returns every task ordered by deadline.
func (s *Store) Tasks(ctx context.Context) ([]*Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY end_date`)
}

// TasksByProject returns the tasks of one project.
func (s *Store) TasksByProject(ctx context.Context, projectID string) ([]*Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY end_date`, projectID)
}

// PendingTasksByAssignee returns a person's unfinished tasks, most urgent
// priority first, then nearest deadline.
func (s *Store) PendingTasksByAssignee(ctx context.Context, personID string) ([]*Task, error) {
	tasks, err := s.queryTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE assignee_id = ? AND status != ? ORDER BY end_date`,
		personID, string(StatusDone))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority.rank() < tasks[j].Priority.rank()
	})
	return tasks, nil
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]*Task, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTask(rows *sql.Rows) (*Task, error) {
	t := &Task{}
	var priority, condition, status, endDate string
	var startDate sql.NullString
	var completed sql.NullInt64
	if err := rows.Scan(
		&t.ID, &t.ProjectID, &t.AssigneeID, &t.Name, &t.HowTo, &t.Category, &t.Phase, &t.RefDoc,
		&priority, &condition, &t.Percent, &status, &startDate, &endDate, &completed,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.Priority = Priority(priority)
	t.Condition = Condition(condition)
	t.Status = Status(status)
	t.StartDate = parseDate(startDate)
	if end, err := time.Parse(dateLayout, endDate); err == nil {
		t.EndDate = end
	}
	t.CompletedAt = millis(completed)
	return t, nil
}
