package records

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedProject(t *testing.T, s *Store, name string) *Project {
	t.Helper()
	deadline := date(2025, 6, 1)
	p := &Project{Name: name, Deadline: &deadline}
	if err := s.InsertProject(context.Background(), p); err != nil {
		t.Fatalf("InsertProject: %v", err)
	}
	return p
}

func seedPerson(t *testing.T, s *Store, first, last, email string) *Person {
	t.Helper()
	p := &Person{FirstName: first, LastName: last, Email: email}
	if err := s.InsertPerson(context.Background(), p); err != nil {
		t.Fatalf("InsertPerson: %v", err)
	}
	return p
}

func TestStore_ProjectRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := seedProject(t, s, "Alpha")
	if p.ID == "" {
		t.Fatal("insert did not assign an ID")
	}

	projects, err := s.Projects(ctx)
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("projects = %d, want 1", len(projects))
	}
	got := projects[0]
	if got.Name != "Alpha" || got.Status != StatusNotStarted {
		t.Errorf("got %+v", got)
	}
	if got.Deadline == nil || !got.Deadline.Equal(date(2025, 6, 1)) {
		t.Errorf("deadline = %v", got.Deadline)
	}

	newDeadline := date(2025, 7, 1)
	got.Deadline = &newDeadline
	got.Percent = 40
	got.Status = StatusInProgress
	if err := s.SaveProject(ctx, got); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}
	projects, _ = s.Projects(ctx)
	if projects[0].Percent != 40 || !projects[0].Deadline.Equal(newDeadline) {
		t.Errorf("after save: %+v", projects[0])
	}
}

func TestStore_TaskRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	proj := seedProject(t, s, "Alpha")
	ana := seedPerson(t, s, "Ana", "Silva", "ana@acme.com")

	task := &Task{
		ProjectID:  proj.ID,
		AssigneeID: ana.ID,
		Name:       "Revisar contrato",
		Percent:    50,
		EndDate:    date(2025, 5, 10),
	}
	if err := s.InsertTask(ctx, task); err != nil {
		t.Fatalf("InsertTask: %v", err)
	}
	if task.Priority != PriorityMedium || task.Condition != CondAlways {
		t.Errorf("defaults not applied: %+v", task)
	}
	if task.Status != StatusInProgress {
		t.Errorf("status = %q, want derived from percent", task.Status)
	}

	tasks, err := s.TasksByProject(ctx, proj.ID)
	if err != nil {
		t.Fatalf("TasksByProject: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(tasks))
	}
	got := tasks[0]
	if got.Name != "Revisar contrato" || !got.EndDate.Equal(date(2025, 5, 10)) {
		t.Errorf("got %+v", got)
	}
	if got.CompletedAt != nil {
		t.Error("unfinished task has a completion time")
	}

	done := time.Now()
	got.Percent = 100
	got.Status = StatusDone
	got.CompletedAt = &done
	if err := s.SaveTask(ctx, got); err != nil {
		t.Fatalf("SaveTask: %v", err)
	}
	tasks, _ = s.TasksByProject(ctx, proj.ID)
	if tasks[0].Status != StatusDone || tasks[0].CompletedAt == nil {
		t.Errorf("after save: %+v", tasks[0])
	}
}

func TestStore_PersonByEmail(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seedPerson(t, s, "Ana", "Silva", "ana@acme.com")

	p, err := s.PersonByEmail(ctx, "ana@acme.com")
	if err != nil {
		t.Fatalf("PersonByEmail: %v", err)
	}
	if p == nil || p.FirstName != "Ana" {
		t.Fatalf("got %+v", p)
	}

	p, err = s.PersonByEmail(ctx, "ninguem@acme.com")
	if err != nil {
		t.Fatalf("PersonByEmail miss: %v", err)
	}
	if p != nil {
		t.Errorf("miss should be nil, got %+v", p)
	}
}

func TestStore_PendingTasksByAssignee(t *testing.T) {
	// WHAT: the assistant's task listing drops finished work and puts the
	// highest priority first.
	// WHY: the prompt context tells the user what to attack next.
	s := openTestStore(t)
	ctx := context.Background()

	proj := seedProject(t, s, "Alpha")
	ana := seedPerson(t, s, "Ana", "Silva", "ana@acme.com")

	insert := func(name string, prio Priority, status Status) {
		t.Helper()
		err := s.InsertTask(ctx, &Task{
			ProjectID: proj.ID, AssigneeID: ana.ID, Name: name,
			Priority: prio, Status: status, EndDate: date(2025, 5, 10),
		})
		if err != nil {
			t.Fatalf("InsertTask %s: %v", name, err)
		}
	}
	insert("baixa pendente", PriorityLow, StatusNotStarted)
	insert("alta pendente", PriorityHigh, StatusInProgress)
	insert("alta concluída", PriorityHigh, StatusDone)

	tasks, err := s.PendingTasksByAssignee(ctx, ana.ID)
	if err != nil {
		t.Fatalf("PendingTasksByAssignee: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(tasks))
	}
	if tasks[0].Name != "alta pendente" || tasks[1].Name != "baixa pendente" {
		t.Errorf("order = %q, %q", tasks[0].Name, tasks[1].Name)
	}
}
