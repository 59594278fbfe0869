package records

import "context"

// Repository is the record-store capability consumed by the ingestion,
// command and assistant layers. Implementations must be safe for
// concurrent use; callers never assume multi-record atomicity.
type Repository interface {
	InsertPerson(ctx context.Context, p *Person) error
	PersonByEmail(ctx context.Context, email string) (*Person, error)
	People(ctx context.Context) ([]*Person, error)

	InsertProject(ctx context.Context, p *Project) error
	SaveProject(ctx context.Context, p *Project) error
	ProjectByID(ctx context.Context, id string) (*Project, error)
	Projects(ctx context.Context) ([]*Project, error)

	InsertTask(ctx context.Context, t *Task) error
	SaveTask(ctx context.Context, t *Task) error
	Tasks(ctx context.Context) ([]*Task, error)
	TasksByProject(ctx context.Context, projectID string) ([]*Task, error)
	PendingTasksByAssignee(ctx context.Context, personID string) ([]*Task, error)

	ResolveProject(ctx context.Context, name string) (*Project, error)
	ResolveTask(ctx context.Context, name string) (*Task, error)
	ResolvePerson(ctx context.Context, token string) (*Person, error)
}

var _ Repository = (*Store)(nil)
