package records

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// InsertPerson inserts a new person, assigning an ID when empty.
func (s *Store) InsertPerson(ctx context.Context, p *Person) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().UnixMilli()
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO people (id, first_name, last_name, email, created_at)
		VALUES (?,?,?,?,?)`,
		p.ID, p.FirstName, p.LastName, p.Email, p.CreatedAt,
	)
	return err
}

// PersonByEmail retrieves a person by exact e-mail. Missing is (nil, nil).
func (s *Store) PersonByEmail(ctx context.Context, email string) (*Person, error) {
	p := &Person{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, created_at
		FROM people WHERE email = ?`, email).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// People returns every person, ordered by surname then given name.
func (s *Store) People(ctx context.Context) ([]*Person, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, first_name, last_name, email, created_at
		FROM people ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Person
	for rows.Next() {
		p := &Person{}
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
