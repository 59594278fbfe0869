package records

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound reports that no record matched a resolution query. The
// resolver never guesses: an ambiguous or empty match is a miss.
var ErrNotFound = errors.New("records: not found")

// ResolveProject finds a project by name, exact case-insensitive match
// first, then substring.
func (s *Store) ResolveProject(ctx context.Context, name string) (*Project, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, ErrNotFound
	}
	projects, err := s.Projects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if strings.ToLower(p.Name) == name {
			return p, nil
		}
	}
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.Name), name) {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// ResolveTask finds a task by case-insensitive name substring.
func (s *Store) ResolveTask(ctx context.Context, name string) (*Task, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, ErrNotFound
	}
	tasks, err := s.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if strings.ToLower(t.Name) == name {
			return t, nil
		}
	}
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Name), name) {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

// ResolvePerson finds a person from a free-form token. Strategies run in
// order: exact e-mail, first+last name tokens, then substring against the
// given name.
func (s *Store) ResolvePerson(ctx context.Context, token string) (*Person, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNotFound
	}

	if p, err := s.PersonByEmail(ctx, token); err != nil {
		return nil, err
	} else if p != nil {
		return p, nil
	}

	people, err := s.People(ctx)
	if err != nil {
		return nil, err
	}

	if parts := strings.Fields(token); len(parts) >= 2 {
		first, last := strings.ToLower(parts[0]), strings.ToLower(parts[len(parts)-1])
		for _, p := range people {
			if strings.Contains(strings.ToLower(p.FirstName), first) &&
				strings.Contains(strings.ToLower(p.LastName), last) {
				return p, nil
			}
		}
	}

	needle := strings.ToLower(token)
	for _, p := range people {
		if strings.Contains(strings.ToLower(p.FirstName), needle) {
			return p, nil
		}
	}
	return nil, ErrNotFound
}
