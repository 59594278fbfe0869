package command

import (
	"context"
	"math"

	"gestor/records"
)

// rollupProject recomputes a project's completion as the rounded mean of
// its tasks' percentages and derives the project status from it. A project
// with no tasks rolls up to 0%.
func (p *Parser) rollupProject(ctx context.Context, projectID string) error {
	tasks, err := p.store.TasksByProject(ctx, projectID)
	if err != nil {
		return err
	}

	pct := 0
	if len(tasks) > 0 {
		sum := 0
		for _, t := range tasks {
			sum += t.Percent
		}
		pct = int(math.Round(float64(sum) / float64(len(tasks))))
	}

	project, err := p.store.ProjectByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return records.ErrNotFound
	}
	project.Percent = pct
	project.Status = records.StatusForPercent(pct)
	return p.store.SaveProject(ctx, project)
}
