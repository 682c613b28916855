package adapters

import (
	"context"

	"leadcrm/internal/lead/ports"
	projectModels "leadcrm/internal/project/models"
	projectService "leadcrm/internal/project/service"
)

// ProjectAdapter implements ports.ProjectPort on top of the project service.
type ProjectAdapter struct {
	projects *projectService.Service
}

func NewProjectAdapter(projects *projectService.Service) ports.ProjectPort {
	return &ProjectAdapter{projects: projects}
}

func (a *ProjectAdapter) ActiveByPrefix(ctx context.Context, prefix string) (*ports.Project, error) {
	p, err := a.projects.ProjectByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	ref := toPort(p)
	return &ref, nil
}

func (a *ProjectAdapter) ActiveProjects(ctx context.Context) ([]ports.Project, error) {
	list, err := a.projects.ListProjects(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]ports.Project, 0, len(list))
	for _, p := range list {
		out = append(out, toPort(p))
	}
	return out, nil
}

func toPort(p *projectModels.Project) ports.Project {
	return ports.Project{ID: p.ID, Prefix: p.Prefix, Name: p.Name}
}
