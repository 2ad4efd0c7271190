package screen

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow-client/internal/client"
	"github.com/TWRT/taskflow-client/internal/models"
)

// ProjectsScreen lists the projects the user belongs to.
type ProjectsScreen struct {
	*Loader[[]models.Project]
}

func NewProjectsScreen(api client.ProjectClient, tokens client.TokenProvider, log *logrus.Entry) *ProjectsScreen {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	fetch := func(ctx context.Context, token string) ([]models.Project, error) {
		return api.ListUserProjects(ctx, token)
	}
	return &ProjectsScreen{
		Loader: NewLoader(tokens, fetch, "Failed to load projects", log.WithField("screen", "projects")),
	}
}

// Add shows a newly created project without refetching.
func (s *ProjectsScreen) Add(p models.Project) error {
	return s.Mutate(func(list *[]models.Project) {
		*list = append(*list, p)
	})
}
