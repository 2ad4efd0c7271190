package screen

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow-client/internal/client"
	"github.com/TWRT/taskflow-client/internal/models"
	"github.com/TWRT/taskflow-client/internal/view"
)

// ProjectSection is one project's tasks as shown on the home screen.
type ProjectSection struct {
	Project models.Project
	Tasks   []models.Task
}

type HomeView struct {
	Personal []models.Task
	Projects []ProjectSection
}

// HomeScreen lists every task visible to the user: personal tasks and the
// tasks of each project they belong to.
type HomeScreen struct {
	*Loader[models.TasksResponse]

	mu     sync.Mutex
	params view.Params
}

func NewHomeScreen(api client.TaskClient, tokens client.TokenProvider, log *logrus.Entry) *HomeScreen {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	fetch := func(ctx context.Context, token string) (models.TasksResponse, error) {
		resp, err := api.ListVisibleTasks(ctx, token)
		if err != nil {
			return models.TasksResponse{}, err
		}
		return *resp, nil
	}
	return &HomeScreen{
		Loader: NewLoader(tokens, fetch, "Failed to load tasks", log.WithField("screen", "home")),
		params: view.DefaultParams(),
	}
}

// SetStatus filters every section by status; view.StatusAll shows all.
func (s *HomeScreen) SetStatus(status string) {
	if status == "" {
		status = view.StatusAll
	}
	s.mu.Lock()
	s.params.Status = status
	s.mu.Unlock()
}

func (s *HomeScreen) SetSort(key view.SortKey) {
	s.mu.Lock()
	s.params.Sort = key
	s.mu.Unlock()
}

func (s *HomeScreen) Params() view.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// View derives the displayed lists from canonical data. It is recomputed
// on every call, so it always reflects the latest data and parameters.
func (s *HomeScreen) View() HomeView {
	data, ok := s.Data()
	if !ok {
		return HomeView{}
	}
	params := s.Params()

	out := HomeView{
		Personal: view.Apply(data.PersonalTasks, params),
		Projects: make([]ProjectSection, 0, len(data.ProjectTasks)),
	}
	for _, p := range data.ProjectTasks {
		out.Projects = append(out.Projects, ProjectSection{
			Project: p,
			Tasks:   view.Apply(p.Tasks, params),
		})
	}
	return out
}
