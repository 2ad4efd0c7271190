package models

// TasksResponse is returned by GET /tasks/user_visible_tasks/.
type TasksResponse struct {
	PersonalTasks []Task    `json:"personal_tasks"`
	ProjectTasks  []Project `json:"project_tasks"`
}

// Count returns the number of personal and project tasks.
func (r TasksResponse) Count() int {
	n := len(r.PersonalTasks)
	for _, p := range r.ProjectTasks {
		n += len(p.Tasks)
	}
	return n
}

type ProjectsEnvelope struct {
	Projects []Project `json:"projects"`
}

type BasicProjectsEnvelope struct {
	Projects []BasicProject `json:"projects"`
}

type TasksEnvelope struct {
	Tasks []Task `json:"tasks"`
}

type InvitesEnvelope struct {
	Invites []PendingInvite `json:"invites"`
}
