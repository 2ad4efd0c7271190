package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TWRT/taskflow-client/internal/models"
	"github.com/TWRT/taskflow-client/internal/screen"
	"github.com/TWRT/taskflow-client/internal/view"
)

func (c *cli) projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List your projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := screen.NewProjectsScreen(c.app.api, c.app.tokens, c.app.log)
			defer s.Close()
			if err := s.Load(cmd.Context()); err != nil {
				return screenError(cmd.ErrOrStderr(), s.Snapshot().Error, err)
			}
			projects, _ := s.Data()
			printProjects(cmd.OutOrStdout(), projects)
			return nil
		},
	}
}

func (c *cli) projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Show, edit or create a project",
	}
	cmd.AddCommand(c.projectShowCmd(), c.projectEditCmd(), c.projectCreateCmd())
	return cmd
}

func (c *cli) projectShowCmd() *cobra.Command {
	var status, sortBy string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			key, err := view.ParseSortKey(sortBy)
			if err != nil {
				return err
			}
			s := screen.NewProjectDetailScreen(c.app.api, c.app.tokens, id, c.app.log)
			defer s.Close()
			if err := s.Load(cmd.Context()); err != nil {
				return screenError(cmd.ErrOrStderr(), s.Snapshot().Error, err)
			}
			if err := s.SelectStatus(status); err != nil {
				return fmt.Errorf("%w (choose from %s)", err, strings.Join(s.StatusOptions(), ", "))
			}
			s.SetSort(key)

			project, _ := s.Data()
			out := cmd.OutOrStdout()
			printProjectHeader(out, project)
			printStatusCounts(out, project.TaskStatuses, view.Counts(project.Tasks))
			fmt.Fprintln(out)
			printTasks(out, s.VisibleTasks())
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", view.StatusAll, "only show tasks with this status")
	cmd.Flags().StringVar(&sortBy, "sort", string(view.SortDueDate), "sort by due-date, priority or created-at")
	return cmd
}

func (c *cli) projectEditCmd() *cobra.Command {
	var sets, addStatuses, removeStatuses, moveStatuses []string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit project fields and task statuses",
		Long: `Edit a project, for example:

  taskflow project edit 3 --set name=Launch --add-status Review --move-status Review=2

Fields: name, description, status, task_statuses, due_date.
--add-status, --remove-status and then --move-status are applied after --set.
--move-status takes status=position, counting board columns from 1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			assignments, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			moves, err := parseMoves(moveStatuses)
			if err != nil {
				return err
			}
			s := screen.NewProjectDetailScreen(c.app.api, c.app.tokens, id, c.app.log)
			defer s.Close()
			if err := s.Load(cmd.Context()); err != nil {
				return screenError(cmd.ErrOrStderr(), s.Snapshot().Error, err)
			}
			if err := s.BeginEdit(); err != nil {
				return err
			}
			for _, a := range assignments {
				if err := s.SetField(a[0], a[1]); err != nil {
					return err
				}
			}
			err = s.UpdateDraft(func(d *screen.ProjectDraft) {
				for _, st := range addStatuses {
					d.AddTaskStatus(st)
				}
				for _, st := range removeStatuses {
					d.RemoveTaskStatus(st)
				}
				for _, m := range moves {
					d.MoveTaskStatus(m.status, m.index)
				}
			})
			if err != nil {
				return err
			}
			if err := s.Save(cmd.Context()); err != nil {
				return screenError(cmd.ErrOrStderr(), s.EditState().Error, err)
			}
			project, _ := s.Data()
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %d\n", project.ID)
			printProjectHeader(cmd.OutOrStdout(), project)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringArrayVar(&sets, "set", nil, "field=value to change (repeatable)")
	f.StringArrayVar(&addStatuses, "add-status", nil, "task status to append (repeatable)")
	f.StringArrayVar(&removeStatuses, "remove-status", nil, "task status to remove (repeatable)")
	f.StringArrayVar(&moveStatuses, "move-status", nil, "status=position to reorder a column (repeatable)")
	return cmd
}

func (c *cli) projectCreateCmd() *cobra.Command {
	var (
		req    models.CreateProject
		status string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Status = models.ProjectStatus(strings.ToLower(status))
			form := screen.NewProjectForm(c.app.api, c.app.tokens, c.app.log)
			project, err := form.Submit(cmd.Context(), req)
			if err != nil {
				return screenError(cmd.ErrOrStderr(), form.Snapshot().Error, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %d\n", project.ID)
			printProjectHeader(cmd.OutOrStdout(), *project)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "project name")
	f.StringVar(&req.Description, "description", "", "project description")
	f.StringVar(&status, "status", string(models.ProjectActive), "active, completed or on_hold")
	f.StringSliceVar(&req.TaskStatuses, "statuses", nil, "task statuses in board order (default To Do,In Progress,Done)")
	f.StringVar(&req.DueDate, "due", "", "due date (RFC 3339 or YYYY-MM-DD)")
	return cmd
}

type statusMove struct {
	status string
	index  int
}

// parseMoves reads status=position pairs; positions start at 1.
func parseMoves(moves []string) ([]statusMove, error) {
	out := make([]statusMove, 0, len(moves))
	for _, m := range moves {
		status, pos, ok := strings.Cut(m, "=")
		n, err := strconv.Atoi(strings.TrimSpace(pos))
		if !ok || strings.TrimSpace(status) == "" || err != nil || n < 1 {
			return nil, fmt.Errorf("expected status=position, got %q", m)
		}
		out = append(out, statusMove{status: strings.TrimSpace(status), index: n - 1})
	}
	return out, nil
}
