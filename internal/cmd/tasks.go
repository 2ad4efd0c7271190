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

func (c *cli) tasksCmd() *cobra.Command {
	var status, sortBy string
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List personal and project tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := view.ParseSortKey(sortBy)
			if err != nil {
				return err
			}
			home := screen.NewHomeScreen(c.app.api, c.app.tokens, c.app.log)
			defer home.Close()
			home.SetStatus(status)
			home.SetSort(key)

			if err := home.Load(cmd.Context()); err != nil {
				return screenError(cmd.ErrOrStderr(), home.Snapshot().Error, err)
			}

			out := cmd.OutOrStdout()
			v := home.View()
			fmt.Fprintln(out, "Personal")
			printTasks(out, v.Personal)
			for _, section := range v.Projects {
				fmt.Fprintf(out, "\n%s (%d)\n", section.Project.Name, section.Project.ID)
				printTasks(out, section.Tasks)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", view.StatusAll, "only show tasks with this status")
	cmd.Flags().StringVar(&sortBy, "sort", string(view.SortDueDate), "sort by due-date, priority or created-at")
	return cmd
}

func (c *cli) taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Show, edit or create a task",
	}
	cmd.AddCommand(c.taskShowCmd(), c.taskEditCmd(), c.taskCreateCmd())
	return cmd
}

func (c *cli) taskShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s := screen.NewTaskDetailScreen(c.app.api, c.app.tokens, id, c.app.log)
			defer s.Close()
			if err := s.Load(cmd.Context()); err != nil {
				return screenError(cmd.ErrOrStderr(), s.Snapshot().Error, err)
			}
			d, _ := s.Data()
			printTask(cmd.OutOrStdout(), d.Task, d.Project)
			return nil
		},
	}
}

func (c *cli) taskEditCmd() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit task fields",
		Long: `Edit a task by setting fields, for example:

  taskflow task edit 12 --set status=Done --set tags=api,backend

Fields: title, description, status, priority, due_date, assigned_to, tags.
Only the fields that change are sent.`,
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
			s := screen.NewTaskDetailScreen(c.app.api, c.app.tokens, id, c.app.log)
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
			if err := s.Save(cmd.Context()); err != nil {
				return screenError(cmd.ErrOrStderr(), s.EditState().Error, err)
			}
			d, _ := s.Data()
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d\n", d.Task.ID)
			printTask(cmd.OutOrStdout(), d.Task, d.Project)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value to change (repeatable)")
	_ = cmd.MarkFlagRequired("set")
	return cmd
}

func (c *cli) taskCreateCmd() *cobra.Command {
	var (
		req      models.CreateTask
		priority string
		project  int64
		assignee string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Priority = models.Priority(strings.ToLower(priority))
			if project > 0 {
				req.Project = &project
			}
			if assignee != "" {
				req.AssignedTo = &assignee
			}
			form := screen.NewTaskForm(c.app.api, c.app.tokens, c.app.log)
			task, err := form.Submit(cmd.Context(), req)
			if err != nil {
				return screenError(cmd.ErrOrStderr(), form.Snapshot().Error, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %d\n", task.ID)
			printTask(cmd.OutOrStdout(), *task, nil)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Title, "title", "", "task title")
	f.StringVar(&req.Description, "description", "", "task description")
	f.StringVar(&priority, "priority", string(models.PriorityMedium), "low, medium or high")
	f.StringVar(&req.DueDate, "due", "", "due date (RFC 3339 or YYYY-MM-DD)")
	f.StringVar(&req.Status, "status", "", "initial status (defaults to the project's first status)")
	f.Int64Var(&project, "project", 0, "project id")
	f.StringVar(&assignee, "assign", "", "user id to assign")
	f.StringSliceVar(&req.Tags, "tag", nil, "tag (repeatable)")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// parseAssignments splits field=value pairs, keeping their order.
func parseAssignments(sets []string) ([][2]string, error) {
	out := make([][2]string, 0, len(sets))
	for _, s := range sets {
		field, value, ok := strings.Cut(s, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("expected field=value, got %q", s)
		}
		out = append(out, [2]string{field, value})
	}
	return out, nil
}
