package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/TWRT/taskflow-client/internal/models"
	"github.com/TWRT/taskflow-client/internal/validation"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printTasks(w io.Writer, tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "  (no tasks)")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "  ID\tTITLE\tSTATUS\tPRIORITY\tDUE\tTAGS")
	for _, t := range tasks {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Title, orDash(t.Status), t.Priority, due(t.DueDate), strings.Join(t.Tags, ","))
	}
	tw.Flush()
}

func printTask(w io.Writer, t models.Task, project *models.Project) {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%d\n", t.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", t.Title)
	fmt.Fprintf(tw, "Description:\t%s\n", t.Description)
	fmt.Fprintf(tw, "Status:\t%s\n", orDash(t.Status))
	fmt.Fprintf(tw, "Priority:\t%s\n", t.Priority)
	fmt.Fprintf(tw, "Due:\t%s\n", due(t.DueDate))
	fmt.Fprintf(tw, "Created:\t%s\n", due(t.CreatedAt))
	if t.AssignedTo != nil {
		fmt.Fprintf(tw, "Assigned to:\t%s\n", *t.AssignedTo)
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(tw, "Tags:\t%s\n", strings.Join(t.Tags, ", "))
	}
	if project != nil {
		fmt.Fprintf(tw, "Project:\t%s (%d)\n", project.Name, project.ID)
		fmt.Fprintf(tw, "Statuses:\t%s\n", strings.Join(project.TaskStatuses, " | "))
	}
	tw.Flush()
}

func printProjects(w io.Writer, projects []models.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tTASKS\tDUE")
	for _, p := range projects {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Status, len(p.Tasks), due(p.DueDate))
	}
	tw.Flush()
}

func printProjectHeader(w io.Writer, p models.Project) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Project:\t%s (%d)\n", p.Name, p.ID)
	fmt.Fprintf(tw, "Description:\t%s\n", p.Description)
	fmt.Fprintf(tw, "Status:\t%s\n", p.Status)
	fmt.Fprintf(tw, "Statuses:\t%s\n", strings.Join(p.TaskStatuses, " | "))
	if p.DueDate != "" {
		fmt.Fprintf(tw, "Due:\t%s\n", due(p.DueDate))
	}
	if len(p.Members) > 0 {
		names := make([]string, 0, len(p.Members))
		for _, m := range p.Members {
			names = append(names, fmt.Sprintf("%s (%s)", m.DisplayName(), m.Role))
		}
		fmt.Fprintf(tw, "Members:\t%s\n", strings.Join(names, ", "))
	}
	tw.Flush()
}

// printStatusCounts lists task counts per board column, in column order.
func printStatusCounts(w io.Writer, statuses []string, counts map[string]int) {
	parts := make([]string, 0, len(statuses))
	for _, st := range statuses {
		parts = append(parts, fmt.Sprintf("%s %d", st, counts[st]))
	}
	fmt.Fprintf(w, "Board:  %s\n", strings.Join(parts, " | "))
}

func printInvites(w io.Writer, invites []models.PendingInvite) {
	if len(invites) == 0 {
		fmt.Fprintln(w, "No pending invites.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tPROJECT\tFROM\tROLE\tINVITED")
	for _, inv := range invites {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			inv.InviteID, inv.ProjectName, inv.TeamName, inv.Role, due(inv.InvitedAt))
	}
	tw.Flush()
}

// due renders a timestamp relative to now, or the raw value when it does
// not parse.
func due(raw string) string {
	if raw == "" {
		return "-"
	}
	t, ok := models.ParseTimestamp(raw)
	if !ok {
		return raw
	}
	return humanize.Time(t)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func fieldLines(errs validation.FieldErrors) []string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %s: %s", k, errs[k]))
	}
	return lines
}
