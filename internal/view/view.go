// Package view computes the filtered and sorted task lists that screens
// display. Everything here is pure: inputs are never modified.
package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/TWRT/taskflow-client/internal/models"
)

// StatusAll disables status filtering.
const StatusAll = "all"

type SortKey string

const (
	SortDueDate   SortKey = "due-date"
	SortPriority  SortKey = "priority"
	SortCreatedAt SortKey = "created-at"
)

var SortKeys = []SortKey{SortDueDate, SortPriority, SortCreatedAt}

// ParseSortKey accepts the key names with dashes or underscores.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if key == "" {
		return SortDueDate, nil
	}
	if !slices.Contains(SortKeys, key) {
		return "", fmt.Errorf("unknown sort key %q", s)
	}
	return key, nil
}

type Params struct {
	Status string
	Sort   SortKey
}

// DefaultParams shows every task ordered by due date.
func DefaultParams() Params {
	return Params{Status: StatusAll, Sort: SortDueDate}
}

// Apply filters tasks by p.Status and sorts the result by p.Sort. The
// sort is stable, so tasks that compare equal keep their source order.
func Apply(tasks []models.Task, p Params) []models.Task {
	out := Filter(tasks, p.Status)
	Sort(out, p.Sort)
	return out
}

// Filter returns a new slice holding the tasks whose status is status, or
// all tasks when status is empty or StatusAll.
func Filter(tasks []models.Task, status string) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if status == "" || status == StatusAll || t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// Sort orders tasks in place.
//
//   - due-date: earliest first; tasks without a parseable date go last
//   - priority: high, medium, low
//   - created-at: newest first; tasks without a parseable date go last
func Sort(tasks []models.Task, key SortKey) {
	switch key {
	case SortPriority:
		slices.SortStableFunc(tasks, func(a, b models.Task) int {
			return b.Priority.Weight() - a.Priority.Weight()
		})
	case SortCreatedAt:
		slices.SortStableFunc(tasks, func(a, b models.Task) int {
			at, aok := a.CreatedTime()
			bt, bok := b.CreatedTime()
			if c := missingLast(aok, bok); c != 0 || !aok {
				return c
			}
			return bt.Compare(at)
		})
	default:
		slices.SortStableFunc(tasks, func(a, b models.Task) int {
			at, aok := a.DueTime()
			bt, bok := b.DueTime()
			if c := missingLast(aok, bok); c != 0 || !aok {
				return c
			}
			return at.Compare(bt)
		})
	}
}

func missingLast(aok, bok bool) int {
	switch {
	case aok == bok:
		return 0
	case aok:
		return -1
	default:
		return 1
	}
}

// StatusOptions lists the choices for a project's status filter.
func StatusOptions(p models.Project) []string {
	out := make([]string, 0, len(p.TaskStatuses)+1)
	out = append(out, StatusAll)
	return append(out, p.TaskStatuses...)
}

// Counts returns the number of tasks in each status.
func Counts(tasks []models.Task) map[string]int {
	out := make(map[string]int)
	for _, t := range tasks {
		out[t.Status]++
	}
	return out
}
