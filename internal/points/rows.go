// Package points joins assignment records against the task cache to
// produce point-weighted rows, and batches assignment submission.
package points

import "pointr/internal/api"

// TaskLookup is the slice of the reference cache the join needs.
type TaskLookup interface {
	TaskByID(id string) (api.Task, bool)
}

// Row is one assignment joined to its task. Points are recomputed from
// the coefficient currently in the cache, so a coefficient edit
// retroactively changes historical totals. Never persisted or cached.
type Row struct {
	AssignmentID string
	TaskID       string
	Label        string
	Reference    string
	Date         string
	Coefficient  float64
	Quantity     float64
	Points       float64
}

// Report is the rows of one query plus their summed total. Duplicate
// (task, date) entries stay separate rows; the total sums them all.
type Report struct {
	Rows  []Row
	Total float64
}

// BuildRows joins assignments against the task cache in input order.
// A cache miss keeps the row: the raw task id becomes the label and the
// points are zero.
func BuildRows(assignments []api.Assignment, tasks TaskLookup) Report {
	var rep Report
	for _, a := range assignments {
		row := Row{
			AssignmentID: a.ID,
			TaskID:       a.TaskID,
			Label:        a.TaskID,
			Date:         a.Date,
			Quantity:     a.Quantity,
		}
		if t, ok := tasks.TaskByID(a.TaskID); ok {
			row.Label = t.Title
			row.Reference = t.Reference
			row.Coefficient = t.Coefficient
			row.Points = a.Quantity * t.Coefficient
		}
		rep.Rows = append(rep.Rows, row)
		rep.Total += row.Points
	}
	return rep
}
