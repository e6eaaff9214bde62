// Package cache holds in-memory mirrors of the employee and task lists.
// Refreshes replace a whole list with the latest server snapshot; there
// is no incremental sync. Every other component reads the mirrors, only
// the refresh operations write them.
package cache

import (
	"context"
	"sync"

	"pointr/internal/api"
	"pointr/internal/store"
)

// PageSize is the fixed page size for both employee and task lists.
const PageSize = 25

// Lister is the slice of the api client the cache needs.
type Lister interface {
	ListEmployees(ctx context.Context) ([]api.Employee, error)
	ListTasks(ctx context.Context) ([]api.Task, error)
}

// Ref is the process-wide reference cache. The mutex is needed because
// refreshes run in tea.Cmd goroutines off the update loop.
type Ref struct {
	mu        sync.RWMutex
	employees []api.Employee
	tasks     []api.Task

	api   Lister
	local *store.Local
}

func New(client Lister, local *store.Local) *Ref {
	return &Ref{api: client, local: local}
}

// WarmFromSnapshot loads the last persisted lists so the UI has data
// before the first refresh completes. A missing snapshot is not an error.
func (r *Ref) WarmFromSnapshot() error {
	if r.local == nil {
		return nil
	}
	employees, err := r.local.LoadEmployees()
	if err != nil {
		return err
	}
	tasks, err := r.local.LoadTasks()
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.employees = employees
	r.tasks = tasks
	r.mu.Unlock()
	return nil
}

// RefreshEmployees replaces the employee mirror with the latest server
// snapshot. The snapshot is also persisted locally, best-effort: a
// snapshot write failure does not fail the refresh.
func (r *Ref) RefreshEmployees(ctx context.Context) error {
	employees, err := r.api.ListEmployees(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.employees = employees
	r.mu.Unlock()
	if r.local != nil {
		_ = r.local.SaveEmployees(employees)
	}
	return nil
}

// RefreshTasks replaces the task mirror with the latest server snapshot.
func (r *Ref) RefreshTasks(ctx context.Context) error {
	tasks, err := r.api.ListTasks(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.tasks = tasks
	r.mu.Unlock()
	if r.local != nil {
		_ = r.local.SaveTasks(tasks)
	}
	return nil
}

// Employees returns a copy of the mirror in fetch order.
func (r *Ref) Employees() []api.Employee {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.employees == nil {
		return nil
	}
	out := make([]api.Employee, len(r.employees))
	copy(out, r.employees)
	return out
}

// Tasks returns a copy of the mirror in fetch order.
func (r *Ref) Tasks() []api.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.tasks == nil {
		return nil
	}
	out := make([]api.Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// TaskByID looks a task up in the mirror. ok is false on a cache miss;
// callers must render miss rows with zero points, never drop them.
func (r *Ref) TaskByID(id string) (api.Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return api.Task{}, false
}

// EmployeeByID looks an employee up in the mirror.
func (r *Ref) EmployeeByID(id string) (api.Employee, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.employees {
		if e.ID == id {
			return e, true
		}
	}
	return api.Employee{}, false
}

// Functions returns the unique non-empty function labels in first-seen
// order, for the employee filter.
func (r *Ref) Functions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, e := range r.employees {
		if e.Function == "" || seen[e.Function] {
			continue
		}
		seen[e.Function] = true
		out = append(out, e.Function)
	}
	return out
}
