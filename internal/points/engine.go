package points

import (
	"context"

	"pointr/internal/api"
)

// Gateway is the slice of the api client the engine needs.
type Gateway interface {
	AssignmentsForDay(ctx context.Context, employeeID, date string) ([]api.Assignment, error)
	AssignmentsForRange(ctx context.Context, employeeID, start, end string) ([]api.Assignment, error)
	CreateAssignment(ctx context.Context, employeeID, date, taskID string, quantity float64) error
}

// EmployeeLookup is the slice of the reference cache the cross-employee
// query needs.
type EmployeeLookup interface {
	TaskLookup
	Employees() []api.Employee
}

// Engine runs the point queries: one remote fetch per selector, joined
// against the task cache at render time. Results are never cached.
type Engine struct {
	api   Gateway
	cache EmployeeLookup
}

func NewEngine(gw Gateway, cache EmployeeLookup) *Engine {
	return &Engine{api: gw, cache: cache}
}

// EmployeeDay fetches one employee's assignments for one date and joins
// them into a point report.
func (e *Engine) EmployeeDay(ctx context.Context, employeeID, date string) (Report, error) {
	assignments, err := e.api.AssignmentsForDay(ctx, employeeID, date)
	if err != nil {
		return Report{}, err
	}
	return BuildRows(assignments, e.cache), nil
}

// EmployeeRange fetches assignments for an inclusive date range in one
// request; the server performs the range filter. Rows keep their date
// because multiple dates are mixed together.
func (e *Engine) EmployeeRange(ctx context.Context, employeeID, start, end string) (Report, error) {
	assignments, err := e.api.AssignmentsForRange(ctx, employeeID, start, end)
	if err != nil {
		return Report{}, err
	}
	return BuildRows(assignments, e.cache), nil
}

// EmployeeDayReport is one employee's report inside a cross-employee
// query. Totals are always per employee in this shape; there is no grand
// total.
type EmployeeDayReport struct {
	Employee api.Employee
	Report
}

// AllEmployeesDay runs EmployeeDay for every cached employee, in cache
// order, and keeps only employees with at least one row. One remote call
// per employee: no batch endpoint exists, so the employee count bounds
// request volume. The first failure aborts the whole query.
func (e *Engine) AllEmployeesDay(ctx context.Context, date string) ([]EmployeeDayReport, error) {
	var out []EmployeeDayReport
	for _, emp := range e.cache.Employees() {
		rep, err := e.EmployeeDay(ctx, emp.ID, date)
		if err != nil {
			return nil, err
		}
		if len(rep.Rows) == 0 {
			continue
		}
		out = append(out, EmployeeDayReport{Employee: emp, Report: rep})
	}
	return out, nil
}
