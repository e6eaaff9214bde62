package api

import (
	"context"
	"net/http"
)

// CreateAssignment records one (employee, task, date, quantity) tuple.
// The server does not enforce uniqueness: repeated creates for the same
// tuple each add a record.
func (c *Client) CreateAssignment(ctx context.Context, employeeID, date, taskID string, quantity float64) error {
	body := struct {
		EmployeeID string  `json:"employeeId"`
		Date       string  `json:"date"`
		TaskID     string  `json:"taskId"`
		Quantity   float64 `json:"quantity"`
	}{employeeID, date, taskID, quantity}
	return c.call(ctx, http.MethodPost, "/assignments", body, nil)
}

// AssignmentsForDay returns all assignments for one employee on one date,
// in the server's storage order.
func (c *Client) AssignmentsForDay(ctx context.Context, employeeID, date string) ([]Assignment, error) {
	var out []Assignment
	path := "/assignments/employee/" + pathEscape(employeeID) + "/date/" + pathEscape(date)
	if err := c.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AssignmentsForRange returns all assignments for one employee with a
// date in [start, end], inclusive both ends. The server performs the
// range filter.
func (c *Client) AssignmentsForRange(ctx context.Context, employeeID, start, end string) ([]Assignment, error) {
	var out []Assignment
	path := "/assignments/employee/" + pathEscape(employeeID) + "/from/" + pathEscape(start) + "/to/" + pathEscape(end)
	if err := c.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
