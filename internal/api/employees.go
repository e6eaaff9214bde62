package api

import (
	"context"
	"net/http"
)

type employeeBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Function string `json:"function"`
}

func (c *Client) ListEmployees(ctx context.Context) ([]Employee, error) {
	var out []Employee
	if err := c.call(ctx, http.MethodGet, "/employees", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateEmployee(ctx context.Context, name, email, function string) error {
	return c.call(ctx, http.MethodPost, "/employees", employeeBody{name, email, function}, nil)
}

func (c *Client) UpdateEmployee(ctx context.Context, id, name, email, function string) error {
	return c.call(ctx, http.MethodPut, "/employees/"+pathEscape(id), employeeBody{name, email, function}, nil)
}

func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/employees/"+pathEscape(id), nil, nil)
}
