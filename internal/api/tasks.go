package api

import (
	"context"
	"net/http"
)

type taskBody struct {
	Title       string  `json:"title"`
	Coefficient float64 `json:"coefficient"`
	Reference   string  `json:"reference"`
}

func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	var out []Task
	if err := c.call(ctx, http.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, title string, coefficient float64, reference string) error {
	return c.call(ctx, http.MethodPost, "/tasks", taskBody{title, coefficient, reference}, nil)
}

func (c *Client) UpdateTask(ctx context.Context, id, title string, coefficient float64, reference string) error {
	return c.call(ctx, http.MethodPut, "/tasks/"+pathEscape(id), taskBody{title, coefficient, reference}, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/tasks/"+pathEscape(id), nil, nil)
}
