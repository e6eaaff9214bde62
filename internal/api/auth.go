package api

import (
	"context"
	"net/http"
)

// Login exchanges credentials for an access token. The call is anonymous:
// no bearer credential is attached because none exists yet. Storing the
// returned token is the caller's job.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.call(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}
