package gateway

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token and stores it on the
// session, so every following call is authenticated.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	raw, err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return "", err
	}
	res, err := decodeData[loginResponse]("login", raw)
	if err != nil {
		return "", err
	}
	if err := c.sess.Set(res.Token); err != nil {
		return "", err
	}
	return res.Token, nil
}
