package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/beerescue/service-storefront/internal/common/domain"
	"github.com/beerescue/service-storefront/internal/domain/session"
)

// Login implements session.IdentityGateway with the form-encoded upstream login.
func (c *Client) Login(ctx context.Context, email, password string) (session.Credentials, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	body, err := c.do(ctx, request{
		op:          "login",
		method:      http.MethodPost,
		path:        "/api/auth/user/login",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	})
	switch statusOf(err) {
	case http.StatusUnauthorized, http.StatusBadRequest, http.StatusNotFound:
		return session.Credentials{}, domain.NewUnauthorizedError("invalid email or password")
	}
	if err != nil {
		return session.Credentials{}, translate(err, "User", email)
	}

	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		UserID      int64  `json:"user_id"`
		UserType    string `json:"user_type"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return session.Credentials{}, translate(fmt.Errorf("decode login: %w", err), "", "")
	}
	return session.Credentials{Token: out.AccessToken, UserID: out.UserID, UserType: out.UserType}, nil
}

// Me implements session.IdentityGateway.
func (c *Client) Me(ctx context.Context, token string) (session.Profile, error) {
	body, err := c.do(ctx, request{op: "me", method: http.MethodGet, path: "/api/me", token: token})
	if err != nil {
		return session.Profile{}, translate(err, "User", "me")
	}
	var out struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return session.Profile{}, translate(fmt.Errorf("decode profile: %w", err), "", "")
	}
	return session.Profile{Name: out.Name, Email: out.Email, Mobile: out.Phone}, nil
}
