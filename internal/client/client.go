// Package client implements the session-holding API client: it talks to the
// auth service over HTTP/JSON, stores the token on successful login and
// attaches it as a bearer credential to protected calls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fittrack/internal/model"
)

// ErrNotLoggedIn is returned by calls that need a stored token when the
// local storage holds none.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError carries the server's message string verbatim, plus the status
// code for callers that branch on it.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

type Client struct {
	baseURL string
	http    *http.Client
	session *SessionFile
}

func New(baseURL string, session *SessionFile) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		session: session,
	}
}

// LoggedIn reports whether local storage holds a token. The token is not
// verified; a stale one passes until the server rejects it.
func (c *Client) LoggedIn() bool { return c.session.LoggedIn() }

// UserEmail returns the email stored for display next to the session.
func (c *Client) UserEmail() string { return c.session.UserEmail() }

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account. No token is issued; call Login afterwards.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	err := c.post(ctx, "/api/users/signup", signUpRequest{Name: name, Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    model.UserPublic `json:"user"`
}

// Login authenticates and persists the token and email to local storage.
func (c *Client) Login(ctx context.Context, email, password string) (*model.UserPublic, error) {
	var resp loginResponse
	if err := c.post(ctx, "/api/users/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if err := c.session.Set(resp.Token, email); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

type logoutRequest struct {
	Token string `json:"token"`
}

// Logout notifies the server and clears local storage. The local token is
// dropped even when the server rejects it (it was unusable anyway).
func (c *Client) Logout(ctx context.Context) error {
	tok := c.session.Token()
	if tok == "" {
		return ErrNotLoggedIn
	}
	apiErr := c.post(ctx, "/api/users/logout", logoutRequest{Token: tok}, nil)
	if err := c.session.Clear(); err != nil {
		return err
	}
	return apiErr
}

type protectedResponse struct {
	Message string           `json:"message"`
	User    model.UserPublic `json:"user"`
}

// Protected calls the guarded endpoint with the stored bearer token and
// returns the authenticated user.
func (c *Client) Protected(ctx context.Context) (*model.UserPublic, error) {
	tok := c.session.Token()
	if tok == "" {
		return nil, ErrNotLoggedIn
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/protected", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	var resp protectedResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Message == "" {
			body.Message = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Message: body.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
