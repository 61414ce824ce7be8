package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HTTPDoer can execute an http request.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the OpenCollab backend REST API. It holds no state
// beyond the base URL; credentials are passed per call.
type Client struct {
	doer    HTTPDoer
	baseURL string
}

// NewClient creates a backend client. If doer is nil a default
// http.Client with the given timeout is used.
func NewClient(doer HTTPDoer, baseURL string, timeout time.Duration) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: timeout}
	}
	return &Client{
		doer:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ExchangeGitHubCode completes a GitHub OAuth login by trading the
// authorization code for an access token and username.
func (c *Client) ExchangeGitHubCode(ctx context.Context, code string) (Credentials, error) {
	var creds Credentials
	body, err := c.do(ctx, http.MethodPost, "/auth/github", map[string]string{"code": code}, "")
	if err != nil {
		return creds, fmt.Errorf("exchanging github code: %w", err)
	}
	if err := json.Unmarshal(body, &creds); err != nil {
		return creds, fmt.Errorf("unmarshalling credentials: %w", err)
	}
	return creds, nil
}

// PasswordLogin performs a form-encoded credential login.
func (c *Client) PasswordLogin(ctx context.Context, username, password string) (Credentials, error) {
	var creds Credentials
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return creds, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.send(req)
	if err != nil {
		return creds, fmt.Errorf("logging in: %w", err)
	}
	if err := json.Unmarshal(body, &creds); err != nil {
		return creds, fmt.Errorf("unmarshalling credentials: %w", err)
	}
	if creds.Username == "" {
		creds.Username = username
	}
	return creds, nil
}

// ListGitHubRepos fetches the user's GitHub repositories via the backend proxy.
// This endpoint expects the raw token in the access-token header.
func (c *Client) ListGitHubRepos(ctx context.Context, token, username string) ([]Repo, error) {
	u := fmt.Sprintf("/projects/github/repos?username=%s", url.QueryEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("access-token", token)

	body, err := c.send(req)
	if err != nil {
		return nil, fmt.Errorf("listing github repos: %w", err)
	}

	var repos []Repo
	if err := json.Unmarshal(body, &repos); err != nil {
		return nil, fmt.Errorf("unmarshalling repos: %w", err)
	}
	return repos, nil
}

// ListPendingRequests returns join requests awaiting the owner's decision.
func (c *Client) ListPendingRequests(ctx context.Context, token, username string) ([]JoinRequest, error) {
	u := fmt.Sprintf("/projects/requests/pending?username=%s", url.QueryEscape(username))
	body, err := c.do(ctx, http.MethodGet, u, nil, token)
	if err != nil {
		return nil, fmt.Errorf("listing pending requests: %w", err)
	}

	var reqs []JoinRequest
	if err := json.Unmarshal(body, &reqs); err != nil {
		return nil, fmt.Errorf("unmarshalling requests: %w", err)
	}
	return reqs, nil
}

// ListJoinedProjects returns projects the user is a team member of.
func (c *Client) ListJoinedProjects(ctx context.Context, token, username string) ([]Project, error) {
	u := fmt.Sprintf("/projects/joined?username=%s", url.QueryEscape(username))
	return c.listProjects(ctx, u, token, "listing joined projects")
}

// ListOwnedProjects returns projects the user imported.
func (c *Client) ListOwnedProjects(ctx context.Context, token, username string) ([]Project, error) {
	u := fmt.Sprintf("/projects/owned?username=%s", url.QueryEscape(username))
	return c.listProjects(ctx, u, token, "listing owned projects")
}

// ListProjects returns the public feed, optionally filtered by a search term.
func (c *Client) ListProjects(ctx context.Context, search string) ([]Project, error) {
	u := "/projects/"
	if search != "" {
		u += "?search=" + url.QueryEscape(search)
	}
	return c.listProjects(ctx, u, "", "listing projects")
}

// GetProject returns a single project with its team.
func (c *Client) GetProject(ctx context.Context, id int) (*Project, error) {
	body, err := c.do(ctx, http.MethodGet, "/projects/"+strconv.Itoa(id), nil, "")
	if err != nil {
		return nil, fmt.Errorf("getting project %d: %w", id, err)
	}

	var p Project
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("unmarshalling project: %w", err)
	}
	return &p, nil
}

// ImportProject saves a GitHub repository as a project owned by username.
func (c *Client) ImportProject(ctx context.Context, token, username string, repo Repo) (*Project, error) {
	u := fmt.Sprintf("/projects/?username=%s", url.QueryEscape(username))
	body, err := c.do(ctx, http.MethodPost, u, repo, token)
	if err != nil {
		return nil, fmt.Errorf("importing project: %w", err)
	}

	var p Project
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("unmarshalling project: %w", err)
	}
	return &p, nil
}

// DeleteProject removes a project owned by username.
func (c *Client) DeleteProject(ctx context.Context, token, username string, id int) error {
	u := fmt.Sprintf("/projects/%d?username=%s", id, url.QueryEscape(username))
	if _, err := c.do(ctx, http.MethodDelete, u, nil, token); err != nil {
		return fmt.Errorf("deleting project %d: %w", id, err)
	}
	return nil
}

// RequestJoin creates a join request for the given project.
func (c *Client) RequestJoin(ctx context.Context, token, username string, projectID int) error {
	u := fmt.Sprintf("/projects/request?username=%s", url.QueryEscape(username))
	payload := map[string]int{"project_id": projectID}
	if _, err := c.do(ctx, http.MethodPost, u, payload, token); err != nil {
		return fmt.Errorf("requesting to join project %d: %w", projectID, err)
	}
	return nil
}

// ResolveRequest accepts or rejects a join request.
func (c *Client) ResolveRequest(ctx context.Context, token string, requestID int, status string) error {
	u := fmt.Sprintf("/projects/requests/%d", requestID)
	payload := map[string]string{"status": status}
	if _, err := c.do(ctx, http.MethodPut, u, payload, token); err != nil {
		return fmt.Errorf("resolving request %d: %w", requestID, err)
	}
	return nil
}

// GetProfile returns a user's public profile.
func (c *Client) GetProfile(ctx context.Context, username string) (*Profile, error) {
	body, err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(username), nil, "")
	if err != nil {
		return nil, fmt.Errorf("getting profile for %s: %w", username, err)
	}

	var p Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("unmarshalling profile: %w", err)
	}
	return &p, nil
}

// UpdateProfile saves the user's own profile fields.
func (c *Client) UpdateProfile(ctx context.Context, token, username string, upd ProfileUpdate) error {
	u := fmt.Sprintf("/users/profile/me?username=%s", url.QueryEscape(username))
	if _, err := c.do(ctx, http.MethodPut, u, upd, token); err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	return nil
}

func (c *Client) listProjects(ctx context.Context, path, token, action string) ([]Project, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	var projects []Project
	if err := json.Unmarshal(body, &projects); err != nil {
		return nil, fmt.Errorf("unmarshalling projects: %w", err)
	}
	return projects, nil
}

// do builds a JSON request and executes it. payload may be nil; when
// token is non-empty it is sent as a bearer token.
func (c *Client) do(ctx context.Context, method, path string, payload any, token string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshalling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req)
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling backend: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}
