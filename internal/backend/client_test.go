package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListGitHubRepos(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/github/repos" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("username"); got != "ada" {
			t.Errorf("expected username query, got: %s", got)
		}
		if got := r.Header.Get("access-token"); got != "tok-1" {
			t.Errorf("expected access-token header, got: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"title":"alpha","repo_url":"https://github.com/ada/alpha","language":"Go","stars":4}]`))
	}))
	defer server.Close()

	client := NewClient(nil, server.URL, 0)

	repos, err := client.ListGitHubRepos(context.Background(), "tok-1", "ada")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "alpha", repos[0].Title)
	assert.Equal(t, 4, repos[0].Stars)
}

func TestImportProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/projects/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("expected bearer token, got: %s", got)
		}

		var repo Repo
		if err := json.NewDecoder(r.Body).Decode(&repo); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		if repo.RepoURL != "https://github.com/ada/alpha" {
			t.Errorf("unexpected repo_url: %s", repo.RepoURL)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":7,"title":"alpha","repo_url":"https://github.com/ada/alpha"}`))
	}))
	defer server.Close()

	client := NewClient(nil, server.URL, 0)

	p, err := client.ImportProject(context.Background(), "tok-1", "ada", Repo{
		Title:   "alpha",
		RepoURL: "https://github.com/ada/alpha",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, p.ID)
}

func TestImportProjectConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Project already imported"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(nil, server.URL, 0)

	_, err := client.ImportProject(context.Background(), "tok-1", "ada", Repo{Title: "alpha", RepoURL: "u"})
	assert.ErrorIs(t, err, ErrConflict)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestUnauthorizedMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(nil, server.URL, 0)

	_, err := client.ListPendingRequests(context.Background(), "expired", "ada")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestListProjectsSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("search"); got != "python" {
			t.Errorf("expected search query, got: %s", got)
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(nil, server.URL, 0)

	projects, err := client.ListProjects(context.Background(), "python")
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestResolveRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/projects/requests/12" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		if body["status"] != RequestAccepted {
			t.Errorf("unexpected status: %s", body["status"])
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(nil, server.URL, 0)

	err := client.ResolveRequest(context.Background(), "tok-1", 12, RequestAccepted)
	assert.NoError(t, err)
}

func TestPasswordLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		if r.PostForm.Get("username") != "ada" || r.PostForm.Get("password") != "pw" {
			t.Errorf("unexpected form values: %v", r.PostForm)
		}
		w.Write([]byte(`{"access_token":"tok-9"}`))
	}))
	defer server.Close()

	client := NewClient(nil, server.URL, 0)

	creds, err := client.PasswordLogin(context.Background(), "ada", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-9", creds.AccessToken)
	// username falls back to the submitted one when the backend omits it
	assert.Equal(t, "ada", creds.Username)
}

func TestNetworkError(t *testing.T) {
	client := NewClient(nil, "http://127.0.0.1:1", 0)

	_, err := client.ListProjects(context.Background(), "")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	assert.False(t, errors.Is(err, ErrConflict))
}
