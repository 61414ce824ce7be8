package profile

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranirkini2004/Open-Hub-API/internal/backend"
	"github.com/ranirkini2004/Open-Hub-API/internal/session"
	"github.com/ranirkini2004/Open-Hub-API/internal/web"
)

const testSID = "sid-profile"

type profileStub struct {
	mu       sync.Mutex
	profiles map[string]backend.Profile
}

func (s *profileStub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/users/"):
			username := strings.TrimPrefix(r.URL.Path, "/users/")
			prof, ok := s.profiles[username]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(prof)
		case r.Method == http.MethodPut && r.URL.Path == "/users/profile/me":
			username := r.URL.Query().Get("username")
			var upd backend.ProfileUpdate
			json.NewDecoder(r.Body).Decode(&upd)
			prof := s.profiles[username]
			prof.Username = username
			prof.Bio = upd.Bio
			prof.Skills = upd.Skills
			prof.Linkedin = upd.Linkedin
			prof.FullName = upd.FullName
			prof.Department = upd.Department
			prof.Year = upd.Year
			prof.DiscordHandle = upd.DiscordHandle
			s.profiles[username] = prof
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(prof)
		default:
			http.NotFound(w, r)
		}
	})
}

type testEnv struct {
	router *gin.Engine
	stub   *profileStub
	store  *session.Store
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)
	entry := log.WithField("component", "test")

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	stub := &profileStub{
		profiles: map[string]backend.Profile{
			"ada":   {Username: "ada", FullName: "Ada L", Bio: "compiles things", Skills: "go, redis"},
			"grace": {Username: "grace", FullName: "Grace H", Bio: "debugs things"},
		},
	}
	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)

	store := session.NewStore(redisClient, time.Hour)
	client := backend.NewClient(nil, server.URL, 5*time.Second)

	router := gin.New()
	tmpl, err := web.Templates()
	require.NoError(t, err)
	router.SetHTMLTemplate(tmpl)
	router.Use(session.Load(store, entry))

	NewHandler(store, client, client, nil, entry).Register(router)

	return &testEnv{router: router, stub: stub, store: store}
}

func (e *testEnv) request(t *testing.T, method, path string, form url.Values, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if authed {
		err := e.store.Set(context.Background(), testSID, session.Session{Token: "tok-1", Username: "ada"})
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: testSID})
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func TestOwnProfileRequiresSession(t *testing.T) {
	env := setupTest(t)

	rr := env.request(t, http.MethodGet, "/profile", nil, false)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestOwnProfileShowsEditForm(t *testing.T) {
	env := setupTest(t)

	rr := env.request(t, http.MethodGet, "/profile", nil, true)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "compiles things")
	assert.Contains(t, body, `name="bio"`)
}

func TestPublicProfileIsReadOnly(t *testing.T) {
	env := setupTest(t)

	rr := env.request(t, http.MethodGet, "/profile/grace", nil, false)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "debugs things")
	assert.NotContains(t, body, `name="bio"`)
}

func TestOwnUsernameRedirectsToEditablePage(t *testing.T) {
	env := setupTest(t)

	rr := env.request(t, http.MethodGet, "/profile/ada", nil, true)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/profile", rr.Header().Get("Location"))
}

func TestUnknownProfileIs404(t *testing.T) {
	env := setupTest(t)

	rr := env.request(t, http.MethodGet, "/profile/nobody", nil, false)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "No such user.")
}

func TestUpdateRoundTrip(t *testing.T) {
	env := setupTest(t)

	form := url.Values{
		"bio":    {"ships on fridays"},
		"skills": {"go, gin, redis"},
		"year":   {"3rd Year"},
	}
	rr := env.request(t, http.MethodPost, "/profile", form, true)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()

	// the rendered page reflects exactly what was submitted
	assert.Contains(t, body, "Profile updated!")
	assert.Contains(t, body, "ships on fridays")
	assert.Contains(t, body, `<span class="chip">go</span>`)
	assert.Contains(t, body, `<span class="chip">gin</span>`)
	assert.Contains(t, body, `<span class="chip">redis</span>`)

	// and the backend saw the same values
	env.stub.mu.Lock()
	saved := env.stub.profiles["ada"]
	env.stub.mu.Unlock()
	assert.Equal(t, "ships on fridays", saved.Bio)
	assert.Equal(t, "go, gin, redis", saved.Skills)
	assert.Equal(t, "3rd Year", saved.Year)
}
