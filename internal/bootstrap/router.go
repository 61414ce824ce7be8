package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	httpapi "github.com/ranirkini2004/Open-Hub-API/internal/api/http"
	"github.com/ranirkini2004/Open-Hub-API/internal/api/http/middleware"
	"github.com/ranirkini2004/Open-Hub-API/internal/auth"
	"github.com/ranirkini2004/Open-Hub-API/internal/backend"
	"github.com/ranirkini2004/Open-Hub-API/internal/dashboard"
	"github.com/ranirkini2004/Open-Hub-API/internal/feed"
	"github.com/ranirkini2004/Open-Hub-API/internal/monitor"
	"github.com/ranirkini2004/Open-Hub-API/internal/profile"
	"github.com/ranirkini2004/Open-Hub-API/internal/project"
	"github.com/ranirkini2004/Open-Hub-API/internal/session"
	"github.com/ranirkini2004/Open-Hub-API/internal/web"
)

type RouterDeps struct {
	ServiceName      string
	Version          string
	Client           *backend.Client
	Reader           backend.PublicReader
	CachedReader     *backend.CachedReader
	Redis            *redis.Client
	Store            *session.Store
	Monitor          *monitor.Monitor
	GithubClientID   string
	OAuthRedirectURL string
	Log              *logrus.Logger
}

// BuildRouter wires the whole web layer: templates, static assets,
// health endpoint, session middleware, and every page's routes.
func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Log.WithField("component", "http")))
	r.Use(cors.Default())

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	static, err := web.Static()
	if err != nil {
		return nil, fmt.Errorf("loading static assets: %w", err)
	}
	r.StaticFS("/static", http.FS(static))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Monitor)
	healthHandler.RegisterRoutes(r)

	r.Use(session.Load(dep.Store, dep.Log.WithField("component", "session")))

	// Write endpoints share a small per-client budget.
	write := []gin.HandlerFunc{middleware.RateLimit(5, 10)}

	dashCache := dashboard.NewCache(dep.Redis)

	authHandler := auth.NewHandler(dep.Store, dep.Client, dep.GithubClientID, dep.OAuthRedirectURL, dashCache, dep.Monitor, dep.Log.WithField("component", "auth"))
	authHandler.Register(r)

	dashHandler := dashboard.NewHandler(dep.Store, dep.Client, dashCache, dep.Monitor, dep.Log.WithField("component", "dashboard"))
	dashHandler.Register(r, write...)

	feedHandler := feed.NewHandler(dep.Store, dep.Reader, dep.Client, dep.Monitor, dep.Log.WithField("component", "feed"))
	feedHandler.Register(r, write...)

	projectHandler := project.NewHandler(dep.Store, dep.Reader, dep.Log.WithField("component", "project"))
	projectHandler.Register(r)

	profileHandler := profile.NewHandler(dep.Store, dep.Reader, dep.Client, dep.CachedReader, dep.Log.WithField("component", "profile"))
	profileHandler.Register(r, write...)

	return r, nil
}
