// FilePath: api/api.router.go
package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/itsatony/healthhub/api/middleware"
	"github.com/itsatony/healthhub/api/resources"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
	nuts "github.com/vaudience/go-nuts"

	_ "github.com/itsatony/healthhub/docs"
)

const kindPattern = "{kind:sleep|exercise|glucose|blood_glucose}"

// RouterConfig holds the optional parts of the HTTP surface.
type RouterConfig struct {
	APIKey      string
	CORSOrigins []string
	MetricsPath string
	// GraphQL is mounted at GraphQLPath when set.
	GraphQL     http.Handler
	GraphQLPath string
	Playground  http.Handler
	// Instrument wraps every route, e.g. with Prometheus HTTP metrics.
	Instrument mux.MiddlewareFunc
}

type Router struct {
	router    *mux.Router
	auth      *middleware.APIKeyMiddleware
	resources *resources.Resources
	cfg       RouterConfig
}

func NewRouter(deps resources.Deps, cfg RouterConfig) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewAPIKeyMiddleware(cfg.APIKey),
		resources: resources.NewResources(deps),
		cfg:       cfg,
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	if r.cfg.Instrument != nil {
		r.router.Use(r.cfg.Instrument)
	}

	// Public routes
	r.router.HandleFunc("/", r.resources.Health.Root).Methods(http.MethodGet)
	r.router.HandleFunc("/health", r.resources.Health.Health).Methods(http.MethodGet)
	r.router.HandleFunc("/api/test", r.resources.Health.Test).Methods(http.MethodGet)
	r.router.HandleFunc("/api/docs/swagger.json", serveSwagger).Methods(http.MethodGet)
	if r.cfg.MetricsPath != "" {
		r.router.Handle(r.cfg.MetricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}
	if r.cfg.Playground != nil && r.cfg.GraphQLPath != "" {
		r.router.Handle(r.cfg.GraphQLPath+"/playground", r.cfg.Playground).Methods(http.MethodGet)
	}

	// Protected routes
	protected := r.router.PathPrefix("").Subrouter()
	protected.Use(r.auth.Authenticate)

	protected.HandleFunc("/api/status", r.resources.Status.List).Methods(http.MethodGet)
	protected.HandleFunc("/api/"+kindPattern, r.resources.Ingest.Ingest).Methods(http.MethodPost)
	protected.HandleFunc("/api/"+kindPattern, r.resources.Records.List).Methods(http.MethodGet)

	if r.cfg.GraphQL != nil && r.cfg.GraphQLPath != "" {
		protected.Handle(r.cfg.GraphQLPath, r.cfg.GraphQL).Methods(http.MethodGet, http.MethodPost)
	}
}

// Handler returns the router wrapped in the standard middleware chain:
// panic recovery, CORS, compression and access logging.
func (r *Router) Handler() http.Handler {
	var h http.Handler = r.router
	h = handlers.CompressHandler(h)
	if len(r.cfg.CORSOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(r.cfg.CORSOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "X-API-Key"}),
		)(h)
	}
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	return handlers.CombinedLoggingHandler(accessLog{}, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

func serveSwagger(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}

// accessLog forwards combined log lines to the service logger.
type accessLog struct{}

func (accessLog) Write(p []byte) (int, error) {
	n := len(p)
	if n > 0 && p[n-1] == '\n' {
		p = p[:n-1]
	}
	nuts.L.Infof("[HTTP] %s", p)
	return n, nil
}
