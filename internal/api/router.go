package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/relay-api/internal/api/middleware"
	"github.com/phrazzld/relay-api/internal/config"
	"github.com/phrazzld/relay-api/internal/platform/metrics"
	"github.com/phrazzld/relay-api/internal/platform/sysinfo"
	"github.com/phrazzld/relay-api/internal/store"
)

// Wildcard is the pattern of the catch-all route.
const Wildcard = "*"

// Mount points of the resource handler sets.
const (
	UsersPath    = "/api/users"
	FilesPath    = "/api/files"
	MessagesPath = "/api/messages"
	MetricsPath  = "/api/metrics"
)

// ErrNoWildcard is returned by NewRouter when the table does not end with
// the catch-all route.
var ErrNoWildcard = errors.New("route table must end with the wildcard route")

// Route is one entry of the dispatch table.
type Route struct {
	// Name identifies the route in the startup report and, for prefix
	// routes, in the GET / endpoint map.
	Name string
	// Pattern is a chi path pattern, or Wildcard.
	Pattern string
	// Methods restricts a static route. Empty means any method. Prefix
	// routes always accept every method.
	Methods []string
	// Prefix delegates Pattern and everything below it to Handler.
	Prefix bool
	// Description is shown in the startup report.
	Description string
	Handler     http.Handler
}

// NewRouter builds a chi router from routes. Static routes are matched
// before prefixes, longer prefixes before shorter ones, and the final
// wildcard answers every request nothing else claimed, including known
// paths called with an unsupported method.
func NewRouter(routes []Route, chain ...func(http.Handler) http.Handler) (chi.Router, error) {
	if len(routes) == 0 || routes[len(routes)-1].Pattern != Wildcard {
		return nil, ErrNoWildcard
	}

	mux := chi.NewRouter()
	mux.Use(chain...)

	for i, rt := range routes {
		if rt.Handler == nil {
			return nil, fmt.Errorf("route %q has no handler", rt.Name)
		}
		switch {
		case rt.Pattern == Wildcard:
			if i != len(routes)-1 {
				return nil, fmt.Errorf("route %q: wildcard must be the last route", rt.Name)
			}
			mux.NotFound(rt.Handler.ServeHTTP)
			mux.MethodNotAllowed(rt.Handler.ServeHTTP)
		case !strings.HasPrefix(rt.Pattern, "/"):
			return nil, fmt.Errorf("route %q: pattern %q must start with /", rt.Name, rt.Pattern)
		case rt.Prefix:
			mux.Mount(rt.Pattern, rt.Handler)
		case len(rt.Methods) == 0:
			mux.Handle(rt.Pattern, rt.Handler)
		default:
			for _, m := range rt.Methods {
				mux.Method(m, rt.Pattern, rt.Handler)
			}
		}
	}

	return mux, nil
}

// Dependencies are the collaborators the gateway dispatches to.
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Clock    sysinfo.Provider
	Metrics  *metrics.Recorder // optional
	Users    store.UserStore
	Files    store.FileStore
	Messages store.MessageStore
}

// DefaultRoutes returns the gateway's dispatch table.
func DefaultRoutes(deps Dependencies) ([]Route, error) {
	mounts := []Route{
		{
			Name:        "users",
			Pattern:     UsersPath,
			Prefix:      true,
			Description: "List, create and fetch users",
			Handler:     NewUserHandler(deps.Users, deps.Logger).Routes(),
		},
		{
			Name:        "files",
			Pattern:     FilesPath,
			Prefix:      true,
			Description: "List and simulate file uploads",
			Handler:     NewFileHandler(deps.Files, deps.Logger).Routes(),
		},
		{
			Name:        "messages",
			Pattern:     MessagesPath,
			Prefix:      true,
			Description: "List and create messages",
			Handler:     NewMessageHandler(deps.Messages, deps.Logger).Routes(),
		},
		{
			Name:        "metrics",
			Pattern:     MetricsPath,
			Prefix:      true,
			Description: "System, resource and request metrics",
			Handler: NewMetricsHandler(deps.Users, deps.Files, deps.Messages,
				deps.Clock, deps.Metrics).Routes(),
		},
	}

	endpoints := make(map[string]string, len(mounts))
	for _, m := range mounts {
		endpoints[m.Name] = m.Pattern
	}
	info, err := NewInfoHandler(deps.Config.API, endpoints, deps.Clock)
	if err != nil {
		return nil, fmt.Errorf("failed to render API info: %w", err)
	}

	routes := []Route{
		{
			Name:        "info",
			Pattern:     "/",
			Methods:     []string{http.MethodGet},
			Description: "API information",
			Handler:     http.HandlerFunc(info.Root),
		},
		{
			Name:        "status",
			Pattern:     "/status",
			Methods:     []string{http.MethodGet},
			Description: "Server status",
			Handler:     http.HandlerFunc(info.Status),
		},
	}
	routes = append(routes, mounts...)
	routes = append(routes, Route{
		Name:        "not_found",
		Pattern:     Wildcard,
		Description: "Route not found",
		Handler:     NotFound(deps.Clock),
	})
	return routes, nil
}

// NewHandler assembles the full request pipeline: request metrics, request
// id, the error normalizer, then request-scoped logger, JSON body, form body
// and request logging ahead of the dispatch table.
func NewHandler(deps Dependencies, routes []Route) (http.Handler, error) {
	maxBody := deps.Config.Server.MaxBodyBytes

	mux, err := NewRouter(routes,
		middleware.RequestScopedLogger(deps.Logger),
		middleware.JSONBody(maxBody),
		middleware.FormBody(maxBody),
		middleware.RequestLogger(deps.Logger),
	)
	if err != nil {
		return nil, err
	}

	h := middleware.ErrorNormalizer(deps.Logger, deps.Clock)(mux)
	h = chimw.RequestID(h)
	if deps.Metrics != nil {
		h = deps.Metrics.Middleware(h)
	}
	return h, nil
}

// Endpoints renders routes as "METHODS PATTERN - description" lines.
func Endpoints(routes []Route) []string {
	lines := make([]string, 0, len(routes))
	for _, rt := range routes {
		if rt.Pattern == Wildcard {
			continue
		}
		methods := "*"
		if !rt.Prefix && len(rt.Methods) > 0 {
			methods = strings.Join(rt.Methods, ",")
		}
		pattern := rt.Pattern
		if rt.Prefix {
			pattern = strings.TrimSuffix(pattern, "/") + "/*"
		}
		lines = append(lines, fmt.Sprintf("%s %s - %s", methods, pattern, rt.Description))
	}
	return lines
}
