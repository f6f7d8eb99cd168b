package http

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"activitysignup/internal/delivery/http/controllers"
	"activitysignup/internal/delivery/http/helpers"
	"activitysignup/internal/delivery/http/middleware"
)

// NewRouter initializes the HTTP router with all application routes.
// metrics may be nil, in which case /metrics answers 404.
func NewRouter(pages *controllers.PageController, api *controllers.APIController, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	// Browser flow
	mux.HandleFunc("GET /{$}", pages.Index)
	mux.HandleFunc("POST /signup", pages.Signup)
	mux.HandleFunc("GET /unregister", pages.ConfirmUnregister)
	mux.HandleFunc("POST /unregister", pages.Unregister)
	mux.HandleFunc("GET /notice", pages.Notice)

	// JSON API
	mux.HandleFunc("GET /api/activities", api.ListActivities)
	mux.HandleFunc("POST /api/activities/{name}/signup", api.Signup)
	mux.HandleFunc("POST /api/activities/{name}/participants/confirmations", api.RequestConfirmation)
	mux.HandleFunc("DELETE /api/activities/{name}/participants", api.Unregister)

	// Operations
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	return mux
}

// HandlerOptions configures the middleware chain built by NewHandler.
type HandlerOptions struct {
	Logger         *slog.Logger
	Tracer         trace.Tracer
	AllowedOrigins []string
	SecureCookies  bool
}

// NewHandler wraps mux in the middleware chain. Tracing sits directly on the
// mux so the span can be renamed after the matched route pattern.
func NewHandler(mux *http.ServeMux, opts HandlerOptions) http.Handler {
	var h http.Handler = mux
	if opts.Tracer != nil {
		h = middleware.Tracing(opts.Tracer, h)
	}
	h = middleware.Viewer(opts.SecureCookies, h)
	h = middleware.CORS(opts.AllowedOrigins, h)
	return middleware.LoggingMiddleware(opts.Logger, h)
}
