package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/course-api/internal/auth"
	"github.com/redmonkez12/course-api/internal/config"
	"github.com/redmonkez12/course-api/internal/course"
	"github.com/redmonkez12/course-api/internal/httputil"
	"github.com/redmonkez12/course-api/internal/logging"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Users          *auth.Handler
	Courses        *course.Handler
	AuthMiddleware *auth.Middleware
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, logger *logging.Logger) (*chi.Mux, error) {
	proxies, err := cfg.Server.TrustedProxyPrefixes()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length", "Location"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	if len(proxies) > 0 {
		r.Use(RealIP(proxies))
	}
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	r.Get("/", handleWelcome)
	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	} else {
		logger.Info("Swagger UI disabled (production mode)")
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", httputil.Handle(h.Users.Register))
		r.Get("/courses", httputil.Handle(h.Courses.List))
		r.Get("/courses/{id}", httputil.Handle(h.Courses.Get))

		// Protected routes (require Basic Auth)
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware.RequireAuth)
			r.Get("/users", httputil.Handle(h.Users.CurrentUser))
			r.Post("/courses", httputil.Handle(h.Courses.Create))
			r.Put("/courses/{id}", httputil.Handle(h.Courses.Update))
			r.Delete("/courses/{id}", httputil.Handle(h.Courses.Delete))
		})
	})

	return r, nil
}

// handleWelcome greets API clients
// @Summary      Welcome
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       / [get]
func handleWelcome(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"message": "Welcome to the Course Catalog REST API project!"}, http.StatusOK)
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.RespondErrorWithCode(w, "route not found", httputil.CodeRouteNotFound, http.StatusNotFound)
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httputil.RespondErrorWithCode(w, "method not allowed", httputil.CodeMethodNotAllowed, http.StatusMethodNotAllowed)
}
