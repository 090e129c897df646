package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kozaktomas/face-enroll/internal/web/handlers"
	"github.com/kozaktomas/face-enroll/internal/web/middleware"
	"github.com/kozaktomas/face-enroll/internal/web/static"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// requestTimeout bounds every non-streaming API call. Face management calls
// are bounded again by the client's own timeouts.
const requestTimeout = 30 * time.Second

func (s *Server) setupRoutes() {
	// Create handlers
	enrollmentHandler := handlers.NewEnrollmentHandler(s.enrollment)
	facesHandler := handlers.NewFacesHandler(s.faces)

	s.router.Get("/api/v1/health", handlers.HealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		// Event stream (no timeout)
		r.Get("/enrollment/events", enrollmentHandler.Events)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(requestTimeout))

			r.Get("/orientations", handlers.Orientations)
			r.Get("/enrollment", enrollmentHandler.Status)
			r.Get("/faces", facesHandler.List)
			r.Get("/service/health", facesHandler.ServiceHealth)
			r.Post("/match", facesHandler.Match)

			// Mutating routes require the API token when one is configured
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireToken(s.config.Web.APIToken))

				r.Post("/enrollment/start", enrollmentHandler.Start)
				r.Post("/enrollment/stop", enrollmentHandler.Stop)
				r.Post("/enrollment/capture", enrollmentHandler.Capture)
				r.Delete("/faces/{name}", facesHandler.Delete)
			})
		})
	})

	s.router.Get("/", serveIndex)
}

// serveIndex serves the kiosk page
func serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(static.Index())
}
