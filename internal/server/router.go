package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/justinas/alice"

	"github.com/kiesman99/photokit/internal/api"
	"github.com/kiesman99/photokit/internal/logging"
)

// NewRouter wires s behind the standard middleware stack under /api/v1.
func NewRouter(s *Server, timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	chain := alice.New(
		middleware.RequestID,
		middleware.RealIP,
		logging.RequestLogger,
		middleware.Recoverer,
	)
	r.Use(chain.Then)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}
	r.Use(cors)

	r.Route("/api/v1", func(r chi.Router) {
		api.HandlerWithOptions(s, api.ChiServerOptions{
			BaseRouter:       r,
			ErrorHandlerFunc: paramErrorHandler,
		})
	})

	// Legacy health endpoint (redirect to versioned)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/v1/health", http.StatusMovedPermanently)
	})

	return r
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-Quality, X-Scale, X-Size-KB, X-Converged, X-Pages, X-Cache")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
