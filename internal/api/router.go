package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/typegen/internal/bindingservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *bindingservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Contract catalog.
	r.Get("/contracts", h.ListContracts)
	r.Get("/contracts/{name}", h.GetContract)
	r.Get("/contracts/{name}/{kind}", h.ReadBinding)

	// Artifacts and runs.
	r.Get("/artifacts", h.ListArtifacts)
	r.Get("/runs/latest", h.LatestRun)
	r.Post("/generate", h.Generate)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
