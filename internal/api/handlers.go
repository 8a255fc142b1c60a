package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/typegen/internal/apperr"
	"github.com/starford/typegen/internal/bindingservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *bindingservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *bindingservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListContracts handles GET /api/contracts.
//
//	@Summary		List contracts bound by the last run
//	@Tags			contracts
//	@Produce		json
//	@Success		200	{object}	ContractListResponse
//	@Security		BearerAuth
//	@Router			/contracts [get]
func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.svc.ListContracts(r.Context())
	if err != nil {
		slog.Error("list contracts failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, ContractListResponse{Contracts: contracts, Total: len(contracts)})
}

// GetContract handles GET /api/contracts/{name}.
//
//	@Summary		Get a contract by name
//	@Tags			contracts
//	@Produce		json
//	@Param			name	path		string	true	"Contract name"
//	@Success		200		{object}	ContractDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/contracts/{name} [get]
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	c, err := h.svc.GetContract(r.Context(), name)
	if err != nil {
		h.fail(w, "get contract", name, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ReadBinding handles GET /api/contracts/{name}/{kind}.
//
//	@Summary		Read the generated typings or factory of a contract
//	@Tags			contracts
//	@Produce		json
//	@Param			name	path		string	true	"Contract name"
//	@Param			kind	path		string	true	"Binding kind"	Enums(typings, factory)
//	@Success		200		{object}	Binding
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/contracts/{name}/{kind} [get]
func (h *Handler) ReadBinding(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	b, err := h.svc.ReadBinding(r.Context(), name, chi.URLParam(r, "kind"))
	if err != nil {
		h.fail(w, "read binding", name, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// ListArtifacts handles GET /api/artifacts.
//
//	@Summary		List artifacts consumed by the last run
//	@Tags			runs
//	@Produce		json
//	@Success		200	{object}	ArtifactListResponse
//	@Security		BearerAuth
//	@Router			/artifacts [get]
func (h *Handler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.Artifacts(r.Context())
	if err != nil {
		slog.Error("list artifacts failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, ArtifactListResponse{Artifacts: records})
}

// LatestRun handles GET /api/runs/latest.
//
//	@Summary		Get the last completed run
//	@Tags			runs
//	@Produce		json
//	@Success		200	{object}	models.Run
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/runs/latest [get]
func (h *Handler) LatestRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.svc.LatestRun(r.Context())
	if err != nil {
		h.fail(w, "latest run", "", err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// Generate handles POST /api/generate.
//
//	@Summary		Run a generation pass
//	@Tags			runs
//	@Accept			json
//	@Produce		json
//	@Param			body	body		GenerateRequest	false	"Run options"
//	@Success		200		{object}	GenerateResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/generate [post]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	report, err := h.svc.Generate(r.Context(), req.Force)
	if err != nil {
		if errors.Is(err, apperr.ErrMalformedArtifact) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
			return
		}
		slog.Error("generate failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, GenerateResponse{
		Run:       report.Run,
		Skipped:   report.Skipped,
		Written:   nonNil(report.Written),
		Unchanged: len(report.Unchanged),
		Deleted:   nonNil(report.Deleted),
	})
}

func (h *Handler) fail(w http.ResponseWriter, op, name string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("name", name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
