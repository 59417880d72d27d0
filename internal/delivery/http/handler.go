package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	"faas-platform/internal/core/executor"
	"faas-platform/internal/core/functions"
)

// Registry is the function registry surface the handlers depend on.
type Registry interface {
	Create(ctx context.Context, in functions.CreateInput) (*functions.Function, error)
	Get(ctx context.Context, id string) (*functions.Function, error)
	List(ctx context.Context, offset, limit int) ([]functions.Function, error)
	Update(ctx context.Context, id string, in functions.CreateInput) (*functions.Function, error)
	Delete(ctx context.Context, id string) error
}

// Executor runs one invocation against a warm container.
type Executor interface {
	Execute(ctx context.Context, fn executor.FunctionSpec, tech executor.Technology) (*executor.ExecutionResult, error)
}

type Handler struct {
	registry Registry
	executor Executor
	lg       zerolog.Logger
}

// NewHandler wires the chi router: registry CRUD, the execute endpoint, the
// metrics exposition and the swagger UI.
func NewHandler(registry Registry, exec Executor, metricsHandler http.Handler, lg zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := &Handler{registry: registry, executor: exec, lg: lg}

	r.Get("/", h.handleRoot)

	r.Route("/functions", func(r chi.Router) {
		r.Post("/", h.handleCreateFunction)
		r.Get("/", h.handleListFunctions)
		r.Get("/{functionID}", h.handleGetFunction)
		r.Put("/{functionID}", h.handleUpdateFunction)
		r.Delete("/{functionID}", h.handleRemoveFunction)
	})

	r.Post("/execute/{functionID}", h.handleExecute)

	r.Handle("/metrics", metricsHandler)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "FaaS platform running"})
}

// handleCreateFunction registers a new function.
// @Summary  Register a function
// @Accept   json
// @Produce  json
// @Param    function body functions.CreateInput true "function definition"
// @Success  201 {object} functions.Function
// @Router   /functions/ [post]
func (h *Handler) handleCreateFunction(w http.ResponseWriter, r *http.Request) {
	var in functions.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json body")
		return
	}

	fn, err := h.registry.Create(r.Context(), in)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fn)
}

// handleListFunctions lists registered functions.
// @Summary  List functions
// @Produce  json
// @Param    skip  query int false "offset"
// @Param    limit query int false "page size"
// @Success  200 {array} functions.Function
// @Router   /functions/ [get]
func (h *Handler) handleListFunctions(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	list, err := h.registry.List(r.Context(), offset, limit)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleGetFunction fetches one function by ID.
// @Summary  Get a function
// @Produce  json
// @Param    functionID path string true "function ID"
// @Success  200 {object} functions.Function
// @Router   /functions/{functionID} [get]
func (h *Handler) handleGetFunction(w http.ResponseWriter, r *http.Request) {
	fn, err := h.registry.Get(r.Context(), chi.URLParam(r, "functionID"))
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fn)
}

// handleUpdateFunction replaces a function definition.
// @Summary  Update a function
// @Accept   json
// @Produce  json
// @Param    functionID path string true "function ID"
// @Param    function body functions.CreateInput true "function definition"
// @Success  200 {object} functions.Function
// @Router   /functions/{functionID} [put]
func (h *Handler) handleUpdateFunction(w http.ResponseWriter, r *http.Request) {
	var in functions.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json body")
		return
	}

	fn, err := h.registry.Update(r.Context(), chi.URLParam(r, "functionID"), in)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fn)
}

// handleRemoveFunction deletes a function.
// @Summary  Delete a function
// @Param    functionID path string true "function ID"
// @Success  204
// @Router   /functions/{functionID} [delete]
func (h *Handler) handleRemoveFunction(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Delete(r.Context(), chi.URLParam(r, "functionID")); err != nil {
		h.writeRegistryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExecuteResponse is the transport shape of one invocation result. A user
// function that ran and failed still produces HTTP 200 with Error set; only
// system faults map to error statuses.
type ExecuteResponse struct {
	Output        string `json:"output"`
	Error         string `json:"error,omitempty"`
	ContainerName string `json:"container_name"`
}

// handleExecute runs a registered function on a warm container.
// @Summary  Execute a function
// @Produce  json
// @Param    functionID path  string true  "function ID"
// @Param    tech       query string false "virtualization technology (docker or gvisor)"
// @Success  200 {object} ExecuteResponse
// @Router   /execute/{functionID} [post]
func (h *Handler) handleExecute(w http.ResponseWriter, r *http.Request) {
	functionID := chi.URLParam(r, "functionID")
	tech := executor.ParseTechnology(r.URL.Query().Get("tech"))

	fn, err := h.registry.Get(r.Context(), functionID)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	result, err := h.executor.Execute(r.Context(), fn.Spec(), tech)
	if err != nil {
		h.lg.Error().Err(err).Str("function_id", functionID).Msg("execute function")
		h.writeExecutionError(w, err)
		return
	}

	resp := ExecuteResponse{
		Output:        result.Stdout,
		ContainerName: result.ContainerName,
	}
	if result.ExitCode != 0 {
		resp.Error = result.Stderr
		if resp.Error == "" {
			resp.Error = "exit status " + strconv.Itoa(result.ExitCode)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeRegistryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, functions.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, functions.ErrDuplicate):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, functions.ErrInvalidTimeout),
		errors.Is(err, executor.ErrUnsupportedLanguage):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.lg.Error().Err(err).Msg("registry error")
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func (h *Handler) writeExecutionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, executor.ErrUnsupportedLanguage):
		writeError(w, http.StatusBadRequest, "unsupported_language", err.Error())
	case errors.Is(err, executor.ErrPoolUnavailable):
		// Distinguishable from other 5xx so callers can retry with the
		// other technology.
		writeError(w, http.StatusServiceUnavailable, "pool_unavailable", err.Error())
	case errors.Is(err, executor.ErrContainerStart):
		writeError(w, http.StatusInternalServerError, "container_start_failed", err.Error())
	case errors.Is(err, executor.ErrStaging):
		writeError(w, http.StatusInternalServerError, "staging_failed", err.Error())
	case errors.Is(err, executor.ErrExecution):
		writeError(w, http.StatusInternalServerError, "execution_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, map[string]errorBody{"error": {Kind: kind, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
