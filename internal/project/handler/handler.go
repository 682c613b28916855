package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"leadcrm/internal/project/models"
	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
	"leadcrm/pkg/platform/httputil"
	"leadcrm/pkg/requestcontext"
)

// Service defines the project operations exposed over HTTP.
type Service interface {
	CreateProject(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, projectID id.ProjectID, req *models.UpdateProjectRequest) (*models.Project, error)
	DeactivateProject(ctx context.Context, projectID id.ProjectID) (*models.Project, error)
	ReactivateProject(ctx context.Context, projectID id.ProjectID) (*models.Project, error)
	GetProject(ctx context.Context, projectID id.ProjectID) (*models.Project, error)
	ListProjects(ctx context.Context, activeOnly bool) ([]*models.Project, error)
	ProjectByPrefix(ctx context.Context, prefix string) (*models.Project, error)
	ResolveFormNumber(ctx context.Context, formNumber string) (*models.Project, error)
	SeedProjects(ctx context.Context, r io.Reader) (*models.SeedReport, error)
}

// Handler serves the project catalogue.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the read-only catalogue used by the enquiry form.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/projects", h.HandleListActive)
	r.Get("/projects/{prefix}", h.HandleGetByPrefix)
	r.Get("/form-numbers/{formNumber}/project", h.HandleResolveFormNumber)
}

// RegisterAdmin mounts catalogue management. Callers must guard r.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/projects", h.HandleList)
	r.Post("/admin/projects", h.HandleCreate)
	r.Post("/admin/projects/seed", h.HandleSeed)
	r.Get("/admin/projects/{projectID}", h.HandleGet)
	r.Put("/admin/projects/{projectID}", h.HandleUpdate)
	r.Post("/admin/projects/{projectID}/deactivate", h.HandleDeactivate)
	r.Post("/admin/projects/{projectID}/reactivate", h.HandleReactivate)
}

type listResponse struct {
	Projects []*models.Project `json:"projects"`
}

func (h *Handler) HandleListActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// HandleList handles GET /admin/projects?active_only=true.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if raw := r.URL.Query().Get("active_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.NewValidation("active_only must be a boolean", "active_only"))
			return
		}
		activeOnly = v
	}
	h.list(w, r, activeOnly)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	ctx := r.Context()
	projects, err := h.service.ListProjects(ctx, activeOnly)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list projects",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Projects: projects})
}

func (h *Handler) HandleGetByPrefix(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.ProjectByPrefix(r.Context(), chi.URLParam(r, "prefix"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

// HandleResolveFormNumber reports which active project issued a form number.
func (h *Handler) HandleResolveFormNumber(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.ResolveFormNumber(r.Context(), chi.URLParam(r, "formNumber"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateProjectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	p, err := h.service.CreateProject(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create project",
			"request_id", requestID,
			"prefix", req.Prefix,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, p)
}

// HandleSeed accepts a YAML catalogue body.
func (h *Handler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body := http.MaxBytesReader(w, r.Body, httputil.MaxBodyBytes)
	report, err := h.service.SeedProjects(ctx, body)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to seed projects",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.projectID(w, r)
	if !ok {
		return
	}
	p, err := h.service.GetProject(r.Context(), projectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	projectID, ok := h.projectID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateProjectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	p, err := h.service.UpdateProject(ctx, projectID, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "project updated",
		"request_id", requestID,
		"project_id", projectID.String(),
	)
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.DeactivateProject)
}

func (h *Handler) HandleReactivate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ReactivateProject)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, id.ProjectID) (*models.Project, error)) {
	projectID, ok := h.projectID(w, r)
	if !ok {
		return
	}
	p, err := fn(r.Context(), projectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) projectID(w http.ResponseWriter, r *http.Request) (id.ProjectID, bool) {
	projectID, err := id.ParseProjectID(chi.URLParam(r, "projectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.ProjectID{}, false
	}
	return projectID, true
}
