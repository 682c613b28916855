package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"leadcrm/internal/lead/models"
	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
	"leadcrm/pkg/platform/httputil"
	"leadcrm/pkg/requestcontext"
)

// Service defines the lead operations exposed over HTTP.
type Service interface {
	Submit(ctx context.Context, req *models.SubmitRequest) (*models.SubmitResult, error)
	Get(ctx context.Context, leadID id.LeadID) (*models.Lead, error)
	GetByFormNumber(ctx context.Context, formNumber string) (*models.Lead, error)
	Update(ctx context.Context, leadID id.LeadID, req *models.UpdateRequest) (*models.Lead, error)
	List(ctx context.Context, filter models.ListFilter) (*models.ListResult, error)
	ProjectName(ctx context.Context, l *models.Lead) (string, error)
	MigrateFormNumbers(ctx context.Context, dryRun bool) (*models.MigrationReport, error)
}

// Handler serves enquiry capture and staff lead management.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the enquiry form endpoint.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/enquiries", h.HandleSubmit)
}

// RegisterStaff mounts lead management. Callers must require staff auth.
func (h *Handler) RegisterStaff(r chi.Router) {
	r.Get("/leads", h.HandleList)
	r.Get("/leads/form-number/{formNumber}", h.HandleGetByFormNumber)
	r.Get("/leads/{leadID}", h.HandleGet)
	r.Put("/leads/{leadID}", h.HandleUpdate)
}

// RegisterAdmin mounts maintenance endpoints. Callers must require admin auth.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/form-numbers/migrate", h.HandleMigrate)
}

// LeadResponse adds display fields to a lead.
type LeadResponse struct {
	*models.Lead
	FullName        string `json:"full_name"`
	DisplayPhone    string `json:"display_phone"`
	CompleteAddress string `json:"complete_address"`
	ProjectName     string `json:"project_name"`
}

func (h *Handler) respondLead(w http.ResponseWriter, r *http.Request, status int, l *models.Lead) {
	name, err := h.service.ProjectName(r.Context(), l)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, status, LeadResponse{
		Lead:            l,
		FullName:        l.FullName(),
		DisplayPhone:    l.DisplayPhone(),
		CompleteAddress: l.CompleteAddress(),
		ProjectName:     name,
	})
}

// HandleSubmit handles POST /enquiries from the public form.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	res, err := h.service.Submit(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "enquiry rejected",
			"request_id", requestID,
			"project_code", req.ProjectCode,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	leadID, err := id.ParseLeadID(chi.URLParam(r, "leadID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	l, err := h.service.Get(r.Context(), leadID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.respondLead(w, r, http.StatusOK, l)
}

func (h *Handler) HandleGetByFormNumber(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.GetByFormNumber(r.Context(), chi.URLParam(r, "formNumber"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.respondLead(w, r, http.StatusOK, l)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	leadID, err := id.ParseLeadID(chi.URLParam(r, "leadID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	l, err := h.service.Update(ctx, leadID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "lead update failed",
			"request_id", requestID,
			"lead_id", leadID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.respondLead(w, r, http.StatusOK, l)
}

// HandleList handles GET /leads with search, project, date_from, date_to,
// assessment, booking, limit and offset query parameters.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func parseFilter(q url.Values) (models.ListFilter, error) {
	f := models.ListFilter{
		Search:     q.Get("search"),
		Project:    q.Get("project"),
		Assessment: q.Get("assessment"),
		Booking:    q.Get("booking"),
	}
	var err error
	if f.DateFrom, err = id.ParseDate(q.Get("date_from")); err != nil {
		return f, dErrors.NewValidation("date_from must be YYYY-MM-DD", "date_from")
	}
	if f.DateTo, err = id.ParseDate(q.Get("date_to")); err != nil {
		return f, dErrors.NewValidation("date_to must be YYYY-MM-DD", "date_to")
	}
	if f.Limit, err = intParam(q, "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = intParam(q, "offset"); err != nil {
		return f, err
	}
	return f, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, dErrors.NewValidation(name+" must be a non-negative integer", name)
	}
	return n, nil
}

// HandleMigrate handles POST /admin/form-numbers/migrate?dry_run=true.
func (h *Handler) HandleMigrate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dryRun := false
	if raw := r.URL.Query().Get("dry_run"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.NewValidation("dry_run must be a boolean", "dry_run"))
			return
		}
		dryRun = v
	}
	report, err := h.service.MigrateFormNumbers(ctx, dryRun)
	if err != nil {
		h.logger.ErrorContext(ctx, "form number migration failed",
			"request_id", requestcontext.RequestID(ctx),
			"dry_run", dryRun,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}
