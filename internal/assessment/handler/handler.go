package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"leadcrm/internal/assessment/models"
	id "leadcrm/pkg/domain"
	"leadcrm/pkg/platform/httputil"
	"leadcrm/pkg/requestcontext"
)

// Service defines the assessment operations exposed over HTTP.
type Service interface {
	Get(ctx context.Context, leadID id.LeadID) (*models.Assessment, error)
	Save(ctx context.Context, leadID id.LeadID, req *models.SaveRequest) (*models.Assessment, bool, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterStaff mounts the assessment endpoints. Callers must require staff auth.
func (h *Handler) RegisterStaff(r chi.Router) {
	r.Get("/leads/{leadID}/assessment", h.HandleGet)
	r.Put("/leads/{leadID}/assessment", h.HandleSave)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	leadID, err := id.ParseLeadID(chi.URLParam(r, "leadID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	a, err := h.service.Get(r.Context(), leadID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

// HandleSave answers 201 when the assessment is new and 200 when it replaced one.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	leadID, err := id.ParseLeadID(chi.URLParam(r, "leadID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.SaveRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	a, created, err := h.service.Save(ctx, leadID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "assessment rejected",
			"request_id", requestID,
			"lead_id", leadID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, a)
}
