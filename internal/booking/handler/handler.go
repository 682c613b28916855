package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"leadcrm/internal/booking/models"
	id "leadcrm/pkg/domain"
	"leadcrm/pkg/platform/httputil"
	"leadcrm/pkg/requestcontext"
)

// Service defines the booking operations exposed over HTTP.
type Service interface {
	Prefill(ctx context.Context, leadID id.LeadID) (*models.CreateRequest, error)
	Create(ctx context.Context, leadID id.LeadID, req *models.CreateRequest) (*models.Application, error)
	ListForLead(ctx context.Context, leadID id.LeadID) ([]*models.Application, error)
	Get(ctx context.Context, bookingID id.BookingID) (*models.Application, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterStaff mounts the booking endpoints. Callers must require staff auth.
func (h *Handler) RegisterStaff(r chi.Router) {
	r.Get("/leads/{leadID}/bookings/prefill", h.HandlePrefill)
	r.Get("/leads/{leadID}/bookings", h.HandleList)
	r.Post("/leads/{leadID}/bookings", h.HandleCreate)
	r.Get("/bookings/{bookingID}", h.HandleGet)
}

type listResponse struct {
	Bookings []*models.Application `json:"bookings"`
}

func (h *Handler) HandlePrefill(w http.ResponseWriter, r *http.Request) {
	leadID, err := id.ParseLeadID(chi.URLParam(r, "leadID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	draft, err := h.service.Prefill(r.Context(), leadID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	leadID, err := id.ParseLeadID(chi.URLParam(r, "leadID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	apps, err := h.service.ListForLead(r.Context(), leadID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Bookings: apps})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	leadID, err := id.ParseLeadID(chi.URLParam(r, "leadID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	app, err := h.service.Create(ctx, leadID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "booking rejected",
			"request_id", requestID,
			"lead_id", leadID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, app)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	bookingID, err := id.ParseBookingID(chi.URLParam(r, "bookingID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	app, err := h.service.Get(r.Context(), bookingID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}
