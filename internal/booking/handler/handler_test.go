package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadcrm/internal/booking/models"
	"leadcrm/internal/booking/ports"
	"leadcrm/internal/booking/service"
	"leadcrm/internal/booking/store"
	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
	"leadcrm/pkg/platform/httputil"
	"leadcrm/pkg/testutil"
)

type stubLeads struct {
	lead *ports.Lead
}

func (s stubLeads) Lead(_ context.Context, leadID id.LeadID) (*ports.Lead, error) {
	if leadID != s.lead.ID {
		return nil, dErrors.New(dErrors.CodeNotFound, "lead not found")
	}
	return s.lead, nil
}

func newTestRouter(t *testing.T) (http.Handler, *ports.Lead) {
	t.Helper()
	p := testutil.RandomPerson()
	lead := &ports.Lead{
		ID:          id.NewLeadID(),
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
		City:        p.City,
		Pincode:     p.Pincode,
		ProjectName: "Medius",
	}
	h := New(service.New(store.NewInMemory(), stubLeads{lead: lead}), slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.RegisterStaff(r)
	return r, lead
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, reader))
	return w
}

func TestBookingFlow(t *testing.T) {
	router, lead := newTestRouter(t)
	base := "/leads/" + lead.ID.String() + "/bookings"

	testutil.Given(t, "a lead with an enquiry on file", func(t *testing.T) {
		var draft models.CreateRequest
		testutil.When(t, "staff open the booking form", func(t *testing.T) {
			w := do(t, router, http.MethodGet, base+"/prefill", nil)
			require.Equal(t, http.StatusOK, w.Code)
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draft))
		})
		testutil.Then(t, "the first applicant comes from the enquiry", func(t *testing.T) {
			require.Len(t, draft.Applicants, 1)
			assert.Equal(t, lead.FirstName, draft.Applicants[0].FirstName)
			assert.Equal(t, "Medius", draft.ProjectName)
		})

		var created models.Application
		testutil.When(t, "the completed form is submitted", func(t *testing.T) {
			body := map[string]any{
				"flat_number":              "B-702",
				"total_purchase_price":     "21000000.00",
				"application_money_amount": 500000,
				"applicants": []map[string]any{
					{"first_name": lead.FirstName, "last_name": lead.LastName, "pan_no": "ABCDE1234F"},
					{"first_name": "", "last_name": ""},
				},
			}
			w := do(t, router, http.MethodPost, base, body)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		})
		testutil.Then(t, "the booking is listed and retrievable", func(t *testing.T) {
			assert.Len(t, created.Applicants, 1)
			assert.Equal(t, id.Decimal("500000"), created.ApplicationMoneyAmount)

			w := do(t, router, http.MethodGet, base, nil)
			require.Equal(t, http.StatusOK, w.Code)
			var list struct {
				Bookings []models.Application `json:"bookings"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
			require.Len(t, list.Bookings, 1)

			w = do(t, router, http.MethodGet, "/bookings/"+created.ID.String(), nil)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	})
}

func TestCreateRejections(t *testing.T) {
	router, lead := newTestRouter(t)
	cases := []struct {
		name   string
		path   string
		body   any
		status int
		code   dErrors.Code
	}{
		{
			name:   "no applicants",
			path:   "/leads/" + lead.ID.String() + "/bookings",
			body:   map[string]any{"applicants": []any{}},
			status: http.StatusBadRequest,
			code:   dErrors.CodeValidation,
		},
		{
			name:   "negative amount",
			path:   "/leads/" + lead.ID.String() + "/bookings",
			body:   map[string]any{"gst_amount": "-5", "applicants": []map[string]any{{"first_name": "A"}}},
			status: http.StatusBadRequest,
			code:   dErrors.CodeInvalidInput,
		},
		{
			name:   "unknown lead",
			path:   "/leads/" + id.NewLeadID().String() + "/bookings",
			body:   map[string]any{"applicants": []map[string]any{{"first_name": "A"}}},
			status: http.StatusNotFound,
			code:   dErrors.CodeNotFound,
		},
		{
			name:   "bad lead id",
			path:   "/leads/nope/bookings",
			body:   map[string]any{},
			status: http.StatusBadRequest,
			code:   dErrors.CodeInvalidInput,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, tc.path, tc.body)
			require.Equal(t, tc.status, w.Code, w.Body.String())
			var resp httputil.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, string(tc.code), resp.Error)
		})
	}
}
