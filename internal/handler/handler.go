package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Shotza247/watsonx-db2-api/internal/apperr"
	"github.com/Shotza247/watsonx-db2-api/internal/config"
	"github.com/Shotza247/watsonx-db2-api/internal/models"
	"github.com/Shotza247/watsonx-db2-api/internal/service"
)

// Handler translates HTTP requests into service calls and service results
// into the JSON response envelope.
type Handler struct {
	svc *service.Service
	log *logrus.Logger
	dev bool
}

func NewHandler(svc *service.Service, log *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{svc: svc, log: log, dev: cfg.IsDevelopment()}
}

// response is the envelope every endpoint returns.
type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Detail  string      `json:"detail,omitempty"`
}

// RegisterRoutes attaches every route to r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/api/db2/test", h.TestConnection).Methods("GET")
	r.HandleFunc("/api/db2/info", h.StoreInfo).Methods("GET")

	r.HandleFunc("/api/applications", h.ListApplications).Methods("GET")
	r.HandleFunc("/api/application", h.CreateApplication).Methods("POST")
	r.HandleFunc("/api/application/{app_ref}", h.GetApplication).Methods("GET")
	r.HandleFunc("/api/application/{app_ref}", h.UpdateApplication).Methods("PUT")
	r.HandleFunc("/api/application/{app_ref}", h.DeleteApplication).Methods("DELETE")
	r.HandleFunc("/api/application/{app_ref}/status", h.UpdateStatus).Methods("PATCH")

	r.HandleFunc("/api/customer/{cis_number}/applications", h.GetCustomerApplications).Methods("GET")
	r.HandleFunc("/api/customer/{cis_number}/summary", h.GetCustomerSummary).Methods("GET")

	r.HandleFunc("/api/search", h.Search).Methods("GET")

	r.HandleFunc("/api/stats/overview", h.StatsOverview).Methods("GET")
	r.HandleFunc("/api/stats/by-status", h.StatsByStatus).Methods("GET")
	r.HandleFunc("/api/stats/by-product", h.StatsByProduct).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// TestConnection probes store connectivity.
func (h *Handler) TestConnection(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.TestConnection(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, map[string]interface{}{"connected": true})
}

// StoreInfo reports row count and target identity.
func (h *Handler) StoreInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.StoreInfo(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, info)
}

// ListApplications handles the filtered, paginated listing.
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	apps, err := h.svc.ListApplications(r.Context(), service.ListParams{
		Status:      q.Get("status"),
		CustomerID:  q.Get("customer_id"),
		ProductCode: q.Get("product_code"),
		MinAmount:   q.Get("min_amount"),
		MaxAmount:   q.Get("max_amount"),
		Limit:       q.Get("limit"),
		Offset:      q.Get("offset"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, map[string]interface{}{
		"applications": apps,
		"count":        len(apps),
	})
}

// GetApplication returns a single record by key.
func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := h.svc.GetApplication(r.Context(), mux.Vars(r)["app_ref"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, app)
}

// GetCustomerApplications returns every record for a customer.
func (h *Handler) GetCustomerApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.GetCustomerApplications(r.Context(), mux.Vars(r)["cis_number"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, map[string]interface{}{
		"applications": apps,
		"count":        len(apps),
	})
}

// GetCustomerSummary returns the per-customer aggregate view.
func (h *Handler) GetCustomerSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetCustomerSummary(r.Context(), mux.Vars(r)["cis_number"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, summary)
}

// Search handles the cross-field substring search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.SearchApplications(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, map[string]interface{}{
		"results": apps,
		"count":   len(apps),
	})
}

// CreateApplication handles record creation.
func (h *Handler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	var app models.CreditApplication
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		h.writeError(w, apperr.ClientInput("invalid JSON body"))
		return
	}
	created, err := h.svc.CreateApplication(r.Context(), &app)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusCreated, created)
}

// UpdateStatus handles the status transition.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string  `json:"status"`
		Reason *string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, apperr.ClientInput("invalid JSON body"))
		return
	}
	appRef := mux.Vars(r)["app_ref"]
	if err := h.svc.UpdateStatus(r.Context(), appRef, body.Status, body.Reason); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, map[string]interface{}{
		"app_ref": appRef,
		"status":  body.Status,
	})
}

// UpdateApplication handles the partial field update.
func (h *Handler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.writeError(w, apperr.ClientInput("invalid JSON body"))
		return
	}
	appRef := mux.Vars(r)["app_ref"]
	if err := h.svc.UpdateApplication(r.Context(), appRef, fields); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, map[string]interface{}{
		"app_ref": appRef,
		"updated": true,
	})
}

// DeleteApplication handles record removal.
func (h *Handler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	appRef := mux.Vars(r)["app_ref"]
	if err := h.svc.DeleteApplication(r.Context(), appRef); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, map[string]interface{}{
		"app_ref": appRef,
		"deleted": true,
	})
}

// StatsOverview returns table-wide aggregates.
func (h *Handler) StatsOverview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.StatsOverview(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, stats)
}

// StatsByStatus returns per-status aggregates.
func (h *Handler) StatsByStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.StatsByStatus(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, stats)
}

// StatsByProduct returns per-product aggregates.
func (h *Handler) StatsByProduct(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.StatsByProduct(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, stats)
}

// NotFound returns the structured envelope for unmatched routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusNotFound, response{
		Success: false,
		Error:   "route not found: " + r.Method + " " + r.URL.Path,
	})
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data interface{}) {
	h.writeJSON(w, status, response{Success: true, Data: data})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	resp := response{Success: false, Error: apperr.PublicMessage(err)}
	if h.dev {
		resp.Detail = err.Error()
	}
	h.writeJSON(w, apperr.HTTPStatus(err), resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.WithError(err).Error("failed to encode response")
	}
}
