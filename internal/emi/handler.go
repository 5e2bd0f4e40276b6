package emi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/lendex/pkg/middleware"
	"github.com/fkhayef/lendex/pkg/response"
)

// Handler handles HTTP requests for installment plan operations
type Handler struct {
	service *Service
}

// NewHandler creates a new EMI handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for EMI endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/overdue", h.ListOverdue)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/status", h.Status)
	r.Post("/{id}/payments", h.RecordPayment)
	r.Get("/{id}/payments", h.ListPayments)
	r.Post("/{id}/close", h.Close)

	return r
}

// Create handles POST /emis
// @Summary      Create an installment plan
// @Description  Set up a fixed-tenure EMI plan for a borrower
// @Tags         emis
// @Accept       json
// @Produce      json
// @Param        request body CreateEMIRequest true "Plan creation request"
// @Success      201 {object} response.APIResponse{data=EMI}
// @Failure      400 {object} response.APIResponse
// @Router       /emis [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateEMIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	e, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to create installment plan")
		return
	}

	response.JSON(w, http.StatusCreated, e)
}

// List handles GET /emis
// @Summary      List installment plans
// @Tags         emis
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]EMI}
// @Router       /emis [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	emis, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list installment plans")
		return
	}

	response.JSON(w, http.StatusOK, emis)
}

// ListOverdue handles GET /emis/overdue (the reminders view)
// @Summary      List overdue installment plans
// @Tags         emis
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]StatusResponse}
// @Router       /emis/overdue [get]
func (h *Handler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	statuses, err := h.service.ListOverdueForUser(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list overdue installment plans")
		return
	}

	response.JSON(w, http.StatusOK, statuses)
}

// GetByID handles GET /emis/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := emiID(r)
	if err != nil {
		response.BadRequest(w, "Invalid installment plan ID")
		return
	}

	e, err := h.service.GetOwned(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, err, "Failed to get installment plan")
		return
	}

	response.JSON(w, http.StatusOK, e)
}

// Update handles PUT /emis/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := emiID(r)
	if err != nil {
		response.BadRequest(w, "Invalid installment plan ID")
		return
	}

	var req UpdateEMIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	e, err := h.service.Update(r.Context(), id, userID, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to update installment plan")
		return
	}

	response.JSON(w, http.StatusOK, e)
}

// Delete handles DELETE /emis/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := emiID(r)
	if err != nil {
		response.BadRequest(w, "Invalid installment plan ID")
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		writeServiceError(w, err, "Failed to delete installment plan")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Status handles GET /emis/{id}/status
// @Summary      Get a plan's overdue status
// @Tags         emis
// @Produce      json
// @Param        id path int true "Plan ID"
// @Success      200 {object} response.APIResponse{data=StatusResponse}
// @Router       /emis/{id}/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := emiID(r)
	if err != nil {
		response.BadRequest(w, "Invalid installment plan ID")
		return
	}

	status, err := h.service.Status(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, err, "Failed to get installment plan status")
		return
	}

	response.JSON(w, http.StatusOK, status)
}

// RecordPayment handles POST /emis/{id}/payments
// @Summary      Record an installment payment
// @Description  The payment is assigned to a month inside the tenure window
// @Tags         emis
// @Accept       json
// @Produce      json
// @Param        id path int true "Plan ID"
// @Param        request body RecordPaymentRequest true "Payment request"
// @Success      201 {object} response.APIResponse{data=Payment}
// @Failure      400 {object} response.APIResponse
// @Router       /emis/{id}/payments [post]
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := emiID(r)
	if err != nil {
		response.BadRequest(w, "Invalid installment plan ID")
		return
	}

	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.RecordPayment(r.Context(), id, userID, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to record payment")
		return
	}

	response.JSON(w, http.StatusCreated, p)
}

// ListPayments handles GET /emis/{id}/payments
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := emiID(r)
	if err != nil {
		response.BadRequest(w, "Invalid installment plan ID")
		return
	}

	payments, err := h.service.Payments(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, err, "Failed to list payments")
		return
	}

	response.JSON(w, http.StatusOK, payments)
}

// Close handles POST /emis/{id}/close
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := emiID(r)
	if err != nil {
		response.BadRequest(w, "Invalid installment plan ID")
		return
	}

	e, err := h.service.Close(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, err, "Failed to close installment plan")
		return
	}

	response.JSON(w, http.StatusOK, e)
}

func emiID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrEMINotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidPeriod),
		errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidTenure),
		errors.Is(err, ErrNameRequired):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrEMICompleted):
		response.Conflict(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
