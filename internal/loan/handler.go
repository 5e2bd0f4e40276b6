package loan

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/lendex/internal/borrower"
	"github.com/fkhayef/lendex/pkg/middleware"
	"github.com/fkhayef/lendex/pkg/response"
)

// Handler handles HTTP requests for loan operations
type Handler struct {
	service *Service
}

// NewHandler creates a new loan handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for loan endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/overdue", h.ListOverdue)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Get("/{id}/status", h.Status)
	r.Post("/{id}/payments", h.RecordPayment)
	r.Get("/{id}/payments", h.ListPayments)
	r.Post("/{id}/postpone", h.PostponeDueDate)
	r.Post("/{id}/postpone-notifications", h.PostponeNotifications)
	r.Post("/{id}/close", h.Close)

	return r
}

// BorrowerRoutes returns the nested routes mounted under /borrowers/{borrowerId}
func (h *Handler) BorrowerRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	return r
}

// Create handles POST /borrowers/{borrowerId}/loans
// @Summary      Issue a loan
// @Description  Issue an interest-bearing loan to a borrower
// @Tags         loans
// @Accept       json
// @Produce      json
// @Param        borrowerId path int true "Borrower ID"
// @Param        request body CreateLoanRequest true "Loan creation request"
// @Success      201 {object} response.APIResponse{data=Loan}
// @Failure      400 {object} response.APIResponse
// @Router       /borrowers/{borrowerId}/loans [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	borrowerID, err := strconv.ParseInt(chi.URLParam(r, "borrowerId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid borrower ID")
		return
	}

	var req CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	l, err := h.service.Create(r.Context(), borrowerID, ownerID, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to create loan")
		return
	}

	response.JSON(w, http.StatusCreated, l)
}

// List handles GET /loans
// @Summary      List loans
// @Tags         loans
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]Loan}
// @Router       /loans [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	loans, err := h.service.ListForUser(r.Context(), ownerID)
	if err != nil {
		response.InternalError(w, "Failed to list loans")
		return
	}

	response.JSON(w, http.StatusOK, loans)
}

// ListOverdue handles GET /loans/overdue (the reminders view)
// @Summary      List overdue loans
// @Description  Loans with at least one unpaid past month, evaluated live
// @Tags         loans
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]StatusResponse}
// @Router       /loans/overdue [get]
func (h *Handler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	statuses, err := h.service.ListOverdueForUser(r.Context(), ownerID)
	if err != nil {
		response.InternalError(w, "Failed to list overdue loans")
		return
	}

	response.JSON(w, http.StatusOK, statuses)
}

// GetByID handles GET /loans/{id}
// @Summary      Get a loan
// @Tags         loans
// @Produce      json
// @Param        id path int true "Loan ID"
// @Success      200 {object} response.APIResponse{data=Loan}
// @Failure      404 {object} response.APIResponse
// @Router       /loans/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := loanID(r)
	if err != nil {
		response.BadRequest(w, "Invalid loan ID")
		return
	}

	l, err := h.service.GetOwned(r.Context(), id, ownerID)
	if err != nil {
		writeServiceError(w, err, "Failed to get loan")
		return
	}

	response.JSON(w, http.StatusOK, l)
}

// Update handles PUT /loans/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := loanID(r)
	if err != nil {
		response.BadRequest(w, "Invalid loan ID")
		return
	}

	var req UpdateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	l, err := h.service.Update(r.Context(), id, ownerID, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to update loan")
		return
	}

	response.JSON(w, http.StatusOK, l)
}

// Status handles GET /loans/{id}/status
// @Summary      Get a loan's overdue status
// @Description  Evaluates the loan's month-by-month obligations as of today
// @Tags         loans
// @Produce      json
// @Param        id path int true "Loan ID"
// @Success      200 {object} response.APIResponse{data=StatusResponse}
// @Router       /loans/{id}/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := loanID(r)
	if err != nil {
		response.BadRequest(w, "Invalid loan ID")
		return
	}

	status, err := h.service.Status(r.Context(), id, ownerID)
	if err != nil {
		writeServiceError(w, err, "Failed to get loan status")
		return
	}

	response.JSON(w, http.StatusOK, status)
}

// RecordPayment handles POST /loans/{id}/payments
// @Summary      Record a payment
// @Description  Record a payment assigned to a calendar month
// @Tags         loans
// @Accept       json
// @Produce      json
// @Param        id path int true "Loan ID"
// @Param        request body RecordPaymentRequest true "Payment request"
// @Success      201 {object} response.APIResponse{data=Payment}
// @Failure      400 {object} response.APIResponse
// @Router       /loans/{id}/payments [post]
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := loanID(r)
	if err != nil {
		response.BadRequest(w, "Invalid loan ID")
		return
	}

	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.RecordPayment(r.Context(), id, ownerID, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to record payment")
		return
	}

	response.JSON(w, http.StatusCreated, p)
}

// ListPayments handles GET /loans/{id}/payments
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := loanID(r)
	if err != nil {
		response.BadRequest(w, "Invalid loan ID")
		return
	}

	payments, err := h.service.Payments(r.Context(), id, ownerID)
	if err != nil {
		writeServiceError(w, err, "Failed to list payments")
		return
	}

	response.JSON(w, http.StatusOK, payments)
}

// PostponeDueDate handles POST /loans/{id}/postpone
func (h *Handler) PostponeDueDate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := loanID(r)
	if err != nil {
		response.BadRequest(w, "Invalid loan ID")
		return
	}

	var req PostponeDueDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	l, err := h.service.PostponeDueDate(r.Context(), id, ownerID, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to postpone due date")
		return
	}

	response.JSON(w, http.StatusOK, l)
}

// PostponeNotifications handles POST /loans/{id}/postpone-notifications
// @Summary      Postpone reminders
// @Description  Suppress scheduler reminders for this loan for N days
// @Tags         loans
// @Accept       json
// @Produce      json
// @Param        id path int true "Loan ID"
// @Param        request body PostponeNotificationsRequest true "Postpone request"
// @Success      200 {object} response.APIResponse{data=Loan}
// @Router       /loans/{id}/postpone-notifications [post]
func (h *Handler) PostponeNotifications(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := loanID(r)
	if err != nil {
		response.BadRequest(w, "Invalid loan ID")
		return
	}

	var req PostponeNotificationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.PostponeNotifications(r.Context(), id, ownerID, req.Days); err != nil {
		writeServiceError(w, err, "Failed to postpone notifications")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"status": "postponed"})
}

// Close handles POST /loans/{id}/close
// @Summary      Close a loan
// @Description  Mark the loan repaid and zero its remaining principal
// @Tags         loans
// @Param        id path int true "Loan ID"
// @Success      200 {object} response.APIResponse{data=Loan}
// @Failure      409 {object} response.APIResponse
// @Router       /loans/{id}/close [post]
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := loanID(r)
	if err != nil {
		response.BadRequest(w, "Invalid loan ID")
		return
	}

	l, err := h.service.Close(r.Context(), id, ownerID)
	if err != nil {
		writeServiceError(w, err, "Failed to close loan")
		return
	}

	response.JSON(w, http.StatusOK, l)
}

func loanID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrLoanNotFound), errors.Is(err, borrower.ErrBorrowerNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotOwner), errors.Is(err, borrower.ErrNotOwner):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidPeriod),
		errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidPostpone),
		errors.Is(err, ErrInvalidPrincipal):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrLoanClosed):
		response.Conflict(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
