package borrower

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/lendex/pkg/middleware"
	"github.com/fkhayef/lendex/pkg/response"
)

// Handler handles HTTP requests for borrower operations
type Handler struct {
	service *Service
}

// NewHandler creates a new borrower handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for borrower endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// Create handles POST /borrowers
// @Summary      Create a new borrower
// @Description  Register a person who receives loans from the user
// @Tags         borrowers
// @Accept       json
// @Produce      json
// @Param        request body CreateBorrowerRequest true "Borrower creation request"
// @Success      201 {object} response.APIResponse{data=Borrower}
// @Failure      400 {object} response.APIResponse
// @Router       /borrowers [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateBorrowerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	b, err := h.service.Create(r.Context(), ownerID, &req)
	if err != nil {
		if errors.Is(err, ErrNameRequired) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to create borrower")
		return
	}

	response.JSON(w, http.StatusCreated, b)
}

// List handles GET /borrowers
// @Summary      List borrowers
// @Description  List the user's borrowers with their loan counts
// @Tags         borrowers
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]Borrower}
// @Router       /borrowers [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	borrowers, err := h.service.ListForOwner(r.Context(), ownerID)
	if err != nil {
		response.InternalError(w, "Failed to list borrowers")
		return
	}

	response.JSON(w, http.StatusOK, borrowers)
}

// Update handles PUT /borrowers/{id}
// @Summary      Update a borrower
// @Tags         borrowers
// @Accept       json
// @Produce      json
// @Param        id path int true "Borrower ID"
// @Param        request body UpdateBorrowerRequest true "Borrower update request"
// @Success      200 {object} response.APIResponse{data=Borrower}
// @Failure      404 {object} response.APIResponse
// @Router       /borrowers/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid borrower ID")
		return
	}

	var req UpdateBorrowerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	b, err := h.service.Update(r.Context(), id, ownerID, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to update borrower")
		return
	}

	response.JSON(w, http.StatusOK, b)
}

// Delete handles DELETE /borrowers/{id}
// @Summary      Delete a borrower
// @Description  Remove a borrower along with their loans and payments
// @Tags         borrowers
// @Param        id path int true "Borrower ID"
// @Success      204 "No Content"
// @Failure      404 {object} response.APIResponse
// @Router       /borrowers/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid borrower ID")
		return
	}

	if err := h.service.Delete(r.Context(), id, ownerID); err != nil {
		writeServiceError(w, err, "Failed to delete borrower")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrBorrowerNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrNameRequired):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
