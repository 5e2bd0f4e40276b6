package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/lendex/pkg/middleware"
	"github.com/fkhayef/lendex/pkg/response"
)

// Handler handles HTTP requests for notification operations
type Handler struct {
	service *Service
}

// NewHandler creates a new notification handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for notification endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	return r
}

// List handles GET /notifications
// @Summary      List overdue reminders
// @Description  Reminder history produced by the daily overdue sweep
// @Tags         notifications
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]Notification}
// @Router       /notifications [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	notifications, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list notifications")
		return
	}

	response.JSON(w, http.StatusOK, notifications)
}
