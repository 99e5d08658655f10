package booking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"khedma/internal/domain"
	"khedma/internal/middleware"
	"khedma/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the booking endpoints. Creation goes on the
// client-only group; transitions and reads are open to any authenticated
// actor because the service checks ownership, not just role.
func (h *Handler) RegisterRoutes(clientOnly, protected *gin.RouterGroup) {
	if clientOnly != nil {
		clientOnly.POST("/bookings", h.CreateBooking)
	}
	if protected != nil {
		protected.POST("/bookings/:id/transition", h.TransitionBooking)
		protected.GET("/bookings", h.ListBookings)
		protected.GET("/bookings/:id", h.GetBooking)
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	b, err := h.service.Create(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"booking": gin.H{
			"id":     b.ID,
			"status": b.Status,
		},
	})
}

func (h *Handler) TransitionBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	callerID := middleware.ActorID(c)
	var b *domain.Booking
	switch req.Action {
	case ActionAccept:
		b, err = h.service.Accept(c.Request.Context(), id, callerID)
	case ActionRefuse:
		b, err = h.service.Refuse(c.Request.Context(), id, callerID)
	case ActionComplete:
		if req.HoursWorked == nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "hours_worked is required for COMPLETE")
			return
		}
		b, err = h.service.Complete(c.Request.Context(), id, callerID, *req.HoursWorked)
	default:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown action")
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, TransitionResponse{
		ID:     b.ID,
		Status: string(b.Status),
		Price:  b.Price,
	})
}

func (h *Handler) ListBookings(c *gin.Context) {
	role := domain.ActorRole(c.GetString("role"))
	list, err := h.service.ListForActor(c.Request.Context(), middleware.ActorID(c), role)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	callerID := middleware.ActorID(c)
	if b.RequesterID != callerID && b.ProviderID != callerID {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not a participant of this booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request")
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrActorNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking or actor not found")
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrWrongRole), errors.Is(err, ErrSelfBooking):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrNoPaymentMethod):
		response.Error(c, http.StatusPreconditionFailed, "NO_PAYMENT_METHOD", "Add a payment method before booking")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Booking was modified concurrently, re-read and retry")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}
