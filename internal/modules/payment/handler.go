package payment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"khedma/internal/middleware"
	"khedma/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/payment-instruments", h.ListInstruments)
	rg.POST("/payment-instruments", h.AddInstrument)
	rg.DELETE("/payment-instruments/:id", h.RemoveInstrument)
}

func (h *Handler) ListInstruments(c *gin.Context) {
	list, err := h.service.ListInstruments(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list instruments")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"instruments": list})
}

func (h *Handler) AddInstrument(c *gin.Context) {
	var req AddInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.AddInstrument(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid instrument data")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Actor not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add instrument")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"instrument_id":      p.ID,
		"has_payment_method": true,
	})
}

func (h *Handler) RemoveInstrument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid instrument id")
		return
	}

	has, err := h.service.RemoveInstrument(c.Request.Context(), middleware.ActorID(c), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Instrument not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove instrument")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"has_payment_method": has})
}
