package actor

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"khedma/internal/middleware"
	"khedma/internal/pkg/response"
)

type SetAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/actors/me", h.Me)
	rg.GET("/providers", h.ListProviders)
	rg.GET("/providers/:id/stats", h.ProviderStats)
	rg.PATCH("/providers/me/availability", h.SetAvailability)
}

func (h *Handler) Me(c *gin.Context) {
	a, err := h.service.GetByID(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"actor": a})
}

func (h *Handler) ListProviders(c *gin.Context) {
	trade := c.Query("trade")
	if trade == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "trade is required")
		return
	}

	list, err := h.service.ListProviders(c.Request.Context(), trade)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"providers": list})
}

func (h *Handler) ProviderStats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid provider id")
		return
	}

	stats, err := h.service.ProviderStats(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

func (h *Handler) SetAvailability(c *gin.Context) {
	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.SetAvailability(c.Request.Context(), middleware.ActorID(c), *req.Available); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"available": *req.Available})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Actor not found")
	case errors.Is(err, ErrWrongRole):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Actor has the wrong role")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}
