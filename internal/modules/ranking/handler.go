package ranking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"khedma/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/providers/rank", h.RankProviders)
}

func (h *Handler) RankProviders(c *gin.Context) {
	trade := c.Query("trade")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := h.service.Rank(c.Request.Context(), trade, limit)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "trade is required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to rank providers")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"providers": entries})
}
