package wallet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

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
	rg.GET("/wallet", h.GetOwnWallet)
	rg.GET("/providers/:id/wallet", h.GetWallet)
}

func (h *Handler) GetOwnWallet(c *gin.Context) {
	h.respond(c, middleware.ActorID(c))
}

func (h *Handler) GetWallet(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid provider id")
		return
	}
	if id != middleware.ActorID(c) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "A wallet is only visible to its owner")
		return
	}
	h.respond(c, id)
}

func (h *Handler) respond(c *gin.Context, providerID int64) {
	sum, err := h.service.Wallet(c.Request.Context(), providerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Provider not found")
		case errors.Is(err, ErrWrongRole):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only providers have a wallet")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute wallet")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"wallet": sum})
}
