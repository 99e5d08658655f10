package message

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"khedma/internal/middleware"
	"khedma/internal/pkg/response"
)

type SendMessageRequest struct {
	ReceiverID int64  `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/messages", h.Send)
	rg.GET("/messages/:actorId", h.ListConversation)
}

func (h *Handler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	m, err := h.service.Send(c.Request.Context(), middleware.ActorID(c), req.ReceiverID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation), errors.Is(err, ErrSelfMessage):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrActorNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Receiver not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to send message")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message_id": m.ID})
}

func (h *Handler) ListConversation(c *gin.Context) {
	otherID, err := strconv.ParseInt(c.Param("actorId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid actor id")
		return
	}

	list, err := h.service.ListConversation(c.Request.Context(), middleware.ActorID(c), otherID)
	if err != nil {
		if errors.Is(err, ErrActorNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Actor not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list messages")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"messages": list})
}
