// File: internal/chat/handler.go
package chat

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"roommate_finder_backend/internal/common"
	"roommate_finder_backend/internal/middleware"
)

// Handler struct holds dependencies for messaging handlers.
type Handler struct {
	service Service
	hub     *Hub
	logger  *zap.Logger
}

// NewHandler creates a new chat handler.
func NewHandler(service Service, hub *Hub, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		logger:  logger,
	}
}

// RegisterRoutes sets up the message routes. The websocket endpoint is
// registered separately on the engine root since it lives outside /api.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	messageGroup := router.Group("/messages")
	messageGroup.Use(authMW)
	{
		messageGroup.GET("/:chatId", h.listMessages)
		messageGroup.POST("", h.sendMessage)
	}
}

// RegisterWebsocket mounts the broadcast channel endpoint.
func (h *Handler) RegisterWebsocket(engine *gin.Engine) {
	engine.GET("/ws", h.serveWebsocket)
}

func (h *Handler) listMessages(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	chatID := c.Param("chatId")

	messages, err := h.service.ListMessages(c.Request.Context(), chatID, userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, ToMessageResponse(&messages[i]))
	}
	common.RespondOK(c, "Messages retrieved successfully.", responses)
}

func (h *Handler) sendMessage(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Send message: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	message, err := h.service.SendMessage(c.Request.Context(), req, userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Message sent successfully.", ToMessageResponse(message))
}

func (h *Handler) serveWebsocket(c *gin.Context) {
	conn, err := Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}
	h.hub.Join(conn)
}
