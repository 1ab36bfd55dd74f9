// File: internal/user/handler.go
package user

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"roommate_finder_backend/internal/common"
	"roommate_finder_backend/internal/middleware"
)

// Handler struct holds dependencies for user handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for user operations. The profile read is
// public; a bearer token only widens what the response includes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, optionalAuthMW gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	authGroup.Use(authMW)
	{
		authGroup.GET("/user", h.getCurrentUser)
	}

	userGroup := router.Group("/users")
	{
		userGroup.PATCH("/profile", authMW, h.updateProfile)
		userGroup.GET("/:userId", optionalAuthMW, h.getUserByID)
	}
}

func (h *Handler) getCurrentUser(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == "" {
		h.logger.Error("User ID not found in context", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}
	usr, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User profile retrieved successfully.", ToUserResponse(usr))
}

func (h *Handler) updateProfile(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == "" {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authentication required."))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update profile: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	usr, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile updated successfully.", ToUserResponse(usr))
}

func (h *Handler) getUserByID(c *gin.Context) {
	targetID := c.Param("userId")
	if targetID == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("User ID is required."))
		return
	}

	usr, err := h.service.GetByID(c.Request.Context(), targetID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	// Public profile: strip contact details for everyone but the owner.
	resp := ToUserResponse(usr)
	if middleware.GetUserIDFromContext(c) != usr.ID {
		resp.Email = nil
		resp.Phone = nil
	}
	common.RespondOK(c, "User retrieved successfully.", resp)
}
