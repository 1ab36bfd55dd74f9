// File: internal/application/handler.go
package application

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"roommate_finder_backend/internal/common"
	"roommate_finder_backend/internal/middleware"
)

// Handler struct holds dependencies for application handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new application handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for application operations.
// All application routes require authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	appGroup := router.Group("/applications")
	appGroup.Use(authMW)
	{
		appGroup.POST("", h.create)
		appGroup.GET("/sent", h.listSent)
		appGroup.GET("/received", h.listReceived)
		appGroup.PATCH("/:id/status", h.updateStatus)
	}

	router.GET("/listings/:id/applications", authMW, h.listForListing)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create application: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	app, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Application submitted successfully.", ToApplicationResponse(app))
}

func (h *Handler) updateStatus(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid application ID."))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update application status: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	app, err := h.service.UpdateStatus(c.Request.Context(), id, userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Application status updated successfully.", ToApplicationResponse(app))
}

func (h *Handler) listSent(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	apps, err := h.service.ListSent(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Applications retrieved successfully.", toResponses(apps))
}

func (h *Handler) listReceived(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	apps, err := h.service.ListReceived(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Applications retrieved successfully.", toResponses(apps))
}

func (h *Handler) listForListing(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || listingID <= 0 {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID."))
		return
	}

	apps, err := h.service.ListForListing(c.Request.Context(), listingID, userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Applications retrieved successfully.", toResponses(apps))
}

func toResponses(apps []Application) []ApplicationResponse {
	responses := make([]ApplicationResponse, 0, len(apps))
	for i := range apps {
		responses = append(responses, ToApplicationResponse(&apps[i]))
	}
	return responses
}
