// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roommate_finder_backend/internal/common"
	"roommate_finder_backend/internal/firebase"
)

const (
	// AuthorizationHeader is the header name for the authorization token.
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens.
	AuthorizationTypeBearer = "Bearer"
	// UserIDKey is the context key for storing the authenticated user's ID.
	UserIDKey = "userID"
	// UserEmailKey is the context key for storing the authenticated user's email.
	UserEmailKey = "userEmail"
)

// UserProvisioner mirrors a verified identity-provider token into the local
// users table and reports the stored id and role. Satisfied by user.Service.
type UserProvisioner interface {
	ProvisionFromToken(ctx context.Context, token *auth.Token) (id string, role string, err error)
}

// AuthMiddleware creates a Gin middleware that verifies the Firebase bearer
// token and provisions the local user record on first sight.
func AuthMiddleware(verifier firebase.TokenVerifier, provisioner UserProvisioner, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := verifyBearer(c, verifier, logger)
		if !ok {
			return
		}

		userID, role, err := provisioner.ProvisionFromToken(c.Request.Context(), token)
		if err != nil {
			logger.Error("Failed to provision user from token", zap.Error(err), zap.String("uid", token.UID))
			common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not load user profile."))
			return
		}

		c.Set(UserIDKey, userID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set(UserEmailKey, email)
		}

		logger.Debug("User authenticated successfully",
			zap.String("userID", userID),
			zap.String("role", role),
		)

		c.Next()
	}
}

// OptionalAuthMiddleware verifies the bearer token when one is present but
// lets anonymous requests through. Handlers see an empty user ID for guests.
func OptionalAuthMiddleware(verifier firebase.TokenVerifier, provisioner UserProvisioner, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(AuthorizationHeader) == "" {
			c.Next()
			return
		}

		token, ok := verifyBearer(c, verifier, logger)
		if !ok {
			return
		}

		userID, role, err := provisioner.ProvisionFromToken(c.Request.Context(), token)
		if err != nil {
			logger.Error("Failed to provision user from token", zap.Error(err), zap.String("uid", token.UID))
			common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not load user profile."))
			return
		}

		c.Set(UserIDKey, userID)
		logger.Debug("Optional auth resolved a user",
			zap.String("userID", userID),
			zap.String("role", role),
		)
		c.Next()
	}
}

func verifyBearer(c *gin.Context, verifier firebase.TokenVerifier, logger *zap.Logger) (*auth.Token, bool) {
	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		logger.Debug("Authorization header missing")
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header is required."))
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
		logger.Debug("Authorization header format invalid")
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
		return nil, false
	}

	token, err := verifier.VerifyIDToken(c.Request.Context(), parts[1])
	if err != nil {
		logger.Warn("Bearer token verification failed", zap.Error(err))
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired token."))
		return nil, false
	}
	return token, true
}

// GetUserIDFromContext retrieves the authenticated user's ID from the Gin context.
// Returns an empty string for unauthenticated requests.
func GetUserIDFromContext(c *gin.Context) string {
	val, exists := c.Get(UserIDKey)
	if !exists {
		return ""
	}
	userID, ok := val.(string)
	if !ok {
		return ""
	}
	return userID
}

