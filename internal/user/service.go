// File: internal/user/service.go
package user

import (
	"context"
	"errors"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"roommate_finder_backend/internal/common"
)

// Service defines the interface for user business logic.
type Service interface {
	GetOrCreateFromToken(ctx context.Context, token *auth.Token) (*User, error)
	ProvisionFromToken(ctx context.Context, token *auth.Token) (id string, role string, err error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*User, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.Named("user_service"),
	}
}

// GetOrCreateFromToken looks up the local mirror of the identity in the token
// and creates it on first sight, seeding profile fields from the claims.
func (s *service) GetOrCreateFromToken(ctx context.Context, token *auth.Token) (*User, error) {
	existing, err := s.repo.FindByID(ctx, token.UID)
	if err == nil {
		if refreshFromClaims(existing, token.Claims) {
			if updErr := s.repo.Update(ctx, existing); updErr != nil {
				s.logger.Warn("Failed to refresh user from token claims",
					zap.Error(updErr), zap.String("userID", existing.ID))
			}
		}
		return existing, nil
	}
	if apiErr, ok := common.IsAPIError(err); !ok || !errors.Is(apiErr, common.ErrNotFound) {
		return nil, err
	}

	newUser := &User{
		ID:   token.UID,
		Role: common.RoleSeeker,
	}
	if email, ok := token.Claims["email"].(string); ok && email != "" {
		newUser.Email = &email
	}
	if name, ok := token.Claims["name"].(string); ok && name != "" {
		first, last := splitDisplayName(name)
		if first != "" {
			newUser.FirstName = &first
		}
		if last != "" {
			newUser.LastName = &last
		}
	}
	if picture, ok := token.Claims["picture"].(string); ok && picture != "" {
		newUser.ProfileImageURL = &picture
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		// A concurrent request may have provisioned the same identity.
		if apiErr, ok := common.IsAPIError(err); ok && errors.Is(apiErr, common.ErrConflict) {
			return s.repo.FindByID(ctx, token.UID)
		}
		s.logger.Error("Failed to create user from token", zap.Error(err), zap.String("uid", token.UID))
		return nil, err
	}

	s.logger.Info("Provisioned new user from identity token", zap.String("userID", newUser.ID))
	return newUser, nil
}

// ProvisionFromToken is the middleware-facing adapter around GetOrCreateFromToken.
func (s *service) ProvisionFromToken(ctx context.Context, token *auth.Token) (string, string, error) {
	u, err := s.GetOrCreateFromToken(ctx, token)
	if err != nil {
		return "", "", err
	}
	return u.ID, u.Role, nil
}

// GetByID retrieves a user by ID.
func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile applies the mutable profile fields for the authenticated user.
func (s *service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		u.FirstName = req.FirstName
	}
	if req.LastName != nil {
		u.LastName = req.LastName
	}
	if req.ProfileImageURL != nil {
		u.ProfileImageURL = req.ProfileImageURL
	}
	if req.Phone != nil {
		u.Phone = req.Phone
	}
	if req.Bio != nil {
		u.Bio = req.Bio
	}
	if req.Role != nil {
		if !common.ValidRole(*req.Role) {
			return nil, common.ErrBadRequest.WithDetails("Role must be either SEEKER or OWNER.")
		}
		u.Role = *req.Role
	}

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("Failed to update user profile", zap.Error(err), zap.String("userID", userID))
		return nil, err
	}

	s.logger.Info("User profile updated", zap.String("userID", userID))
	return u, nil
}

// refreshFromClaims backfills profile fields the local row is missing from
// the identity token claims. Fields the user has set explicitly are left
// alone. Reports whether anything changed.
func refreshFromClaims(u *User, claims map[string]interface{}) bool {
	changed := false
	if u.Email == nil {
		if email, ok := claims["email"].(string); ok && email != "" {
			u.Email = &email
			changed = true
		}
	}
	if u.FirstName == nil && u.LastName == nil {
		if name, ok := claims["name"].(string); ok && name != "" {
			first, last := splitDisplayName(name)
			if first != "" {
				u.FirstName = &first
				changed = true
			}
			if last != "" {
				u.LastName = &last
				changed = true
			}
		}
	}
	if u.ProfileImageURL == nil {
		if picture, ok := claims["picture"].(string); ok && picture != "" {
			u.ProfileImageURL = &picture
			changed = true
		}
	}
	return changed
}

func splitDisplayName(name string) (first, last string) {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == ' ' {
			return name[:i], name[i+1:]
		}
	}
	return name, ""
}
