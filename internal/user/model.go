// File: internal/user/model.go
package user

import (
	"time"
)

// User represents the user model in the database. The primary key is the
// subject ID issued by the identity provider, so records here mirror external
// identities rather than minting their own.
type User struct {
	ID              string    `gorm:"type:varchar(255);primaryKey"`
	Email           *string   `gorm:"type:varchar(255);uniqueIndex"` // Pointer to allow NULL
	FirstName       *string   `gorm:"type:varchar(100)"`
	LastName        *string   `gorm:"type:varchar(100)"`
	ProfileImageURL *string   `gorm:"type:text"`
	Phone           *string   `gorm:"type:varchar(30)"`
	Bio             *string   `gorm:"type:text"`
	Role            string    `gorm:"type:varchar(20);not null;default:'SEEKER'"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// --- DTOs (Data Transfer Objects) for API requests/responses ---

// UpdateProfileRequest defines the mutable profile fields.
type UpdateProfileRequest struct {
	FirstName       *string `json:"first_name,omitempty" binding:"omitempty,max=100"`
	LastName        *string `json:"last_name,omitempty" binding:"omitempty,max=100"`
	ProfileImageURL *string `json:"profile_image_url,omitempty" binding:"omitempty,url"`
	Phone           *string `json:"phone,omitempty" binding:"omitempty,max=30"`
	Bio             *string `json:"bio,omitempty" binding:"omitempty,max=2000"`
	Role            *string `json:"role,omitempty" binding:"omitempty,oneof=SEEKER OWNER"`
}

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID              string    `json:"id"`
	Email           *string   `json:"email,omitempty"`
	FirstName       *string   `json:"first_name,omitempty"`
	LastName        *string   `json:"last_name,omitempty"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	Role            string    `json:"role"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToUserResponse converts a User model to a UserResponse DTO.
func ToUserResponse(user *User) UserResponse {
	return UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		ProfileImageURL: user.ProfileImageURL,
		Phone:           user.Phone,
		Bio:             user.Bio,
		Role:            user.Role,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}
