package users

import (
	"time"

	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          string         `json:"id"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Username    string         `json:"username"`
	Email       string         `json:"email"`
	Role        enums.UserRole `json:"role"`
	ProfileInfo *string        `json:"profile_info,omitempty"`
	Location    *string        `json:"location,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// RegisterInput carries the fields accepted when creating a user.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Username    string
	Email       string
	Password    string
	Role        string
	ProfileInfo *string
	Location    *string
}

// LoginInput identifies a user by username or email plus password.
type LoginInput struct {
	Login    string
	Password string
}

// UpdateUserInput is a patch; only non-nil fields are applied.
type UpdateUserInput struct {
	FirstName   *string
	LastName    *string
	ProfileInfo *string
	Location    *string
}

// Updates flattens the patch into column updates, skipping nil fields.
func (u UpdateUserInput) Updates() map[string]any {
	updates := map[string]any{}
	if u.FirstName != nil {
		updates["first_name"] = *u.FirstName
	}
	if u.LastName != nil {
		updates["last_name"] = *u.LastName
	}
	if u.ProfileInfo != nil {
		updates["profile_info"] = *u.ProfileInfo
	}
	if u.Location != nil {
		updates["location"] = *u.Location
	}
	return updates
}

// FromModel converts a persisted user into its transport shape.
func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		ProfileInfo: u.ProfileInfo,
		Location:    u.Location,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
