package response

import (
	"time"

	"reuniteme/internal/data/entity"
)

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type VerifyResponse struct {
	RedirectTo string `json:"redirectTo,omitempty"`
}

type DeletionResponse struct {
	ActorID   string    `json:"userId"`
	Role      string    `json:"role"`
	DeletedAt time.Time `json:"timestamp"`
}

// UserResponse is the only outward view of a user. Password and verification token never appear.
type UserResponse struct {
	ID              string             `json:"id"`
	FirstName       string             `json:"firstname"`
	LastName        string             `json:"lastname"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone"`
	PrevPhones      []string           `json:"prevPhones"`
	IsEmailVerified bool               `json:"isEmailVerified"`
	IsPhoneVerified bool               `json:"isPhoneVerified"`
	IsActive        bool               `json:"isActive"`
	WhoDeleted      []DeletionResponse `json:"whoDeleted,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

func UserToResponse(user *entity.User) UserResponse {
	prev := user.PrevPhones
	if prev == nil {
		prev = []string{}
	}

	return UserResponse{
		ID:              user.ID.String(),
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Email:           user.Email,
		Phone:           user.Phone,
		PrevPhones:      prev,
		IsEmailVerified: user.IsEmailVerified,
		IsPhoneVerified: user.IsPhoneVerified,
		IsActive:        user.IsActive,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

func DeletionsToResponse(records []entity.DeletionRecord) []DeletionResponse {
	out := make([]DeletionResponse, 0, len(records))
	for _, r := range records {
		out = append(out, DeletionResponse{
			ActorID:   r.ActorID.String(),
			Role:      string(r.Role),
			DeletedAt: r.DeletedAt,
		})
	}
	return out
}
