package response

import (
	"time"

	"reuniteme/internal/data/entity"
)

type AdminResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	FirstName   string     `json:"firstname"`
	LastName    string     `json:"lastname"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Role        string     `json:"role"`
	Permissions []string   `json:"permissions"`
	Status      string     `json:"status"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func AdminToResponse(admin *entity.Admin) AdminResponse {
	perms := make([]string, 0, len(admin.Permissions))
	for _, p := range admin.Permissions {
		perms = append(perms, string(p))
	}

	return AdminResponse{
		ID:          admin.ID.String(),
		Username:    admin.Username,
		FirstName:   admin.FirstName,
		LastName:    admin.LastName,
		Email:       admin.Email,
		Phone:       admin.Phone,
		Role:        string(admin.Role),
		Permissions: perms,
		Status:      string(admin.Status),
		LastLogin:   admin.LastLogin,
		CreatedAt:   admin.CreatedAt,
	}
}
