package request

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminUpdateUserRequest only patches non-empty fields.
type AdminUpdateUserRequest struct {
	FirstName string `json:"firstname" validate:"omitempty,max=50"`
	LastName  string `json:"lastname" validate:"omitempty,max=50"`
}

// BootstrapAdminRequest validates the admin seeded from configuration.
type BootstrapAdminRequest struct {
	Username    string   `validate:"required,min=5,max=8"`
	FirstName   string   `validate:"required"`
	LastName    string   `validate:"required"`
	Email       string   `validate:"required,email"`
	Phone       string   `validate:"required,phone"`
	Password    string   `validate:"required,min=8,password"`
	Permissions []string `validate:"required,min=1,dive,oneof=read write delete"`
}
