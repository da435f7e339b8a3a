package request

type RegisterRequest struct {
	FirstName string `json:"firstname" validate:"required,min=1,max=50"`
	LastName  string `json:"lastname" validate:"required,min=1,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,phone"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type CreatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdatePhoneRequest struct {
	Phone string `json:"phone" validate:"required,phone"`
}

type VerifyPhoneRequest struct {
	OTP string `json:"otp" validate:"required,numeric,min=4,max=10"`
}
