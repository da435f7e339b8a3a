package usecase

import "errors"

// Kind classifies a ServiceError. Handlers map kinds to HTTP status codes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindInvalidToken
	KindForbidden
	KindDuplicateKey
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidToken:
		return "invalid_token"
	case KindForbidden:
		return "forbidden"
	case KindDuplicateKey:
		return "duplicate_key"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Client-facing messages shared by services and handlers.
const (
	MsgUserNotFound         = "User not found"
	MsgUserExists           = "User already exists"
	MsgNotVerified          = "Your account is not verified!"
	MsgExpiredOrInvalid     = "Invalid link or has expired"
	MsgInvalidCredentials   = "Invalid Credentials"
	MsgAlreadyDeleted       = "Account was already deleted"
	MsgImageNotFound        = "Image not found"
	MsgNoFile               = "No file uploaded"
	MsgMissingGeolocation   = "The picture that you try to upload has not contained co-ordinates. Make sure your camera is enabled with location"
	MsgAdminNotFound        = "Admin not found"
	MsgProcessingError      = "There was an error processing your request. Please try again later."
	MsgInternalServerError  = "Internal server error"
	MsgValidationFailed     = "Validation failed"
	MsgEmailAlreadyVerified = "Your email verification already completed."
	MsgPendingVerification  = "User has not verified their email yet"
)

// ServiceError carries a client-safe message; Err is for logs only.
type ServiceError struct {
	Kind    Kind
	Message string
	Errors  map[string]string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, err error) *ServiceError {
	return &ServiceError{Kind: kind, Message: message, Err: err}
}

func validationError(errs map[string]string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: MsgValidationFailed, Errors: errs}
}

func internalError(err error) *ServiceError {
	return newError(KindInternal, MsgInternalServerError, err)
}

// KindOf reports the kind of err, treating anything that is not a ServiceError as internal.
func KindOf(err error) Kind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
