package adaptor

import (
	"errors"
	"net/http"

	"reuniteme/internal/usecase"
	"reuniteme/pkg/utils"

	"go.uber.org/zap"
)

func statusFor(kind usecase.Kind) int {
	switch kind {
	case usecase.KindValidation, usecase.KindNotFound, usecase.KindDuplicateKey:
		return http.StatusBadRequest
	case usecase.KindUnauthorized, usecase.KindInvalidToken:
		return http.StatusUnauthorized
	case usecase.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError translates a service failure into the JSON envelope.
// Wrapped causes are logged, never written to the client.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var se *usecase.ServiceError
	if !errors.As(err, &se) {
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, usecase.MsgInternalServerError)
		return
	}

	status := statusFor(se.Kind)
	if status >= http.StatusInternalServerError {
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("kind", se.Kind.String()))
	} else {
		log.Warn(operation+" failed",
			zap.Error(err),
			zap.String("kind", se.Kind.String()))
	}

	var details any
	if len(se.Errors) > 0 {
		details = se.Errors
	}
	utils.ResponseJSON(w, status, false, se.Message, nil, details)
}
