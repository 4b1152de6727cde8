package transport

import (
	"errors"
	"net/http"

	"tokoria-be/internal/apperr"
	"tokoria-be/internal/logger"
	"tokoria-be/internal/utils"

	"go.uber.org/zap"
)

// statusFor maps an error code to the HTTP status the API returns for
// it. Unknown codes fall through to 500.
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeOrderNotFound,
		apperr.CodeProductVariantNotFound,
		apperr.CodeUserProfileNotFound,
		apperr.CodeCartNotFound:
		return http.StatusNotFound
	case apperr.CodeInsufficientStock,
		apperr.CodeInvalidStatusTransition,
		apperr.CodeOrderNotCancellable,
		apperr.CodeEmailAlreadyRegistered:
		return http.StatusConflict
	case apperr.CodeInvalidInput:
		return http.StatusUnprocessableEntity
	case apperr.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case apperr.CodeAccessDenied:
		return http.StatusForbidden
	case apperr.CodePaymentCreationFailed,
		apperr.CodePaymentCancellationFailed:
		return http.StatusBadGateway
	case apperr.CodeGatewayUnavailable:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Code    apperr.Code    `json:"code"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// respondError translates a service error into the JSON error envelope.
// Non-tagged errors are never leaked to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := statusFor(ae.Code)
		if status >= 500 {
			logger.FromCtx(r.Context()).Error("request failed", zap.Error(err))
		}
		utils.WriteJSON(w, status, errorBody{
			Code:    ae.Code,
			Message: ae.Message,
			Meta:    ae.Meta,
		})
		return
	}

	logger.FromCtx(r.Context()).Error("unhandled error", zap.Error(err))
	utils.WriteJSON(w, http.StatusInternalServerError, errorBody{
		Code:    "INTERNAL",
		Message: "internal server error",
	})
}

func respond(w http.ResponseWriter, status int, payload any) {
	utils.WriteJSON(w, status, payload)
}
