package serverutils

import (
	"errors"
	"net/http"

	"docpanel-be/internal/docgen"
	"docpanel-be/internal/preview"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the
// BaseResponse envelope with a status derived from the error type.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		status, body := MapError(err)
		return ctx.Status(status).JSON(body)
	}
}

func MapError(err error) (int, *BaseResponse[any]) {
	var (
		reqErr      *RequestValidationError
		verr        *docgen.ValidationError
		lockErr     *docgen.FieldLockedError
		unsupported *docgen.UnsupportedModeError
		remote      *docgen.RemoteError
		fiberErr    *fiber.Error
	)

	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, ErrorResponse(http.StatusBadRequest, "Invalid request", reqErr.Fields)
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, ErrorResponse(http.StatusUnprocessableEntity, verr.Error(), map[string]string{"field": verr.Field})
	case errors.As(err, &lockErr):
		return http.StatusConflict, ErrorResponse(http.StatusConflict, lockErr.Error(), map[string]string{"field": lockErr.Field})
	case errors.As(err, &unsupported):
		return http.StatusBadRequest, ErrorResponse(http.StatusBadRequest, unsupported.Error(), map[string]string{"mode": unsupported.Mode.String()})
	case errors.As(err, &remote):
		status := http.StatusBadGateway
		if remote.Category == docgen.RemoteClientFault {
			status = http.StatusInternalServerError
		}
		return status, ErrorResponse(status, remote.Error(), map[string]interface{}{
			"category":    remote.Category,
			"status_code": remote.StatusCode,
		})
	case errors.Is(err, docgen.ErrGenerationInProgress):
		return http.StatusConflict, ErrorResponse(http.StatusConflict, err.Error(), nil)
	case errors.Is(err, docgen.ErrSessionClosed), errors.Is(err, docgen.ErrPreviewClosed):
		return http.StatusGone, ErrorResponse(http.StatusGone, err.Error(), nil)
	case errors.Is(err, docgen.ErrSessionNotFound), errors.Is(err, preview.ErrHandleReleased):
		return http.StatusNotFound, ErrorResponse(http.StatusNotFound, err.Error(), nil)
	case errors.As(err, &fiberErr):
		return fiberErr.Code, ErrorResponse(fiberErr.Code, fiberErr.Message, nil)
	default:
		return http.StatusInternalServerError, ErrorResponse(http.StatusInternalServerError, "Internal server error", nil)
	}
}
