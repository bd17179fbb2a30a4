package util

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/config"
	"github.com/gofiber/fiber/v2"
)

type SuccessResponseFormat struct {
	Code    int
	Message string
	Data    any
	Meta    any
}

type OrderedSuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Meta    any    `json:"meta,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type ErrorResponseFormat struct {
	Code       int
	Message    string
	DevMessage string
	Details    any
	Trace      string
}

type OrderedErrorResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DevMessage string `json:"dev_message,omitempty"`
	Details    any    `json:"details,omitempty"`
	Trace      string `json:"trace,omitempty"`
}

// FormError carries per-field validation messages.
type FormError struct {
	Errors  map[string]string
	Message string
}

func (e *FormError) Error() string {
	return fmt.Sprintf("form error: %s", e.Message)
}

func (e *FormError) Unwrap() error {
	return apperror.ErrValidation
}

func NewFormError(message string, errors map[string]string) *FormError {
	return &FormError{
		Message: message,
		Errors:  errors,
	}
}

// SuccessResponse writes the standard success envelope.
func SuccessResponse(c *fiber.Ctx, params SuccessResponseFormat) error {
	response := OrderedSuccessResponse{
		Success: true,
		Message: params.Message,
		Data:    params.Data,
		Meta:    params.Meta,
	}
	code := params.Code
	if code == 0 {
		code = fiber.StatusOK
	}
	return c.Status(code).JSON(response)
}

// ErrorResponse writes the standard error envelope. Outside production the
// underlying error and a stack trace are included.
func ErrorResponse(c *fiber.Ctx, params ErrorResponseFormat, errs ...error) error {
	response := OrderedErrorResponse{
		Success: false,
		Message: params.Message,
	}
	if params.Details != nil {
		response.Details = params.Details
	}
	if !config.LoadAppConfig().IsProduction() {
		if len(errs) > 0 && errs[0] != nil {
			response.DevMessage = errs[0].Error()
			if params.Code == 0 || params.Code >= fiber.StatusInternalServerError {
				response.Trace = string(debug.Stack())
			}
		}

		if params.DevMessage != "" {
			response.DevMessage = params.DevMessage
		}
		if params.Trace != "" {
			response.Trace = params.Trace
		}
	}

	errorCode := params.Code
	if params.Code == 0 {
		errorCode = fiber.StatusInternalServerError
	}
	return c.Status(errorCode).JSON(response)
}

// StatusFromError maps the portal error taxonomy onto HTTP status codes.
func StatusFromError(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, apperror.ErrAuthentication):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperror.ErrDuplicateAccount):
		return fiber.StatusConflict
	case errors.Is(err, apperror.ErrUnsupportedOperation):
		return fiber.StatusNotImplemented
	case errors.Is(err, apperror.ErrConfiguration):
		return fiber.StatusPreconditionFailed
	case errors.Is(err, apperror.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperror.ErrValidation):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, apperror.ErrStageClosed), errors.Is(err, apperror.ErrForbidden):
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}

// HandleError writes err as an error envelope with its mapped status.
func HandleError(c *fiber.Ctx, err error) error {
	params := ErrorResponseFormat{
		Code:    StatusFromError(err),
		Message: err.Error(),
	}
	var fe *FormError
	if errors.As(err, &fe) {
		params.Message = fe.Message
		params.Details = fe.Errors
	}
	return ErrorResponse(c, params, err)
}
