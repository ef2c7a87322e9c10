package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/artikelin/api/internal/service"
	"github.com/artikelin/api/internal/store"
	"github.com/artikelin/api/pkg/response"
)

// writeError maps a service error onto the JSON error envelope
func writeError(c *fiber.Ctx, err error) error {
	var se *service.Error
	if !errors.As(err, &se) {
		return response.ServiceError(c, "Internal server error")
	}

	switch se.Kind {
	case service.KindValidation:
		return response.ValidationError(c, se.Error(), nil)
	case service.KindNotFound:
		return response.NotFound(c, se.Error())
	case service.KindConflict:
		if errors.Is(err, store.ErrVersionConflict) {
			return response.Conflict(c, se.Message)
		}
		return response.InvalidState(c, se.Message)
	case service.KindNoOp:
		return response.NoOp(c, se.Error())
	case service.KindProvider:
		return response.AIError(c, se.Error())
	default:
		// do not leak driver errors
		return response.ServiceError(c, se.Message)
	}
}

func formatValidationErrors(err error) interface{} {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string)
		for _, e := range validationErrors {
			fields[e.Field()] = e.Tag()
		}
		return fields
	}
	return nil
}

// bindError describes a request body that could not be bound
type bindError struct {
	message string
	details interface{}
}

// bindJSON parses and validates the request body into req
func bindJSON(c *fiber.Ctx, v *validator.Validate, req interface{}) *bindError {
	if err := c.BodyParser(req); err != nil {
		return &bindError{message: "Invalid request body"}
	}
	if err := v.Struct(req); err != nil {
		return &bindError{message: "Validation failed", details: formatValidationErrors(err)}
	}
	return nil
}

func (e *bindError) write(c *fiber.Ctx) error {
	return response.ValidationError(c, e.message, e.details)
}
