// FILE: internal/server/http/validator.go
package http

import (
	"fmt"
	"reflect"
	"strings"

	"konane/internal/server/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// bodyFor maps a request to the DTO its body must parse into, nil when
// the route carries no validated body.
func bodyFor(method, path string) any {
	switch {
	case method == fiber.MethodPost && strings.HasSuffix(path, "/games"):
		return &core.CreateGameRequest{}
	case method == fiber.MethodPut && strings.HasSuffix(path, "/players"):
		return &core.ConfigurePlayersRequest{}
	case method == fiber.MethodPost && strings.HasSuffix(path, "/moves"):
		return &core.MoveRequest{}
	case method == fiber.MethodPost && strings.HasSuffix(path, "/undo"):
		return &core.UndoRequest{}
	default:
		return nil
	}
}

// validationMiddleware parses and validates request bodies before the
// handlers run. The validated DTO is stored in ctx locals so handlers
// never re-parse.
func validationMiddleware(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodGet || method == fiber.MethodDelete || method == fiber.MethodOptions {
		return c.Next()
	}

	body := bodyFor(method, c.Path())
	if body == nil {
		return c.Next()
	}

	if err := c.BodyParser(body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	if errs := validate.Struct(body); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: describeValidationErrors(errs.(validator.ValidationErrors)),
		})
	}

	c.Locals("validatedBody", body)
	c.Locals("validated", true)

	return c.Next()
}

// describeValidationErrors turns validator tags into readable,
// semicolon-joined messages.
func describeValidationErrors(errs validator.ValidationErrors) string {
	var details strings.Builder
	for _, err := range errs {
		var msg string
		switch err.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", err.Field())
		case "oneof":
			msg = fmt.Sprintf("%s must be one of [%s]", err.Field(), err.Param())
		case "len":
			msg = fmt.Sprintf("%s must be exactly %s characters", err.Field(), err.Param())
		case "min":
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
			} else {
				msg = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
			}
		case "max":
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
			} else {
				msg = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
			}
		case "omitempty":
			continue
		default:
			msg = fmt.Sprintf("%s failed %s validation", err.Field(), err.Tag())
		}
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		details.WriteString(msg)
	}
	return details.String()
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
