package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// fieldMessages maps a validator namespace or a JSON field name to the message
// clients expect for it.
type fieldMessages map[string]string

// ErrorHandler renders errors that escape a handler as {error, code}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("❌ Unhandled error")
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

// decodeJSON reads the body as JSON whatever the Content-Type header says.
func decodeJSON(c *fiber.Ctx, req any) error {
	return c.App().Config().JSONDecoder(c.Body(), req)
}

// parseAndValidate decodes the JSON body into req and validates it. On failure it
// returns the message to send with a 400.
func parseAndValidate(c *fiber.Ctx, req any, messages fieldMessages) (string, bool) {
	if err := decodeJSON(c, req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			if msg, ok := messages[typeErr.Field]; ok {
				return msg, false
			}
		}
		return "Invalid request payload", false
	}

	if err := validate.Struct(req); err != nil {
		return validationMessage(err, messages), false
	}
	return "", true
}

func validationMessage(err error, messages fieldMessages) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "validation error: invalid request"
	}

	ve := validationErrors[0]
	if msg, ok := messages[ve.StructNamespace()]; ok {
		return msg
	}
	return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}
