package handler

import (
	"errors"
	"net/url"

	"go-stock-api/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error to its HTTP status. Anything that is not
// a tagged *apperr.Error becomes a 500 with a generic message.
func respondError(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		msg := ae.Message
		if ae.Kind == apperr.KindInfrastructure {
			// Never leak driver/database details to clients
			msg = "internal server error"
		}
		return c.Status(ae.Kind.HTTPStatus()).JSON(fiber.Map{"error": msg})
	}
	return c.Status(500).JSON(fiber.Map{"error": "internal server error"})
}

// paramName returns a URL-decoded path parameter (product names and
// usernames may contain spaces or accents).
func paramName(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
