package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/splitora/client/internal/apierr"
)

// Envelope is the response shape of every /api/v1 route.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Reauth  bool   `json:"reauth,omitempty"`
}

// SessionResponse describes the local authentication state.
type SessionResponse struct {
	Status        string `json:"status"`
	PromptShown   bool   `json:"promptShown"`
	PromptMessage string `json:"promptMessage,omitempty"`
}

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Envelope{Success: true, Data: data})
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(Envelope{Message: err.Error()})
}

// fail maps an upstream failure onto the gateway response.
func fail(c *fiber.Ctx, err error) error {
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(Envelope{Message: err.Error()})
	}

	status := apiErr.Status
	switch apiErr.Kind {
	case apierr.KindReauthRequired:
		return c.Status(fiber.StatusUnauthorized).JSON(Envelope{Message: apiErr.Message, Reauth: true})
	case apierr.KindNetwork:
		status = fiber.StatusBadGateway
	case apierr.KindAuthExpired:
		status = fiber.StatusUnauthorized
	}
	// a success status carrying a failure envelope is still an upstream failure
	if status < 400 {
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(Envelope{Message: apiErr.Message})
}
