package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker is implemented by session stores backed by a remote service.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// RegisterRoutes registers all HTTP routes on the Fiber app. store may be
// nil when the session store has nothing to probe.
func RegisterRoutes(app *fiber.App, store HealthChecker, h *Handler) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/health", func(c *fiber.Ctx) error {
		checks := map[string]string{"session_store": "ok"}
		status := "ok"
		code := fiber.StatusOK

		if store != nil {
			healthCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := store.HealthCheck(healthCtx); err != nil {
				checks["session_store"] = err.Error()
				status = "degraded"
				code = fiber.StatusServiceUnavailable
			}
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	})

	v1 := app.Group("/api/v1")
	v1.Get("/session", h.Session)
	v1.Delete("/session/prompt", h.DismissPrompt)
	v1.Post("/login", h.Login)
	v1.Post("/logout", h.Logout)
	v1.Get("/me", h.Me)
	v1.Get("/groups", h.ListGroups)
	v1.Post("/groups", h.CreateGroup)
	v1.Get("/groups/:id", h.GetGroup)
	v1.Get("/groups/:id/expenses", h.ListExpenses)
	v1.Post("/groups/:id/expenses", h.CreateExpense)
	v1.Get("/groups/:id/settlements", h.ListSettlements)
	v1.Post("/groups/:id/settlements/:sid/paid", h.MarkPaid)
}
