// handlers/auth_routes.go
package handlers

import (
	"errors"
	"strconv"

	"inventindia-system/middleware"
	"inventindia-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, userService *services.UserService, liveStats *services.LiveStatsService) {
	app.Post("/auth/register", func(c *fiber.Ctx) error {
		type Req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		user, err := userService.Register(req.Username, req.Email)
		if err != nil {
			status := fiber.StatusInternalServerError
			if errors.Is(err, services.ErrUsernameTooShort) ||
				errors.Is(err, services.ErrInvalidEmail) ||
				errors.Is(err, services.ErrEmailTaken) {
				status = fiber.StatusBadRequest
			}
			return c.Status(status).JSON(fiber.Map{
				"error": "registration failed",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	})

	app.Post("/auth/login", func(c *fiber.Ctx) error {
		type Req struct {
			Identifier string `json:"identifier"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		user, err := userService.Login(req.Identifier)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "user not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "login failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(user)
	})

	app.Post("/auth/demo", func(c *fiber.Ctx) error {
		user, err := userService.DemoLogin()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "demo login failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(user)
	})

	// Landing-page counters; refreshed by the background worker
	app.Get("/stats/live", func(c *fiber.Ctx) error {
		return c.JSON(liveStats.Snapshot())
	})

	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Post("/auth/logout", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if err := userService.Logout(userID); err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "user not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "logout failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "logged out"})
	})

	securedGroup.Get("/users", func(c *fiber.Ctx) error {
		query := c.Query("q", "")
		limit, _ := strconv.Atoi(c.Query("limit", "50"))

		users, err := userService.SearchUsers(query, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "search failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(users)
	})

	securedGroup.Get("/users/me", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		user, err := userService.GetUser(userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "user not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "lookup failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(user)
	})
}
