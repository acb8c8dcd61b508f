// handlers/progression_routes.go
package handlers

import (
	"errors"
	"strconv"

	"inventindia-system/middleware"
	"inventindia-system/models"
	"inventindia-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupProgressionRoutes(app *fiber.App, progressionService *services.ProgressionService) {
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		prog, err := progressionService.GetProgress(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// First visit: initialize the zeroed record
				prog, err = progressionService.EnsureProgressRecord(userID)
				if err != nil {
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
						"error": "failed to create progress record",
						"cause": err.Error(),
					})
				}
			} else {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "DB error fetching progress",
					"cause": err.Error(),
				})
			}
		}
		return c.JSON(prog)
	})

	// Game modules post their completion payload here; the game type comes
	// from the route, not the payload.
	securedGroup.Post("/games/:game/scores", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var in services.ScoreInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		in.GameType = models.GameType(c.Params("game"))

		prog, score, err := progressionService.RecordGameScore(userID, in)
		if err != nil {
			if errors.Is(err, services.ErrUnknownGameType) || errors.Is(err, services.ErrInvalidScore) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "score rejected",
					"cause": err.Error(),
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to record score",
				"cause": err.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"score":    score,
			"progress": prog,
		})
	})

	securedGroup.Get("/user/progress/recent", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		days, _ := strconv.Atoi(c.Query("days", "7"))

		scores, err := progressionService.GetRecentScores(userID, days)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get recent scores",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"scores": scores})
	})

	securedGroup.Post("/user/cards", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var in services.CardInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if in.InventionID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invention_id is required",
			})
		}

		card, err := progressionService.UnlockCard(userID, in)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to unlock card",
				"cause": err.Error(),
			})
		}
		if card == nil {
			// Already collected; the client treats this as success
			return c.JSON(fiber.Map{"message": "card already collected"})
		}
		return c.Status(fiber.StatusCreated).JSON(card)
	})

	securedGroup.Get("/user/cards", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		cards, tally, err := progressionService.CardCollection(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get cards",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"cards":  cards,
			"counts": tally,
		})
	})
}
