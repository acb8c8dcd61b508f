// handlers/leaderboard_routes.go
package handlers

import (
	"inventindia-system/middleware"
	"inventindia-system/models"
	"inventindia-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, boardService *services.LeaderboardService) {
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	// Top 10 plus the caller's own row when they fall outside it, so the
	// client never needs a second request.
	securedGroup.Get("/leaderboard", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		period := services.Period(c.Query("period", string(services.PeriodAll)))
		gameType := c.Query("game", services.GameTypeAll)

		switch period {
		case services.PeriodAll, services.PeriodWeek, services.PeriodMonth:
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "period must be one of all, week, month",
			})
		}
		if gameType != services.GameTypeAll && !models.GameType(gameType).Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "unknown game type",
			})
		}

		entries, err := boardService.ComputeRankings(period, gameType)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute rankings",
				"cause": err.Error(),
			})
		}

		top := entries
		if len(top) > 10 {
			top = top[:10]
		}

		response := fiber.Map{
			"period":  period,
			"game":    gameType,
			"entries": top,
		}
		if me, ok := findEntry(entries, userID); ok && me.Rank > 10 {
			response["me"] = me
		}
		return c.JSON(response)
	})

	securedGroup.Get("/leaderboard/me", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		rank, points, ok, err := boardService.AllTimeRank(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to read ranking",
				"cause": err.Error(),
			})
		}
		if !ok {
			// Mirror disabled or user unranked: fall back to SQL
			entry, found, err := boardService.GetUserRank(services.PeriodAll, services.GameTypeAll, userID)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to compute rank",
					"cause": err.Error(),
				})
			}
			if !found {
				return c.JSON(fiber.Map{"ranked": false})
			}
			return c.JSON(fiber.Map{
				"ranked":       true,
				"rank":         entry.Rank,
				"total_points": entry.TotalScore,
			})
		}
		return c.JSON(fiber.Map{
			"ranked":       true,
			"rank":         rank,
			"total_points": points,
		})
	})
}

func findEntry(entries []services.LeaderboardEntry, userID string) (services.LeaderboardEntry, bool) {
	for _, e := range entries {
		if e.User.ID == userID {
			return e, true
		}
	}
	return services.LeaderboardEntry{}, false
}
