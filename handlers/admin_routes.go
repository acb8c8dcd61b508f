// handlers/admin_routes.go
package handlers

import (
	"inventindia-system/middleware"
	"inventindia-system/services"
	"inventindia-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App, adminService *services.AdminService) {
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	adminGroup.Get("/stats", func(c *fiber.Ctx) error {
		period := services.Period(c.Query("period", string(services.PeriodWeek)))
		switch period {
		case services.PeriodAll, services.PeriodWeek, services.PeriodMonth:
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "period must be one of all, week, month",
			})
		}

		stats, err := adminService.ComputeStats(period)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute stats",
				"cause": err.Error(),
			})
		}
		return c.JSON(stats)
	})

	// Download the full snapshot: computed stats + every user with progress
	adminGroup.Get("/export", func(c *fiber.Ctx) error {
		period := services.Period(c.Query("period", string(services.PeriodAll)))

		snap, err := adminService.BuildExport(period)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to build export",
				"cause": err.Error(),
			})
		}
		data, err := services.EncodeSnapshot(snap)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to encode export",
				"cause": err.Error(),
			})
		}

		name := services.SnapshotFilename(snap.ExportDate)
		c.Set("Content-Type", "application/json")
		c.Set("Content-Disposition", `attachment; filename="`+name+`"`)
		return c.Send(data)
	})

	// Push the snapshot to R2 instead of downloading it
	adminGroup.Post("/export/upload", func(c *fiber.Ctx) error {
		if !utils.R2Enabled() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "R2 upload is not configured",
			})
		}

		snap, err := adminService.BuildExport(services.PeriodAll)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to build export",
				"cause": err.Error(),
			})
		}
		data, err := services.EncodeSnapshot(snap)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to encode export",
				"cause": err.Error(),
			})
		}

		url, err := utils.UploadBytesToR2(data, "exports/"+services.SnapshotFilename(snap.ExportDate), "application/json")
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "upload failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"message": "export uploaded",
			"url":     url,
		})
	})
}
