package report

import (
	"go-propdesk/internal/common/api"
	"go-propdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	ReportController *ReportController
}

func NewReportApi(reportController *ReportController) api.Route {
	return &ReportApi{
		ReportController: reportController,
	}
}

func (h *ReportApi) Setup(app *fiber.App) {
	group := app.Group("/api/reports", middleware.ActorMiddleware())

	group.Get("/types", h.ReportController.Types)
	group.Post("/generate", h.ReportController.Generate)
	group.Post("/export", h.ReportController.Export)

	session := group.Group("/session")
	session.Get("/", h.ReportController.GetSession)
	session.Put("/type", h.ReportController.SetSessionType)
	session.Put("/filters", h.ReportController.SetSessionFilters)
	session.Put("/date-range", h.ReportController.SetSessionDateRange)
	session.Post("/generate", h.ReportController.GenerateSession)
	session.Get("/export", h.ReportController.ExportSession)
	session.Delete("/", h.ReportController.ClearSession)

	saved := group.Group("/saved")
	saved.Post("/", h.ReportController.CreateSaved)
	saved.Get("/", h.ReportController.ListSaved)
	saved.Get("/:id", h.ReportController.GetSaved)
	saved.Patch("/:id/status", h.ReportController.UpdateSavedStatus)
	saved.Delete("/:id", h.ReportController.DeleteSaved)
	saved.Post("/:id/run", h.ReportController.RunSaved)
}
