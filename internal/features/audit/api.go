package audit

import (
	"go-propdesk/internal/common/api"
	"go-propdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
}

func NewAuditApi(controller *AuditController) api.Route {
	return &AuditApi{
		controller: controller,
	}
}

func (h *AuditApi) Setup(app *fiber.App) {
	audit := app.Group("/api/audit-logs", middleware.ActorMiddleware())

	audit.Get("/", h.controller.ListLogs)
}
