package report

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// SessionHeader carries the client-chosen report session id
const SessionHeader = "X-Report-Session"

type ReportController struct {
	ReportService ReportService
	Sessions      *SessionStore
	Scheduler     *Scheduler
}

func NewReportController(reportService ReportService, sessions *SessionStore, scheduler *Scheduler) *ReportController {
	return &ReportController{
		ReportService: reportService,
		Sessions:      sessions,
		Scheduler:     scheduler,
	}
}

// ExportRequest exports either caller-supplied rows or a freshly generated report
type ExportRequest struct {
	GenerateRequest
	Rows     []Row  `json:"rows,omitempty"`
	Format   string `json:"format"`
	Filename string `json:"filename"`
	Archive  bool   `json:"archive"`
}

// Types lists the available report types
func (c *ReportController) Types(ctx *fiber.Ctx) error {
	return ctx.JSON(c.ReportService.Types())
}

// Generate builds a report without touching any session
func (c *ReportController) Generate(ctx *fiber.Ctx) error {
	var req GenerateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	report, err := c.ReportService.Generate(ctx.UserContext(), req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(report)
}

// Export serializes rows or a generated report and returns it as an attachment
func (c *ReportController) Export(ctx *fiber.Ctx) error {
	var req ExportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	format, err := ParseExportFormat(req.Format)
	if err != nil {
		return writeError(ctx, err)
	}

	var artifact *Artifact
	if req.Rows != nil {
		artifact, err = c.ReportService.ExportRows(ctx.UserContext(), req.Rows, format, req.Filename)
	} else {
		var report *GeneratedReport
		report, err = c.ReportService.Generate(ctx.UserContext(), req.GenerateRequest)
		if err != nil {
			return writeError(ctx, err)
		}
		artifact, err = c.ReportService.Export(ctx.UserContext(), report, format, req.Filename)
	}
	if err != nil {
		return writeError(ctx, err)
	}
	return c.sendArtifact(ctx, artifact, req.Archive)
}

// GetSession returns the session state, creating the session on first use
func (c *ReportController) GetSession(ctx *fiber.Ctx) error {
	session, err := c.session(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(session.State())
}

func (c *ReportController) SetSessionType(ctx *fiber.Ctx) error {
	session, err := c.session(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	var body struct {
		ReportType ReportType `json:"reportType"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	session.SetReportType(body.ReportType)
	return ctx.JSON(session.State())
}

func (c *ReportController) SetSessionFilters(ctx *fiber.Ctx) error {
	session, err := c.session(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	var filters ReportFilters
	if err := ctx.BodyParser(&filters); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	session.SetFilters(filters)
	return ctx.JSON(session.State())
}

func (c *ReportController) SetSessionDateRange(ctx *fiber.Ctx) error {
	session, err := c.session(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	var dateRange DateRange
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&dateRange); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}
	session.SetDateRange(&dateRange)
	return ctx.JSON(session.State())
}

func (c *ReportController) GenerateSession(ctx *fiber.Ctx) error {
	session, err := c.session(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	if _, err := session.Generate(ctx.UserContext()); err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(session.State())
}

// ExportSession exports the session's last generated report
func (c *ReportController) ExportSession(ctx *fiber.Ctx) error {
	session, err := c.session(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	format, err := ParseExportFormat(ctx.Query("format"))
	if err != nil {
		return writeError(ctx, err)
	}
	report := session.GeneratedReport()
	if report == nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "No report has been generated"})
	}

	artifact, err := c.ReportService.Export(ctx.UserContext(), report, format, ctx.Query("filename"))
	if err != nil {
		return writeError(ctx, err)
	}
	return c.sendArtifact(ctx, artifact, ctx.QueryBool("archive"))
}

func (c *ReportController) ClearSession(ctx *fiber.Ctx) error {
	session, err := c.session(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	session.Clear()
	return ctx.JSON(session.State())
}

// CreateSaved persists a report configuration
func (c *ReportController) CreateSaved(ctx *fiber.Ctx) error {
	var payload CreateReportPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	id, err := c.ReportService.SaveReport(ctx.UserContext(), payload)
	if err != nil {
		return writeError(ctx, err)
	}
	c.Scheduler.Sync(ctx.UserContext(), id)
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (c *ReportController) ListSaved(ctx *fiber.Ctx) error {
	reports, err := c.ReportService.ListSavedReports(ctx.UserContext())
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(reports)
}

func (c *ReportController) GetSaved(ctx *fiber.Ctx) error {
	report, err := c.ReportService.GetSavedReport(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(report)
}

func (c *ReportController) UpdateSavedStatus(ctx *fiber.Ctx) error {
	var body struct {
		Status SavedReportStatus `json:"status"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	id := ctx.Params("id")
	if err := c.ReportService.UpdateSavedReportStatus(ctx.UserContext(), id, body.Status); err != nil {
		return writeError(ctx, err)
	}
	c.Scheduler.Sync(ctx.UserContext(), id)
	return ctx.JSON(fiber.Map{"status": body.Status})
}

func (c *ReportController) DeleteSaved(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if err := c.ReportService.DeleteSavedReport(ctx.UserContext(), id); err != nil {
		return writeError(ctx, err)
	}
	c.Scheduler.Unregister(id)
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *ReportController) RunSaved(ctx *fiber.Ctx) error {
	report, err := c.ReportService.RunSavedReport(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(report)
}

func (c *ReportController) session(ctx *fiber.Ctx) (*Session, error) {
	session, err := c.Sessions.Get(ctx.Get(SessionHeader))
	if err != nil {
		return nil, err
	}
	ctx.Set(SessionHeader, session.ID())
	return session, nil
}

func (c *ReportController) sendArtifact(ctx *fiber.Ctx, artifact *Artifact, archive bool) error {
	if archive {
		key, url, err := c.ReportService.Archive(ctx.UserContext(), artifact)
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to archive export", "detail": err.Error()})
		}
		ctx.Set("X-Artifact-Key", key)
		ctx.Set("X-Artifact-URL", url)
	}

	ctx.Set(fiber.HeaderContentType, artifact.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	return ctx.Send(artifact.Data)
}

// writeError maps pipeline errors onto HTTP responses
func writeError(ctx *fiber.Ctx, err error) error {
	var (
		verr *ValidationError
		gerr *GenerationError
		eerr *ExportError
		perr *PersistenceError
	)
	switch {
	case errors.Is(err, ErrGenerationInProgress):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &verr):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrSavedReportNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Saved report not found"})
	case errors.As(err, &gerr):
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Report Generation Failed", "detail": err.Error()})
	case errors.As(err, &eerr):
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Export Failed", "detail": err.Error()})
	case errors.As(err, &perr):
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": persistenceMessage(perr.Op), "detail": err.Error()})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

func persistenceMessage(op string) string {
	switch op {
	case "create":
		return "Report Save Failed"
	case "list":
		return "Failed to list saved reports"
	case "get":
		return "Failed to load saved report"
	case "update":
		return "Failed to update saved report"
	case "delete":
		return "Failed to delete saved report"
	default:
		return "Saved report storage failed"
	}
}
