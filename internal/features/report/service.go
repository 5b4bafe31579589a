package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	common_models "go-propdesk/internal/common/models"
	"go-propdesk/internal/config"
	"go-propdesk/internal/features/audit"
	"go-propdesk/internal/features/notification"
	"go-propdesk/internal/metrics"
	"go-propdesk/internal/storage"

	"go.uber.org/zap"
)

const auditModule = "saved_reports"

type ReportService interface {
	Types() []ReportTypeInfo
	Generate(ctx context.Context, req GenerateRequest) (*GeneratedReport, error)
	Export(ctx context.Context, report *GeneratedReport, format ExportFormat, filename string) (*Artifact, error)
	ExportRows(ctx context.Context, rows []Row, format ExportFormat, filename string) (*Artifact, error)
	Archive(ctx context.Context, artifact *Artifact) (key string, url string, err error)

	SaveReport(ctx context.Context, payload CreateReportPayload) (string, error)
	ListSavedReports(ctx context.Context) ([]SavedReport, error)
	GetSavedReport(ctx context.Context, id string) (*SavedReport, error)
	UpdateSavedReportStatus(ctx context.Context, id string, status SavedReportStatus) error
	DeleteSavedReport(ctx context.Context, id string) error
	RunSavedReport(ctx context.Context, id string) (*GeneratedReport, error)
	ListScheduledReports(ctx context.Context) ([]SavedReport, error)
	DeliverScheduled(ctx context.Context, id string) error
}

type ReportServiceImpl struct {
	Registry            *Registry
	Exporter            *Exporter
	ReportRepo          ReportRepository
	Storage             storage.Storage
	NotificationService notification.NotificationService
	AuditService        audit.AuditService
	Metrics             *metrics.Metrics
	Logger              *zap.Logger

	delay time.Duration
	now   func() time.Time
}

func NewReportService(
	registry *Registry,
	reportRepo ReportRepository,
	store storage.Storage,
	notificationService notification.NotificationService,
	auditService audit.AuditService,
	m *metrics.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) ReportService {
	return &ReportServiceImpl{
		Registry:            registry,
		Exporter:            NewExporter(),
		ReportRepo:          reportRepo,
		Storage:             store,
		NotificationService: notificationService,
		AuditService:        auditService,
		Metrics:             m,
		Logger:              logger.Named("report"),
		delay:               cfg.GenerationDelay,
		now:                 time.Now,
	}
}

func (s *ReportServiceImpl) Types() []ReportTypeInfo {
	return s.Registry.Types()
}

// Generate builds a report and signals the outcome to the acting user
func (s *ReportServiceImpl) Generate(ctx context.Context, req GenerateRequest) (*GeneratedReport, error) {
	actor := common_models.ActorFromContext(ctx)

	if strings.TrimSpace(string(req.ReportType)) == "" {
		s.Metrics.ReportsGenerated.WithLabelValues("none", metrics.OutcomeInvalid).Inc()
		s.notify(ctx, actor, "Report type required", "Select a report type before generating a report.", notification.NotificationTypeWarning)
		return nil, validationErr("reportType", ErrReportTypeRequired)
	}

	label := string(s.Registry.Lookup(req.ReportType).Key)
	start := time.Now()
	report, err := s.assemble(ctx, req)
	s.Metrics.GenerationDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	if err != nil {
		s.Metrics.ReportsGenerated.WithLabelValues(label, metrics.OutcomeFailure).Inc()
		s.Logger.Error("Report generation failed",
			zap.String("report_type", string(req.ReportType)),
			zap.String("actor", actor),
			zap.Error(err),
		)
		s.notify(ctx, actor, "Report Generation Failed", "The report could not be generated. Please try again.", notification.NotificationTypeError)
		return nil, err
	}

	s.Metrics.ReportsGenerated.WithLabelValues(label, metrics.OutcomeSuccess).Inc()
	s.Metrics.ReportRows.WithLabelValues(label).Observe(float64(report.RecordCount()))
	s.Logger.Info("Report generated",
		zap.String("report_type", string(report.ReportType)),
		zap.String("actor", actor),
		zap.Int("records", report.RecordCount()),
		zap.Bool("date_range_applied", report.DateRangeApplied),
	)
	s.notify(ctx, actor, "Report Generated", fmt.Sprintf("%s generated with %d records.", report.Title, report.RecordCount()), notification.NotificationTypeSuccess)
	return report, nil
}

// assemble resolves the descriptor, waits out the configured latency and
// builds the immutable report. Panics from a dataset become GenerationErrors.
func (s *ReportServiceImpl) assemble(ctx context.Context, req GenerateRequest) (report *GeneratedReport, err error) {
	d := s.Registry.Lookup(req.ReportType)

	defer func() {
		if r := recover(); r != nil {
			report = nil
			err = &GenerationError{ReportType: req.ReportType, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, &GenerationError{ReportType: req.ReportType, Err: ctx.Err()}
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, &GenerationError{ReportType: req.ReportType, Err: err}
	}

	filters := req.Filters.WithDateRange(req.DateRange)
	rows, err := d.Produce(filters)
	if err != nil {
		return nil, &GenerationError{ReportType: req.ReportType, Err: err}
	}

	dateRange := filters.DateRange()
	return &GeneratedReport{
		Title:            d.Title,
		Rows:             rows,
		Columns:          d.Columns,
		ReportType:       req.ReportType,
		GeneratedAt:      s.now(),
		DateRange:        dateRange,
		Filters:          filters,
		DateRangeApplied: d.SupportsDateRange() && dateRange != nil,
	}, nil
}

func (s *ReportServiceImpl) Export(ctx context.Context, report *GeneratedReport, format ExportFormat, filename string) (*Artifact, error) {
	artifact, err := s.Exporter.ExportReport(report, format, filename)
	if err != nil {
		return nil, s.exportFailed(ctx, format, err)
	}
	s.exported(ctx, format, artifact)
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionExport, "reports", string(report.ReportType), map[string]common_models.Change{
		"export": {New: artifact.Filename},
	})
	return artifact, nil
}

func (s *ReportServiceImpl) ExportRows(ctx context.Context, rows []Row, format ExportFormat, filename string) (*Artifact, error) {
	artifact, err := s.Exporter.ExportRows(rows, format, filename)
	if err != nil {
		return nil, s.exportFailed(ctx, format, err)
	}
	s.exported(ctx, format, artifact)
	return artifact, nil
}

func (s *ReportServiceImpl) exported(ctx context.Context, format ExportFormat, artifact *Artifact) {
	s.Metrics.ExportsTotal.WithLabelValues(string(format), metrics.OutcomeSuccess).Inc()
	s.Metrics.ExportBytes.WithLabelValues(string(format)).Add(float64(len(artifact.Data)))
	s.Logger.Info("Report exported",
		zap.String("format", string(format)),
		zap.String("actor", common_models.ActorFromContext(ctx)),
		zap.String("filename", artifact.Filename),
		zap.Int("bytes", len(artifact.Data)),
	)
}

func (s *ReportServiceImpl) exportFailed(ctx context.Context, format ExportFormat, err error) error {
	actor := common_models.ActorFromContext(ctx)
	s.Metrics.ExportsTotal.WithLabelValues(string(format), metrics.OutcomeFailure).Inc()
	s.Logger.Error("Report export failed",
		zap.String("format", string(format)),
		zap.String("actor", actor),
		zap.Error(err),
	)
	s.notify(ctx, actor, "Export Failed", fmt.Sprintf("The report could not be exported as %s.", format), notification.NotificationTypeError)
	return err
}

// Archive stores an artifact and returns its key and download URL
func (s *ReportServiceImpl) Archive(ctx context.Context, artifact *Artifact) (string, string, error) {
	key := storage.ArtifactKey(artifact.Filename, s.now())
	if err := s.Storage.Put(ctx, key, bytes.NewReader(artifact.Data), artifact.ContentType); err != nil {
		return "", "", s.archiveFailed(ctx, artifact, err)
	}
	url, err := s.Storage.URL(ctx, key)
	if err != nil {
		return key, "", s.archiveFailed(ctx, artifact, err)
	}
	return key, url, nil
}

func (s *ReportServiceImpl) archiveFailed(ctx context.Context, artifact *Artifact, err error) error {
	actor := common_models.ActorFromContext(ctx)
	s.Logger.Error("Report archive failed",
		zap.String("filename", artifact.Filename),
		zap.String("actor", actor),
		zap.Error(err),
	)
	s.notify(ctx, actor, "Export Failed", fmt.Sprintf("%s could not be archived.", artifact.Filename), notification.NotificationTypeError)
	return err
}

// SaveReport persists a report configuration and returns its id
func (s *ReportServiceImpl) SaveReport(ctx context.Context, payload CreateReportPayload) (string, error) {
	actor := common_models.ActorFromContext(ctx)

	report, err := s.newSavedReport(payload, actor)
	if err != nil {
		s.Metrics.SavedReportsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return "", err
	}

	if err := s.ReportRepo.Create(ctx, report); err != nil {
		perr := &PersistenceError{Op: "create", Err: err}
		s.Metrics.SavedReportsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.Logger.Error("Failed to save report",
			zap.String("report_type", string(report.Type)),
			zap.String("actor", actor),
			zap.Error(err),
		)
		s.notify(ctx, actor, "Report Save Failed", fmt.Sprintf("%q could not be saved.", report.Name), notification.NotificationTypeError)
		return "", perr
	}

	s.Metrics.SavedReportsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	id := report.ID.Hex()
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, auditModule, id, map[string]common_models.Change{
		"report": {New: report},
	})
	s.notify(ctx, actor, "Report Saved", fmt.Sprintf("%q was saved.", report.Name), notification.NotificationTypeSuccess)
	return id, nil
}

func (s *ReportServiceImpl) newSavedReport(payload CreateReportPayload, actor string) (*SavedReport, error) {
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return nil, validationErr("name", errors.New("name is required"))
	}
	if payload.Type == "" {
		return nil, validationErr("type", ErrReportTypeRequired)
	}
	if !s.Registry.Has(payload.Type) {
		return nil, validationErr("type", fmt.Errorf("unknown report type %q", payload.Type))
	}

	report := &SavedReport{
		Name:      name,
		Type:      payload.Type,
		Filters:   payload.Filters.WithDateRange(payload.DateRange),
		DateRange: payload.DateRange,
		Status:    SavedReportStatusActive,
		CreatedBy: actor,
	}
	if report.DateRange == nil {
		report.DateRange = report.Filters.DateRange()
	}
	if _, err := compilePredicate(s.Registry.Lookup(report.Type), report.Filters); err != nil {
		return nil, validationErr("filters", err)
	}

	if payload.Schedule != nil {
		sched := *payload.Schedule
		next, err := nextRun(sched.Frequency, s.now())
		if err != nil {
			return nil, validationErr("schedule", err)
		}
		if len(sched.Recipients) == 0 {
			sched.Recipients = []string{actor}
		}
		sched.NextScheduled = &next
		sched.LastRun = nil
		sched.LastArtifact = ""
		report.Schedule = &sched
	}
	return report, nil
}

func (s *ReportServiceImpl) ListSavedReports(ctx context.Context) ([]SavedReport, error) {
	reports, err := s.ReportRepo.List(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return reports, nil
}

func (s *ReportServiceImpl) ListScheduledReports(ctx context.Context) ([]SavedReport, error) {
	reports, err := s.ReportRepo.ListScheduled(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return reports, nil
}

func (s *ReportServiceImpl) GetSavedReport(ctx context.Context, id string) (*SavedReport, error) {
	report, err := s.ReportRepo.Get(ctx, id)
	if errors.Is(err, ErrSavedReportNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get", Err: err}
	}
	return report, nil
}

func (s *ReportServiceImpl) UpdateSavedReportStatus(ctx context.Context, id string, status SavedReportStatus) error {
	switch status {
	case SavedReportStatusActive, SavedReportStatusPaused, SavedReportStatusArchived:
	default:
		return validationErr("status", fmt.Errorf("unknown status %q", status))
	}

	old, err := s.GetSavedReport(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ReportRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, ErrSavedReportNotFound) {
			return err
		}
		return &PersistenceError{Op: "update", Err: err}
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, auditModule, id, map[string]common_models.Change{
		"status": {Old: old.Status, New: status},
	})
	return nil
}

func (s *ReportServiceImpl) DeleteSavedReport(ctx context.Context, id string) error {
	old, err := s.GetSavedReport(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ReportRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrSavedReportNotFound) {
			return err
		}
		return &PersistenceError{Op: "delete", Err: err}
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, auditModule, id, map[string]common_models.Change{
		"report": {Old: old.Name, New: "DELETED"},
	})
	return nil
}

// RunSavedReport regenerates a saved configuration on demand
func (s *ReportServiceImpl) RunSavedReport(ctx context.Context, id string) (*GeneratedReport, error) {
	saved, err := s.GetSavedReport(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Generate(ctx, saved.request())
}

// DeliverScheduled generates a saved report as CSV, archives it and tells every recipient
func (s *ReportServiceImpl) DeliverScheduled(ctx context.Context, id string) error {
	ctx = context.WithValue(ctx, common_models.ActorIDKey, common_models.SystemActor)

	err := s.deliver(ctx, id)
	if err != nil {
		s.Metrics.ScheduledRunsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.Logger.Error("Scheduled report delivery failed", zap.String("saved_report_id", id), zap.Error(err))
		return err
	}
	s.Metrics.ScheduledRunsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return nil
}

func (s *ReportServiceImpl) deliver(ctx context.Context, id string) error {
	saved, err := s.GetSavedReport(ctx, id)
	if err != nil {
		return err
	}
	if saved.Schedule == nil || saved.Status != SavedReportStatusActive {
		s.Logger.Info("Skipping inactive scheduled report", zap.String("saved_report_id", id), zap.String("status", string(saved.Status)))
		return nil
	}

	report, err := s.Generate(ctx, saved.request())
	if err != nil {
		return err
	}
	base := fmt.Sprintf("%s-%s", saved.Name, s.now().Format("20060102"))
	artifact, err := s.Export(ctx, report, ExportFormatCSV, base)
	if err != nil {
		return err
	}
	key, url, err := s.Archive(ctx, artifact)
	if err != nil {
		return fmt.Errorf("archive artifact: %w", err)
	}

	ranAt := s.now()
	var next *time.Time
	if n, err := nextRun(saved.Schedule.Frequency, ranAt); err == nil {
		next = &n
	}
	if err := s.ReportRepo.RecordRun(ctx, id, ranAt, next, key); err != nil {
		return &PersistenceError{Op: "update", Err: err}
	}

	for _, recipient := range saved.Schedule.Recipients {
		_ = s.NotificationService.CreateNotification(ctx, recipient, "Scheduled Report Ready",
			fmt.Sprintf("%s (%d records) is ready to download.", saved.Name, report.RecordCount()),
			notification.NotificationTypeInfo, url)
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionSchedule, auditModule, id, map[string]common_models.Change{
		"artifact": {New: key},
	})
	s.Logger.Info("Scheduled report delivered",
		zap.String("saved_report_id", id),
		zap.String("report_type", string(saved.Type)),
		zap.Int("records", report.RecordCount()),
		zap.Int("recipients", len(saved.Schedule.Recipients)),
	)
	return nil
}

func (s *ReportServiceImpl) notify(ctx context.Context, userID, title, message string, notifType notification.NotificationType) {
	if err := s.NotificationService.CreateNotification(ctx, userID, title, message, notifType, ""); err != nil {
		s.Logger.Warn("Notification not delivered", zap.String("actor", userID), zap.String("title", title), zap.Error(err))
	}
}

func (r *SavedReport) request() GenerateRequest {
	return GenerateRequest{
		ReportType: r.Type,
		Filters:    r.Filters,
		DateRange:  r.DateRange,
	}
}
