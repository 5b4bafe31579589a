package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	common_models "go-propdesk/internal/common/models"
	"go-propdesk/internal/features/audit"
	"go-propdesk/internal/features/notification"
	"go-propdesk/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Monday 2026-10-05 09:30 UTC
var fixedNow = time.Date(2026, 10, 5, 9, 30, 0, 0, time.UTC)

type memoryReportRepo struct {
	mu      sync.Mutex
	reports map[string]SavedReport
	runs    []string
	err     error
}

func newMemoryReportRepo() *memoryReportRepo {
	return &memoryReportRepo{reports: make(map[string]SavedReport)}
}

func (r *memoryReportRepo) Create(_ context.Context, report *SavedReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	report.ID = primitive.NewObjectID()
	report.CreatedAt = fixedNow
	report.UpdatedAt = fixedNow
	r.reports[report.ID.Hex()] = *report
	return nil
}

func (r *memoryReportRepo) Get(_ context.Context, id string) (*SavedReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	report, ok := r.reports[id]
	if !ok {
		return nil, ErrSavedReportNotFound
	}
	return &report, nil
}

func (r *memoryReportRepo) List(context.Context) ([]SavedReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	reports := []SavedReport{}
	for _, report := range r.reports {
		reports = append(reports, report)
	}
	return reports, nil
}

func (r *memoryReportRepo) ListScheduled(ctx context.Context) ([]SavedReport, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var scheduled []SavedReport
	for _, report := range all {
		if report.Schedule != nil && report.Status == SavedReportStatusActive {
			scheduled = append(scheduled, report)
		}
	}
	return scheduled, nil
}

func (r *memoryReportRepo) UpdateStatus(_ context.Context, id string, status SavedReportStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return ErrSavedReportNotFound
	}
	report.Status = status
	r.reports[id] = report
	return nil
}

func (r *memoryReportRepo) RecordRun(_ context.Context, id string, ranAt time.Time, next *time.Time, artifact string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return ErrSavedReportNotFound
	}
	sched := *report.Schedule
	sched.LastRun = &ranAt
	sched.NextScheduled = next
	sched.LastArtifact = artifact
	report.Schedule = &sched
	r.reports[id] = report
	r.runs = append(r.runs, id)
	return nil
}

func (r *memoryReportRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[id]; !ok {
		return ErrSavedReportNotFound
	}
	delete(r.reports, id)
	return nil
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (s *memoryStorage) Put(_ context.Context, key string, data io.Reader, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, data); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = buf.Bytes()
	s.types[key] = contentType
	return nil
}

func (s *memoryStorage) URL(_ context.Context, key string) (string, error) {
	return "/fs/exports/" + key, nil
}

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

type sentNotification struct {
	UserID  string
	Title   string
	Message string
	Type    notification.NotificationType
	Link    string
}

type recordingNotifier struct {
	notification.NotificationService

	mu   sync.Mutex
	sent []sentNotification
}

func (n *recordingNotifier) CreateNotification(_ context.Context, userID, title, message string, notifType notification.NotificationType, link string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{UserID: userID, Title: title, Message: message, Type: notifType, Link: link})
	return nil
}

func (n *recordingNotifier) titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	titles := make([]string, len(n.sent))
	for i, s := range n.sent {
		titles[i] = s.Title
	}
	return titles
}

func (n *recordingNotifier) last() sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return sentNotification{}
	}
	return n.sent[len(n.sent)-1]
}

type auditEntry struct {
	Action   common_models.AuditAction
	Module   string
	RecordID string
	Actor    string
}

type recordingAudit struct {
	audit.AuditService

	mu      sync.Mutex
	entries []auditEntry
}

func (a *recordingAudit) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, _ map[string]common_models.Change) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{
		Action:   action,
		Module:   module,
		RecordID: recordID,
		Actor:    common_models.ActorFromContext(ctx),
	})
	return nil
}

func (a *recordingAudit) actions() []common_models.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	actions := make([]common_models.AuditAction, len(a.entries))
	for i, e := range a.entries {
		actions[i] = e.Action
	}
	return actions
}

type testEnv struct {
	svc     *ReportServiceImpl
	repo    *memoryReportRepo
	store   *memoryStorage
	notes   *recordingNotifier
	audits  *recordingAudit
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		repo:    newMemoryReportRepo(),
		store:   newMemoryStorage(),
		notes:   &recordingNotifier{},
		audits:  &recordingAudit{},
		metrics: metrics.NewMetrics(prometheus.NewRegistry()),
	}
	exporter := NewExporter()
	exporter.now = func() time.Time { return fixedNow }

	env.svc = &ReportServiceImpl{
		Registry:            NewRegistry(),
		Exporter:            exporter,
		ReportRepo:          env.repo,
		Storage:             env.store,
		NotificationService: env.notes,
		AuditService:        env.audits,
		Metrics:             env.metrics,
		Logger:              zap.NewNop(),
		now:                 func() time.Time { return fixedNow },
	}
	return env
}

func actorContext(actor string) context.Context {
	return context.WithValue(context.Background(), common_models.ActorIDKey, actor)
}

func keysOf(columns []Column) []string {
	keys := make([]string, len(columns))
	for i, c := range columns {
		keys[i] = c.Key
	}
	return keys
}

func stringValues(rows []Row, key string) []string {
	var values []string
	for _, row := range rows {
		v, _ := row.Get(key)
		s, _ := v.(string)
		values = append(values, s)
	}
	return values
}

var errBoom = errors.New("boom")
