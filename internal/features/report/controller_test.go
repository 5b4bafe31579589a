package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-propdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	app       *fiber.App
	env       *testEnv
	scheduler *Scheduler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	env := newTestEnv(t)
	sessions := NewSessionStore(env.svc, time.Minute, prometheus.NewGauge(prometheus.GaugeOpts{Name: "sessions"}))
	scheduler := NewScheduler(env.svc, sessions, zap.NewNop(), true)
	require.NoError(t, scheduler.Start(context.Background()))
	t.Cleanup(func() { _ = scheduler.Stop(context.Background()) })

	app := fiber.New()
	NewReportApi(NewReportController(env.svc, sessions, scheduler)).Setup(app)
	return &testServer{app: app, env: env, scheduler: scheduler}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestTypesRoute(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, "GET", "/api/reports/types", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var infos []ReportTypeInfo
	decode(t, resp, &infos)
	assert.Len(t, infos, 16)
	assert.Equal(t, ReportTypeTaskCompletion, infos[0].Key)
}

func TestGenerateRoute(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, "POST", "/api/reports/generate", GenerateRequest{
		ReportType: ReportTypeInventoryLevels,
		Filters:    ReportFilters{Category: "Linens"},
	}, map[string]string{middleware.ActorHeader: "maria"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report GeneratedReport
	decode(t, resp, &report)
	assert.Equal(t, "Inventory Levels", report.Title)
	assert.Len(t, report.Rows, 3)
	assert.Equal(t, "maria", srv.env.notes.last().UserID)

	resp = srv.do(t, "POST", "/api/reports/generate", GenerateRequest{}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = srv.do(t, "POST", "/api/reports/generate", GenerateRequest{
		ReportType: ReportTypeTaskCompletion,
		DateRange:  &DateRange{Start: "yesterday"},
	}, nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, "Report Generation Failed", body["error"])
}

func TestExportRoute(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, "POST", "/api/reports/export", ExportRequest{
		GenerateRequest: GenerateRequest{ReportType: ReportTypeInventoryLevels, Filters: ReportFilters{Category: "Linens"}},
		Format:          "csv",
		Filename:        "linens",
	}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="linens.csv"`, resp.Header.Get(fiber.HeaderContentDisposition))
	assert.Empty(t, resp.Header.Get("X-Artifact-Key"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, "itemName", records[0][0])
}

func TestExportRouteWithRowsAndArchive(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, "POST", "/api/reports/export", map[string]any{
		"rows":     []map[string]any{{"property": "Casa Azul", "nights": 4}},
		"format":   "excel",
		"filename": "stays",
		"archive":  true,
	}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="stays.xlsx"`, resp.Header.Get(fiber.HeaderContentDisposition))

	key := resp.Header.Get("X-Artifact-Key")
	require.NotEmpty(t, key)
	assert.Equal(t, "/fs/exports/"+key, resp.Header.Get("X-Artifact-URL"))
	assert.Contains(t, srv.env.store.objects, key)

	resp = srv.do(t, "POST", "/api/reports/export", ExportRequest{
		GenerateRequest: GenerateRequest{ReportType: ReportTypeInventoryLevels},
		Format:          "docx",
	}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSessionRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, "GET", "/api/reports/session", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	sessionID := resp.Header.Get(SessionHeader)
	require.NotEmpty(t, sessionID)
	headers := map[string]string{SessionHeader: sessionID}

	resp = srv.do(t, "GET", "/api/reports/session/export", nil, headers)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = srv.do(t, "PUT", "/api/reports/session/type", map[string]string{"reportType": string(ReportTypeTaskCompletion)}, headers)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = srv.do(t, "PUT", "/api/reports/session/filters", ReportFilters{Property: "Villa Caldera"}, headers)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = srv.do(t, "PUT", "/api/reports/session/date-range", DateRange{Start: "2026-09-01", End: "2026-09-10"}, headers)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var state SessionState
	decode(t, resp, &state)
	assert.Equal(t, sessionID, state.ID)
	assert.Equal(t, "Villa Caldera", state.Filters.Property)
	assert.Equal(t, &DateRange{Start: "2026-09-01", End: "2026-09-10"}, state.DateRange)

	resp = srv.do(t, "POST", "/api/reports/session/generate", nil, headers)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &state)
	require.NotNil(t, state.Report)
	assert.False(t, state.IsGenerating)
	assert.Equal(t, []string{"T-1001", "T-1002"}, stringValues(state.Report.Rows, "taskId"))

	resp = srv.do(t, "GET", "/api/reports/session/export?format=pdf&filename=villa", nil, headers)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="villa.txt"`, resp.Header.Get(fiber.HeaderContentDisposition))

	resp = srv.do(t, "DELETE", "/api/reports/session", nil, headers)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, "null", string(raw["generatedReport"]))

	var cleared SessionState
	require.NoError(t, json.Unmarshal(data, &cleared))
	assert.Empty(t, cleared.ReportType)
	assert.Nil(t, cleared.Report)

	resp = srv.do(t, "GET", "/api/reports/session/export", nil, headers)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestSavedReportRoutes(t *testing.T) {
	srv := newTestServer(t)
	headers := map[string]string{middleware.ActorHeader: "james"}

	resp := srv.do(t, "POST", "/api/reports/saved", CreateReportPayload{
		Name:     "Daily linens",
		Type:     ReportTypeInventoryLevels,
		Filters:  ReportFilters{Category: "Linens"},
		Schedule: &Schedule{Frequency: ScheduleDaily},
	}, headers)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created map[string]string
	decode(t, resp, &created)
	id := created["id"]
	require.NotEmpty(t, id)
	assert.Equal(t, 1, srv.scheduler.Len())

	resp = srv.do(t, "GET", "/api/reports/saved/"+id, nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var saved SavedReport
	decode(t, resp, &saved)
	assert.Equal(t, "james", saved.CreatedBy)
	assert.Equal(t, []string{"james"}, saved.Schedule.Recipients)

	resp = srv.do(t, "POST", "/api/reports/saved/"+id+"/run", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var report GeneratedReport
	decode(t, resp, &report)
	assert.Len(t, report.Rows, 3)

	resp = srv.do(t, "PATCH", "/api/reports/saved/"+id+"/status", map[string]string{"status": "paused"}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, srv.scheduler.Len())

	resp = srv.do(t, "PATCH", "/api/reports/saved/"+id+"/status", map[string]string{"status": "gone"}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = srv.do(t, "GET", "/api/reports/saved", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []SavedReport
	decode(t, resp, &list)
	assert.Len(t, list, 1)

	resp = srv.do(t, "DELETE", "/api/reports/saved/"+id, nil, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = srv.do(t, "GET", "/api/reports/saved/"+id, nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp = srv.do(t, "DELETE", "/api/reports/saved/"+id, nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = srv.do(t, "POST", "/api/reports/saved", CreateReportPayload{Type: ReportTypeInventoryLevels}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSavedReportRoutePersistenceFailure(t *testing.T) {
	srv := newTestServer(t)
	srv.env.repo.err = errBoom

	resp := srv.do(t, "POST", "/api/reports/saved", CreateReportPayload{Name: "Stock", Type: ReportTypeInventoryLevels}, nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, "Report Save Failed", body["error"])
}

func TestExportRouteArchiveFailure(t *testing.T) {
	srv := newTestServer(t)
	srv.env.store.putErr = errBoom

	resp := srv.do(t, "POST", "/api/reports/export", ExportRequest{
		GenerateRequest: GenerateRequest{ReportType: ReportTypeInventoryLevels},
		Format:          "csv",
		Archive:         true,
	}, map[string]string{middleware.ActorHeader: "aisha"})
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(fiber.HeaderContentDisposition))

	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, "Failed to archive export", body["error"])
	assert.Equal(t, "boom", body["detail"])

	last := srv.env.notes.last()
	assert.Equal(t, "Export Failed", last.Title)
	assert.Equal(t, "aisha", last.UserID)
}

func TestPersistenceErrorMessages(t *testing.T) {
	tests := []struct {
		op   string
		want string
	}{
		{op: "create", want: "Report Save Failed"},
		{op: "list", want: "Failed to list saved reports"},
		{op: "get", want: "Failed to load saved report"},
		{op: "update", want: "Failed to update saved report"},
		{op: "delete", want: "Failed to delete saved report"},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(ctx *fiber.Ctx) error {
				return writeError(ctx, &PersistenceError{Op: tt.op, Err: errBoom})
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

			var body map[string]any
			decode(t, resp, &body)
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestListSavedRouteStoreFailure(t *testing.T) {
	srv := newTestServer(t)
	srv.env.repo.err = errBoom

	resp := srv.do(t, "GET", "/api/reports/saved", nil, nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, "Failed to list saved reports", body["error"])
	assert.Empty(t, srv.env.notes.titles())
}
