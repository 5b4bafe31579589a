package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingGenerator struct {
	started chan GenerateRequest
	release chan struct{}
	report  *GeneratedReport
	err     error
}

func (g *blockingGenerator) Generate(_ context.Context, req GenerateRequest) (*GeneratedReport, error) {
	g.started <- req
	<-g.release
	return g.report, g.err
}

func newBlockingGenerator(report *GeneratedReport, err error) *blockingGenerator {
	return &blockingGenerator{
		started: make(chan GenerateRequest, 1),
		release: make(chan struct{}),
		report:  report,
		err:     err,
	}
}

func TestSessionGenerateTransitions(t *testing.T) {
	want := &GeneratedReport{Title: "Inventory Levels", ReportType: ReportTypeInventoryLevels}
	gen := newBlockingGenerator(want, nil)
	s := NewSession("s1", gen)
	s.SetReportType(ReportTypeInventoryLevels)
	s.SetFilters(ReportFilters{Category: "Linens"})

	assert.False(t, s.IsGenerating())
	assert.Nil(t, s.GeneratedReport())

	done := make(chan error, 1)
	go func() {
		_, err := s.Generate(context.Background())
		done <- err
	}()

	req := <-gen.started
	assert.Equal(t, ReportTypeInventoryLevels, req.ReportType)
	assert.Equal(t, "Linens", req.Filters.Category)
	assert.True(t, s.IsGenerating())

	_, err := s.Generate(context.Background())
	assert.ErrorIs(t, err, ErrGenerationInProgress)

	close(gen.release)
	require.NoError(t, <-done)
	assert.False(t, s.IsGenerating())
	assert.Same(t, want, s.GeneratedReport())
}

func TestSessionFailedGenerationKeepsPreviousReport(t *testing.T) {
	env := newTestEnv(t)
	s := NewSession("s1", env.svc)

	s.SetReportType(ReportTypeInventoryLevels)
	first, err := s.Generate(context.Background())
	require.NoError(t, err)

	// Validation failure: no type selected
	s.SetReportType("")
	_, err = s.Generate(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrReportTypeRequired)
	assert.False(t, s.IsGenerating())
	assert.Same(t, first, s.GeneratedReport())

	// Generation failure: malformed date filter
	s.SetReportType(ReportTypeTaskCompletion)
	s.SetDateRange(&DateRange{Start: "not-a-date"})
	_, err = s.Generate(context.Background())
	var gerr *GenerationError
	require.ErrorAs(t, err, &gerr)
	assert.False(t, s.IsGenerating())
	assert.Same(t, first, s.GeneratedReport())
}

func TestSessionSetReportTypeResetsFilters(t *testing.T) {
	s := NewSession("s1", newBlockingGenerator(nil, nil))
	s.SetReportType(ReportTypeTaskCompletion)
	s.SetFilters(ReportFilters{Property: "Villa Caldera"})
	s.SetDateRange(&DateRange{Start: "2026-09-01", End: "2026-09-30"})

	state := s.State()
	assert.Equal(t, "Villa Caldera", state.Filters.Property)
	assert.Equal(t, &DateRange{Start: "2026-09-01", End: "2026-09-30"}, state.DateRange)

	s.SetReportType(ReportTypeTurnoverMetrics)
	state = s.State()
	assert.Equal(t, ReportTypeTurnoverMetrics, state.ReportType)
	assert.Equal(t, ReportFilters{}, state.Filters)
	assert.Nil(t, state.DateRange)
}

func TestSessionSetDateRangeNilClears(t *testing.T) {
	s := NewSession("s1", newBlockingGenerator(nil, nil))
	s.SetDateRange(&DateRange{Start: "2026-09-01"})
	s.SetDateRange(nil)
	assert.Nil(t, s.State().DateRange)
}

func TestSessionFilterIdempotence(t *testing.T) {
	env := newTestEnv(t)
	filters := ReportFilters{Property: "Villa Caldera", Status: "completed"}

	once := NewSession("once", env.svc)
	once.SetReportType(ReportTypeTaskCompletion)
	once.SetFilters(filters)
	a, err := once.Generate(context.Background())
	require.NoError(t, err)

	twice := NewSession("twice", env.svc)
	twice.SetReportType(ReportTypeTaskCompletion)
	twice.SetFilters(filters)
	twice.SetFilters(filters)
	b, err := twice.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Rows, b.Rows)
	assert.Equal(t, a.Filters, b.Filters)
}

func TestSessionClear(t *testing.T) {
	env := newTestEnv(t)
	s := NewSession("s1", env.svc)
	s.SetReportType(ReportTypeExpenseTracking)
	_, err := s.Generate(context.Background())
	require.NoError(t, err)

	s.Clear()
	state := s.State()
	assert.Empty(t, state.ReportType)
	assert.Nil(t, state.Report)
}

func TestSessionStore(t *testing.T) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "sessions"})
	store := NewSessionStore(newBlockingGenerator(nil, nil), time.Minute, gauge)

	a, err := store.Get("alpha")
	require.NoError(t, err)
	again, err := store.Get("alpha")
	require.NoError(t, err)
	assert.Same(t, a, again)

	fresh, err := store.Get("")
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.ID())
	assert.NotEqual(t, "alpha", fresh.ID())
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, 2.0, testutil.ToFloat64(gauge))

	_, err = store.Get(string(make([]byte, maxSessionIDLength+1)))
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.Equal(t, 2, store.Sweep())
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0.0, testutil.ToFloat64(gauge))
}

func TestSessionStoreKeepsGeneratingSessions(t *testing.T) {
	gen := newBlockingGenerator(&GeneratedReport{}, nil)
	store := NewSessionStore(gen, time.Minute, prometheus.NewGauge(prometheus.GaugeOpts{Name: "sessions"}))

	s, err := store.Get("busy")
	require.NoError(t, err)
	s.SetReportType(ReportTypeInventoryLevels)

	done := make(chan struct{})
	go func() {
		_, _ = s.Generate(context.Background())
		close(done)
	}()
	<-gen.started

	store.now = func() time.Time { return time.Now().Add(time.Hour) }
	assert.Equal(t, 0, store.Sweep())

	close(gen.release)
	<-done

	store.Delete("busy")
	assert.Equal(t, 0, store.Len())
}
