package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Generator produces a report for one request
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GeneratedReport, error)
}

// SessionState is a point-in-time view of a session
type SessionState struct {
	ID           string           `json:"id"`
	ReportType   ReportType       `json:"reportType"`
	Filters      ReportFilters    `json:"filters"`
	DateRange    *DateRange       `json:"dateRange,omitempty"`
	IsGenerating bool             `json:"isGenerating"`
	Report       *GeneratedReport `json:"generatedReport"`
}

// Session holds one user's report selections and last generated report.
// It moves Idle -> Generating -> Ready, or back to its prior state on failure.
type Session struct {
	id  string
	gen Generator

	mu         sync.Mutex
	reportType ReportType
	filters    ReportFilters
	report     *GeneratedReport
	generating bool
	lastUsed   time.Time
}

func NewSession(id string, gen Generator) *Session {
	return &Session{id: id, gen: gen, lastUsed: time.Now()}
}

func (s *Session) ID() string {
	return s.id
}

// SetReportType selects a report type and clears filters and the date range
func (s *Session) SetReportType(t ReportType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reportType = t
	s.filters = ReportFilters{}
	s.touch()
}

// SetDateRange replaces the date bounds; nil clears them
func (s *Session) SetDateRange(r *DateRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r == nil {
		r = &DateRange{}
	}
	s.filters = s.filters.WithDateRange(r)
	s.touch()
}

// SetFilters merges the non-empty fields of partial into the current filters
func (s *Session) SetFilters(partial ReportFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = s.filters.Merge(partial)
	s.touch()
}

// Generate runs the selected report. On failure the previous report is kept.
func (s *Session) Generate(ctx context.Context) (*GeneratedReport, error) {
	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return nil, validationErr("", ErrGenerationInProgress)
	}
	s.generating = true
	req := GenerateRequest{
		ReportType: s.reportType,
		Filters:    s.filters,
		DateRange:  s.filters.DateRange(),
	}
	s.touch()
	s.mu.Unlock()

	report, err := s.gen.Generate(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
	s.touch()
	if err != nil {
		return nil, err
	}
	s.report = report
	return report, nil
}

// Clear drops the selections and the generated report
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reportType = ""
	s.filters = ReportFilters{}
	s.report = nil
	s.touch()
}

func (s *Session) GeneratedReport() *GeneratedReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

func (s *Session) IsGenerating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionState{
		ID:           s.id,
		ReportType:   s.reportType,
		Filters:      s.filters,
		DateRange:    s.filters.DateRange(),
		IsGenerating: s.generating,
		Report:       s.report,
	}
}

// touch must be called with mu held
func (s *Session) touch() {
	s.lastUsed = time.Now()
}

func (s *Session) idleSince(now time.Time) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastUsed), s.generating
}

const maxSessionIDLength = 128

// SessionStore keeps sessions in memory and evicts idle ones
type SessionStore struct {
	gen    Generator
	ttl    time.Duration
	active prometheus.Gauge

	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessionStore(gen Generator, ttl time.Duration, active prometheus.Gauge) *SessionStore {
	return &SessionStore{
		gen:      gen,
		ttl:      ttl,
		active:   active,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Get returns the session for id, creating it when absent. An empty id
// allocates a fresh session.
func (st *SessionStore) Get(id string) (*Session, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if len(id) > maxSessionIDLength {
		return nil, validationErr("session", fmt.Errorf("session id longer than %d characters", maxSessionIDLength))
	}

	st.Sweep()

	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		s = NewSession(id, st.gen)
		st.sessions[id] = s
		st.active.Set(float64(len(st.sessions)))
	}
	return s, nil
}

// Delete drops a session
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
	st.active.Set(float64(len(st.sessions)))
}

// Len returns the number of live sessions
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep evicts sessions idle for longer than the TTL. Sessions mid-generation are kept.
func (st *SessionStore) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()
	evicted := 0
	for id, s := range st.sessions {
		idle, generating := s.idleSince(now)
		if !generating && idle > st.ttl {
			delete(st.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		st.active.Set(float64(len(st.sessions)))
	}
	return evicted
}
