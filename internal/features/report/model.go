package report

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportType is the key of a registered report kind
type ReportType string

const (
	ReportTypeTaskCompletion        ReportType = "task-completion-log"
	ReportTypeStaffProductivity     ReportType = "staff-productivity"
	ReportTypeFinancialSummary      ReportType = "financial-summary"
	ReportTypePropertyPerformance   ReportType = "property-performance"
	ReportTypeBookingAnalytics      ReportType = "booking-analytics"
	ReportTypeGuestSatisfaction     ReportType = "guest-satisfaction"
	ReportTypeMaintenanceCost       ReportType = "maintenance-cost-breakdown"
	ReportTypeDamageHistory         ReportType = "damage-history"
	ReportTypeInventoryLevels       ReportType = "inventory-levels"
	ReportTypeRevenueAnalysis       ReportType = "revenue-analysis"
	ReportTypeExpenseTracking       ReportType = "expense-tracking"
	ReportTypeOperationalEfficiency ReportType = "operational-efficiency"
	ReportTypeTurnoverMetrics       ReportType = "turnover-metrics"
	ReportTypeEnergyConsumption     ReportType = "energy-consumption"
	ReportTypeVendorPerformance     ReportType = "vendor-performance"
	ReportTypeComplianceAudit       ReportType = "compliance-audit"

	// ReportTypeUnimplemented is the descriptor every unknown key resolves to
	ReportTypeUnimplemented ReportType = "unimplemented"
)

// ColumnType is a formatting hint; the zero value renders as plain text
type ColumnType string

const (
	ColumnTypeText     ColumnType = ""
	ColumnTypeDate     ColumnType = "date"
	ColumnTypeCurrency ColumnType = "currency"
	ColumnTypeNumber   ColumnType = "number"
)

// Column describes how one row field is labelled and formatted
type Column struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Type  ColumnType `json:"type,omitempty"`
}

// ReportFilters narrows a report. Empty and "all" mean no constraint.
type ReportFilters struct {
	Property  string `json:"property,omitempty" bson:"property,omitempty"`
	Assignee  string `json:"assignee,omitempty" bson:"assignee,omitempty"`
	Status    string `json:"status,omitempty" bson:"status,omitempty"`
	Category  string `json:"category,omitempty" bson:"category,omitempty"`
	Source    string `json:"source,omitempty" bson:"source,omitempty"`
	StartDate string `json:"startDate,omitempty" bson:"start_date,omitempty"`
	EndDate   string `json:"endDate,omitempty" bson:"end_date,omitempty"`
}

// DateRange is an inclusive ISO date interval; either bound may be empty
type DateRange struct {
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

// GeneratedReport is immutable once built
type GeneratedReport struct {
	Title       string        `json:"title"`
	Rows        []Row         `json:"rows"`
	Columns     []Column      `json:"columns"`
	ReportType  ReportType    `json:"reportType"`
	GeneratedAt time.Time     `json:"generatedAt"`
	DateRange   *DateRange    `json:"dateRange,omitempty"`
	Filters     ReportFilters `json:"filters"`
	// DateRangeApplied is false for point-in-time report types
	DateRangeApplied bool `json:"dateRangeApplied"`
}

// RecordCount is the number of rows in the report
func (r *GeneratedReport) RecordCount() int {
	return len(r.Rows)
}

// ExportFormat selects the exporter
type ExportFormat string

const (
	ExportFormatCSV   ExportFormat = "csv"
	ExportFormatExcel ExportFormat = "excel"
	// ExportFormatPDF is a plain-text stand-in written as .txt
	ExportFormatPDF ExportFormat = "pdf"
	// ExportFormatPDFDocument renders a real tabular PDF
	ExportFormatPDFDocument ExportFormat = "pdf-document"
)

// SavedReportStatus controls whether a saved report's schedule runs
type SavedReportStatus string

const (
	SavedReportStatusActive   SavedReportStatus = "active"
	SavedReportStatusPaused   SavedReportStatus = "paused"
	SavedReportStatusArchived SavedReportStatus = "archived"
)

type ScheduleFrequency string

const (
	ScheduleDaily   ScheduleFrequency = "daily"
	ScheduleWeekly  ScheduleFrequency = "weekly"
	ScheduleMonthly ScheduleFrequency = "monthly"
)

// Schedule defines recurring delivery of a saved report
type Schedule struct {
	Frequency     ScheduleFrequency `json:"frequency" bson:"frequency"`
	Recipients    []string          `json:"recipients" bson:"recipients"`
	NextScheduled *time.Time        `json:"next_scheduled,omitempty" bson:"next_scheduled,omitempty"`
	LastRun       *time.Time        `json:"last_run,omitempty" bson:"last_run,omitempty"`
	LastArtifact  string            `json:"last_artifact,omitempty" bson:"last_artifact,omitempty"`
}

// SavedReport is a persisted report configuration
type SavedReport struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Type      ReportType         `json:"type" bson:"type"`
	Filters   ReportFilters      `json:"filters" bson:"filters"`
	DateRange *DateRange         `json:"dateRange,omitempty" bson:"date_range,omitempty"`
	Status    SavedReportStatus  `json:"status" bson:"status"`
	Schedule  *Schedule          `json:"schedule,omitempty" bson:"schedule,omitempty"`
	CreatedBy string             `json:"created_by" bson:"created_by"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateReportPayload is what a save action forwards to storage
type CreateReportPayload struct {
	Name      string        `json:"name"`
	Type      ReportType    `json:"type"`
	Filters   ReportFilters `json:"filters"`
	DateRange *DateRange    `json:"dateRange,omitempty"`
	Schedule  *Schedule     `json:"schedule,omitempty"`
}

// GenerateRequest is one stateless generation
type GenerateRequest struct {
	ReportType ReportType    `json:"reportType"`
	Filters    ReportFilters `json:"filters"`
	DateRange  *DateRange    `json:"dateRange,omitempty"`
}
