package report

import (
	"fmt"
	"reflect"
	"slices"
)

// AllReportTypes is the closed set of registered report kinds, in picker order
var AllReportTypes = []ReportType{
	ReportTypeTaskCompletion,
	ReportTypeStaffProductivity,
	ReportTypeFinancialSummary,
	ReportTypePropertyPerformance,
	ReportTypeBookingAnalytics,
	ReportTypeGuestSatisfaction,
	ReportTypeMaintenanceCost,
	ReportTypeDamageHistory,
	ReportTypeInventoryLevels,
	ReportTypeRevenueAnalysis,
	ReportTypeExpenseTracking,
	ReportTypeOperationalEfficiency,
	ReportTypeTurnoverMetrics,
	ReportTypeEnergyConsumption,
	ReportTypeVendorPerformance,
	ReportTypeComplianceAudit,
}

const unimplementedMessage = "Report type not yet implemented"

// Descriptor binds a report type to its rows and column schema
type Descriptor struct {
	Key     ReportType
	Title   string
	Columns []Column
	// DateField is the row field the date range constrains; empty for
	// point-in-time report types that ignore the range
	DateField string

	filterKeys map[FilterField]string
	rows       []Row
}

// ReportTypeInfo is the picker entry exposed to clients
type ReportTypeInfo struct {
	Key               ReportType    `json:"key"`
	Title             string        `json:"title"`
	Columns           []Column      `json:"columns"`
	SupportsDateRange bool          `json:"supportsDateRange"`
	Filters           []FilterField `json:"filters"`
}

// SupportsDateRange reports whether Produce applies the date bounds
func (d *Descriptor) SupportsDateRange() bool {
	return d.DateField != ""
}

// FilterKey returns the row field an equality filter applies to
func (d *Descriptor) FilterKey(field FilterField) (string, bool) {
	key, ok := d.filterKeys[field]
	return key, ok
}

// Produce returns the rows passing filters, in source order
func (d *Descriptor) Produce(filters ReportFilters) ([]Row, error) {
	pred, err := compilePredicate(d, filters)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(d.rows))
	for _, row := range d.rows {
		if pred.matches(row) {
			rows = append(rows, slices.Clone(row))
		}
	}
	return rows, nil
}

// Info describes the descriptor for clients
func (d *Descriptor) Info() ReportTypeInfo {
	info := ReportTypeInfo{
		Key:               d.Key,
		Title:             d.Title,
		Columns:           d.Columns,
		SupportsDateRange: d.SupportsDateRange(),
	}
	for _, field := range FilterFields {
		if _, ok := d.filterKeys[field]; ok {
			info.Filters = append(info.Filters, field)
		}
	}
	return info
}

type descriptorOption func(*Descriptor)

// withDateField makes the date range constrain the given row field
func withDateField(key string) descriptorOption {
	return func(d *Descriptor) { d.DateField = key }
}

// withFilterKey maps a filter onto a differently named row field
func withFilterKey(field FilterField, key string) descriptorOption {
	return func(d *Descriptor) { d.filterKeys[field] = key }
}

// define derives columns from T's `col` tags and freezes the source rows.
// Filters map onto same-named columns unless overridden.
func define[T any](key ReportType, title string, source []T, opts ...descriptorOption) *Descriptor {
	d := &Descriptor{
		Key:        key,
		Title:      title,
		Columns:    columnsOf(reflect.TypeFor[T]()),
		filterKeys: make(map[FilterField]string),
	}
	for _, field := range FilterFields {
		if d.hasColumn(string(field)) {
			d.filterKeys[field] = string(field)
		}
	}
	for _, opt := range opts {
		opt(d)
	}

	d.rows = make([]Row, len(source))
	for i := range source {
		d.rows[i] = rowOf(source[i])
	}
	return d
}

func (d *Descriptor) hasColumn(key string) bool {
	for _, c := range d.Columns {
		if c.Key == key {
			return true
		}
	}
	return false
}

func (d *Descriptor) validate() error {
	if d.DateField != "" && !d.hasColumn(d.DateField) {
		return fmt.Errorf("%s: date field %q has no column", d.Key, d.DateField)
	}
	for field, key := range d.filterKeys {
		if !d.hasColumn(key) {
			return fmt.Errorf("%s: filter %s maps to unknown column %q", d.Key, field, key)
		}
	}
	return nil
}

type unimplementedRow struct {
	Message    string `col:"message,Message"`
	ReportType string `col:"reportType,Report Type"`
}

// Registry is the immutable report type lookup built once at startup
type Registry struct {
	descriptors     map[ReportType]*Descriptor
	fallbackColumns []Column
}

// NewRegistry builds the registry over the bundled sample datasets
func NewRegistry() *Registry {
	r, err := newRegistry(sampleDescriptors())
	if err != nil {
		panic(err)
	}
	return r
}

func newRegistry(descriptors []*Descriptor) (*Registry, error) {
	r := &Registry{
		descriptors:     make(map[ReportType]*Descriptor, len(descriptors)),
		fallbackColumns: columnsOf(reflect.TypeFor[unimplementedRow]()),
	}
	for _, d := range descriptors {
		if _, dup := r.descriptors[d.Key]; dup {
			return nil, fmt.Errorf("report type %s registered twice", d.Key)
		}
		if err := d.validate(); err != nil {
			return nil, err
		}
		r.descriptors[d.Key] = d
	}
	for _, key := range AllReportTypes {
		if _, ok := r.descriptors[key]; !ok {
			return nil, fmt.Errorf("report type %s has no descriptor", key)
		}
	}
	if len(r.descriptors) != len(AllReportTypes) {
		return nil, fmt.Errorf("registry has %d descriptors for %d report types", len(r.descriptors), len(AllReportTypes))
	}
	return r, nil
}

// Has reports whether key is a registered report type
func (r *Registry) Has(key ReportType) bool {
	_, ok := r.descriptors[key]
	return ok
}

// Lookup never fails: unknown keys resolve to the unimplemented descriptor,
// whose single row names the requested key
func (r *Registry) Lookup(key ReportType) *Descriptor {
	if d, ok := r.descriptors[key]; ok {
		return d
	}
	return &Descriptor{
		Key:        ReportTypeUnimplemented,
		Title:      "Unimplemented Report",
		Columns:    r.fallbackColumns,
		filterKeys: map[FilterField]string{},
		rows: []Row{rowOf(unimplementedRow{
			Message:    unimplementedMessage,
			ReportType: string(key),
		})},
	}
}

// Columns returns the schema for key; the same slice on every call
func (r *Registry) Columns(key ReportType) []Column {
	return r.Lookup(key).Columns
}

// Types lists the registered report types in picker order
func (r *Registry) Types() []ReportTypeInfo {
	infos := make([]ReportTypeInfo, 0, len(AllReportTypes))
	for _, key := range AllReportTypes {
		infos = append(infos, r.descriptors[key].Info())
	}
	return infos
}
