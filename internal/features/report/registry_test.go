package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCoversEveryReportType(t *testing.T) {
	r := NewRegistry()

	for _, key := range AllReportTypes {
		assert.True(t, r.Has(key), "missing descriptor for %s", key)
		assert.Equal(t, key, r.Lookup(key).Key)
	}

	infos := r.Types()
	require.Len(t, infos, len(AllReportTypes))
	for i, info := range infos {
		assert.Equal(t, AllReportTypes[i], info.Key)
		assert.NotEmpty(t, info.Title)
		assert.NotEmpty(t, info.Columns)
	}
}

func TestNewRegistryValidation(t *testing.T) {
	all := sampleDescriptors()

	_, err := newRegistry(all[1:])
	require.Error(t, err, "a missing report type must be rejected")
	assert.Contains(t, err.Error(), string(all[0].Key))

	_, err = newRegistry(append(all, all[0]))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registered twice")

	broken := define(ReportTypeTaskCompletion, "Broken", []TaskCompletionRow{}, withDateField("noSuchField"))
	_, err = newRegistry(append([]*Descriptor{broken}, all[1:]...))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "noSuchField")

	_, err = newRegistry(all)
	require.NoError(t, err)
}

func TestLookupUnknownTypeFallsBack(t *testing.T) {
	r := NewRegistry()

	for _, key := range []ReportType{"occupancy-forecast", "", ReportTypeUnimplemented} {
		t.Run(string(key), func(t *testing.T) {
			d := r.Lookup(key)
			assert.Equal(t, ReportTypeUnimplemented, d.Key)
			assert.False(t, d.SupportsDateRange())

			rows, err := d.Produce(ReportFilters{Property: "Villa Caldera", StartDate: "2026-01-01"})
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, []string{"message", "reportType"}, rows[0].Keys())

			msg, _ := rows[0].Get("message")
			assert.Equal(t, "Report type not yet implemented", msg)
			got, _ := rows[0].Get("reportType")
			assert.Equal(t, string(key), got)

			assert.Len(t, d.Columns, 2)
		})
	}
}

func TestColumnsAreStable(t *testing.T) {
	r := NewRegistry()

	for _, key := range append(AllReportTypes, "unknown-type") {
		first := r.Columns(key)
		second := r.Columns(key)
		require.NotEmpty(t, first)
		assert.Same(t, &first[0], &second[0], "%s returned a new column slice", key)
	}
}

func TestRowKeysMatchColumns(t *testing.T) {
	r := NewRegistry()

	for _, key := range append(AllReportTypes, "unknown-type") {
		t.Run(string(key), func(t *testing.T) {
			d := r.Lookup(key)
			rows, err := d.Produce(ReportFilters{})
			require.NoError(t, err)
			require.NotEmpty(t, rows)

			want := keysOf(d.Columns)
			for _, row := range rows {
				assert.Equal(t, want, row.Keys())
			}
		})
	}
}

func setFilter(f ReportFilters, field FilterField, v string) ReportFilters {
	switch field {
	case FilterProperty:
		f.Property = v
	case FilterAssignee:
		f.Assignee = v
	case FilterStatus:
		f.Status = v
	case FilterCategory:
		f.Category = v
	case FilterSource:
		f.Source = v
	}
	return f
}

func TestWildcardFiltersMatchUnset(t *testing.T) {
	r := NewRegistry()

	for _, key := range AllReportTypes {
		d := r.Lookup(key)
		unset, err := d.Produce(ReportFilters{})
		require.NoError(t, err)

		for _, field := range FilterFields {
			for _, wildcard := range []string{"", "all", "ALL", "  "} {
				rows, err := d.Produce(setFilter(ReportFilters{}, field, wildcard))
				require.NoError(t, err)
				assert.Len(t, rows, len(unset), "%s %s=%q", key, field, wildcard)
			}
		}
	}
}

func TestEqualityFilters(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name    string
		key     ReportType
		filters ReportFilters
		want    int
	}{
		{name: "property on tasks", key: ReportTypeTaskCompletion, filters: ReportFilters{Property: "Villa Caldera"}, want: 4},
		{name: "combined property and status", key: ReportTypeTaskCompletion, filters: ReportFilters{Property: "Villa Caldera", Status: "completed"}, want: 3},
		{name: "assignee maps to staffName", key: ReportTypeStaffProductivity, filters: ReportFilters{Assignee: "Maria Lopez"}, want: 2},
		{name: "assignee maps to inspector", key: ReportTypeComplianceAudit, filters: ReportFilters{Assignee: "Tom Becker"}, want: 3},
		{name: "category maps to serviceCategory", key: ReportTypeVendorPerformance, filters: ReportFilters{Category: "Pool"}, want: 1},
		{name: "source on bookings", key: ReportTypeBookingAnalytics, filters: ReportFilters{Source: "Airbnb"}, want: 2},
		{name: "filter without a row field passes through", key: ReportTypeInventoryLevels, filters: ReportFilters{Property: "Villa Caldera"}, want: 7},
		{name: "no match is empty, not an error", key: ReportTypeDamageHistory, filters: ReportFilters{Property: "Nowhere House"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := r.Lookup(tt.key).Produce(tt.filters)
			require.NoError(t, err)
			assert.Len(t, rows, tt.want)
			assert.NotNil(t, rows)
		})
	}
}

func TestDateRangeFiltering(t *testing.T) {
	r := NewRegistry()
	tasks := r.Lookup(ReportTypeTaskCompletion)

	rows, err := tasks.Produce(ReportFilters{StartDate: "2026-09-12", EndDate: "2026-09-20"})
	require.NoError(t, err)
	assert.Equal(t, []string{"T-1004", "T-1005", "T-1006"}, stringValues(rows, "taskId"), "bounds are inclusive")

	rows, err = tasks.Produce(ReportFilters{StartDate: "2026-09-22"})
	require.NoError(t, err)
	assert.Equal(t, []string{"T-1007", "T-1008"}, stringValues(rows, "taskId"), "open end")

	rows, err = tasks.Produce(ReportFilters{EndDate: "2026-09-05T23:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, []string{"T-1001", "T-1002"}, stringValues(rows, "taskId"), "timestamps keep the day")

	// Maintenance rows without a completion date drop out once a bound is set
	maintenance := r.Lookup(ReportTypeMaintenanceCost)
	all, err := maintenance.Produce(ReportFilters{})
	require.NoError(t, err)
	bounded, err := maintenance.Produce(ReportFilters{StartDate: "2026-01-01"})
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Len(t, bounded, 3)
}

func TestPointInTimeTypesIgnoreDateRange(t *testing.T) {
	r := NewRegistry()

	for _, key := range []ReportType{ReportTypePropertyPerformance, ReportTypeInventoryLevels, ReportTypeOperationalEfficiency, ReportTypeVendorPerformance} {
		d := r.Lookup(key)
		assert.False(t, d.SupportsDateRange(), key)

		all, err := d.Produce(ReportFilters{})
		require.NoError(t, err)
		ranged, err := d.Produce(ReportFilters{StartDate: "2030-01-01", EndDate: "2030-12-31"})
		require.NoError(t, err)
		assert.Len(t, ranged, len(all), key)
	}
}

func TestInvalidDateRange(t *testing.T) {
	tasks := NewRegistry().Lookup(ReportTypeTaskCompletion)

	_, err := tasks.Produce(ReportFilters{StartDate: "last tuesday"})
	assert.ErrorContains(t, err, "invalid start date")

	_, err = tasks.Produce(ReportFilters{StartDate: "2026-09-20", EndDate: "2026-09-01"})
	assert.ErrorContains(t, err, "before start date")
}

func TestProduceReturnsCopies(t *testing.T) {
	d := NewRegistry().Lookup(ReportTypeInventoryLevels)

	rows, err := d.Produce(ReportFilters{})
	require.NoError(t, err)
	rows[0][0].Value = "Tampered"

	again, err := d.Produce(ReportFilters{})
	require.NoError(t, err)
	name, _ := again[0].Get("itemName")
	assert.Equal(t, "Bath Towels", name)
}

func TestFiltersMerge(t *testing.T) {
	base := ReportFilters{Property: "Casa Azul", Status: "completed"}

	merged := base.Merge(ReportFilters{Assignee: "Maria Lopez"})
	assert.Equal(t, ReportFilters{Property: "Casa Azul", Status: "completed", Assignee: "Maria Lopez"}, merged)

	merged = merged.Merge(ReportFilters{Property: "all"})
	assert.Equal(t, "all", merged.Property)
	assert.Equal(t, merged, merged.Merge(ReportFilters{}))

	assert.Nil(t, ReportFilters{}.DateRange())
	assert.Equal(t, &DateRange{Start: "2026-09-01"}, ReportFilters{}.WithDateRange(&DateRange{Start: "2026-09-01"}).DateRange())
}
