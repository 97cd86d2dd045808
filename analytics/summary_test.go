package analytics

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildSummary_EndToEnd(t *testing.T) {
	s := BuildSummary(FilterCompleted(endToEndRecords()), testNow)

	assert.Equal(t, 1500.0, s.TotalRevenue)
	assert.Equal(t, 2, s.TotalCount)
	assert.Equal(t, 2, s.UniqueStudents)
	assert.Equal(t, 1, s.UniqueCourses)
	assert.Equal(t, 750.0, s.AverageAmount)
}

func TestBuildSummary_Windows(t *testing.T) {
	completed := []*PaymentRecord{
		payment("1", "completed", 1000, "2026-10-14T01:00:00Z").forCourse("c1", "A").byUser("u1"),
		payment("2", "completed", 500, "2026-10-14T23:59:59Z").forCourse("c1", "A").byUser("u2"),
		payment("3", "completed", 300, "2026-10-02T10:00:00Z").forCourse("c2", "B").byUser("u1"),
		payment("4", "completed", 900, "2026-09-30T23:59:59Z").forCourse("c2", "B"),
		payment("5", "completed", 100, "2026-09-01T00:00:00Z"),
		payment("6", "completed", 50, "2026-08-31T23:59:59Z"),
		payment("7", "completed", 70, "unknown"),
	}

	s := BuildSummary(completed, testNow)

	assert.Equal(t, 2920.0, s.TotalRevenue)
	assert.Equal(t, 7, s.TotalCount)
	assert.Equal(t, 2, s.UniqueStudents, "payments without a user are not students here")
	assert.Equal(t, 2, s.UniqueCourses)
	assert.Equal(t, 1500.0, s.TodayRevenue)
	assert.Equal(t, 2, s.TodayCount)
	assert.Equal(t, 1800.0, s.ThisMonthRevenue)
	assert.Equal(t, 1000.0, s.PreviousMonthRevenue)
	assert.Equal(t, 80.0, s.MonthlyGrowthPct)
	assert.Equal(t, 417.14, s.AverageAmount)
}

func TestBuildSummary_PreviousMonthAcrossYear(t *testing.T) {
	now := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	completed := []*PaymentRecord{
		payment("1", "completed", 400, "2025-12-15T00:00:00Z"),
		payment("2", "completed", 100, "2026-01-05T00:00:00Z"),
	}

	s := BuildSummary(completed, now)

	assert.Equal(t, 100.0, s.ThisMonthRevenue)
	assert.Equal(t, 400.0, s.PreviousMonthRevenue)
	assert.Equal(t, -75.0, s.MonthlyGrowthPct)
}

func TestBuildSummary_GrowthFromEmptyMonth(t *testing.T) {
	completed := []*PaymentRecord{payment("1", "completed", 100, "2026-10-05T00:00:00Z")}

	assert.Equal(t, 100.0, BuildSummary(completed, testNow).MonthlyGrowthPct)
}

func TestBuildSummary_Empty(t *testing.T) {
	assert.Equal(t, SummaryStats{}, BuildSummary(nil, testNow))
	assert.Equal(t, SummaryStats{}, BuildSummary([]*PaymentRecord{nil}, testNow))
}

func TestBuildSummary_NoNaNOrInf(t *testing.T) {
	for _, completed := range [][]*PaymentRecord{
		nil,
		{payment("1", "completed", 0, "2026-10-14T00:00:00Z")},
		{payment("1", "completed", 0, "bad")},
	} {
		v := reflect.ValueOf(BuildSummary(completed, testNow))
		for i := 0; i < v.NumField(); i++ {
			if f, ok := v.Field(i).Interface().(float64); ok {
				assert.False(t, math.IsNaN(f) || math.IsInf(f, 0), v.Type().Field(i).Name)
			}
		}
	}
}

func TestBuildSummary_Deterministic(t *testing.T) {
	completed := []*PaymentRecord{
		payment("1", "completed", 10.1, "2026-10-14T01:00:00Z").byUser("u"),
		payment("2", "completed", 20.2, "2026-09-14T01:00:00Z").forCourse("c", "C"),
	}

	assert.Equal(t, BuildSummary(completed, testNow), BuildSummary(completed, testNow))
}
