package analytics

import "time"

// Report bundles the three dashboard views computed from one payment list.
type Report struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Summary     SummaryStats      `json:"summary"`
	TimeSeries  TimeSeries        `json:"timeseries"`
	Courses     []CourseAggregate `json:"courses"`
}

// BuildReport filters records once and runs every aggregator against the
// same completed list and the same now.
func BuildReport(records []*PaymentRecord, now time.Time, titles TitleMapping) Report {
	completed := FilterCompleted(records)
	return Report{
		GeneratedAt: now,
		Summary:     BuildSummary(completed, now),
		TimeSeries:  BuildTimeSeries(completed, now),
		Courses:     BuildCourseAggregatesIn(completed, titles, now.Location()),
	}
}
