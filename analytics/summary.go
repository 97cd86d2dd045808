package analytics

import "time"

type SummaryStats struct {
	TotalRevenue         float64 `json:"total_revenue"`
	TotalCount           int     `json:"total_count"`
	UniqueStudents       int     `json:"unique_students"`
	UniqueCourses        int     `json:"unique_courses"`
	TodayRevenue         float64 `json:"today_revenue"`
	TodayCount           int     `json:"today_count"`
	ThisMonthRevenue     float64 `json:"this_month_revenue"`
	PreviousMonthRevenue float64 `json:"previous_month_revenue"`
	MonthlyGrowthPct     float64 `json:"monthly_growth_pct"`
	AverageAmount        float64 `json:"average_amount"`
}

// BuildSummary computes dashboard totals in a single pass. Payments with an
// unreadable createdAt still count towards the totals but not towards any
// of the dated windows.
func BuildSummary(completed []*PaymentRecord, now time.Time) SummaryStats {
	loc := now.Location()
	today := window{start: startOfDay(now)}
	today.end = today.start.AddDate(0, 0, 1)
	thisMonth := window{start: startOfMonth(now)}
	thisMonth.end = thisMonth.start.AddDate(0, 1, 0)
	prevMonth := window{start: thisMonth.start.AddDate(0, -1, 0), end: thisMonth.start}

	var total, todayTally, thisMonthTally, prevMonthTally tally
	students := map[ID]struct{}{}
	courses := map[ID]struct{}{}

	for _, p := range completed {
		if p == nil {
			continue
		}
		total.add(p.Amount)
		if p.User != nil && p.User.ID != "" {
			students[p.User.ID] = struct{}{}
		}
		if p.Course != nil && p.Course.ID != "" {
			courses[p.Course.ID] = struct{}{}
		}

		at, ok := ParseCreatedAt(p.CreatedAt, loc)
		if !ok {
			continue
		}
		if today.contains(at) {
			todayTally.add(p.Amount)
		}
		switch {
		case thisMonth.contains(at):
			thisMonthTally.add(p.Amount)
		case prevMonth.contains(at):
			prevMonthTally.add(p.Amount)
		}
	}

	return SummaryStats{
		TotalRevenue:         total.Revenue(),
		TotalCount:           total.count,
		UniqueStudents:       len(students),
		UniqueCourses:        len(courses),
		TodayRevenue:         todayTally.Revenue(),
		TodayCount:           todayTally.count,
		ThisMonthRevenue:     thisMonthTally.Revenue(),
		PreviousMonthRevenue: prevMonthTally.Revenue(),
		MonthlyGrowthPct:     GrowthPct(thisMonthTally.Revenue(), prevMonthTally.Revenue()),
		AverageAmount:        total.Average(),
	}
}
