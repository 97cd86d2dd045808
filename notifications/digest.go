package notifications

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/anjiri1684/course_analytics/analytics"
)

// RenderDigest builds the daily revenue email for the given summary. Up to
// three top courses are listed when provided.
func RenderDigest(day time.Time, s analytics.SummaryStats, top []analytics.CourseAggregate) (subject, body string) {
	subject = fmt.Sprintf("Revenue digest for %s", day.Format("02 Jan 2006"))

	var b strings.Builder
	b.WriteString("<h1>Daily Revenue Digest</h1>")
	fmt.Fprintf(&b, "<p><b>Today:</b> %s from %d payments</p>", money(s.TodayRevenue), s.TodayCount)
	fmt.Fprintf(&b, "<p><b>This month:</b> %s (previous month %s, %s)</p>",
		money(s.ThisMonthRevenue), money(s.PreviousMonthRevenue), signedPct(s.MonthlyGrowthPct))
	fmt.Fprintf(&b, "<p><b>All time:</b> %s from %d payments, %d students, %d courses. Average payment %s.</p>",
		money(s.TotalRevenue), s.TotalCount, s.UniqueStudents, s.UniqueCourses, money(s.AverageAmount))

	if len(top) > 3 {
		top = top[:3]
	}
	if len(top) > 0 {
		b.WriteString("<h2>Top courses</h2><ol>")
		for _, c := range top {
			fmt.Fprintf(&b, "<li>%s: %s (%d students)</li>", html.EscapeString(c.Title), money(c.Revenue), c.UniqueStudentCount)
		}
		b.WriteString("</ol>")
	}
	return subject, b.String()
}

func money(v float64) string {
	return fmt.Sprintf("৳%.2f", v)
}

func signedPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}
