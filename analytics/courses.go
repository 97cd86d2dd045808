package analytics

import (
	"sort"
	"strings"
	"time"
)

type MethodShare struct {
	Method     string  `json:"method"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type CourseAggregate struct {
	CourseID           string        `json:"course_id"`
	Title              string        `json:"title"`
	Revenue            float64       `json:"revenue"`
	Count              int           `json:"count"`
	UniqueStudentCount int           `json:"unique_students"`
	AverageAmount      float64       `json:"average_amount"`
	MonthlyRevenue     [12]float64   `json:"monthly_revenue"`
	PaymentMethods     []MethodShare `json:"payment_methods"`
	FirstSeen          time.Time     `json:"first_seen"`
	LastSeen           time.Time     `json:"last_seen"`
	DurationDays       int           `json:"duration_days"`
}

type courseGroup struct {
	courseID string
	title    string
	total    tally
	monthly  [12]tally
	students map[string]struct{}
	methods  map[string]int
	order    []string
	first    time.Time
	last     time.Time
}

func (g *courseGroup) add(r datedRecord) {
	g.total.add(r.Amount)
	g.monthly[r.at.Month()-1].add(r.Amount)
	g.students[r.userKey()] = struct{}{}

	m := r.method()
	if _, seen := g.methods[m]; !seen {
		g.order = append(g.order, m)
	}
	g.methods[m]++

	if g.first.IsZero() || r.at.Before(g.first) {
		g.first = r.at
	}
	if g.last.IsZero() || r.at.After(g.last) {
		g.last = r.at
	}
}

func (g *courseGroup) aggregate() CourseAggregate {
	agg := CourseAggregate{
		CourseID:           g.courseID,
		Title:              g.title,
		Revenue:            g.total.Revenue(),
		Count:              g.total.count,
		UniqueStudentCount: len(g.students),
		AverageAmount:      g.total.Average(),
		FirstSeen:          g.first,
		LastSeen:           g.last,
		DurationDays:       calendarDays(g.first, g.last),
	}
	for i := range g.monthly {
		agg.MonthlyRevenue[i] = g.monthly[i].Revenue()
	}
	agg.PaymentMethods = make([]MethodShare, 0, len(g.order))
	for _, m := range g.order {
		agg.PaymentMethods = append(agg.PaymentMethods, MethodShare{
			Method:     m,
			Count:      g.methods[m],
			Percentage: percentage(g.methods[m], g.total.count),
		})
	}
	return agg
}

// calendarDays counts the calendar dates between first and last in their
// own location. Dates are compared in UTC so a DST change in between does
// not shorten the span.
func calendarDays(first, last time.Time) int {
	fy, fm, fd := first.Date()
	ly, lm, ld := last.Date()
	from := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	to := time.Date(ly, lm, ld, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// BuildCourseAggregates groups completed payments by display title and
// returns one rollup per course, highest revenue first. Courses with equal
// revenue keep the order in which they were first seen.
//
// MonthlyRevenue is a month-of-year profile: payments from different years
// in the same calendar month share a slot.
func BuildCourseAggregates(completed []*PaymentRecord, titles TitleMapping) []CourseAggregate {
	return BuildCourseAggregatesIn(completed, titles, time.Local)
}

// BuildCourseAggregatesIn is BuildCourseAggregates with timestamps read,
// and months attributed, in loc.
func BuildCourseAggregatesIn(completed []*PaymentRecord, titles TitleMapping, loc *time.Location) []CourseAggregate {
	groups := map[string]*courseGroup{}
	var order []*courseGroup

	for _, r := range dated(completed, loc) {
		if r.Course == nil || strings.TrimSpace(r.Course.Title) == "" {
			continue
		}
		title := titles.Canonical(r.Course.Title)
		g, ok := groups[title]
		if !ok {
			g = &courseGroup{
				courseID: string(r.Course.ID),
				title:    title,
				students: map[string]struct{}{},
				methods:  map[string]int{},
			}
			groups[title] = g
			order = append(order, g)
		}
		g.add(r)
	}

	out := make([]CourseAggregate, 0, len(order))
	for _, g := range order {
		out = append(out, g.aggregate())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue > out[j].Revenue
	})
	return out
}
