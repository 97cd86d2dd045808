package analytics

import "time"

const (
	yearsInSeries = 5
	weeksInSeries = 12
	daysInSeries  = 30

	// WeekStart is the first day of a weekly window.
	WeekStart = time.Sunday
)

// TimeBucket covers [Start, End). End is the start of the following
// period, so the last second of a period still falls inside it.
type TimeBucket struct {
	Period  string    `json:"period"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Revenue float64   `json:"revenue"`
	Count   int       `json:"count"`
	Average float64   `json:"average"`
	Growth  *float64  `json:"growth,omitempty"`
}

type TimeSeries struct {
	Yearly  []TimeBucket `json:"yearly"`
	Monthly []TimeBucket `json:"monthly"`
	Weekly  []TimeBucket `json:"weekly"`
	Daily   []TimeBucket `json:"daily"`
}

// Bucket names accepted by TimeSeries.Period.
const (
	PeriodYearly  = "yearly"
	PeriodMonthly = "monthly"
	PeriodWeekly  = "weekly"
	PeriodDaily   = "daily"
)

// Period returns the buckets for one granularity, or nil for an unknown name.
func (ts TimeSeries) Period(name string) []TimeBucket {
	switch name {
	case PeriodYearly:
		return ts.Yearly
	case PeriodMonthly:
		return ts.Monthly
	case PeriodWeekly:
		return ts.Weekly
	case PeriodDaily:
		return ts.Daily
	}
	return nil
}

// BuildTimeSeries buckets completed payments into yearly, monthly, weekly
// and daily windows relative to now, in now's location.
func BuildTimeSeries(completed []*PaymentRecord, now time.Time) TimeSeries {
	loc := now.Location()
	records := dated(completed, loc)

	ts := TimeSeries{
		Yearly:  fill(yearWindows(now), records),
		Monthly: fill(monthWindows(now), records),
		Weekly:  fill(weekWindows(now), records),
		Daily:   fill(dayWindows(now), records),
	}

	for i := 1; i < len(ts.Yearly); i++ {
		g := GrowthPct(ts.Yearly[i].Revenue, ts.Yearly[i-1].Revenue)
		ts.Yearly[i].Growth = &g
	}
	return ts
}

type window struct {
	label      string
	start, end time.Time
}

func (w window) contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.end)
}

// fill sums records into ascending windows. Windows never overlap, so a
// record lands in at most one of them.
func fill(windows []window, records []datedRecord) []TimeBucket {
	tallies := make([]tally, len(windows))
	for _, r := range records {
		for i, w := range windows {
			if w.contains(r.at) {
				tallies[i].add(r.Amount)
				break
			}
		}
	}

	buckets := make([]TimeBucket, len(windows))
	for i, w := range windows {
		buckets[i] = TimeBucket{
			Period:  w.label,
			Start:   w.start,
			End:     w.end,
			Revenue: tallies[i].Revenue(),
			Count:   tallies[i].count,
			Average: tallies[i].Average(),
		}
	}
	return buckets
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) - int(WeekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

func yearWindows(now time.Time) []window {
	windows := make([]window, 0, yearsInSeries)
	for y := now.Year() - yearsInSeries + 1; y <= now.Year(); y++ {
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, now.Location())
		windows = append(windows, window{
			label: start.Format("2006"),
			start: start,
			end:   start.AddDate(1, 0, 0),
		})
	}
	return windows
}

// monthWindows always spans January to December of the current year;
// months that have not happened yet simply stay empty.
func monthWindows(now time.Time) []window {
	windows := make([]window, 0, 12)
	for m := time.January; m <= time.December; m++ {
		start := time.Date(now.Year(), m, 1, 0, 0, 0, 0, now.Location())
		windows = append(windows, window{
			label: start.Format("Jan"),
			start: start,
			end:   start.AddDate(0, 1, 0),
		})
	}
	return windows
}

func weekWindows(now time.Time) []window {
	current := startOfWeek(now)
	windows := make([]window, 0, weeksInSeries)
	for i := weeksInSeries - 1; i >= 0; i-- {
		start := current.AddDate(0, 0, -7*i)
		windows = append(windows, window{
			label: start.Format("Jan 02"),
			start: start,
			end:   start.AddDate(0, 0, 7),
		})
	}
	return windows
}

func dayWindows(now time.Time) []window {
	today := startOfDay(now)
	windows := make([]window, 0, daysInSeries)
	for i := daysInSeries - 1; i >= 0; i-- {
		start := today.AddDate(0, 0, -i)
		windows = append(windows, window{
			label: start.Format("Jan 02"),
			start: start,
			end:   start.AddDate(0, 0, 1),
		})
	}
	return windows
}
