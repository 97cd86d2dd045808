package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Field is one named CSV cell.
type Field struct {
	Key   string
	Value any
}

// Row keeps its fields in column order.
type Row []Field

func (r Row) get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Nested fields that are never flattened into a CSV column.
const (
	FieldMonthlyRevenue = "monthly_revenue"
	FieldPaymentMethods = "payment_methods"
)

var defaultExcluded = []string{FieldMonthlyRevenue, FieldPaymentMethods}

// ToCSV renders rows with the header taken from the first row. Only values
// containing a comma are quoted; quotes and newlines inside values are
// written as-is, which is what existing report consumers parse.
func ToCSV(rows []Row) string {
	return ToCSVExcluding(rows, defaultExcluded...)
}

// ToCSVExcluding is ToCSV with an explicit list of field names to leave out.
func ToCSVExcluding(rows []Row, excluded ...string) string {
	if len(rows) == 0 {
		return ""
	}
	skip := make(map[string]struct{}, len(excluded))
	for _, name := range excluded {
		skip[name] = struct{}{}
	}

	var headers []string
	for _, f := range rows[0] {
		if _, ok := skip[f.Key]; !ok {
			headers = append(headers, f.Key)
		}
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(headers, ","))
	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, h := range headers {
			v, _ := row.get(h)
			cells[i] = csvCell(v)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

func csvCell(v any) string {
	s := formatValue(v)
	if strings.Contains(s, ",") {
		return `"` + s + `"`
	}
	return s
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case Amount:
		return strconv.FormatFloat(float64(x), 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	case *float64:
		if x == nil {
			return ""
		}
		return strconv.FormatFloat(*x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// BucketRows projects time buckets onto CSV rows.
func BucketRows(buckets []TimeBucket) []Row {
	rows := make([]Row, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, Row{
			{"period", b.Period},
			{"revenue", b.Revenue},
			{"count", b.Count},
			{"average", b.Average},
			{"growth", b.Growth},
		})
	}
	return rows
}

// CourseRows projects course aggregates onto CSV rows. The nested monthly
// profile and method breakdown stay in the row for JSON consumers and are
// dropped by ToCSV.
func CourseRows(courses []CourseAggregate) []Row {
	rows := make([]Row, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, Row{
			{"title", c.Title},
			{"revenue", c.Revenue},
			{"count", c.Count},
			{"unique_students", c.UniqueStudentCount},
			{"average_amount", c.AverageAmount},
			{FieldMonthlyRevenue, c.MonthlyRevenue},
			{FieldPaymentMethods, c.PaymentMethods},
			{"first_seen", c.FirstSeen},
			{"last_seen", c.LastSeen},
			{"duration_days", c.DurationDays},
		})
	}
	return rows
}

// PaymentColumns is the column order of PaymentRows.
var PaymentColumns = []string{"transaction_id", "date", "student", "email", "course", "amount", "method", "status"}

// PaymentsCSV renders payments as CSV. With no payments it is still the
// header line, so an empty export stays a valid file.
func PaymentsCSV(payments []*PaymentRecord) string {
	rows := PaymentRows(payments)
	if len(rows) == 0 {
		return strings.Join(PaymentColumns, ",")
	}
	return ToCSV(rows)
}

// PaymentRows projects individual payments onto CSV rows.
func PaymentRows(payments []*PaymentRecord) []Row {
	rows := make([]Row, 0, len(payments))
	for _, p := range payments {
		if p == nil {
			continue
		}
		var student, email, course string
		if p.User != nil {
			student, email = p.User.Name, p.User.Email
		}
		if p.Course != nil {
			course = p.Course.Title
		}
		values := []any{p.TransactionID, p.CreatedAt, student, email, course, p.Amount, p.method(), p.Status}
		row := make(Row, len(PaymentColumns))
		for i, key := range PaymentColumns {
			row[i] = Field{key, values[i]}
		}
		rows = append(rows, row)
	}
	return rows
}
