package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anjiri1684/course_analytics/analytics"
	"github.com/anjiri1684/course_analytics/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var handlerNow = time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)

type fakeReporter struct {
	records  []*analytics.PaymentRecord
	err      error
	from, to time.Time
}

func (f *fakeReporter) Report(ctx context.Context) (*analytics.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := analytics.BuildReport(f.records, handlerNow, analytics.TitleMapping{"web-dev": "Web Development, Complete"})
	return &r, nil
}

func (f *fakeReporter) Refresh(ctx context.Context) (*analytics.Report, error) {
	return f.Report(ctx)
}

func (f *fakeReporter) PaymentsBetween(ctx context.Context, from, to time.Time) ([]*analytics.PaymentRecord, error) {
	f.from, f.to = from, to
	return f.records, f.err
}

func (f *fakeReporter) Now() time.Time { return handlerNow }

func sampleRecords() []*analytics.PaymentRecord {
	return []*analytics.PaymentRecord{
		{ID: "p1", TransactionID: "T1", Status: "completed", Amount: 1000, CreatedAt: "2026-10-14T09:00:00Z",
			Course: &analytics.CourseRef{ID: "c1", Title: "web-dev"}, User: &analytics.UserRef{ID: "u1", Name: "Rahim"}},
		{ID: "p2", TransactionID: "T2", Status: "complete", Amount: 500, CreatedAt: "2026-09-20T09:00:00Z",
			Course: &analytics.CourseRef{ID: "c1", Title: "web-dev"}, User: &analytics.UserRef{ID: "u2"}},
		{ID: "p3", TransactionID: "T3", Status: "failed", Amount: 200, CreatedAt: "2026-10-13T09:00:00Z"},
		{ID: "p4", TransactionID: "T4", Status: "completed", Amount: 300, CreatedAt: "2025-01-01T09:00:00Z"},
	}
}

func newTestApp(r AnalyticsReporter) *fiber.App {
	h := &AnalyticsHandler{Service: r}
	app := fiber.New()
	app.Get("/summary", h.GetSummary)
	app.Get("/timeseries", h.GetTimeSeries)
	app.Get("/courses", h.GetCourses)
	app.Get("/report", h.GetReport)
	app.Post("/refresh", h.RefreshAnalytics)
	app.Get("/reports/courses", h.ExportCourses)
	app.Get("/reports/timeseries", h.ExportTimeSeries)
	app.Get("/reports/transactions", h.ExportTransactions)
	return app
}

func do(t *testing.T, app *fiber.App, method, target string) (int, []byte, http.Header) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body, resp.Header
}

func TestGetSummary(t *testing.T) {
	status, body, _ := do(t, newTestApp(&fakeReporter{records: sampleRecords()}), http.MethodGet, "/summary")
	require.Equal(t, http.StatusOK, status)

	var s analytics.SummaryStats
	require.NoError(t, json.Unmarshal(body, &s))
	assert.Equal(t, 1800.0, s.TotalRevenue)
	assert.Equal(t, 3, s.TotalCount)
	assert.Equal(t, 1000.0, s.TodayRevenue)
	assert.Equal(t, 100.0, s.MonthlyGrowthPct)
}

func TestGetTimeSeries(t *testing.T) {
	app := newTestApp(&fakeReporter{records: sampleRecords()})

	status, body, _ := do(t, app, http.MethodGet, "/timeseries")
	require.Equal(t, http.StatusOK, status)
	var ts analytics.TimeSeries
	require.NoError(t, json.Unmarshal(body, &ts))
	assert.Len(t, ts.Yearly, 5)
	assert.Len(t, ts.Monthly, 12)
	assert.Len(t, ts.Weekly, 12)
	assert.Len(t, ts.Daily, 30)

	status, body, _ = do(t, app, http.MethodGet, "/timeseries?period=yearly")
	require.Equal(t, http.StatusOK, status)
	var one struct {
		Period  string                 `json:"period"`
		Buckets []analytics.TimeBucket `json:"buckets"`
	}
	require.NoError(t, json.Unmarshal(body, &one))
	assert.Equal(t, "yearly", one.Period)
	require.Len(t, one.Buckets, 5)
	assert.Equal(t, "2026", one.Buckets[4].Period)
	assert.Equal(t, 1500.0, one.Buckets[4].Revenue)

	status, _, _ = do(t, app, http.MethodGet, "/timeseries?period=hourly")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetCourses(t *testing.T) {
	status, body, _ := do(t, newTestApp(&fakeReporter{records: sampleRecords()}), http.MethodGet, "/courses")
	require.Equal(t, http.StatusOK, status)

	var courses []analytics.CourseAggregate
	require.NoError(t, json.Unmarshal(body, &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "Web Development, Complete", courses[0].Title)
	assert.Equal(t, 2, courses[0].UniqueStudentCount)
}

func TestAnalyticsErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "upstream", err: errors.New("refresh analytics: status 503"), status: http.StatusBadGateway},
		{name: "no source", err: services.ErrNoSource, status: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeReporter{err: tt.err})
			for _, path := range []string{"/summary", "/courses", "/report", "/reports/courses", "/reports/transactions"} {
				status, body, _ := do(t, app, http.MethodGet, path)
				assert.Equal(t, tt.status, status, path)
				assert.Contains(t, string(body), `"error"`)
			}
			status, _, _ := do(t, app, http.MethodPost, "/refresh")
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestExportCourses(t *testing.T) {
	status, body, header := do(t, newTestApp(&fakeReporter{records: sampleRecords()}), http.MethodGet, "/reports/courses")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "text/csv", header.Get("Content-Type"))
	assert.Contains(t, header.Get("Content-Disposition"), "courses_2026-10-14.csv")

	lines := strings.Split(string(body), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "title,revenue,count,unique_students,average_amount,first_seen,last_seen,duration_days", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"Web Development, Complete",1500,2,2,750,`))
}

func TestExportTimeSeries(t *testing.T) {
	app := newTestApp(&fakeReporter{records: sampleRecords()})

	status, _, _ := do(t, app, http.MethodGet, "/reports/timeseries")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body, _ := do(t, app, http.MethodGet, "/reports/timeseries?period=yearly")
	require.Equal(t, http.StatusOK, status)
	lines := strings.Split(string(body), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "period,revenue,count,average,growth", lines[0])
	assert.Equal(t, "2022,0,0,0,", lines[1])
	assert.Equal(t, "2026,1500,2,750,400", lines[5])
}

func TestExportTransactions(t *testing.T) {
	reporter := &fakeReporter{records: sampleRecords()}
	app := newTestApp(reporter)

	status, body, header := do(t, app, http.MethodGet, "/reports/transactions?start_date=2026-10-01&end_date=2026-10-14")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), reporter.from)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), reporter.to, "end_date is inclusive")
	assert.Contains(t, header.Get("Content-Disposition"), "transactions_2026-10-01_to_2026-10-14.csv")
	lines := strings.Split(string(body), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "transaction_id,date,student,email,course,amount,method,status", lines[0])
	assert.Equal(t, "T1,2026-10-14T09:00:00Z,Rahim,,web-dev,1000,SSLCommerz,completed", lines[1])

	status, body, _ = do(t, app, http.MethodGet, "/reports/transactions")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, strings.Split(string(body), "\n"), 3, "default range covers the last month")

	status, body, _ = do(t, app, http.MethodGet, "/reports/transactions?start_date=2020-01-01&end_date=2020-01-02")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "transaction_id,date,student,email,course,amount,method,status", string(body), "an empty range still has a header")

	status, _, _ = do(t, app, http.MethodGet, "/reports/transactions?start_date=14-10-2026")
	assert.Equal(t, http.StatusBadRequest, status)
	status, _, _ = do(t, app, http.MethodGet, "/reports/transactions?start_date=2026-10-14&end_date=2026-10-01")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPagination(t *testing.T) {
	tests := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"1", "10", 1, 10},
		{"3", "25", 3, 25},
		{"0", "10", 1, 10},
		{"x", "y", 1, defaultPageSize},
		{"2", "-5", 2, defaultPageSize},
		{"4", "0", 1, 0},
		{"1", "100000", 1, maxPageSize},
	}
	for _, tt := range tests {
		page, limit := pagination(tt.page, tt.limit)
		assert.Equal(t, tt.wantPage, page, "page=%s limit=%s", tt.page, tt.limit)
		assert.Equal(t, tt.wantLimit, limit, "page=%s limit=%s", tt.page, tt.limit)
	}

	assert.Equal(t, 1, lastPage(0, 10))
	assert.Equal(t, 1, lastPage(42, 0))
	assert.Equal(t, 5, lastPage(42, 10))
}
