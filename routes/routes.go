package routes

import (
	"github.com/anjiri1684/course_analytics/handlers"
	"github.com/anjiri1684/course_analytics/middleware"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Analytics *handlers.AnalyticsHandler
	Payments  *handlers.PaymentHandler
	JWTSecret string
}

func AuthRoutes(app *fiber.App, h Handlers) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.LoginUser)
}

func AdminRoutes(app *fiber.App, h Handlers) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(h.JWTSecret), middleware.AdminRequired())

	admin.Get("/payments", h.Payments.AdminGetPayments)

	stats := admin.Group("/analytics")
	stats.Get("", h.Analytics.GetReport)
	stats.Get("/summary", h.Analytics.GetSummary)
	stats.Get("/timeseries", h.Analytics.GetTimeSeries)
	stats.Get("/courses", h.Analytics.GetCourses)
	stats.Post("/refresh", h.Analytics.RefreshAnalytics)

	reports := admin.Group("/reports")
	reports.Get("/courses", h.Analytics.ExportCourses)
	reports.Get("/timeseries", h.Analytics.ExportTimeSeries)
	reports.Get("/transactions", h.Analytics.ExportTransactions)
}
