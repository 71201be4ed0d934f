package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/leadcrm/pkg/api/middleware"
	"github.com/jordanlanch/leadcrm/pkg/auth"
)

// Router bundles the handlers and the middleware that guards them
type Router struct {
	Leads     *LeadHandler
	Users     *UserHandler
	Emails    *EmailHandler
	Dashboard *DashboardHandler
	Jobs      *JobsHandler
	Health    *HealthHandler

	// Auth is the bearer token gate
	Auth echo.MiddlewareFunc
	// LoginLimiter throttles POST /api/userLG/login. Optional.
	LoginLimiter echo.MiddlewareFunc
}

// Register mounts every route on e
func (r Router) Register(e *echo.Echo) {
	need := middleware.RequireCapability

	if r.Health != nil {
		e.GET("/", r.Health.Root)
		e.GET("/health", r.Health.Health)
	}

	api := e.Group("/api")

	login := []echo.MiddlewareFunc{}
	if r.LoginLimiter != nil {
		login = append(login, r.LoginLimiter)
	}
	api.POST("/userLG/login", r.Users.Login, login...)

	protected := api.Group("", r.Auth)

	leads := protected.Group("/leads")
	leads.GET("", r.Leads.ListOwn, need(auth.CapLeadListOwn))
	leads.GET("/tl", r.Leads.ListAll, need(auth.CapLeadListAll))
	leads.GET("/unassigned", r.Leads.ListUnassigned, need(auth.CapLeadListUnassigned))
	leads.GET("/:id", r.Leads.Get, need(auth.CapLeadRead))
	leads.GET("/:id/assignments", r.Leads.History, need(auth.CapLeadListAll))
	leads.POST("", r.Leads.Create, need(auth.CapLeadCreate))
	leads.PATCH("/:id", r.Leads.Update)
	leads.DELETE("/:id", r.Leads.Delete, need(auth.CapLeadDelete))

	users := protected.Group("/userLG")
	users.POST("/signup", r.Users.Signup, need(auth.CapUserManage))
	users.POST("/logout", r.Users.Logout)
	users.GET("", r.Users.List, need(auth.CapUserManage))
	users.GET("/me", r.Users.Me)
	users.GET("/:id", r.Users.Get)
	users.PATCH("/:id", r.Users.Update)

	protected.POST("/emails", r.Emails.Send, need(auth.CapEmailSend))
	protected.GET("/emails", r.Emails.List, need(auth.CapDashboardView))

	protected.GET("/inventories/inventory", r.Dashboard.Inventory, need(auth.CapDashboardView))
	protected.GET("/bookings/recent-bookings", r.Dashboard.RecentBookings, need(auth.CapDashboardView))
	protected.GET("/services/booked-units-performance", r.Dashboard.BookedUnits, need(auth.CapDashboardView))
	protected.GET("/reports/dashboard", r.Dashboard.Report, need(auth.CapDashboardView))

	if r.Jobs != nil {
		protected.POST("/jobs/daily-digest", r.Jobs.RunDailyDigest, need(auth.CapUserManage))
		protected.POST("/jobs/warm-cache", r.Jobs.WarmCache, need(auth.CapDashboardView))
	}
}
