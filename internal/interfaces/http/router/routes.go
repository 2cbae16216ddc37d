package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/invoicedash/backend/internal/application/mutation"
	"github.com/invoicedash/backend/internal/interfaces/http/handler"
)

// Handlers bundles everything the dashboard serves
type Handlers struct {
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Mutations []*handler.MutationHandler
	System    *handler.SystemHandler
}

// Guards are the middleware placed in front of route groups. Both are optional.
type Guards struct {
	// Session protects the dashboard pages and the JSON API
	Session gin.HandlerFunc
	// LoginRate throttles sign in attempts
	LoginRate gin.HandlerFunc
}

// Register mounts every route:
//
//	GET  /health
//	POST /login, /logout
//	POST /dashboard/{kind}/create, /dashboard/{kind}/:id/edit, /dashboard/{kind}/:id/delete
//	GET  /api/auth/me, /api/system/info, /api/dashboard/...
func Register(engine *gin.Engine, h Handlers, g Guards) {
	engine.GET("/health", h.System.Health)

	NewRouter(engine).Register(authRoutes(h.Auth, g.LoginRate)).Setup()

	pages := NewRouter(engine, WithPrefix("/dashboard"), WithMiddleware(g.Session))
	for _, m := range h.Mutations {
		pages.Register(mutationRoutes(m))
	}
	pages.Setup()

	NewRouter(engine, WithPrefix("/api"), WithMiddleware(g.Session)).
		Register(sessionRoutes(h.Auth), systemRoutes(h.System), dashboardRoutes(h.Dashboard)).
		Setup()
}

func authRoutes(h *handler.AuthHandler, rate gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup("auth", "").
		Use(rate).
		POST("/login", h.Login).
		POST("/logout", h.Logout)
}

// mutationRoutes mounts the form posts of one entity kind, e.g. /invoices/create
func mutationRoutes(h *handler.MutationHandler) *DomainGroup {
	return NewDomainGroup(string(h.Kind()), kindSegment(h.Kind())).
		POST("/create", h.Create).
		POST("/:id/edit", h.Update).
		POST("/:id/delete", h.Delete)
}

func kindSegment(kind mutation.Kind) string {
	return "/" + strings.ToLower(string(kind)) + "s"
}

func sessionRoutes(h *handler.AuthHandler) *DomainGroup {
	return NewDomainGroup("session", "/auth").GET("/me", h.Me)
}

func systemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "/system").GET("/info", h.GetSystemInfo)
}

func dashboardRoutes(h *handler.DashboardHandler) *DomainGroup {
	g := NewDomainGroup("dashboard", "/dashboard").
		GET("/cards", h.Cards).
		GET("/revenue", h.Revenue).
		GET("/latest-invoices", h.LatestInvoices)

	g.Group("invoices", "/invoices").
		GET("", h.ListInvoices).
		GET("/pages", h.InvoicePages).
		GET("/:id", h.GetInvoice)

	g.Group("customers", "/customers").
		GET("", h.ListCustomers).
		GET("/pages", h.CustomerPages).
		GET("/options", h.CustomerOptions).
		GET("/:id", h.GetCustomer)

	g.Group("expenses", "/expenses").
		GET("", h.ListExpenses).
		GET("/pages", h.ExpensePages).
		GET("/:id", h.GetExpense)

	g.Group("contacts", "/contacts").
		GET("", h.ListContacts).
		GET("/:id", h.GetContact)

	return g
}
