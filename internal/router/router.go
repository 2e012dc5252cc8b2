package router // package router wires HTTP routes to their handlers

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/amkessy/law-practice-api/internal/handler"
	"github.com/amkessy/law-practice-api/internal/middleware"
	"github.com/amkessy/law-practice-api/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently that is only the health check, which load balancers and
// monitoring probes use to verify the service and its database are up.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers authentication routes.  Login, refresh and
// logout live under /api/auth and need no session; registration is a
// superadmin operation so new staff accounts are always provisioned by
// an administrator rather than self-service.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	authed := e.Group("/api/auth", middleware.JWTAuth(jwtSecret))
	authed.POST("/register", a.Register, middleware.RequireRole(model.RoleSuperAdmin))
	authed.GET("/me", a.Me)
	authed.PUT("/change-password", a.ChangePassword)
}

// API returns the authenticated route group every business endpoint
// hangs off.  JWT validation runs before any handler in the group.
func API(e *echo.Echo, jwtSecret string) *echo.Group {
	return e.Group("/api", middleware.JWTAuth(jwtSecret))
}

// RegisterClients registers client CRUD.  Reads are open to every
// authenticated role; writes are restricted to partners and advocates.
func RegisterClients(g *echo.Group, h *handler.ClientHandler) {
	write := middleware.RequireRole(model.RolePartner, model.RoleAdvocate)

	g.POST("/clients", h.Create, write)
	g.GET("/clients", h.List)
	g.GET("/clients/:id", h.Get)
	g.PATCH("/clients/:id", h.Update, write)
	g.PUT("/clients/:id", h.Update, write) // same partial-update handler; older clients send PUT
	g.DELETE("/clients/:id", h.Delete, write)
}

// RegisterRetainers registers retainer and scope accounting routes.
// Balance reads are open to all roles; anything that moves money is
// limited to partners, advocates and accountants.
func RegisterRetainers(g *echo.Group, h *handler.RetainerHandler) {
	ledger := middleware.RequireRole(model.RolePartner, model.RoleAdvocate, model.RoleAccountant)

	g.POST("/retainers", h.Create, ledger)
	g.GET("/retainers/:id", h.Get)
	g.GET("/retainers/:id/balance", h.Balance)
	g.GET("/clients/:id/retainers", h.ListByClient)
	g.POST("/retainers/:id/scopes", h.AllocateScope, ledger)
	g.POST("/retainers/:id/bill", h.Bill, ledger)
	g.POST("/retainers/:id/renew", h.Renew, ledger)
	g.PATCH("/retainers/:id/status", h.UpdateStatus, ledger)
	g.POST("/scopes/:id/utilization", h.RecordUtilization, ledger)
	g.GET("/scopes/:id/balance", h.ScopeBalance)
	g.PATCH("/scopes/:id/status", h.UpdateScopeStatus, ledger)
}

// RegisterCases registers case management routes.
func RegisterCases(g *echo.Group, h *handler.CaseHandler) {
	write := middleware.RequireRole(model.RolePartner, model.RoleAdvocate)

	g.POST("/cases", h.Create, write)
	g.GET("/cases", h.List)
	g.GET("/cases/:id", h.Get)
	g.PATCH("/cases/:id", h.Update, write)
	g.POST("/cases/:id/close", h.Close, write)
	g.DELETE("/cases/:id", h.Delete, write)
}

// RegisterTasks registers task routes.  Paralegals create and complete
// tasks alongside advocates; completion is the step that bills time
// against a retainer scope.
func RegisterTasks(g *echo.Group, h *handler.TaskHandler) {
	write := middleware.RequireRole(model.RolePartner, model.RoleAdvocate, model.RoleParalegal)

	g.POST("/tasks", h.Create, write)
	g.GET("/tasks", h.List)
	g.GET("/tasks/:id", h.Get)
	g.PATCH("/tasks/:id", h.Update, write)
	g.POST("/tasks/:id/complete", h.Complete, write)
	g.DELETE("/tasks/:id", h.Delete, write)
}

// RegisterTimeEntries registers the start/stop timer routes.
func RegisterTimeEntries(g *echo.Group, h *handler.TimeEntryHandler) {
	write := middleware.RequireRole(model.RolePartner, model.RoleAdvocate, model.RoleParalegal)

	g.POST("/time-entries", h.Start, write)
	g.POST("/time-entries/:id/stop", h.Stop, write)
	g.GET("/tasks/:id/time-entries", h.ListByTask)
	g.DELETE("/time-entries/:id", h.Delete, write)
}

// RegisterStaff registers staff directory routes.  Only partners (and
// the superadmin) manage the directory; everyone can read it.
func RegisterStaff(g *echo.Group, h *handler.StaffHandler) {
	manage := middleware.RequireRole(model.RolePartner)

	g.POST("/staff", h.Create, manage)
	g.GET("/staff", h.List)
	g.GET("/staff/:id", h.Get)
	g.PATCH("/staff/:id", h.Update, manage)
	g.DELETE("/staff/:id", h.Delete, manage)
}

// RegisterInvoices registers invoicing routes.  Issuing and status
// transitions belong to accountants and partners.
func RegisterInvoices(g *echo.Group, h *handler.InvoiceHandler) {
	billing := middleware.RequireRole(model.RoleAccountant, model.RolePartner)

	g.POST("/invoices", h.Create, billing)
	g.GET("/invoices", h.List)
	g.GET("/invoices/:id", h.Get)
	g.PATCH("/invoices/:id/status", h.UpdateStatus, billing)
}

// RegisterExchangeRates registers the currency rate table routes.
// Rates feed every cross-currency conversion, so writes are limited to
// accountants.
func RegisterExchangeRates(g *echo.Group, h *handler.ExchangeRateHandler) {
	g.POST("/exchange-rates", h.Upsert, middleware.RequireRole(model.RoleAccountant))
	g.GET("/exchange-rates", h.List)
}
