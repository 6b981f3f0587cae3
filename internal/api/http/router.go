package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/pizza-service/internal/api/http/handlers"
	"github.com/spec-kit/pizza-service/internal/auth"
	"github.com/spec-kit/pizza-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	BasePath       string
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Admin          *handlers.AdminHandler
	Orders         *handlers.OrdersHandler
	Contacts       *handlers.ContactsHandler
	Cart           *handlers.CartHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *RateLimiter
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Probes and metrics sit outside the base path.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	limit := func(c *fiber.Ctx) error { return c.Next() }
	if cfg.RateLimiter != nil {
		limit = cfg.RateLimiter.Handle
	}
	authenticated := cfg.AuthMiddleware.Handle

	api := app.Group(cfg.BasePath)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", limit, cfg.Users.Register)
	authGroup.Post("/login", limit, cfg.Users.Login)
	authGroup.Post("/forgot-password", limit, cfg.Users.ForgotPassword)
	authGroup.Post("/reset-password/:token", limit, cfg.Users.ResetPassword)
	authGroup.Get("/profile", authenticated, cfg.Users.Profile)
	authGroup.Put("/profile", authenticated, cfg.Users.UpdateProfile)
	authGroup.Post("/change-password", authenticated, cfg.Users.ChangePassword)

	adminGroup := api.Group("/admin")
	adminGroup.Post("/login", limit, cfg.Admin.Login)
	adminGroup.Post("/register", limit, cfg.Admin.Register)
	adminGroup.Get("/orders", authenticated, auth.RequireAdmin(), cfg.Admin.ListOrders)

	orders := api.Group("/orders", authenticated)
	orders.Post("/", cfg.Orders.CreateOrder)
	orders.Get("/", cfg.Orders.ListOrders)
	orders.Delete("/:id", cfg.Orders.DeleteOrder)
	orders.Patch("/:id/cancel", cfg.Orders.CancelOrder)
	orders.Patch("/:id/status", auth.RequireAdmin(), cfg.Orders.UpdateStatus)
	orders.Patch("/:id/delivery-boy", auth.RequireAdmin(), cfg.Orders.AssignCourier)

	api.Post("/contacts", authenticated, cfg.Contacts.Submit)

	api.Get("/menu", cfg.Cart.Menu)
	cart := api.Group("/cart", authenticated)
	cart.Get("/", cfg.Cart.Get)
	cart.Delete("/", cfg.Cart.Clear)
	cart.Post("/items", cfg.Cart.AddItem)
	cart.Patch("/items/:index", cfg.Cart.UpdateItem)
	cart.Delete("/items/:index", cfg.Cart.RemoveItem)
}
