package routes

import (
	"bakery-pos-api/handlers"
	"bakery-pos-api/middleware"
	"bakery-pos-api/models"

	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Auth      *handlers.AuthHandler
	Orders    *handlers.OrderHandler
	Catalog   *handlers.CatalogHandler
	Reports   *handlers.ReportHandler
	JWTSecret []byte
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", deps.Auth.Register)
		public.POST("/auth/login", deps.Auth.Login)

		// Catalog (counter UI reads this before login-gated order entry)
		public.GET("/products", deps.Catalog.ListProducts)
		public.GET("/products/:id", deps.Catalog.GetProduct)
		public.GET("/categories", deps.Catalog.ListCategories)

		// Ready queue for the counter and customer displays
		public.GET("/orders/ready", deps.Orders.ListReady)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired(deps.JWTSecret))
	{
		auth.GET("/profile", deps.Auth.GetProfile)
	}

	// ── Staff routes (attendant or admin) ──────────────────────────
	staff := r.Group("/api")
	staff.Use(middleware.AuthRequired(deps.JWTSecret),
		middleware.RoleRequired(models.RoleAttendant, models.RoleAdmin))
	{
		staff.POST("/orders", deps.Orders.Create)
		staff.GET("/orders", deps.Orders.List)
		staff.GET("/orders/:id", deps.Orders.Get)
		staff.POST("/orders/:id/pay", deps.Orders.Pay)
		staff.PATCH("/orders/:id/deliver", deps.Orders.Deliver)
		staff.PATCH("/orders/:id/cancel", deps.Orders.Cancel)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(deps.JWTSecret), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.POST("/products", deps.Catalog.CreateProduct)
		admin.PUT("/products/:id", deps.Catalog.UpdateProduct)
		admin.DELETE("/products/:id", deps.Catalog.DeactivateProduct)
		admin.POST("/products/:id/stock", deps.Catalog.AdjustStock)

		admin.POST("/categories", deps.Catalog.CreateCategory)
		admin.PUT("/categories/:id", deps.Catalog.UpdateCategory)
		admin.DELETE("/categories/:id", deps.Catalog.DeleteCategory)

		admin.GET("/users", deps.Auth.ListUsers)
		admin.GET("/reports/sales", deps.Reports.DailySales)
	}
}
