package handler

import (
	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/service"
	"go-inventory-api/internal/ws"

	"github.com/gofiber/fiber/v2"
)

// Services is everything the HTTP layer depends on.
type Services struct {
	Auth       service.AuthService
	Users      service.UserService
	Catalog    service.CatalogService
	Stores     service.StoreService
	Inventory  service.InventoryService
	Reports    service.ReportService
	Roles      repository.RoleRepository
	Privileges repository.PrivilegeRepository
	Hub        *ws.Hub
}

// SetupRoutes mounts the /api/v1 routes and, when a hub is given, /ws.
func SetupRoutes(app *fiber.App, s Services) {
	authHandler := NewAuthHandler(s.Auth)
	userHandler := NewUserHandler(s.Users)
	roleHandler := NewRoleHandler(s.Roles, s.Privileges)
	catalogHandler := NewCatalogHandler(s.Catalog)
	storeHandler := NewStoreHandler(s.Stores)
	productHandler := NewProductHandler(s.Inventory)
	changeHandler := NewChangeHandler(s.Inventory)
	reportHandler := NewReportHandler(s.Reports)

	requireAuth := middleware.RequireAuth(s.Auth)
	manageInventory := middleware.RequirePrivilege(model.PrivInventoryManage)
	manageCatalog := middleware.RequirePrivilege(model.PrivCatalogManage)
	viewReports := middleware.RequirePrivilege(model.PrivReportView)

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Post("/auth/change-password", authHandler.ChangePassword)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)
	protected.Get("/users", middleware.RequirePrivilege(model.PrivUserView), userHandler.GetAllUsers)
	protected.Get("/users/:id", middleware.RequirePrivilege(model.PrivUserView), userHandler.GetUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege(model.PrivUserDelete), userHandler.DeleteUser)
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// Categories and suppliers are shared; anyone signed in can read them
	protected.Get("/categories", catalogHandler.GetCategories)
	protected.Get("/categories/:id", catalogHandler.GetCategory)
	protected.Post("/categories", manageCatalog, catalogHandler.CreateCategory)
	protected.Put("/categories/:id", manageCatalog, catalogHandler.UpdateCategory)
	protected.Delete("/categories/:id", manageCatalog, catalogHandler.DeleteCategory)
	protected.Get("/suppliers", catalogHandler.GetSuppliers)
	protected.Get("/suppliers/:id", catalogHandler.GetSupplier)
	protected.Post("/suppliers", manageCatalog, catalogHandler.CreateSupplier)
	protected.Put("/suppliers/:id", manageCatalog, catalogHandler.UpdateSupplier)
	protected.Delete("/suppliers/:id", manageCatalog, catalogHandler.DeleteSupplier)

	stores := protected.Group("/stores", manageInventory)
	stores.Get("/", storeHandler.GetStores)
	stores.Get("/:id", storeHandler.GetStore)
	stores.Post("/", storeHandler.CreateStore)
	stores.Put("/:id", storeHandler.UpdateStore)
	stores.Delete("/:id", storeHandler.DeleteStore)

	// Static segments before /:id
	products := protected.Group("/products", manageInventory)
	products.Get("/low-stock", productHandler.GetLowStock)
	products.Get("/report", viewReports, reportHandler.GetInventoryReport)
	products.Get("/", productHandler.GetProducts)
	products.Post("/", productHandler.CreateProduct)
	products.Get("/:id", productHandler.GetProduct)
	products.Put("/:id", productHandler.UpdateProduct)
	products.Patch("/:id", productHandler.UpdateProduct)
	products.Delete("/:id", productHandler.DeleteProduct)
	products.Get("/:id/history", productHandler.GetChangeHistory)

	changes := protected.Group("/changes", manageInventory)
	changes.Get("/", changeHandler.GetChanges)
	changes.Post("/", changeHandler.CreateChange)
	changes.Get("/:id", changeHandler.GetChange)

	protected.Get("/dashboard/stock-movement", viewReports, reportHandler.GetStockMovement)

	if s.Hub != nil {
		app.Use("/ws", requireAuth, RequireUpgrade)
		app.Get("/ws", Stream(s.Hub))
	}
}
