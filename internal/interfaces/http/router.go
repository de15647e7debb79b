package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/stockpilot/internal/application/inventory"
	"github.com/jhoicas/stockpilot/internal/application/usecase"
	"github.com/jhoicas/stockpilot/pkg/jwt"
	"github.com/jhoicas/stockpilot/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC        *usecase.CompanyUseCase
	WarehouseUC      *usecase.WarehouseUseCase
	CatalogUC        *usecase.CatalogUseCase
	ProductUC        *usecase.ProductUseCase
	CreateProduct    *inventory.CreateProductUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Audit            *inventory.AuditUseCase
	LowStock         *inventory.LowStockUseCase
	Report           *inventory.ReportUseCase
	JWTSecret        string
	Logger           *logger.Logger
}

// AppConfig opciones de la app Fiber.
type AppConfig struct {
	Name        string
	RateLimit   string // formato ulule, vacío = sin límite
	SwaggerFile string // vacío o inexistente = sin /docs
}

// NewApp construye la app Fiber con middlewares globales y rutas.
func NewApp(cfg AppConfig, deps RouterDeps) (*fiber.App, error) {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler,
		// Los IDs de ruta y query llegan a los repositorios y al almacén en memoria como claves.
		Immutable: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(deps.Logger.Component("http")))

	if cfg.RateLimit != "" {
		rl, err := RateLimit(cfg.RateLimit, deps.Logger)
		if err != nil {
			return nil, err
		}
		app.Use(rl)
	}

	// Swagger UI: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		if _, err := os.Stat(cfg.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFile,
				Path:     "docs",
				Title:    cfg.Name + " API",
			}))
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})

	Router(app, deps)
	return app, nil
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	auth := AuthMiddleware(deps.JWTSecret)
	admin := RequireRole(jwt.RoleAdmin)
	writer := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor)

	// Companies (público: alta inicial de empresas)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Get("/companies", companyHandler.List)
	api.Post("/companies", companyHandler.Create)
	api.Get("/companies/:id", companyHandler.GetByID)

	// Alerts (protegido; la empresa de la ruta debe ser la del token)
	alertHandler := NewAlertHandler(deps.LowStock, deps.Report)
	api.Get("/companies/:id/alerts/low-stock", auth, RequireSameCompany("id"), anyRole, alertHandler.LowStock)
	api.Get("/companies/:id/alerts/low-stock/report.pdf", auth, RequireSameCompany("id"), anyRole, alertHandler.Report)

	// Warehouses (protegido)
	warehouses := api.Group("/warehouses", auth)
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", admin, warehouseHandler.Create)
	warehouses.Get("/", anyRole, warehouseHandler.List)
	warehouses.Get("/:id", anyRole, warehouseHandler.GetByID)

	// Catalog (protegido)
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	types := api.Group("/product-types", auth)
	types.Post("/", admin, catalogHandler.CreateProductType)
	types.Get("/", anyRole, catalogHandler.ListProductTypes)
	types.Get("/:id", anyRole, catalogHandler.GetProductType)
	suppliers := api.Group("/suppliers", auth)
	suppliers.Post("/", admin, catalogHandler.CreateSupplier)
	suppliers.Get("/", anyRole, catalogHandler.ListSuppliers)
	suppliers.Get("/:id", anyRole, catalogHandler.GetSupplier)

	// Products (protegido)
	products := api.Group("/products", auth)
	productHandler := NewProductHandler(deps.CreateProduct, deps.ProductUC)
	products.Post("/", writer, productHandler.Create)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Post("/:id/deactivate", admin, productHandler.Deactivate)

	// Inventory (protegido)
	invGroup := api.Group("/inventory", auth)
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Audit)
	invGroup.Post("/allocations", writer, inventoryHandler.Allocate)
	invGroup.Post("/movements", writer, inventoryHandler.RegisterMovement)
	invGroup.Get("/audit", anyRole, inventoryHandler.Audit)
}
