package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/medical-farma-api/internal/application/auth"
	"github.com/jhoicas/medical-farma-api/internal/application/billing"
	"github.com/jhoicas/medical-farma-api/internal/application/inventory"
	"github.com/jhoicas/medical-farma-api/internal/application/logistics"
	"github.com/jhoicas/medical-farma-api/internal/application/orders"
	"github.com/jhoicas/medical-farma-api/internal/application/usecase"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProductUC    *usecase.ProductUseCase
	SupplierUC   *usecase.SupplierUseCase
	CarrierUC    *usecase.CarrierUseCase
	UserUC       *usecase.UserUseCase
	PermissionUC *usecase.PermissionUseCase
	OrderUC      *orders.OrderUseCase
	DispatchUC   *logistics.DispatchUseCase
	InvoicingUC  *billing.InvoicingUseCase
	PDFUC        *billing.PDFUseCase
	CommissionUC *usecase.CommissionUseCase
	AnalyticsUC  *usecase.AnalyticsUseCase
	AuditUC      *usecase.AuditUseCase
	SettingsUC   *usecase.SettingsUseCase
	AssistantUC  *usecase.AssistantUseCase
	StockUC      *inventory.StockTransferUseCase

	JWTSecret           string
	WhatsAppVerifyToken string
	// HealthCheck verifica dependencias (DB). Nil responde siempre ok.
	HealthCheck func(ctx context.Context) error
	Log         zerolog.Logger
}

const (
	roleCliente     = string(entity.RoleCliente)
	roleVendedor    = string(entity.RoleVendedor)
	roleFacturacion = string(entity.RoleFacturacion)
	roleDespacho    = string(entity.RoleDespacho)
	roleCompras     = string(entity.RoleCompras)
)

// Router registra las rutas de la API. gerencia pasa todos los controles de rol y permiso.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(ClientIP())
	app.Get("/health", healthHandler(deps.HealthCheck))

	api := app.Group("/api")

	productHandler := NewProductHandler(deps.ProductUC)
	authHandler := NewAuthHandler(deps.AuthUC)
	userHandler := NewUserHandler(deps.UserUC, deps.PermissionUC)

	// Públicos
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	catalog := api.Group("/catalog")
	catalog.Get("/", productHandler.Catalog)
	catalog.Get("/categories", productHandler.Categories)

	waHandler := NewWhatsAppHandler(deps.WhatsAppVerifyToken, deps.Log)
	api.Get("/whatsapp/webhook", waHandler.Verify)
	api.Post("/whatsapp/webhook", waHandler.Receive)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	staff := RequireRole(roleVendedor, roleFacturacion, roleDespacho, roleCompras)
	perm := func(code string) fiber.Handler { return RequirePermission(code, deps.PermissionUC) }

	me := protected.Group("/auth")
	me.Get("/me", authHandler.Me)
	me.Put("/password", authHandler.ChangePassword)
	me.Get("/permissions", userHandler.MyPermissions)

	// Productos
	products := protected.Group("/products", staff)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", perm(PermProducts), productHandler.Create)
	products.Put("/:id", perm(PermProducts), productHandler.Update)
	products.Delete("/:id", perm(PermProducts), productHandler.Delete)
	products.Patch("/:id/stock", perm(PermProducts), productHandler.AdjustStock)
	products.Post("/:id/image", perm(PermProducts), productHandler.UploadImage)

	// Proveedores y transportistas
	supplierHandler := NewSupplierHandler(deps.SupplierUC, deps.CarrierUC)
	suppliers := protected.Group("/suppliers", staff)
	suppliers.Get("/", supplierHandler.ListSuppliers)
	suppliers.Get("/:id", supplierHandler.GetSupplier)
	suppliers.Post("/", perm(PermSuppliers), supplierHandler.CreateSupplier)
	suppliers.Put("/:id", perm(PermSuppliers), supplierHandler.UpdateSupplier)
	suppliers.Delete("/:id", perm(PermSuppliers), supplierHandler.DeleteSupplier)

	carriers := protected.Group("/carriers", staff)
	carriers.Get("/", supplierHandler.ListCarriers)
	carriers.Get("/:id", supplierHandler.GetCarrier)
	carriers.Post("/", perm(PermCarriers), supplierHandler.CreateCarrier)
	carriers.Put("/:id", perm(PermCarriers), supplierHandler.UpdateCarrier)
	carriers.Delete("/:id", perm(PermCarriers), supplierHandler.DeleteCarrier)

	// Usuarios, perfiles y permisos
	users := protected.Group("/users", perm(PermUsers))
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Patch("/:id/status", userHandler.ChangeStatus)
	users.Get("/:id/permissions", userHandler.EffectivePermissions)
	users.Put("/:id/permissions", userHandler.ReplaceUserPermissions)

	profiles := protected.Group("/profiles", perm(PermUsers))
	profiles.Get("/", userHandler.ListProfiles)
	profiles.Post("/", userHandler.CreateProfile)
	profiles.Put("/:id/permissions", userHandler.ReplaceProfilePermissions)
	protected.Get("/permissions", perm(PermUsers), userHandler.ListPermissions)

	// Pedidos: el cliente ve y crea solo los propios
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup := protected.Group("/orders")
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/mine", RequireRole(roleVendedor), orderHandler.ListMine)
	ordersGroup.Get("/:id", orderHandler.Get)
	ordersGroup.Patch("/:id/status", staff, perm(PermOrders), orderHandler.ChangeStatus)
	ordersGroup.Post("/:id/cancel", staff, perm(PermOrders), orderHandler.Cancel)

	// Despachos
	dispatchHandler := NewDispatchHandler(deps.DispatchUC)
	dispatches := protected.Group("/dispatches", RequireRole(roleDespacho), perm(PermDispatches))
	dispatches.Get("/", dispatchHandler.ListActive)
	dispatches.Post("/", dispatchHandler.Create)
	dispatches.Get("/:id", dispatchHandler.Get)
	dispatches.Patch("/:id/status", dispatchHandler.UpdateStatus)
	dispatches.Post("/:id/proof", dispatchHandler.UploadProof)

	// Facturación
	billingHandler := NewBillingHandler(deps.InvoicingUC, deps.PDFUC)
	billingGroup := protected.Group("/billing", RequireRole(roleFacturacion), perm(PermBilling))
	billingGroup.Get("/pending", billingHandler.Pending)
	billingGroup.Post("/alerts/process", billingHandler.ProcessAlerts)
	billingGroup.Get("/metrics", billingHandler.Metrics)
	billingGroup.Post("/orders/:id/invoice", billingHandler.MarkInvoiced)
	billingGroup.Get("/orders/:id/remito", billingHandler.DeliveryNotePDF)
	billingGroup.Post("/orders/:id/remito/email", billingHandler.EmailDeliveryNote)

	// Comisiones y ventas
	commissionHandler := NewCommissionHandler(deps.CommissionUC)
	commissions := protected.Group("/commissions", RequireRole(roleVendedor, roleFacturacion))
	commissions.Get("/salesperson/:id", commissionHandler.ListBySalesperson)
	commissions.Post("/", perm(PermCommissions), commissionHandler.Create)
	commissions.Post("/:id/settle", perm(PermCommissions), commissionHandler.Settle)
	commissions.Post("/:id/cancel", perm(PermCommissions), commissionHandler.Cancel)
	sales := protected.Group("/sales", RequireRole(roleVendedor))
	sales.Get("/metrics", commissionHandler.SalesMetrics)
	sales.Get("/metrics/:id", commissionHandler.SalesMetrics)

	// Estadísticas y compras
	statsHandler := NewStatsHandler(deps.AnalyticsUC, deps.ProductUC)
	stats := protected.Group("/stats", staff)
	stats.Get("/products", statsHandler.Products)
	stats.Get("/suppliers", statsHandler.Suppliers)
	stats.Get("/users", perm(PermUsers), statsHandler.Users)
	stats.Get("/logistics", statsHandler.Logistics)

	purchasing := protected.Group("/purchasing", RequireRole(roleCompras), perm(PermPurchasing))
	purchasing.Get("/metrics", statsHandler.Management)
	purchasing.Get("/restock", statsHandler.RestockList)

	// Stock masivo
	inventoryHandler := NewInventoryHandler(deps.StockUC)
	stock := protected.Group("/stock", staff, perm(PermStockTransfer))
	stock.Post("/import", inventoryHandler.Import)
	stock.Post("/export", inventoryHandler.Export)

	// Asistente de ventas
	assistantHandler := NewAssistantHandler(deps.AssistantUC)
	protected.Post("/assistant/ask", staff, assistantHandler.Ask)

	// Administración
	adminHandler := NewAdminHandler(deps.AuditUC, deps.SettingsUC)
	admin := protected.Group("/admin")
	admin.Get("/audit", perm(PermAudit), adminHandler.AuditLog)
	admin.Get("/settings", perm(PermSettings), adminHandler.ListSettings)
	admin.Put("/settings/:clave", perm(PermSettings), adminHandler.UpdateSetting)
	admin.Get("/templates", perm(PermSettings), adminHandler.ListTemplates)
	admin.Put("/templates", perm(PermSettings), adminHandler.UpsertTemplate)
}

func healthHandler(check func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				return fail(c, fiber.StatusServiceUnavailable, "UNAVAILABLE", "base de datos no disponible")
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
