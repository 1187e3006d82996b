package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/farmasync-api/internal/application/audit"
	"github.com/tu-usuario/farmasync-api/internal/application/auth"
	"github.com/tu-usuario/farmasync-api/internal/application/drugs"
	"github.com/tu-usuario/farmasync-api/internal/application/prescriptions"
	"github.com/tu-usuario/farmasync-api/internal/application/reports"
	"github.com/tu-usuario/farmasync-api/internal/application/sales"
	"github.com/tu-usuario/farmasync-api/internal/application/suppliers"
	syncq "github.com/tu-usuario/farmasync-api/internal/application/sync"
	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	DrugUC         *drugs.DrugUseCase
	SaleUC         *sales.SaleUseCase
	PrescriptionUC *prescriptions.PrescriptionUseCase
	SupplierUC     *suppliers.SupplierUseCase
	SyncUC         *syncq.ProcessQueueUseCase
	ReportUC       *reports.ReportUseCase
	Auditor        *audit.Recorder
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Drugs (protegido)
	drugsGroup := protected.Group("/drugs")
	drugHandler := NewDrugHandler(deps.DrugUC, deps.Auditor)
	drugsGroup.Post("/", drugHandler.Create)
	drugsGroup.Get("/", drugHandler.List)
	drugsGroup.Get("/alerts/low-stock", drugHandler.ListLowStock)
	drugsGroup.Get("/alerts/expiring", drugHandler.ListExpiring)
	drugsGroup.Get("/:id", drugHandler.GetByID)
	drugsGroup.Put("/:id", drugHandler.Update)
	drugsGroup.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RolePharmacist), drugHandler.Delete)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.Auditor)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)

	// Prescriptions (protegido)
	rxGroup := protected.Group("/prescriptions")
	rxHandler := NewPrescriptionHandler(deps.PrescriptionUC)
	rxGroup.Post("/", rxHandler.Create)
	rxGroup.Get("/", rxHandler.List)
	rxGroup.Put("/:id", rxHandler.Update)
	rxGroup.Delete("/:id", rxHandler.Delete)

	// Suppliers (protegido)
	suppliersGroup := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliersGroup.Post("/", supplierHandler.Create)
	suppliersGroup.Get("/", supplierHandler.List)
	suppliersGroup.Put("/:id", supplierHandler.Update)
	suppliersGroup.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RolePharmacist), supplierHandler.Delete)

	// Sync (protegido): la cola offline del dispositivo
	syncHandler := NewSyncHandler(deps.SyncUC, deps.Auditor)
	protected.Post("/sync", syncHandler.ProcessQueue)

	// Reports (protegido)
	reportHandler := NewReportHandler(deps.ReportUC)
	protected.Get("/reports/sales", reportHandler.SalesSummary)

	// Audit (solo admin)
	auditHandler := NewAuditHandler(deps.Auditor)
	protected.Get("/audit", RequireRole(entity.RoleAdmin), auditHandler.List)
}
