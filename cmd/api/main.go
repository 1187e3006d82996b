package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/farmasync-api/internal/application/audit"
	"github.com/tu-usuario/farmasync-api/internal/application/auth"
	"github.com/tu-usuario/farmasync-api/internal/application/drugs"
	"github.com/tu-usuario/farmasync-api/internal/application/inventory"
	"github.com/tu-usuario/farmasync-api/internal/application/prescriptions"
	"github.com/tu-usuario/farmasync-api/internal/application/reports"
	"github.com/tu-usuario/farmasync-api/internal/application/sales"
	"github.com/tu-usuario/farmasync-api/internal/application/suppliers"
	syncq "github.com/tu-usuario/farmasync-api/internal/application/sync"
	"github.com/tu-usuario/farmasync-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/farmasync-api/internal/interfaces/http"
	"github.com/tu-usuario/farmasync-api/pkg/config"
	"github.com/tu-usuario/farmasync-api/pkg/logger"
	"github.com/tu-usuario/farmasync-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	drugRepo := postgres.NewDrugRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	rxRepo := postgres.NewPrescriptionRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	syncRepo := postgres.NewSyncRecordRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledger := inventory.NewStockLedger()
	drugUC := drugs.NewDrugUseCase(txRunner, ledger, drugRepo)
	saleUC := sales.NewSaleUseCase(txRunner, ledger, saleRepo)
	rxUC := prescriptions.NewPrescriptionUseCase(rxRepo)
	supplierUC := suppliers.NewSupplierUseCase(supplierRepo)
	reportUC := reports.NewReportUseCase(saleRepo)
	auditor := audit.NewRecorder(auditRepo, log)
	syncUC := syncq.NewProcessQueueUseCase(syncRepo, drugRepo, saleUC, drugUC, rxUC, cfg.Sync.ItemTimeout)
	authUC := auth.NewAuthUseCase(txRunner, userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "FarmaSync API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", metrics.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		DrugUC:         drugUC,
		SaleUC:         saleUC,
		PrescriptionUC: rxUC,
		SupplierUC:     supplierUC,
		SyncUC:         syncUC,
		ReportUC:       reportUC,
		Auditor:        auditor,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
