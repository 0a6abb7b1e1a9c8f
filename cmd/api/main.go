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

	"github.com/jhoicas/medical-farma-api/internal/application/auth"
	"github.com/jhoicas/medical-farma-api/internal/application/billing"
	"github.com/jhoicas/medical-farma-api/internal/application/inventory"
	"github.com/jhoicas/medical-farma-api/internal/application/logistics"
	"github.com/jhoicas/medical-farma-api/internal/application/orders"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/application/usecase"
	infraai "github.com/jhoicas/medical-farma-api/internal/infrastructure/ai"
	"github.com/jhoicas/medical-farma-api/internal/infrastructure/automation"
	"github.com/jhoicas/medical-farma-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/medical-farma-api/internal/infrastructure/pdf"
	"github.com/jhoicas/medical-farma-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/medical-farma-api/internal/infrastructure/redis"
	"github.com/jhoicas/medical-farma-api/internal/infrastructure/storage"
	"github.com/jhoicas/medical-farma-api/internal/infrastructure/whatsapp"
	httpRouter "github.com/jhoicas/medical-farma-api/internal/interfaces/http"
	"github.com/jhoicas/medical-farma-api/internal/worker"
	"github.com/jhoicas/medical-farma-api/pkg/config"
	"github.com/jhoicas/medical-farma-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	carrierRepo := postgres.NewCarrierRepository(pool)
	permissionRepo := postgres.NewPermissionRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	dispatchRepo := postgres.NewDispatchRepository(pool)
	commissionRepo := postgres.NewCommissionRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Redis es opcional: sin REDIS_URL no hay DLQ persistente ni lock del cron.
	var (
		dlq    automation.DeadLetterSink
		locker worker.Locker
	)
	if cfg.Redis.URL != "" {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, se continúa sin DLQ ni lock distribuido")
		} else {
			defer rdb.Close()
			dlq = infraredis.NewDLQ(rdb)
			host, _ := os.Hostname()
			locker = infraredis.NewLocker(rdb, host)
		}
	}

	auditUC := usecase.NewAuditUseCase(auditRepo, log.Named("auditoria").Zerolog())
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, auditUC)

	// Automatización: n8n como canal principal, WhatsApp directo como secundario.
	dispatcher := automation.NewDispatcher(cfg.Automation, dlq, log.Named("automatizacion").Zerolog())
	notifiers := automation.Fanout{dispatcher}
	waClient := whatsapp.NewClient(cfg.WhatsApp, "")
	if waClient.Configured() && cfg.WhatsApp.AdminPhone != "" {
		notifiers = append(notifiers, whatsapp.NewEventNotifier(waClient, settingsUC, cfg.WhatsApp.AdminPhone, log.Named("whatsapp").Zerolog()))
	}
	var notifier ports.Notifier = notifiers

	fileStorage := storage.NewSupabaseStorage(cfg.Storage)
	mailer := mail.NewSMTPMailer(cfg.SMTP)

	authUC := auth.NewAuthUseCase(userRepo, notifier, auditUC, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(productRepo, notifier, auditUC, fileStorage, cfg.Storage.ImageBucket)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo, auditUC)
	carrierUC := usecase.NewCarrierUseCase(carrierRepo)
	userUC := usecase.NewUserUseCase(userRepo, auditUC, mailer, log.Named("usuarios").Zerolog())
	permissionUC := usecase.NewPermissionUseCase(userRepo, permissionRepo, auditUC)
	orderUC := orders.NewOrderUseCase(orderRepo, userRepo, notifier, auditUC, log.Named("pedidos").Zerolog())
	dispatchUC := logistics.NewDispatchUseCase(logistics.Deps{
		Tx:         txRunner,
		Dispatches: dispatchRepo,
		Orders:     orderRepo,
		Users:      userRepo,
		Notifier:   notifier,
		Audit:      auditUC,
		Storage:    fileStorage,
		DocsBucket: cfg.Storage.DocsBucket,
		Log:        log.Named("despachos").Zerolog(),
	})
	invoicingUC := billing.NewInvoicingUseCase(orderRepo, analyticsRepo, auditUC, log.Named("facturacion").Zerolog())
	pdfUC := billing.NewPDFUseCase(orderRepo, userRepo, dispatchRepo, infrapdf.NewMarotoPDFGenerator(), mailer, cfg.App.Name)
	commissionUC := usecase.NewCommissionUseCase(commissionRepo, orderRepo, analyticsRepo, auditUC)
	analyticsUC := usecase.NewAnalyticsUseCase(analyticsRepo)
	assistantUC := usecase.NewAssistantUseCase(infraai.NewFromConfig(cfg.AI), productRepo)
	stockUC := inventory.NewStockTransferUseCase(notifier, auditUC)

	// Alertas de auditoría evaluadas en el servidor, independientes del navegador.
	var cronDone <-chan struct{}
	if cfg.Alerts.Enabled {
		cron := worker.NewAuditAlertCron(invoicingUC, locker, cfg.Alerts.Interval, log.Named("cron_alertas").Zerolog())
		cronDone = cron.Start(ctx)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    12 << 20,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http").Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Medical Farma API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:              authUC,
		ProductUC:           productUC,
		SupplierUC:          supplierUC,
		CarrierUC:           carrierUC,
		UserUC:              userUC,
		PermissionUC:        permissionUC,
		OrderUC:             orderUC,
		DispatchUC:          dispatchUC,
		InvoicingUC:         invoicingUC,
		PDFUC:               pdfUC,
		CommissionUC:        commissionUC,
		AnalyticsUC:         analyticsUC,
		AuditUC:             auditUC,
		SettingsUC:          settingsUC,
		AssistantUC:         assistantUC,
		StockUC:             stockUC,
		JWTSecret:           cfg.JWT.Secret,
		WhatsAppVerifyToken: cfg.WhatsApp.VerifyToken,
		HealthCheck:         pool.Ping,
		Log:                 log.Named("http").Zerolog(),
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
	stop()
	if cronDone != nil {
		<-cronDone
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de la automatización")
	}

	log.Info().Msg("aplicación detenida")
}
