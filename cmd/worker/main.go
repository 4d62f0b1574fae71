package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	integrationapp "github.com/pim/backend/internal/application/integration"
	"github.com/pim/backend/internal/application/sync"
	"github.com/pim/backend/internal/domain/integration"
	"github.com/pim/backend/internal/infrastructure/channels/ebay"
	"github.com/pim/backend/internal/infrastructure/channels/magento"
	"github.com/pim/backend/internal/infrastructure/channels/shein"
	"github.com/pim/backend/internal/infrastructure/channels/shopify"
	"github.com/pim/backend/internal/infrastructure/channels/woocommerce"
	"github.com/pim/backend/internal/infrastructure/config"
	"github.com/pim/backend/internal/infrastructure/logger"
	"github.com/pim/backend/internal/infrastructure/persistence"
	"github.com/pim/backend/internal/infrastructure/queue"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if !cfg.Queue.Enabled {
		log.Warn("Queue dispatcher disabled by configuration, exiting")
		return
	}

	log.Info("Starting PIM sync worker",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.Int("workers", cfg.Queue.WorkerCount),
		zap.Duration("poll_interval", cfg.Queue.PollInterval),
	)

	// Initialize database with a gorm logger bridged to zap
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	// Catalog repositories the sync pipeline reads from
	productRepo := persistence.NewGormProductRepository(db.DB)
	translationRepo := persistence.NewGormTranslationRepository(db.DB)
	eanCodeRepo := persistence.NewGormEanCodeRepository(db.DB)
	variationRepo := persistence.NewGormVariationRepository(db.DB)
	propertyRepo := persistence.NewGormPropertyRepository(db.DB)
	assignmentRepo := persistence.NewGormProductPropertyRepository(db.DB)
	ruleRepo := persistence.NewGormRuleRepository(db.DB)
	priceRepo := persistence.NewGormSalesPriceRepository(db.DB)
	mediaRepo := persistence.NewGormMediaRepository(db.DB)

	// Integration repositories
	channelRepo := persistence.NewGormSalesChannelRepository(db.DB)
	remoteProductRepo := persistence.NewGormRemoteProductRepository(db.DB)
	remoteMirrorRepo := persistence.NewGormRemoteMirrorRepository(db.DB)
	remoteLogRepo := persistence.NewGormRemoteLogRepository(db.DB)
	queueTaskRepo := persistence.NewGormQueueTaskRepository(db.DB)

	// Channel adapters. Every supported platform registers here; a channel
	// whose code has no adapter fails its tasks instead of stalling them.
	adapters := integration.NewAdapterRegistry()
	adapters.Register(magento.NewAdapter())
	adapters.Register(shopify.NewAdapter())
	adapters.Register(woocommerce.NewAdapter())
	adapters.Register(shein.NewAdapter())
	adapters.Register(ebay.NewAdapter())

	syncer := sync.NewSyncer(sync.Repositories{
		Products:     productRepo,
		Translations: translationRepo,
		EanCodes:     eanCodeRepo,
		Variations:   variationRepo,
		Properties:   propertyRepo,
		Assignments:  assignmentRepo,
		Rules:        ruleRepo,
		Prices:       priceRepo,
		Media:        mediaRepo,
		Mirrors:      remoteProductRepo,
		Children:     remoteMirrorRepo,
		Logs:         remoteLogRepo,
	}, adapters, log)

	// Product pipelines resolve through the factory registry so a platform
	// with sync quirks can swap in its own pipeline without touching the
	// dispatcher wiring
	factories := sync.NewFactoryRegistry()

	dispatcher := queue.NewDispatcher(queueTaskRepo, channelRepo, cfg.Queue.WorkerCount, cfg.Queue.PollInterval, log)

	pushHandler := func(ctx context.Context, task *integration.QueueTask) error {
		channel, payload, err := resolveTask(ctx, channelRepo, task)
		if err != nil {
			return err
		}
		runner, err := factories.Resolve(channel.Code)(syncer, channel, payload.ProductID)
		if err != nil {
			return err
		}
		return runner.Run(ctx)
	}
	dispatcher.RegisterHandler(integration.TaskTypeCreateProduct, pushHandler)
	dispatcher.RegisterHandler(integration.TaskTypeUpdateProduct, pushHandler)
	dispatcher.RegisterHandler(integration.TaskTypeDeleteProduct, func(ctx context.Context, task *integration.QueueTask) error {
		channel, payload, err := resolveTask(ctx, channelRepo, task)
		if err != nil {
			return err
		}
		runner, err := syncer.Delete(channel, payload.ProductID)
		if err != nil {
			return err
		}
		return runner.Run(ctx)
	})

	// Run until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dispatcher.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal("Dispatcher stopped", zap.Error(err))
	}

	log.Info("Worker exited gracefully")
}

// resolveTask loads the task's channel and decodes its payload
func resolveTask(ctx context.Context, channels integration.SalesChannelRepository, task *integration.QueueTask) (*integration.SalesChannel, *integrationapp.SyncTaskPayload, error) {
	channel, err := channels.FindByID(ctx, task.TenantID, task.SalesChannelID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve channel: %w", err)
	}
	var payload integrationapp.SyncTaskPayload
	if err := json.Unmarshal([]byte(task.Payload), &payload); err != nil {
		return nil, nil, fmt.Errorf("decode task payload: %w", err)
	}
	return channel, &payload, nil
}
