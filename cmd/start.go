package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asset-sync/core/loader"
	"asset-sync/core/logger"
	"asset-sync/core/metrics"
	"asset-sync/core/middleware/auth"
	"asset-sync/core/middleware/rayid"
	"asset-sync/core/storage"
	"asset-sync/core/supervisor"
	"asset-sync/feature/connections"
	"asset-sync/feature/integrity"
	"asset-sync/feature/webhook"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "asset-sync/docs/swagger"
)

// @title Asset Sync API
// @version 1.0
// @description Inventory ingestion from RMM and documentation vendors.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the asset sync server",
	Long:  `Starts the HTTP server, the webhook dispatcher and the scheduled sync, retry and stale-run sweepers.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 1. Configuration, logger, database, locks, providers
		rt, err := bootstrap(ctx, true)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer rt.Close()
		logg := rt.logger
		cfg := rt.cfg
		zap.ReplaceGlobals(logg)

		// 2. Webhook archive (optional)
		var archive *storage.Archive
		if rt.storage != nil {
			archive = storage.NewArchive(rt.storage, cfg.Storage)
			if err := archive.EnsureBucket(ctx); err != nil {
				logg.Fatal("Failed to prepare webhook archive", zap.Error(err))
			}
			logg.Info("Archiving webhook payloads", zap.String("bucket", cfg.Storage.Bucket))
		}

		// 3. Webhook pipeline
		processor := webhook.NewProcessor(rt.syncer, logg)
		dispatcher, err := webhook.NewDispatcher(cfg.Webhook, processor.Handle, logg)
		if err != nil {
			logg.Fatal("Failed to create webhook dispatcher", zap.Error(err))
		}
		defer dispatcher.Close()
		webhooks := webhook.NewService(rt.store, archive, dispatcher, cfg.Webhook, logg)
		webhookHandler := webhook.NewHandler(webhooks)

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             cfg.Server.BodyLimit(),
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
		})

		// RayID first so every log line can be traced.
		app.Use(rayid.New())
		app.Use(requestLogger(logg))

		app.Get("/healthz", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})
		app.Get("/metrics", metrics.Handler())
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 5. Public features (signature-authenticated)
		public := loader.NewManager()
		public.Register(webhook.NewIngestFeature(webhookHandler))
		if err := public.LoadAll(app); err != nil {
			logg.Fatal("Failed to load public features", zap.Error(err))
		}

		// 6. Admin API behind the API key
		if !cfg.Server.IsProtected() {
			logg.Warn("SERVER_API_KEY is empty, the admin API is unprotected")
		}
		api := app.Group("/api", auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))
		admin := loader.NewManager()
		admin.Register(connections.NewFeature(connections.NewService(rt.syncer, logg)))
		admin.Register(webhook.NewFeature(webhookHandler))
		admin.Register(integrity.NewFeature(integrity.NewService(rt.db, rt.storage, cfg.Storage, logg)))
		if err := admin.LoadAll(api); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Supervisor tree
		tree := supervisor.New(logg, supervisor.Config{
			ShutdownTimeout: time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second,
		})
		tree.AddAPI(supervisor.NewFiberService(app, cfg.Server.Addr(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second))
		tree.AddWorker(dispatcher)
		tree.AddWorker(supervisor.NewTicker("sync-due", cfg.Sync.SweepInterval(), func(ctx context.Context) error {
			_, err := rt.syncer.SyncDue(ctx)
			return err
		}, logg))
		tree.AddWorker(supervisor.NewTicker("retry-failed", cfg.Sync.RetryInterval(), func(ctx context.Context) error {
			_, err := rt.syncer.RetryFailedRuns(ctx)
			return err
		}, logg))
		tree.AddWorker(supervisor.NewTicker("stale-runs", cfg.Sync.RetryInterval(), func(ctx context.Context) error {
			_, err := rt.syncer.SweepStaleRuns(ctx)
			return err
		}, logg))
		tree.AddWorker(supervisor.NewTicker("webhook-recovery", cfg.Webhook.RecoverInterval(), func(ctx context.Context) error {
			_, err := webhooks.RecoverStale(ctx)
			return err
		}, logg))

		done := tree.ServeBackground(ctx)
		logg.Info("Starting server", zap.String("port", cfg.Server.Port))

		// 8. Requeue events left pending by a previous process
		if cfg.Webhook.RecoverOnStart {
			if n, err := webhooks.RecoverPending(ctx); err != nil {
				logg.Error("Failed to recover pending webhook events", zap.Error(err))
			} else if n > 0 {
				logg.Info("Recovered pending webhook events", zap.Int("count", n))
			}
		}

		// 9. Graceful Shutdown
		<-ctx.Done()
		logg.Info("Shutting down server...")
		if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
			logg.Error("Supervisor stopped with error", zap.Error(err))
		}

		// Manual pulls run detached from requests; give them the same grace.
		pulls := make(chan struct{})
		go func() {
			rt.syncer.Wait()
			close(pulls)
		}()
		select {
		case <-pulls:
		case <-time.After(time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second):
			logg.Warn("Manual syncs still running at shutdown, they will be swept as stale")
		}
	},
}

// requestLogger logs every request with its ray id.
func requestLogger(logg *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		l := logger.WithRayID(logg, c)
		err := c.Next()

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			l.Error("Request error", append(fields, zap.Error(err))...)
			return err
		}
		l.Info("Request completed", fields...)
		return nil
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
