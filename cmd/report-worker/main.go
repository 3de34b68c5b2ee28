package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tradeflow/trade-portal/trade-portal-backend/internal/config"
	"tradeflow/trade-portal/trade-portal-backend/internal/exports"
	"tradeflow/trade-portal/trade-portal-backend/internal/shipments"
	"tradeflow/trade-portal/trade-portal-backend/internal/workflow"
	"tradeflow/trade-portal/trade-portal-backend/pkg/storage"
)

// repoLister serves ledger builds straight from the repository. The
// worker runs outside the API process, so it has no live store to read.
type repoLister struct {
	repo   shipments.Repository
	logger *zap.Logger
}

func (l *repoLister) List(ctx context.Context, filter shipments.ShipmentFilter) []*workflow.Shipment {
	list, err := l.repo.ListShipments(ctx, filter)
	if err != nil {
		l.logger.Error("Failed to list shipments for report", zap.Error(err))
		return nil
	}
	return list
}

// ReportWorker builds the shipment ledger workbook on a schedule and
// uploads it to object storage
type ReportWorker struct {
	lister *repoLister
	store  storage.S3Client
	bucket string
	logger *zap.Logger
}

func NewReportWorker(lister *repoLister, store storage.S3Client, bucket string, logger *zap.Logger) *ReportWorker {
	return &ReportWorker{
		lister: lister,
		store:  store,
		bucket: bucket,
		logger: logger,
	}
}

// Run builds one ledger workbook and uploads it
func (w *ReportWorker) Run(ctx context.Context) error {
	startTime := time.Now()

	rows := exports.BuildLedger(ctx, w.lister, shipments.ShipmentFilter{})

	var buf bytes.Buffer
	if err := exports.WriteExcel(&buf, rows, exports.DefaultExcelOptions()); err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}

	key := fmt.Sprintf("weekly/shipments_%s.xlsx", time.Now().UTC().Format("20060102"))
	if err := w.store.Upload(ctx, w.bucket, key, &buf); err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}

	w.logger.Info("Weekly shipment report uploaded",
		zap.String("bucket", w.bucket),
		zap.String("key", key),
		zap.Int("rows", len(rows)),
		zap.Duration("duration", time.Since(startTime)))
	return nil
}

func main() {
	_ = godotenv.Load()

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Connect to database
	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	objectStore, err := storage.NewS3Client(ctx, storage.S3Options{
		Region:          cfg.Storage.Region,
		Endpoint:        cfg.Storage.Endpoint,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
	})
	if err != nil {
		logger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	lister := &repoLister{repo: shipments.NewRepository(db), logger: logger}
	worker := NewReportWorker(lister, objectStore, cfg.Reports.Bucket, logger)

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Reports.Schedule, func() {
		if err := worker.Run(ctx); err != nil {
			logger.Error("Scheduled report failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Fatal("Invalid report schedule", zap.String("schedule", cfg.Reports.Schedule), zap.Error(err))
	}

	scheduler.Start()
	logger.Info("Report worker started", zap.String("schedule", cfg.Reports.Schedule))

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutdown signal received")
	cancel()
	<-scheduler.Stop().Done()
	logger.Info("Report worker stopped")
}
