package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/cellar-backend/internal/export"
	"github.com/angelmondragon/cellar-backend/internal/identity"
	"github.com/angelmondragon/cellar-backend/internal/ledger"
	"github.com/angelmondragon/cellar-backend/internal/storage"
	"github.com/angelmondragon/cellar-backend/pkg/config"
	"github.com/angelmondragon/cellar-backend/pkg/logger"
	"github.com/angelmondragon/cellar-backend/pkg/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	logg := logger.New(logger.Options{ServiceName: "status-report"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		return 1
	}

	logg = logger.New(logger.Options{
		ServiceName: "status-report",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"storeDriver": cfg.Store.Driver,
	})

	store, closeStore, err := storage.Open(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to open ledger store", err)
		return 1
	}
	defer func() {
		if err := closeStore(); err != nil {
			logg.Error(ctx, "error closing ledger store", err)
		}
	}()

	svc, err := ledger.NewService(ctx, ledger.Params{
		Store:    store,
		Identity: identity.StaticProvider{},
		Logger:   logg,
		Metrics:  metrics.NewLedgerMetrics(prometheus.DefaultRegisterer),
		Config:   cfg.Ledger,
	})
	if err != nil {
		logg.Error(ctx, "failed to load ledger", err)
		return 1
	}

	stats := svc.DashboardStats(ctx)
	logg.Info(logg.WithFields(ctx, map[string]any{
		"totalProducts":    stats.TotalProducts,
		"totalStock":       stats.TotalStock,
		"lowStockItems":    stats.LowStockItems,
		"totalSalesToday":  stats.TotalSalesToday,
		"totalSalesAmount": stats.TotalSalesAmount.StringFixed(2),
		"activeStaff":      stats.ActiveStaff,
		"totalStaff":       stats.TotalStaff,
	}), "dashboard summary")

	if err := writeReport(ctx, svc, cfg.Report.OutputPath); err != nil {
		logg.Error(ctx, "failed to write product status report", err)
		return 1
	}
	logg.Info(logg.WithField(ctx, "path", cfg.Report.OutputPath), "product status report written")
	return 0
}

// writeReport writes the workbook to path. A failed write leaves no file
// behind.
func writeReport(ctx context.Context, svc ledger.Service, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	sink, err := export.NewXLSXSink(f)
	if err != nil {
		_ = f.Close()
		return err
	}
	if err := svc.ExportProductStatusReport(ctx, sink); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
