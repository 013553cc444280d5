package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/importer"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository/postgresql"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/storage"
)

func main() {
	noCell := flag.Bool("no-cell", false, "skip automatic cell assignment")
	userID := flag.Int64("user-id", 0, "operator user id recorded in the audit trail")
	logFile := flag.String("log-file", "import.log", "log file path")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: import [flags] <feed.xlsx|feed.csv>")
		os.Exit(1)
	}
	feedPath := flag.Arg(0)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db.LoadEnv()
	log, err := logger.NewWithFile(*logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init failed:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(ctx, log, feedPath, *noCell, *userID); err != nil {
		log.Error("import failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.Logger, feedPath string, noCell bool, userID int64) error {
	database, err := db.NewDb(ctx)
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	defer database.GetPool().Close()

	deps := storage.Deps{
		Orders:   postgresql.NewOrderRepo(database),
		Cells:    postgresql.NewCellRepo(database),
		Users:    postgresql.NewUserRepo(database),
		Products: postgresql.NewProductRepo(database),
		Receipts: postgresql.NewReceiptRepo(database),
		Returns:  postgresql.NewReturnRepo(database),
		History:  postgresql.NewHistoryRepo(database),
		Audit:    postgresql.NewAuditRepo(),
		Outbox:   postgresql.NewOutboxTaskRepo(),
	}
	store := storage.NewPVZStorage(database, deps, cache.NewOrderCache(deps.Orders, log), log)

	feed, err := importer.OpenFeed(feedPath)
	if err != nil {
		return fmt.Errorf("open feed: %w", err)
	}

	opts := importer.Options{AutoAssignCell: !noCell}
	if userID > 0 {
		opts.OperatorID = &userID
	}

	report, err := importer.New(store, log, opts).Run(ctx, feed, feedPath)
	if err != nil {
		return err
	}

	printReport(report)

	if report.Failed > 0 {
		return fmt.Errorf("%d rows failed", report.Failed)
	}
	return nil
}

func printReport(report *importer.BatchReport) {
	fmt.Printf("Imported: %d\n", report.Succeeded)
	fmt.Printf("Duplicates: %d\n", report.Duplicates)
	fmt.Printf("Failed: %d\n", report.Failed)

	if len(report.Errors) > 0 {
		fmt.Println("\nErrors:")
		for _, msg := range report.Errors {
			fmt.Println("  -", msg)
		}
	}
	if len(report.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, msg := range report.Warnings {
			fmt.Println("  -", msg)
		}
	}
}
