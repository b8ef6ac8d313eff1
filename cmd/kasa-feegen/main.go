// kasa-feegen generates the month's membership fee rows as a one-shot run,
// meant for cron at the start of each month. The fee amount comes from the
// stored settings unless -amount overrides it.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"kasa/internal/config"
	"kasa/internal/core"
	"kasa/internal/fees"
	"kasa/internal/log"
	"kasa/internal/storage"
)

func main() {
	monthFlag := flag.String("month", "", "fee month as YYYY-MM (default: current month)")
	amountFlag := flag.String("amount", "", "fee amount, overrides the settings value")
	flag.Parse()

	_ = godotenv.Load()

	logger := log.New(slog.LevelInfo, log.ComponentFeegen)
	log.SetDefault(logger)

	cfg := config.Load()
	if cfg.SQLiteDBPath == "" {
		logger.Error("SQLITE_DB_PATH must be set")
		os.Exit(1)
	}

	month := core.MonthStart(time.Now().UTC())
	if *monthFlag != "" {
		parsed, err := time.Parse("2006-01", *monthFlag)
		if err != nil {
			logger.Error("Invalid -month value", "month", *monthFlag, "error", err)
			os.Exit(1)
		}
		month = parsed
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	settings, err := repo.GetSettings(ctx)
	if err != nil {
		logger.Error("Failed to load settings", "error", err)
		os.Exit(1)
	}
	feeAmount := settings.FeeAmount
	if *amountFlag != "" {
		feeAmount, err = core.ParseAmount(*amountFlag)
		if err != nil {
			logger.Error("Invalid -amount value", "amount", *amountFlag, "error", err)
			os.Exit(1)
		}
	}

	result, err := fees.NewGenerator(repo, repo).Generate(ctx, month, feeAmount)
	if err != nil {
		logger.Error("Fee generation failed", "error", err, "fee_month", month.Format("2006-01"))
		os.Exit(1)
	}

	logger.Info("Fee generation complete",
		"fee_month", month.Format("2006-01"),
		"amount", core.FormatAmount(feeAmount),
		"candidates", result.Candidates,
		"created", result.Created)
}
