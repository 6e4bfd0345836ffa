package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"staffdesk/config"
	"staffdesk/pkg/database"
	applogger "staffdesk/pkg/logger"
)

func main() {
	direction := flag.String("dir", "up", "up or down")
	steps := flag.Int("steps", 1, "migrations to revert with -dir=down")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("STAFFDESK_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	defer sqlDB.Close()

	switch *direction {
	case "up":
		err = database.RunMigrations(sqlDB, logger)
	case "down":
		if *steps < 1 {
			logger.Fatal("steps must be at least 1", zap.Int("steps", *steps))
		}
		err = database.RollbackMigrations(sqlDB, *steps, logger)
	default:
		logger.Fatal("unknown direction", zap.String("dir", *direction))
	}
	if err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
}
