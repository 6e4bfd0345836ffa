package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"staffdesk/config"
	"staffdesk/internal/model"
	"staffdesk/internal/repository"
	"staffdesk/internal/service"
	"staffdesk/pkg/database"
	applogger "staffdesk/pkg/logger"
)

func main() {
	username := flag.String("username", "", "login name")
	password := flag.String("password", "", "initial password, at least 6 characters")
	role := flag.String("role", model.RoleAdmin, "admin or operator")
	operatorID := flag.String("operator", "", "operator id to link, required for operator accounts")
	reset := flag.Bool("reset", false, "replace the password of an existing account")
	flag.Parse()

	if *username == "" || len(*password) < 6 {
		flag.Usage()
		os.Exit(2)
	}
	if *role != model.RoleAdmin && *role != model.RoleOperator {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}
	if *role == model.RoleOperator && *operatorID == "" {
		fmt.Fprintln(os.Stderr, "operator accounts need -operator")
		os.Exit(2)
	}

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
	repo := repository.NewRepository(db)
	ctx := context.Background()

	if *operatorID != "" {
		if _, err := repo.Operator.GetByID(ctx, *operatorID); err != nil {
			logger.Fatal("operator lookup failed", zap.String("operator_id", *operatorID), zap.Error(err))
		}
	}

	hash, err := service.HashPassword(*password)
	if err != nil {
		logger.Fatal("hash password failed", zap.Error(err))
	}

	if *reset {
		user, err := repo.User.GetByUsername(ctx, *username)
		if err != nil {
			logger.Fatal("user lookup failed", zap.String("username", *username), zap.Error(err))
		}
		user.PasswordHash = hash
		if err := repo.User.UpdatePassword(ctx, user); err != nil {
			logger.Fatal("reset password failed", zap.String("username", *username), zap.Error(err))
		}
		logger.Info("password reset", zap.String("user_id", user.UserID))
		return
	}

	user := &model.User{
		Username:     *username,
		PasswordHash: hash,
		Role:         *role,
	}
	user.Version = 1
	if *operatorID != "" {
		user.OperatorID = operatorID
	}

	if err := repo.User.Create(ctx, user); err != nil {
		logger.Fatal("create user failed", zap.String("username", *username), zap.Error(err))
	}
	logger.Info("user created",
		zap.String("user_id", user.UserID),
		zap.String("username", user.Username),
		zap.String("role", user.Role),
	)
}
