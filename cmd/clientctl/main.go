// Command clientctl provisions API clients allowed to change documents.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/abduss/docstore/internal/auth"
	"github.com/abduss/docstore/internal/config"
	"github.com/abduss/docstore/internal/logger"
	"github.com/abduss/docstore/internal/storage"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	name := flag.String("name", "", "client name")
	migrate := flag.Bool("migrate", true, "apply schema migrations before provisioning")
	flag.Parse()

	if *name == "" {
		fmt.Fprintln(os.Stderr, "usage: clientctl -name <client-name>")
		os.Exit(2)
	}

	_ = godotenv.Load()

	zapLogger, err := logger.Init()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zapLogger.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("load config", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbPool, err := storage.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		zapLogger.Fatal("connect postgres", zap.Error(err))
	}
	defer dbPool.Close()

	if *migrate {
		if err := storage.Migrate(cfg.Postgres, zapLogger); err != nil {
			zapLogger.Fatal("migrate postgres", zap.Error(err))
		}
	}

	service := auth.NewService(auth.NewRepository(dbPool), cfg.Auth, zapLogger)
	creds, err := service.RegisterClient(ctx, *name)
	if err != nil {
		zapLogger.Fatal("register client", zap.String("name", *name), zap.Error(err))
	}

	fmt.Printf("client_id=%s\nclient_secret=%s\n", creds.Client.ID, creds.Secret)
}
