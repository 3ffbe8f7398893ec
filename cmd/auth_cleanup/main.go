package main

import (
	"context"
	"log"
	"time"

	"lodgecred/internal/config"
	"lodgecred/internal/database"
	"lodgecred/internal/domain/auth"
	"lodgecred/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	deleteOrphans := pflag.Bool("delete-orphans", false, "also delete member identities that never got a profile")
	minAge := pflag.Duration("min-age", 24*time.Hour, "only delete orphan identities older than this")
	pflag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(config.IsProdLike(cfg.AppEnv))
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	svc := auth.NewCleanupService(auth.NewRepository(db), zl)
	res, err := svc.RunOnce(context.Background(), auth.CleanupConfig{
		DeleteOrphans: *deleteOrphans,
		OrphanMinAge:  *minAge,
	})
	if err != nil {
		log.Fatalf("auth cleanup failed: %v", err)
	}

	log.Printf("auth cleanup completed: auth_codes=%d orphan_identities=%d", res.Codes, res.Orphans)
}
