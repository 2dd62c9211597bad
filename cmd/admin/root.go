package main

import (
	"context"
	"fmt"

	"datingroulette/backend/internal/config"
	"datingroulette/backend/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:          "admin",
	Short:        "Roulette operator tool",
	Long:         `Moderation and audit commands: ban, unban, confirm-complaint, sessions, active, token.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(banCmd)
	rootCmd.AddCommand(unbanCmd)
	rootCmd.AddCommand(confirmComplaintCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(activeCmd)
	rootCmd.AddCommand(tokenCmd)
}

// Execute runs the root command and returns the error (for main to log.Fatal).
func Execute() error {
	return rootCmd.Execute()
}

// openStorage connects to PostgreSQL and, when reachable, Redis. Ban keys are
// skipped without Redis; the user row still carries the block.
func openStorage(ctx context.Context, cfg *config.Config) (*storage.Service, func(), error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect database: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		fmt.Printf("Warning: Redis unavailable (%v), ban keys will not be updated\n", err)
		rdb.Close()
		rdb = nil
	}

	closeFn := func() {
		if rdb != nil {
			rdb.Close()
		}
	}
	return storage.NewStorageService(db, rdb, 0, nil), closeFn, nil
}
