// Command migrate applies, reverts and lists the SQL migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"yatube/internal/config"
	"yatube/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|down|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	all := database.Migrations()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.RunMigrations(ctx, db, all); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")
	case "down":
		rolled, err := database.RollbackLatest(ctx, db, all)
		if err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		if !rolled {
			log.Println("nothing to roll back")
			return nil
		}
		log.Println("latest migration rolled back")
	case "status":
		status, err := database.Status(ctx, db, all)
		if err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
		for _, s := range status {
			mark := "pending"
			if s.Applied {
				mark = "applied"
			}
			fmt.Printf("%-8s %s\n", mark, s.Migration)
		}
	default:
		return usage()
	}
	return nil
}
