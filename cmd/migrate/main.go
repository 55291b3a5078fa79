package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"tradelink-chat/config"
	"tradelink-chat/pkg/database"
)

const usage = `
Tradelink Chat - Database CLI Tool

Usage:
  migrate [command]

Commands:
  up          Run schema migrations
  status      Show database connection status
  seed-dev    Seed with development/test data
  truncate    Truncate all tables (DANGEROUS)

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go seed-dev
`

func main() {
	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.LoadConfig()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch flag.Arg(0) {
	case "up":
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations applied")
	case "status":
		if err := database.HealthCheck(); err != nil {
			log.Fatalf("Database unreachable: %v", err)
		}
		log.Println("Database connection OK")
	case "seed-dev":
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		if err := database.SeedDev(db); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Println("Development data seeded")
	case "truncate":
		if err := database.TruncateAll(db); err != nil {
			log.Fatalf("Truncate failed: %v", err)
		}
		log.Println("All tables truncated")
	default:
		flag.Usage()
		os.Exit(1)
	}
}
