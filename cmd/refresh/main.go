// Command refresh replaces the free-tier snapshot tables with a fresh
// copy of their premium sources, all six in one transaction. Run it
// weekly from cron; on failure the previous snapshot stays in place
// and the run can simply be repeated.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"statsheet/internal/config"
	"statsheet/internal/db"
)

func main() {
	prod := flag.Bool("prod", false, "refresh the production database (APP_DATABASE_URL_PROD)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.DatabaseURL
	target := "development"
	if *prod {
		dsn = cfg.DatabaseURLProd
		target = "production"
	}

	sqlDB, err := db.Open(dsn)
	if err != nil {
		log.Fatalf("refresh: %v", err)
	}

	start := time.Now()
	log.Printf("refreshing free-tier snapshots (%s) at %s", target, start.Format(time.RFC3339))

	if err := db.RefreshFreeTier(sqlDB); err != nil {
		log.Fatalf("refresh failed, snapshots unchanged: %v", err)
	}

	log.Printf("refresh complete in %s", time.Since(start).Round(time.Millisecond))
}
