package db

import (
	"errors"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM connection to the given PostgreSQL URL without
// touching the schema. Used by cmd/refresh, which must never migrate.
func Open(dsn string) (*gorm.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("APP_DATABASE_URL is required (PostgreSQL URL)")
	}
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return nil, errors.New("APP_DATABASE_URL must be a postgres:// or postgresql:// URL")
	}

	// PrepareStmt: true prevents the GORM postgres migrator from forcing simple protocol
	// for "SELECT * FROM table LIMIT 1", which would otherwise trigger "insufficient arguments".
	return gorm.Open(postgres.Open(dsn), &gorm.Config{PrepareStmt: true})
}

// Connect opens the database and migrates the schema: the account
// tables, the six stat tables and their free-tier snapshot clones.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table the API reads and writes.
// The snapshot tables are migrated from the same structs as their
// sources so the clones can never drift structurally.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{}, &Session{}, &Favorite{},
		&PlayerCard{}, &GoalieCard{}, &TeamCard{},
		&PlayerStatsRow{}, &GoalieStatsRow{}, &PlayoffOdds{}, &TeamSOS{},
		&BiddingPackageRow{},
	); err != nil {
		return err
	}

	for _, pair := range FreeTierPairs {
		if err := db.Table(pair.Snapshot).AutoMigrate(pair.model); err != nil {
			return err
		}
	}
	return nil
}
