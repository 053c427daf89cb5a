package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TablePair maps a premium source table to its free-tier snapshot.
// model carries the shared row struct for schema migration.
type TablePair struct {
	Source   string
	Snapshot string

	model any
}

// FreeTierPairs lists every premium table with a free-tier snapshot.
// RefreshFreeTier replaces all six snapshots in one transaction; the
// order here is the statement order inside that transaction.
var FreeTierPairs = []TablePair{
	{Source: "players_page", Snapshot: "players_page_free", model: &PlayerCard{}},
	{Source: "goalies_page", Snapshot: "goalies_page_free", model: &GoalieCard{}},
	{Source: "teams_page", Snapshot: "teams_page_free", model: &TeamCard{}},
	{Source: "players_stats_page", Snapshot: "players_stats_page_free", model: &PlayerStatsRow{}},
	{Source: "goalie_stats_page", Snapshot: "goalie_stats_page_free", model: &GoalieStatsRow{}},
	{Source: "playoff_odds", Snapshot: "playoff_odds_free", model: &PlayoffOdds{}},
}

// RefreshFreeTier replaces the contents of every free-tier snapshot
// table with a fresh copy of its source, all inside one transaction.
// If any statement fails the transaction rolls back and every
// snapshot keeps its pre-run contents; the caller re-runs later.
func RefreshFreeTier(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, pair := range FreeTierPairs {
			if err := clearTable(tx, pair.Snapshot); err != nil {
				return fmt.Errorf("clear %s: %w", pair.Snapshot, err)
			}
			stmt := fmt.Sprintf("INSERT INTO %s SELECT * FROM %s", pair.Snapshot, pair.Source)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("copy %s -> %s: %w", pair.Source, pair.Snapshot, err)
			}
		}
		return nil
	})
}

// clearTable empties a snapshot table. TRUNCATE is preferred on
// postgres; other dialects (sqlite in tests) fall back to DELETE,
// which is equally transactional.
func clearTable(tx *gorm.DB, table string) error {
	if tx.Dialector.Name() == "postgres" {
		return tx.Exec("TRUNCATE TABLE " + table).Error
	}
	return tx.Exec("DELETE FROM " + table).Error
}

// StartSnapshotWorker refreshes the free-tier snapshots once at
// startup and then on the given interval. Alternative to running
// cmd/refresh from cron.
func StartSnapshotWorker(db *gorm.DB, interval time.Duration, log *zap.Logger) {
	go func() {
		if err := RefreshFreeTier(db); err != nil {
			log.Error("snapshot refresh failed (startup)", zap.Error(err))
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			if err := RefreshFreeTier(db); err != nil {
				log.Error("snapshot refresh failed", zap.Error(err))
			} else {
				log.Info("free-tier snapshots refreshed")
			}
		}
	}()
}
