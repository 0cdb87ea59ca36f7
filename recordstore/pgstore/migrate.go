package pgstore

import (
	"fmt"
	"time"

	"github.com/xy-planning-network/synkro"
	"gorm.io/gorm"
)

// Migration is used to hold the database key and function for creating the migration.
type Migration struct {
	Executor func(*gorm.DB) error
	Key      string
}

// Migrations are every Migration the records table needs, in the order they run.
var Migrations = []Migration{
	{
		Key: "20240501_create_records",
		Executor: func(tx *gorm.DB) error {
			return tx.AutoMigrate(new(row))
		},
	},
	{
		Key: "20240502_index_records_fields",
		Executor: func(tx *gorm.DB) error {
			return tx.Exec("CREATE INDEX IF NOT EXISTS idx_records_fields ON records USING GIN (fields)").Error
		},
	},
}

func (m Migration) execute(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := m.Executor(tx); err != nil {
			return err
		}

		return tx.Exec(`INSERT INTO migrations (key, ran_at) VALUES (?, ?)`, m.Key, time.Now().Unix()).Error
	})
}

// MigrateUp runs every migration not yet recorded in the migrations table.
func MigrateUp(db *gorm.DB, migrations []Migration) error {
	err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			ran_at bigint,
			key text,
			CONSTRAINT migrations_key UNIQUE (key)
		)
	`).Error
	if err != nil {
		return fmt.Errorf("%w: creating migrations table: %s", synkro.ErrUpstream, err)
	}

	var ran []string
	if err := db.Raw("SELECT key FROM migrations").Scan(&ran).Error; err != nil {
		return fmt.Errorf("%w: fetching ran migrations: %s", synkro.ErrUpstream, err)
	}

	for _, m := range pending(ran, migrations) {
		if err := m.execute(db); err != nil {
			return fmt.Errorf("%w: running migration %s: %s", synkro.ErrUpstream, m.Key, err)
		}
	}

	return nil
}

// pending filters out migrations whose key has already run.
func pending(ran []string, all []Migration) []Migration {
	done := make(map[string]bool, len(ran))
	for _, key := range ran {
		done[key] = true
	}

	var toRun []Migration
	for _, m := range all {
		if !done[m.Key] {
			toRun = append(toRun, m)
		}
	}

	return toRun
}
