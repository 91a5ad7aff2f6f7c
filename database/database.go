package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"survey-collector/config"
)

// Open connects to the SQLite store with the tuning the single-writer
// model relies on. The journal, durability, busy-timeout and cache
// pragmas ride on the DSN so that every pooled connection gets them, not
// just the first one.
func Open(cfg config.Config) (db *sql.DB, err error) {
	dsn := fmt.Sprintf(
		"file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=60000&_cache_size=%d&_foreign_keys=on",
		cfg.DBPath,
		cfg.CacheSize,
	)
	db, err = sql.Open("sqlite3", dsn)
	if err != nil {
		return
	}

	for _, pragma := range []string{
		"PRAGMA temp_store = MEMORY",
		"PRAGMA mmap_size = 268435456",
	} {
		if _, err = db.Exec(pragma); err != nil {
			db.Close()
			return
		}
	}

	// db tuning options
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	err = migrateDB(db)
	if err != nil {
		db.Close()
		return
	}

	return
}
