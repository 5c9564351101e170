package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens or creates an embedded database at path and creates the
// schema. ":memory:" gives a private in-process database.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Foreign key enforcement and :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL: %w", err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

// Decimal columns are TEXT so values keep their exact representation.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS airports (
	code TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	distance_from_lpl INTEGER NOT NULL CHECK (distance_from_lpl >= 0),
	distance_from_boh INTEGER NOT NULL CHECK (distance_from_boh >= 0)
);

CREATE TABLE IF NOT EXISTS aircraft (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type TEXT NOT NULL UNIQUE,
	running_cost TEXT NOT NULL,
	range_km INTEGER NOT NULL,
	max_standard_class INTEGER NOT NULL,
	min_first_class INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS airport_plans (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uk_airport TEXT NOT NULL DEFAULT '',
	foreign_airport TEXT REFERENCES airports (code) ON DELETE RESTRICT,
	distance INTEGER
);

CREATE TABLE IF NOT EXISTS aircraft_plans (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	aircraft_id INTEGER REFERENCES aircraft (id) ON DELETE RESTRICT,
	num_first_class INTEGER,
	num_standard_class INTEGER
);

CREATE TABLE IF NOT EXISTS pricing_plans (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	standard_class_price TEXT,
	first_class_price TEXT,
	cost_per_seat TEXT,
	running_cost TEXT,
	income TEXT,
	profit TEXT
);

CREATE TABLE IF NOT EXISTS flight_plans (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	save_name TEXT NOT NULL,
	created TIMESTAMP NOT NULL,
	airport_plan_id INTEGER NOT NULL UNIQUE REFERENCES airport_plans (id),
	aircraft_plan_id INTEGER NOT NULL UNIQUE REFERENCES aircraft_plans (id),
	pricing_plan_id INTEGER NOT NULL UNIQUE REFERENCES pricing_plans (id)
);

CREATE INDEX IF NOT EXISTS idx_flight_plans_user ON flight_plans (user_id, created);
`
