package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Conservative pool settings for SQLite
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

const schemaHouses = `
CREATE TABLE IF NOT EXISTS houses (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    address TEXT,
    created_at TIMESTAMP NOT NULL
);
`

const schemaRooms = `
CREATE TABLE IF NOT EXISTS rooms (
    id TEXT PRIMARY KEY,
    house_id TEXT NOT NULL REFERENCES houses(id),
    name TEXT NOT NULL,
    floor INTEGER NOT NULL DEFAULT 0
);
`

const schemaDevices = `
CREATE TABLE IF NOT EXISTS devices (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    model TEXT NOT NULL,
    room_id TEXT NOT NULL REFERENCES rooms(id),
    active BOOLEAN NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_devices_name ON devices(name);
`

const schemaCatalog = `
CREATE TABLE IF NOT EXISTS sensor_types (
    id TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    unit TEXT
);
CREATE TABLE IF NOT EXISTS actuator_types (
    id TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    unit TEXT
);
CREATE TABLE IF NOT EXISTS sensor_models (
    id TEXT PRIMARY KEY,
    type_id TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS actuator_models (
    id TEXT PRIMARY KEY,
    type_id TEXT NOT NULL
);
`

const schemaSensors = `
CREATE TABLE IF NOT EXISTS sensors (
    id TEXT PRIMARY KEY,
    device_id TEXT NOT NULL REFERENCES devices(id),
    model_id TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS actuators (
    id TEXT PRIMARY KEY,
    device_id TEXT NOT NULL REFERENCES devices(id),
    model_id TEXT NOT NULL
);
`

const schemaReadings = `
CREATE TABLE IF NOT EXISTS sensor_readings (
    id TEXT PRIMARY KEY,
    device_id TEXT NOT NULL REFERENCES devices(id),
    sensor_id TEXT NOT NULL REFERENCES sensors(id),
    value TEXT NOT NULL,
    recorded_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_readings_device_time ON sensor_readings(device_id, recorded_at);
CREATE INDEX IF NOT EXISTS idx_readings_sensor_time ON sensor_readings(sensor_id, recorded_at);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaHouses,
		schemaRooms,
		schemaDevices,
		schemaCatalog,
		schemaSensors,
		schemaReadings,
		schemaUsers,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
