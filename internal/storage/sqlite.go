// Package storage provides SQLite-based save slots for cities.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// A slot holds exactly one city state; saving overwrites it.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/citysim/internal/city"
)

// ErrSlotNotFound is returned when a slot has never been saved.
var ErrSlotNotFound = errors.New("storage: save slot not found")

// Store manages the SQLite database connection for city saves.
type Store struct {
	db *sql.DB
}

// SaveInfo summarizes a saved slot without loading its events and log.
type SaveInfo struct {
	Slot       string
	Day        int
	Population int
	Collapsed  bool
	SavedAt    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS cities (
			slot TEXT PRIMARY KEY,
			day INTEGER NOT NULL,
			running INTEGER NOT NULL,
			speed INTEGER NOT NULL,
			population INTEGER NOT NULL,
			food INTEGER NOT NULL,
			energy INTEGER NOT NULL,
			money INTEGER NOT NULL,
			food_prod INTEGER NOT NULL,
			energy_prod INTEGER NOT NULL,
			money_prod INTEGER NOT NULL,
			collapsed INTEGER NOT NULL,
			saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS city_events (
			slot TEXT NOT NULL,
			position INTEGER NOT NULL,
			kind TEXT NOT NULL,
			remaining_days INTEGER NOT NULL,
			PRIMARY KEY (slot, position)
		);

		CREATE TABLE IF NOT EXISTS city_log (
			slot TEXT NOT NULL,
			position INTEGER NOT NULL,
			entry TEXT NOT NULL,
			PRIMARY KEY (slot, position)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveCity writes the state into the slot, replacing whatever was there.
func (s *Store) SaveCity(slot string, st *city.State) error {
	if slot == "" {
		return errors.New("storage: slot name must not be empty")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	_, err = tx.Exec(
		`INSERT INTO cities
		 (slot, day, running, speed, population, food, energy, money,
		  food_prod, energy_prod, money_prod, collapsed, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET
		  day = excluded.day, running = excluded.running, speed = excluded.speed,
		  population = excluded.population, food = excluded.food,
		  energy = excluded.energy, money = excluded.money,
		  food_prod = excluded.food_prod, energy_prod = excluded.energy_prod,
		  money_prod = excluded.money_prod, collapsed = excluded.collapsed,
		  saved_at = excluded.saved_at`,
		slot, st.Day, st.Running, st.Speed, st.Population, st.Food, st.Energy, st.Money,
		st.FoodProd, st.EnergyProd, st.MoneyProd, st.Collapsed,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save city: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM city_events WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("storage: cannot clear events: %w", err)
	}
	for i, ev := range st.Events {
		if _, err := tx.Exec(
			"INSERT INTO city_events (slot, position, kind, remaining_days) VALUES (?, ?, ?, ?)",
			slot, i, ev.Kind.Key(), ev.RemainingDays,
		); err != nil {
			return fmt.Errorf("storage: cannot save event: %w", err)
		}
	}

	if _, err := tx.Exec("DELETE FROM city_log WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("storage: cannot clear log: %w", err)
	}
	for i, entry := range st.Log {
		if _, err := tx.Exec(
			"INSERT INTO city_log (slot, position, entry) VALUES (?, ?, ?)",
			slot, i, entry,
		); err != nil {
			return fmt.Errorf("storage: cannot save log entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit save: %w", err)
	}
	return nil
}

// LoadCity restores the state saved in the slot.
// Returns ErrSlotNotFound if the slot does not exist.
func (s *Store) LoadCity(slot string) (*city.State, error) {
	st := &city.State{Events: []city.Event{}, Log: []string{}}

	err := s.db.QueryRow(
		`SELECT day, running, speed, population, food, energy, money,
		        food_prod, energy_prod, money_prod, collapsed
		 FROM cities WHERE slot = ?`,
		slot,
	).Scan(
		&st.Day, &st.Running, &st.Speed,
		&st.Population, &st.Food, &st.Energy, &st.Money,
		&st.FoodProd, &st.EnergyProd, &st.MoneyProd,
		&st.Collapsed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrSlotNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load city: %w", err)
	}

	if err := s.loadEvents(slot, st); err != nil {
		return nil, err
	}
	if err := s.loadLog(slot, st); err != nil {
		return nil, err
	}
	return st, nil
}

// loadEvents restores active events in their original processing order.
func (s *Store) loadEvents(slot string, st *city.State) error {
	rows, err := s.db.Query(
		"SELECT kind, remaining_days FROM city_events WHERE slot = ? ORDER BY position",
		slot,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot query events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var days int
		if err := rows.Scan(&key, &days); err != nil {
			return fmt.Errorf("storage: cannot scan event: %w", err)
		}
		kind, err := city.ParseEventKind(key)
		if err != nil {
			return fmt.Errorf("storage: corrupt event in slot %q: %w", slot, err)
		}
		st.Events = append(st.Events, city.Event{Kind: kind, RemainingDays: days})
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("storage: row iteration error: %w", err)
	}
	return nil
}

// loadLog restores the log oldest first.
func (s *Store) loadLog(slot string, st *city.State) error {
	rows, err := s.db.Query(
		"SELECT entry FROM city_log WHERE slot = ? ORDER BY position",
		slot,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot query log: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry string
		if err := rows.Scan(&entry); err != nil {
			return fmt.Errorf("storage: cannot scan log entry: %w", err)
		}
		st.Log = append(st.Log, entry)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("storage: row iteration error: %w", err)
	}
	return nil
}

// ListSaves returns every slot, most recently saved first.
func (s *Store) ListSaves() ([]SaveInfo, error) {
	rows, err := s.db.Query(
		`SELECT slot, day, population, collapsed, saved_at
		 FROM cities
		 ORDER BY saved_at DESC, slot`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer rows.Close()

	var saves []SaveInfo
	for rows.Next() {
		var info SaveInfo
		var savedAt any
		if err := rows.Scan(&info.Slot, &info.Day, &info.Population, &info.Collapsed, &savedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		info.SavedAt = parseTime(savedAt)
		saves = append(saves, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return saves, nil
}

// DeleteSave removes a slot and everything stored under it.
// Returns ErrSlotNotFound if the slot does not exist.
func (s *Store) DeleteSave(slot string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	res, err := tx.Exec("DELETE FROM cities WHERE slot = ?", slot)
	if err != nil {
		return fmt.Errorf("storage: cannot delete save: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrSlotNotFound, slot)
	}
	if _, err := tx.Exec("DELETE FROM city_events WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("storage: cannot delete events: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM city_log WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("storage: cannot delete log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

// parseTime handles DATETIME columns surfacing as either time.Time or string.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
