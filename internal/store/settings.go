package store

import (
	"database/sql"
	"errors"
	"strconv"
	"time"
)

// ErrNotFound is returned when a requested key does not exist.
var ErrNotFound = errors.New("not found")

// Setting keys.
const (
	KeyIntervalMs  = "interval_ms"
	KeyModel       = "model"
	KeyMotionGate  = "motion_gate"
	KeyJPEGQuality = "jpeg_quality"
)

// Settings are the tunables persisted across restarts. Zero values mean
// "not stored"; callers apply their own defaults.
type Settings struct {
	IntervalMs  int
	Model       string
	MotionGate  bool
	JPEGQuality int
}

// SettingsRepository provides access to the settings table.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get retrieves a raw setting value by key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set upserts a raw setting value.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	return err
}

// Load reads all known settings. Missing keys are left at their zero value.
func (r *SettingsRepository) Load() (*Settings, error) {
	settings := &Settings{}

	if v, err := r.Get(KeyIntervalMs); err == nil {
		if n, err := strconv.Atoi(v); err == nil {
			settings.IntervalMs = n
		}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if v, err := r.Get(KeyModel); err == nil {
		settings.Model = v
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if v, err := r.Get(KeyMotionGate); err == nil {
		settings.MotionGate = v == "true"
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if v, err := r.Get(KeyJPEGQuality); err == nil {
		if n, err := strconv.Atoi(v); err == nil {
			settings.JPEGQuality = n
		}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return settings, nil
}

// Save persists all settings.
func (r *SettingsRepository) Save(settings *Settings) error {
	if err := r.Set(KeyIntervalMs, strconv.Itoa(settings.IntervalMs)); err != nil {
		return err
	}
	if err := r.Set(KeyModel, settings.Model); err != nil {
		return err
	}
	if err := r.Set(KeyMotionGate, strconv.FormatBool(settings.MotionGate)); err != nil {
		return err
	}
	return r.Set(KeyJPEGQuality, strconv.Itoa(settings.JPEGQuality))
}
