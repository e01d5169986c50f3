package state

import (
	"database/sql"
	"errors"
	"strconv"
)

// Setting keys.
const (
	KeyLastStreamID = "last_stream_identifier"
	KeyWifiOnly     = "stream_wifi_only"
)

// LastStreamID returns the last selected stream id, 0 if never saved.
func (m *Manager) LastStreamID() (int, error) {
	v, ok, err := getSetting(m.db, KeyLastStreamID)
	if err != nil || !ok {
		return 0, err
	}
	return strconv.Atoi(v)
}

// SetLastStreamID persists the last selected stream id.
func (m *Manager) SetLastStreamID(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return putSetting(m.db, KeyLastStreamID, strconv.Itoa(id))
}

// WifiOnly returns whether playback is restricted to wifi, false if never saved.
func (m *Manager) WifiOnly() (bool, error) {
	v, ok, err := getSetting(m.db, KeyWifiOnly)
	if err != nil || !ok {
		return false, err
	}
	return strconv.ParseBool(v)
}

// SetWifiOnly persists the wifi-only flag.
func (m *Manager) SetWifiOnly(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return putSetting(m.db, KeyWifiOnly, strconv.FormatBool(enabled))
}

func getSetting(db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func putSetting(db *sql.DB, key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
