package db

import (
	"database/sql"
	"fmt"
)

// Setting keys.
const (
	SettingStartDate = "start_date"
)

// GetSetting returns the value for a key, or "" when unset.
func (p *PlanDB) GetSetting(ownerID, key string) (string, error) {
	var value string
	err := p.QueryRow(
		"SELECT value FROM settings WHERE owner_id = ? AND key = ?",
		ownerID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting stores a key/value pair for the owner, replacing any previous
// value.
func (p *PlanDB) SetSetting(ownerID, key, value string) error {
	_, err := p.Exec(
		`INSERT INTO settings (owner_id, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (owner_id, key) DO UPDATE SET value = excluded.value`,
		ownerID, key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// SetSettingTx stores a key/value pair inside a transaction.
func SetSettingTx(tx *TxOps, ownerID, key, value string) error {
	_, err := tx.Exec(
		`INSERT INTO settings (owner_id, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (owner_id, key) DO UPDATE SET value = excluded.value`,
		ownerID, key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}
