package db

import "fmt"

// BlockedDate marks a calendar day the schedule walk must skip.
type BlockedDate struct {
	Date   string
	Reason string
}

// AddBlockedDate records a blocked date for the owner. Blocking the same
// date twice updates the reason.
func (p *PlanDB) AddBlockedDate(ownerID, date, reason string) error {
	_, err := p.Exec(
		`INSERT INTO blocked_dates (owner_id, date, reason) VALUES (?, ?, ?)
		 ON CONFLICT (owner_id, date) DO UPDATE SET reason = excluded.reason`,
		ownerID, date, nullable(reason),
	)
	if err != nil {
		return fmt.Errorf("add blocked date: %w", err)
	}
	return nil
}

// RemoveBlockedDate unblocks a date. Removing an unknown date is a no-op.
func (p *PlanDB) RemoveBlockedDate(ownerID, date string) error {
	_, err := p.Exec(
		"DELETE FROM blocked_dates WHERE owner_id = ? AND date = ?",
		ownerID, date,
	)
	if err != nil {
		return fmt.Errorf("remove blocked date: %w", err)
	}
	return nil
}

// ListBlockedDates returns the owner's blocked dates in ascending order.
// An empty from lists everything; otherwise dates before from are omitted.
func (p *PlanDB) ListBlockedDates(ownerID, from string) ([]*BlockedDate, error) {
	query := "SELECT date, COALESCE(reason, '') FROM blocked_dates WHERE owner_id = ?"
	args := []any{ownerID}
	if from != "" {
		query += " AND date >= ?"
		args = append(args, from)
	}
	query += " ORDER BY date"

	rows, err := p.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blocked dates: %w", err)
	}
	defer rows.Close()

	var dates []*BlockedDate
	for rows.Next() {
		d := &BlockedDate{}
		if err := rows.Scan(&d.Date, &d.Reason); err != nil {
			return nil, fmt.Errorf("scan blocked date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// BlockedSetTx loads the owner's blocked dates as a set inside a
// transaction, for the schedule walk.
func BlockedSetTx(tx *TxOps, ownerID string) (map[string]bool, error) {
	rows, err := tx.Query("SELECT date FROM blocked_dates WHERE owner_id = ?", ownerID)
	if err != nil {
		return nil, fmt.Errorf("load blocked dates: %w", err)
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("scan blocked date: %w", err)
		}
		set[date] = true
	}
	return set, rows.Err()
}
