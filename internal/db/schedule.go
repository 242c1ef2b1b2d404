package db

import (
	"database/sql"
	"fmt"
)

// DayGroup is one day container with its resource IDs, in global plan order.
// Every resource in a group carries the same assigned date.
type DayGroup struct {
	DayID        string
	DayTitle     string
	WeekID       string
	PhaseID      string
	ResourceIDs  []string
	AssignedDate string
}

// dayGroupQuery orders days globally: phase position, then week position,
// then day position. Only days with at least one resource form a group.
const dayGroupQuery = `
	SELECT d.id, d.title, w.id, p.id, r.id, COALESCE(r.assigned_date, '')
	FROM resources r
	JOIN days d ON d.id = r.day_id
	JOIN weeks w ON w.id = d.week_id
	JOIN phases p ON p.id = w.phase_id
	WHERE r.owner_id = ?
	ORDER BY p.position, w.position, d.position, r.position`

// DayGroupsTx returns all day groups for the owner in global order, inside a
// transaction. A group's AssignedDate is the date of its first resource.
func DayGroupsTx(tx *TxOps, ownerID string) ([]*DayGroup, error) {
	rows, err := tx.Query(dayGroupQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load day groups: %w", err)
	}
	defer rows.Close()
	return collectDayGroups(rows)
}

// DayGroups returns all day groups for the owner in global order.
func (p *PlanDB) DayGroups(ownerID string) ([]*DayGroup, error) {
	rows, err := p.Query(dayGroupQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load day groups: %w", err)
	}
	defer rows.Close()
	return collectDayGroups(rows)
}

func collectDayGroups(rows *sql.Rows) ([]*DayGroup, error) {
	var groups []*DayGroup
	var current *DayGroup
	for rows.Next() {
		var dayID, dayTitle, weekID, phaseID, resourceID, assigned string
		if err := rows.Scan(&dayID, &dayTitle, &weekID, &phaseID, &resourceID, &assigned); err != nil {
			return nil, fmt.Errorf("scan day group: %w", err)
		}
		if current == nil || current.DayID != dayID {
			current = &DayGroup{
				DayID:        dayID,
				DayTitle:     dayTitle,
				WeekID:       weekID,
				PhaseID:      phaseID,
				AssignedDate: assigned,
			}
			groups = append(groups, current)
		}
		current.ResourceIDs = append(current.ResourceIDs, resourceID)
	}
	return groups, rows.Err()
}

// AssignDayDateTx sets the assigned date for every resource in a day.
// first_assigned_date is stamped only where it is still NULL, so the date a
// resource was first planned for survives every later recalculation.
func AssignDayDateTx(tx *TxOps, ownerID, dayID, date string) error {
	_, err := tx.Exec(
		`UPDATE resources
		 SET assigned_date = ?, first_assigned_date = COALESCE(first_assigned_date, ?)
		 WHERE owner_id = ? AND day_id = ?`,
		date, date, ownerID, dayID,
	)
	if err != nil {
		return fmt.Errorf("assign day date: %w", err)
	}
	return nil
}

// ClearAssignedDatesTx wipes assigned dates for the owner before a full
// re-projection. first_assigned_date is never cleared: it records where each
// resource was originally planned, across any number of resets.
func ClearAssignedDatesTx(tx *TxOps, ownerID string) error {
	_, err := tx.Exec(
		"UPDATE resources SET assigned_date = NULL WHERE owner_id = ?",
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("clear assigned dates: %w", err)
	}
	return nil
}

// HasScheduleTx reports whether any resource already carries an assigned date.
func HasScheduleTx(tx *TxOps, ownerID string) (bool, error) {
	var count int
	err := tx.QueryRow(
		"SELECT COUNT(*) FROM resources WHERE owner_id = ? AND assigned_date IS NOT NULL",
		ownerID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check schedule: %w", err)
	}
	return count > 0, nil
}

// ProjectedEndDate returns the latest assigned date across the plan, or ""
// when nothing is scheduled yet.
func (p *PlanDB) ProjectedEndDate(ownerID string) (string, error) {
	var end sql.NullString
	err := p.QueryRow(
		"SELECT MAX(assigned_date) FROM resources WHERE owner_id = ?",
		ownerID,
	).Scan(&end)
	if err != nil {
		return "", fmt.Errorf("projected end date: %w", err)
	}
	if !end.Valid {
		return "", nil
	}
	return end.String, nil
}

// OverdueDayGroups returns day groups scheduled before today that still hold
// at least one resource that is neither complete nor skipped.
func (p *PlanDB) OverdueDayGroups(ownerID, today string) ([]*DayGroup, error) {
	groups, err := p.DayGroups(ownerID)
	if err != nil {
		return nil, err
	}

	rows, err := p.Query(
		`SELECT DISTINCT day_id FROM resources
		 WHERE owner_id = ? AND assigned_date < ? AND status NOT IN (?, ?)`,
		ownerID, today, StatusComplete, StatusSkipped,
	)
	if err != nil {
		return nil, fmt.Errorf("load overdue days: %w", err)
	}
	defer rows.Close()

	overdue := make(map[string]bool)
	for rows.Next() {
		var dayID string
		if err := rows.Scan(&dayID); err != nil {
			return nil, fmt.Errorf("scan overdue day: %w", err)
		}
		overdue[dayID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var result []*DayGroup
	for _, g := range groups {
		if overdue[g.DayID] {
			result = append(result, g)
		}
	}
	return result, nil
}

// ResourcesOnDate lists resources assigned to a given calendar date, in
// global plan order.
func (p *PlanDB) ResourcesOnDate(ownerID, date string) ([]*Resource, error) {
	rows, err := p.Query(
		`SELECT r.id, r.owner_id, r.day_id, r.position, r.title,
			COALESCE(r.url, ''), COALESCE(r.kind, 'link'), COALESCE(r.notes, ''), r.status,
			COALESCE(r.assigned_date, ''), COALESCE(r.first_assigned_date, ''), COALESCE(r.completed_at, '')
		 FROM resources r
		 JOIN days d ON d.id = r.day_id
		 JOIN weeks w ON w.id = d.week_id
		 JOIN phases p ON p.id = w.phase_id
		 WHERE r.owner_id = ? AND r.assigned_date = ?
		 ORDER BY p.position, w.position, d.position, r.position`,
		ownerID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("list resources on date: %w", err)
	}
	defer rows.Close()

	var resources []*Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}
