package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Resource statuses. Cycling walks not_started -> in_progress -> complete and
// back; skipped re-enters the cycle at not_started.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusComplete   = "complete"
	StatusSkipped    = "skipped"
)

var statusCycle = map[string]string{
	StatusNotStarted: StatusInProgress,
	StatusInProgress: StatusComplete,
	StatusComplete:   StatusNotStarted,
	StatusSkipped:    StatusNotStarted,
}

// Resource is a leaf item: the unit that receives schedule dates.
type Resource struct {
	ID                string
	OwnerID           string
	DayID             string
	Position          int
	Title             string
	URL               string
	Kind              string
	Notes             string
	Status            string
	AssignedDate      string
	FirstAssignedDate string
	CompletedAt       string
}

const resourceColumns = `id, owner_id, day_id, position, title,
	COALESCE(url, ''), COALESCE(kind, 'link'), COALESCE(notes, ''), status,
	COALESCE(assigned_date, ''), COALESCE(first_assigned_date, ''), COALESCE(completed_at, '')`

func scanResource(row interface{ Scan(...any) error }) (*Resource, error) {
	r := &Resource{}
	err := row.Scan(&r.ID, &r.OwnerID, &r.DayID, &r.Position, &r.Title,
		&r.URL, &r.Kind, &r.Notes, &r.Status,
		&r.AssignedDate, &r.FirstAssignedDate, &r.CompletedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// AppendResource creates a resource at the end of a day.
func (p *PlanDB) AppendResource(ownerID, dayID, title, url, kind, notes string) (*Resource, error) {
	if _, err := p.GetItem(TierDay, ownerID, dayID); err != nil {
		return nil, err
	}
	if kind == "" {
		kind = "link"
	}
	id := uuid.New().String()
	_, err := p.Exec(
		`INSERT INTO resources (id, owner_id, day_id, position, title, url, kind, notes)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM resources WHERE owner_id = ? AND day_id = ?), ?, ?, ?, ?)`,
		id, ownerID, dayID, ownerID, dayID, title, nullable(url), kind, nullable(notes),
	)
	if err != nil {
		return nil, fmt.Errorf("append resource: %w", err)
	}
	return p.GetResource(ownerID, id)
}

// GetResource fetches one resource scoped to the owner.
func (p *PlanDB) GetResource(ownerID, id string) (*Resource, error) {
	row := p.QueryRow(
		"SELECT "+resourceColumns+" FROM resources WHERE id = ? AND owner_id = ?",
		id, ownerID,
	)
	r, err := scanResource(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("resource %s: not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get resource: %w", err)
	}
	return r, nil
}

// DayResources lists a day's resources in position order.
func (p *PlanDB) DayResources(ownerID, dayID string) ([]*Resource, error) {
	rows, err := p.Query(
		"SELECT "+resourceColumns+" FROM resources WHERE owner_id = ? AND day_id = ? ORDER BY position",
		ownerID, dayID,
	)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
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

// CycleStatus advances a resource through the status cycle and returns the
// new status. Completion stamps completed_at; leaving complete clears it.
// Position and schedule dates are untouched.
func (p *PlanDB) CycleStatus(ownerID, id string) (string, error) {
	r, err := p.GetResource(ownerID, id)
	if err != nil {
		return "", err
	}
	next := statusCycle[r.Status]
	if next == "" {
		next = StatusNotStarted
	}

	if next == StatusComplete {
		_, err = p.Exec(
			fmt.Sprintf("UPDATE resources SET status = ?, completed_at = %s WHERE id = ? AND owner_id = ?", p.Now()),
			next, id, ownerID,
		)
	} else {
		_, err = p.Exec(
			"UPDATE resources SET status = ?, completed_at = NULL WHERE id = ? AND owner_id = ?",
			next, id, ownerID,
		)
	}
	if err != nil {
		return "", fmt.Errorf("cycle status: %w", err)
	}
	return next, nil
}

// MarkSkipped sets a resource to skipped without touching its position or
// any schedule dates.
func (p *PlanDB) MarkSkipped(ownerID, id string) error {
	res, err := p.Exec(
		"UPDATE resources SET status = ?, completed_at = NULL WHERE id = ? AND owner_id = ?",
		StatusSkipped, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("mark skipped: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("resource %s: not found", id)
	}
	return nil
}

// UpdateResource updates mutable fields of a resource. Empty strings leave a
// field unchanged; use ClearResourceNotes to empty notes explicitly.
func (p *PlanDB) UpdateResource(ownerID, id, title, url, notes string) error {
	r, err := p.GetResource(ownerID, id)
	if err != nil {
		return err
	}
	if title == "" {
		title = r.Title
	}
	if url == "" {
		url = r.URL
	}
	if notes == "" {
		notes = r.Notes
	}
	_, err = p.Exec(
		"UPDATE resources SET title = ?, url = ?, notes = ? WHERE id = ? AND owner_id = ?",
		title, nullable(url), nullable(notes), id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	return nil
}
