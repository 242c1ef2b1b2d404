package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Progress is the owner's current place in the plan: the positions of the
// active phase and the active week within it. Version increments on every
// change so concurrent writers can detect a stale pointer.
type Progress struct {
	OwnerID       string
	PhasePosition int
	WeekPosition  int
	Version       int
}

// GetProgress returns the owner's progress pointer, creating the zero
// pointer on first read.
func (p *PlanDB) GetProgress(ownerID string) (*Progress, error) {
	pr := &Progress{OwnerID: ownerID}
	err := p.QueryRow(
		"SELECT phase_position, week_position, version FROM progress WHERE owner_id = ?",
		ownerID,
	).Scan(&pr.PhasePosition, &pr.WeekPosition, &pr.Version)
	if err == sql.ErrNoRows {
		if _, err := p.Exec(
			"INSERT INTO progress (owner_id) VALUES (?)", ownerID,
		); err != nil {
			return nil, fmt.Errorf("init progress: %w", err)
		}
		pr.Version = 1
		return pr, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return pr, nil
}

// AdvanceProgress moves the pointer one week forward, rolling into the next
// phase when the current one runs out of weeks. At the end of the plan the
// pointer stays put. Returns the updated pointer.
func (p *PlanDB) AdvanceProgress(ownerID string) (*Progress, error) {
	return p.stepProgress(ownerID, 1)
}

// RetreatProgress moves the pointer one week backward, rolling into the
// previous phase's last week when at position zero. At the start of the plan
// the pointer stays put.
func (p *PlanDB) RetreatProgress(ownerID string) (*Progress, error) {
	return p.stepProgress(ownerID, -1)
}

func (p *PlanDB) stepProgress(ownerID string, dir int) (*Progress, error) {
	pr, err := p.GetProgress(ownerID)
	if err != nil {
		return nil, err
	}

	phases, err := p.Siblings(TierPhase, ownerID, "")
	if err != nil {
		return nil, err
	}
	if len(phases) == 0 {
		return pr, nil
	}

	phasePos := pr.PhasePosition
	weekPos := pr.WeekPosition + dir
	if phasePos >= len(phases) {
		phasePos = len(phases) - 1
	}

	if dir > 0 {
		weeks, err := p.Siblings(TierWeek, ownerID, phases[phasePos].ID)
		if err != nil {
			return nil, err
		}
		if weekPos >= len(weeks) {
			if phasePos+1 < len(phases) {
				phasePos++
				weekPos = 0
			} else {
				weekPos = pr.WeekPosition
			}
		}
	} else {
		if weekPos < 0 {
			if phasePos > 0 {
				phasePos--
				weeks, err := p.Siblings(TierWeek, ownerID, phases[phasePos].ID)
				if err != nil {
					return nil, err
				}
				weekPos = len(weeks) - 1
				if weekPos < 0 {
					weekPos = 0
				}
			} else {
				weekPos = 0
			}
		}
	}

	updated := &Progress{
		OwnerID:       ownerID,
		PhasePosition: phasePos,
		WeekPosition:  weekPos,
		Version:       pr.Version + 1,
	}
	err = p.RunInTx(context.Background(), func(tx *TxOps) error {
		res, err := tx.Exec(
			fmt.Sprintf(`UPDATE progress
			 SET phase_position = ?, week_position = ?, version = version + 1, updated_at = %s
			 WHERE owner_id = ? AND version = ?`, p.Now()),
			phasePos, weekPos, ownerID, pr.Version,
		)
		if err != nil {
			return fmt.Errorf("update progress: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("progress for %s: stale version %d", ownerID, pr.Version)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
