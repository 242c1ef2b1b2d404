// Package schedule projects the plan hierarchy onto the calendar.
//
// Days are the scheduling unit: every resource in a day group shares one
// assigned date. Projection walks the groups in global order from a start
// date, skipping blocked dates; recalculation repeats the walk from a pivot
// onward while dates before the pivot stay untouched. Both run in a single
// transaction, and both preserve each resource's first assigned date once it
// is set.
package schedule

import (
	"context"
	"fmt"

	"github.com/Greenjacket-nomad/personal-plan/internal/db"
	planerrors "github.com/Greenjacket-nomad/personal-plan/internal/errors"
)

// Scheduler projects and recalculates assigned dates.
type Scheduler struct {
	pdb *db.PlanDB
}

// NewScheduler creates a scheduler over the plan database.
func NewScheduler(pdb *db.PlanDB) *Scheduler {
	return &Scheduler{pdb: pdb}
}

// Project assigns dates to every day group starting at start. Fails with
// ScheduleExists when dates are already assigned unless reset is set, in
// which case assigned dates are wiped and re-walked. First-assigned dates
// are never reset.
func (s *Scheduler) Project(ctx context.Context, ownerID, start string, reset bool) error {
	start, err := ParseDate(start)
	if err != nil {
		return err
	}

	return s.pdb.RunInTx(ctx, func(tx *db.TxOps) error {
		has, err := db.HasScheduleTx(tx, ownerID)
		if err != nil {
			return err
		}
		if has && !reset {
			return planerrors.ErrScheduleExists()
		}
		if reset {
			if err := db.ClearAssignedDatesTx(tx, ownerID); err != nil {
				return err
			}
		}
		if err := db.SetSettingTx(tx, ownerID, db.SettingStartDate, start); err != nil {
			return err
		}

		groups, err := db.DayGroupsTx(tx, ownerID)
		if err != nil {
			return err
		}
		return s.walk(tx, ownerID, groups, start)
	})
}

// RecalculateFrom reassigns dates from the pivot onward: the earliest day
// group whose date is on or after from. Groups before the pivot keep their
// dates, so rescheduling is localized. Running it twice with the same inputs
// produces the same dates.
func (s *Scheduler) RecalculateFrom(ctx context.Context, ownerID, from string) error {
	from, err := ParseDate(from)
	if err != nil {
		return err
	}

	return s.pdb.RunInTx(ctx, func(tx *db.TxOps) error {
		groups, err := db.DayGroupsTx(tx, ownerID)
		if err != nil {
			return err
		}

		pivot := -1
		for i, g := range groups {
			if g.AssignedDate != "" && g.AssignedDate >= from {
				pivot = i
				break
			}
		}
		if pivot < 0 {
			return nil
		}
		return s.walk(tx, ownerID, groups[pivot:], from)
	})
}

// walk assigns consecutive unblocked dates to the groups, starting at cursor.
func (s *Scheduler) walk(tx *db.TxOps, ownerID string, groups []*db.DayGroup, cursor string) error {
	if len(groups) == 0 {
		return nil
	}
	blocked, err := db.BlockedSetTx(tx, ownerID)
	if err != nil {
		return err
	}

	for _, g := range groups {
		for blocked[cursor] {
			cursor = NextDay(cursor)
		}
		if err := db.AssignDayDateTx(tx, ownerID, g.DayID, cursor); err != nil {
			return fmt.Errorf("assign %s: %w", g.DayID, err)
		}
		cursor = NextDay(cursor)
	}
	return nil
}
