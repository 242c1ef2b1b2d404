package schedule

import (
	"context"

	"github.com/Greenjacket-nomad/personal-plan/internal/db"
)

// Registry manages blocked dates. Block and Unblock recalculate the
// schedule from the affected date before returning, so callers always
// observe a consistent calendar.
type Registry struct {
	pdb       *db.PlanDB
	scheduler *Scheduler
}

// NewRegistry creates a blocked-date registry over the plan database.
func NewRegistry(pdb *db.PlanDB) *Registry {
	return &Registry{pdb: pdb, scheduler: NewScheduler(pdb)}
}

// Block marks a date unavailable and pushes any work on or after it to the
// next open days. Blocking an already-blocked date updates the reason.
func (r *Registry) Block(ctx context.Context, ownerID, date, reason string) error {
	date, err := ParseDate(date)
	if err != nil {
		return err
	}
	if err := r.pdb.AddBlockedDate(ownerID, date, reason); err != nil {
		return err
	}
	return r.scheduler.RecalculateFrom(ctx, ownerID, date)
}

// Unblock frees a date and pulls later work forward onto it. Unblocking a
// date that was never blocked still triggers a recalculation, which is a
// no-op on an already-consistent schedule.
func (r *Registry) Unblock(ctx context.Context, ownerID, date string) error {
	date, err := ParseDate(date)
	if err != nil {
		return err
	}
	if err := r.pdb.RemoveBlockedDate(ownerID, date); err != nil {
		return err
	}
	return r.scheduler.RecalculateFrom(ctx, ownerID, date)
}

// ListBlocked returns the owner's blocked dates, optionally from a date
// onward.
func (r *Registry) ListBlocked(ownerID, from string) ([]*db.BlockedDate, error) {
	if from != "" {
		var err error
		from, err = ParseDate(from)
		if err != nil {
			return nil, err
		}
	}
	return r.pdb.ListBlockedDates(ownerID, from)
}
