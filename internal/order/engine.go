// Package order implements reordering of plan items.
//
// Every item lives in a sibling scope (owner plus parent) with a dense,
// zero-based position. A move evicts the item to a sentinel slot, shifts the
// affected siblings one row at a time, and drops the item into its target
// slot, all inside a single transaction. The unique position index holds at
// every intermediate step, so a failed move leaves the previous ordering
// intact.
package order

import (
	"context"

	"github.com/Greenjacket-nomad/personal-plan/internal/db"
	planerrors "github.com/Greenjacket-nomad/personal-plan/internal/errors"
)

// moveAttempts bounds retries when concurrent moves collide on positions.
const moveAttempts = 3

// Engine moves items within and across sibling scopes.
type Engine struct {
	runner db.TxRunner
}

// NewEngine creates a reorder engine over the given transaction runner.
func NewEngine(runner db.TxRunner) *Engine {
	return &Engine{runner: runner}
}

// Move relocates an item to position newPos under newParentID. Passing the
// item's current parent (or "" for phases) reorders within the scope.
// Out-of-range positions clamp to the nearest valid slot. Both scopes end
// dense and the global leaf ordering follows the new container positions.
func (e *Engine) Move(ctx context.Context, ownerID string, tier db.Tier, id, newParentID string, newPos int) error {
	var lastErr error
	for attempt := 0; attempt < moveAttempts; attempt++ {
		lastErr = e.moveOnce(ctx, ownerID, tier, id, newParentID, newPos)
		if lastErr == nil {
			return nil
		}
		if !db.IsConflict(lastErr) {
			return lastErr
		}
	}
	return planerrors.ErrPositionConflict(moveAttempts).WithCause(lastErr)
}

func (e *Engine) moveOnce(ctx context.Context, ownerID string, tier db.Tier, id, newParentID string, newPos int) error {
	return e.runner.RunInTx(ctx, func(tx *db.TxOps) error {
		item, err := db.ItemTx(tx, tier, ownerID, id)
		if err != nil {
			return planerrors.ErrItemNotFound(string(tier), id).WithCause(err)
		}

		ok, err := db.ParentExistsTx(tx, tier, ownerID, newParentID)
		if err != nil {
			return err
		}
		if !ok {
			return planerrors.ErrInvalidParent(string(tier), newParentID)
		}

		sameScope := item.ParentID == newParentID
		if newPos < 0 {
			newPos = 0
		}

		if sameScope {
			count, err := db.SiblingCountTx(tx, tier, ownerID, item.ParentID)
			if err != nil {
				return err
			}
			if newPos > count-1 {
				newPos = count - 1
			}
			if newPos == item.Position {
				return nil
			}

			if err := db.EvictTx(tx, tier, ownerID, id); err != nil {
				return err
			}
			if newPos > item.Position {
				// Siblings between old and new slide down into the gap.
				if err := db.ShiftRangeTx(tx, tier, ownerID, item.ParentID, item.Position+1, newPos, -1); err != nil {
					return err
				}
			} else {
				// Siblings between new and old slide up to make room.
				if err := db.ShiftRangeTx(tx, tier, ownerID, item.ParentID, newPos, item.Position-1, 1); err != nil {
					return err
				}
			}
			return db.PlaceTx(tx, tier, ownerID, id, newParentID, newPos)
		}

		// Lock both scopes so concurrent moves can't compute stale shift ranges.
		if _, err := db.SiblingCountTx(tx, tier, ownerID, item.ParentID); err != nil {
			return err
		}
		destCount, err := db.SiblingCountTx(tx, tier, ownerID, newParentID)
		if err != nil {
			return err
		}
		if newPos > destCount {
			newPos = destCount
		}

		if err := db.EvictTx(tx, tier, ownerID, id); err != nil {
			return err
		}
		if err := db.CloseGapTx(tx, tier, ownerID, item.ParentID, item.Position); err != nil {
			return err
		}
		if err := db.OpenSlotTx(tx, tier, ownerID, newParentID, newPos); err != nil {
			return err
		}
		return db.PlaceTx(tx, tier, ownerID, id, newParentID, newPos)
	})
}
