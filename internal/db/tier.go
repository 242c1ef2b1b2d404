package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Tier identifies one level of the plan hierarchy. Phases, weeks and days are
// containers; resources are the leaves that receive schedule dates.
type Tier string

const (
	TierPhase    Tier = "phase"
	TierWeek     Tier = "week"
	TierDay      Tier = "day"
	TierResource Tier = "resource"
)

// SentinelPosition parks an item outside the dense range while its siblings
// shift during a move. The UNIQUE(owner, parent, position) index stays valid
// at every step of the transaction.
const SentinelPosition = -9999

// ParseTier validates a tier name from user input.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierPhase, TierWeek, TierDay, TierResource:
		return Tier(s), nil
	default:
		return "", fmt.Errorf("unknown tier %q (want phase, week, day, or resource)", s)
	}
}

// table returns the backing table for a tier.
func (t Tier) table() string {
	switch t {
	case TierPhase:
		return "phases"
	case TierWeek:
		return "weeks"
	case TierDay:
		return "days"
	case TierResource:
		return "resources"
	}
	return ""
}

// parentColumn returns the FK column naming the item's parent, or "" for
// phases, which sit at the root of the hierarchy.
func (t Tier) parentColumn() string {
	switch t {
	case TierWeek:
		return "phase_id"
	case TierDay:
		return "week_id"
	case TierResource:
		return "day_id"
	}
	return ""
}

// parentTier returns the tier one level up, or "" for phases.
func (t Tier) parentTier() Tier {
	switch t {
	case TierWeek:
		return TierPhase
	case TierDay:
		return TierWeek
	case TierResource:
		return TierDay
	}
	return ""
}

// childTier returns the tier one level down, or "" for resources.
func (t Tier) childTier() Tier {
	switch t {
	case TierPhase:
		return TierWeek
	case TierWeek:
		return TierDay
	case TierDay:
		return TierResource
	}
	return ""
}

// OrderedItem is the ordering-relevant projection of any hierarchy row.
// ParentID is empty for phases.
type OrderedItem struct {
	ID       string
	OwnerID  string
	ParentID string
	Position int
	Title    string
}

// scopeClause returns the WHERE fragment and args selecting one sibling
// scope: all rows of the tier sharing an owner and (for non-phases) a parent.
func scopeClause(tier Tier, ownerID, parentID string) (string, []any) {
	if tier == TierPhase {
		return "owner_id = ?", []any{ownerID}
	}
	return "owner_id = ? AND " + tier.parentColumn() + " = ?", []any{ownerID, parentID}
}

// selectColumns returns the column list for scanning an OrderedItem.
func selectColumns(tier Tier) string {
	if tier == TierPhase {
		return "id, owner_id, '', position, title"
	}
	return "id, owner_id, " + tier.parentColumn() + ", position, title"
}

// AppendPhase creates a phase at the end of the owner's phase list.
func (p *PlanDB) AppendPhase(ownerID, title, color string) (*OrderedItem, error) {
	id := uuid.New().String()
	_, err := p.Exec(
		`INSERT INTO phases (id, owner_id, position, title, color)
		 VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM phases WHERE owner_id = ?), ?, ?)`,
		id, ownerID, ownerID, title, nullable(color),
	)
	if err != nil {
		return nil, fmt.Errorf("append phase: %w", err)
	}
	return p.GetItem(TierPhase, ownerID, id)
}

// AppendWeek creates a week at the end of a phase.
func (p *PlanDB) AppendWeek(ownerID, phaseID, title string) (*OrderedItem, error) {
	if _, err := p.GetItem(TierPhase, ownerID, phaseID); err != nil {
		return nil, err
	}
	id := uuid.New().String()
	_, err := p.Exec(
		`INSERT INTO weeks (id, owner_id, phase_id, position, title)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM weeks WHERE owner_id = ? AND phase_id = ?), ?)`,
		id, ownerID, phaseID, ownerID, phaseID, title,
	)
	if err != nil {
		return nil, fmt.Errorf("append week: %w", err)
	}
	return p.GetItem(TierWeek, ownerID, id)
}

// AppendDay creates a day at the end of a week.
func (p *PlanDB) AppendDay(ownerID, weekID, title string) (*OrderedItem, error) {
	if _, err := p.GetItem(TierWeek, ownerID, weekID); err != nil {
		return nil, err
	}
	id := uuid.New().String()
	_, err := p.Exec(
		`INSERT INTO days (id, owner_id, week_id, position, title)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM days WHERE owner_id = ? AND week_id = ?), ?)`,
		id, ownerID, weekID, ownerID, weekID, title,
	)
	if err != nil {
		return nil, fmt.Errorf("append day: %w", err)
	}
	return p.GetItem(TierDay, ownerID, id)
}

// GetItem fetches one item by tier and ID, scoped to the owner.
func (p *PlanDB) GetItem(tier Tier, ownerID, id string) (*OrderedItem, error) {
	row := p.QueryRow(
		fmt.Sprintf("SELECT %s FROM %s WHERE id = ? AND owner_id = ?", selectColumns(tier), tier.table()),
		id, ownerID,
	)
	item := &OrderedItem{}
	err := row.Scan(&item.ID, &item.OwnerID, &item.ParentID, &item.Position, &item.Title)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s %s: not found", tier, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", tier, err)
	}
	return item, nil
}

// Siblings lists one sibling scope in position order.
func (p *PlanDB) Siblings(tier Tier, ownerID, parentID string) ([]*OrderedItem, error) {
	where, args := scopeClause(tier, ownerID, parentID)
	rows, err := p.Query(
		fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY position", selectColumns(tier), tier.table(), where),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", tier, err)
	}
	defer rows.Close()

	var items []*OrderedItem
	for rows.Next() {
		item := &OrderedItem{}
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.ParentID, &item.Position, &item.Title); err != nil {
			return nil, fmt.Errorf("scan %s: %w", tier, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Rename updates an item's title.
func (p *PlanDB) Rename(tier Tier, ownerID, id, title string) error {
	res, err := p.Exec(
		fmt.Sprintf("UPDATE %s SET title = ? WHERE id = ? AND owner_id = ?", tier.table()),
		title, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("rename %s: %w", tier, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: not found", tier, id)
	}
	return nil
}

// Delete removes an item and closes the position gap among its former
// siblings. Children are removed by FK cascade. Runs in one transaction so a
// crash can't leave a sparse scope behind.
func (p *PlanDB) Delete(tier Tier, ownerID, id string) error {
	return p.RunInTx(context.Background(), func(tx *TxOps) error {
		item, err := ItemTx(tx, tier, ownerID, id)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			fmt.Sprintf("DELETE FROM %s WHERE id = ? AND owner_id = ?", tier.table()),
			id, ownerID,
		); err != nil {
			return fmt.Errorf("delete %s: %w", tier, err)
		}
		return shiftRangeTx(tx, tier, ownerID, item.ParentID, item.Position+1, -1, -1)
	})
}

// --- transaction-scoped ordering primitives ---

// ItemTx reads an item inside a transaction, locking the row on dialects
// that support it.
func ItemTx(tx *TxOps, tier Tier, ownerID, id string) (*OrderedItem, error) {
	row := tx.QueryRow(
		fmt.Sprintf("SELECT %s FROM %s WHERE id = ? AND owner_id = ?%s",
			selectColumns(tier), tier.table(), tx.ForUpdate()),
		id, ownerID,
	)
	item := &OrderedItem{}
	err := row.Scan(&item.ID, &item.OwnerID, &item.ParentID, &item.Position, &item.Title)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s %s: not found", tier, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", tier, err)
	}
	return item, nil
}

// ParentExistsTx checks that a parent row exists for the owner. Phases have
// no parent, so an empty parentID is valid only for them.
func ParentExistsTx(tx *TxOps, tier Tier, ownerID, parentID string) (bool, error) {
	if tier == TierPhase {
		return parentID == "", nil
	}
	if parentID == "" {
		return false, nil
	}
	var one int
	err := tx.QueryRow(
		fmt.Sprintf("SELECT 1 FROM %s WHERE id = ? AND owner_id = ?%s",
			tier.parentTier().table(), tx.ForUpdate()),
		parentID, ownerID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check parent: %w", err)
	}
	return true, nil
}

// SiblingCountTx returns the number of items in a scope, locking the rows
// where the dialect supports it.
func SiblingCountTx(tx *TxOps, tier Tier, ownerID, parentID string) (int, error) {
	where, args := scopeClause(tier, ownerID, parentID)
	var count int
	err := tx.QueryRow(
		fmt.Sprintf("SELECT COUNT(*) FROM (SELECT id FROM %s WHERE %s%s) sub",
			tier.table(), where, tx.ForUpdate()),
		args...,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count %ss: %w", tier, err)
	}
	return count, nil
}

// EvictTx parks an item at the sentinel position so its old slot frees up
// before siblings shift.
func EvictTx(tx *TxOps, tier Tier, ownerID, id string) error {
	if _, err := tx.Exec(
		fmt.Sprintf("UPDATE %s SET position = ? WHERE id = ? AND owner_id = ?", tier.table()),
		SentinelPosition, id, ownerID,
	); err != nil {
		return fmt.Errorf("evict %s: %w", tier, err)
	}
	return nil
}

// shiftRangeTx adds delta to every position in [lo, hi] within a scope.
// hi < 0 means unbounded. Rows shift one at a time, highest-first when
// incrementing and lowest-first when decrementing, so the unique index never
// sees two rows on the same position mid-operation.
func shiftRangeTx(tx *TxOps, tier Tier, ownerID, parentID string, lo, hi, delta int) error {
	if delta == 0 {
		return nil
	}
	where, args := scopeClause(tier, ownerID, parentID)
	rangeClause := where + " AND position >= ?"
	rangeArgs := append(args, lo)
	if hi >= 0 {
		rangeClause += " AND position <= ?"
		rangeArgs = append(rangeArgs, hi)
	}
	order := "DESC"
	if delta < 0 {
		order = "ASC"
	}

	rows, err := tx.Query(
		fmt.Sprintf("SELECT id, position FROM %s WHERE %s ORDER BY position %s",
			tier.table(), rangeClause, order),
		rangeArgs...,
	)
	if err != nil {
		return fmt.Errorf("load shift range: %w", err)
	}
	type rowPos struct {
		id  string
		pos int
	}
	var shifts []rowPos
	for rows.Next() {
		var r rowPos
		if err := rows.Scan(&r.id, &r.pos); err != nil {
			rows.Close()
			return fmt.Errorf("scan shift range: %w", err)
		}
		shifts = append(shifts, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, r := range shifts {
		if _, err := tx.Exec(
			fmt.Sprintf("UPDATE %s SET position = ? WHERE id = ?", tier.table()),
			r.pos+delta, r.id,
		); err != nil {
			return fmt.Errorf("shift %s %s: %w", tier, r.id, err)
		}
	}
	return nil
}

// ShiftRangeTx adds delta to every position in [lo, hi] within a scope.
// hi < 0 means unbounded.
func ShiftRangeTx(tx *TxOps, tier Tier, ownerID, parentID string, lo, hi, delta int) error {
	return shiftRangeTx(tx, tier, ownerID, parentID, lo, hi, delta)
}

// OpenSlotTx shifts positions >= pos up by one to make room for an insert.
func OpenSlotTx(tx *TxOps, tier Tier, ownerID, parentID string, pos int) error {
	return shiftRangeTx(tx, tier, ownerID, parentID, pos, -1, 1)
}

// CloseGapTx shifts positions > pos down by one after a removal.
func CloseGapTx(tx *TxOps, tier Tier, ownerID, parentID string, pos int) error {
	return shiftRangeTx(tx, tier, ownerID, parentID, pos+1, -1, -1)
}

// PlaceTx drops an evicted item into its destination slot, updating the
// parent FK when the item changed scopes.
func PlaceTx(tx *TxOps, tier Tier, ownerID, id, parentID string, pos int) error {
	var err error
	if tier == TierPhase {
		_, err = tx.Exec(
			"UPDATE phases SET position = ? WHERE id = ? AND owner_id = ?",
			pos, id, ownerID,
		)
	} else {
		_, err = tx.Exec(
			fmt.Sprintf("UPDATE %s SET position = ?, %s = ? WHERE id = ? AND owner_id = ?",
				tier.table(), tier.parentColumn()),
			pos, parentID, id, ownerID,
		)
	}
	if err != nil {
		return fmt.Errorf("place %s: %w", tier, err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
