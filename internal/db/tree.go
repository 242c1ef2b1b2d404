package db

import "fmt"

// TreeNode is one level of the nested plan view.
type TreeNode struct {
	Item      *OrderedItem
	Color     string
	Children  []*TreeNode
	Resources []*Resource
}

// Tree loads the owner's full hierarchy in four queries, one per tier, and
// assembles the nesting in memory.
func (p *PlanDB) Tree(ownerID string) ([]*TreeNode, error) {
	phases, err := p.treeTier(TierPhase, ownerID)
	if err != nil {
		return nil, err
	}
	weeks, err := p.treeTier(TierWeek, ownerID)
	if err != nil {
		return nil, err
	}
	days, err := p.treeTier(TierDay, ownerID)
	if err != nil {
		return nil, err
	}

	rows, err := p.Query(
		"SELECT "+resourceColumns+" FROM resources WHERE owner_id = ? ORDER BY day_id, position",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	resourcesByDay := make(map[string][]*Resource)
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		resourcesByDay[r.DayID] = append(resourcesByDay[r.DayID], r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	dayNodes := make(map[string][]*TreeNode)
	for _, d := range days {
		dayNodes[d.Item.ParentID] = append(dayNodes[d.Item.ParentID], d)
		d.Resources = resourcesByDay[d.Item.ID]
	}
	weekNodes := make(map[string][]*TreeNode)
	for _, w := range weeks {
		w.Children = dayNodes[w.Item.ID]
		weekNodes[w.Item.ParentID] = append(weekNodes[w.Item.ParentID], w)
	}
	for _, ph := range phases {
		ph.Children = weekNodes[ph.Item.ID]
	}
	return phases, nil
}

// treeTier loads all rows of one tier as nodes, in position order within
// their scopes.
func (p *PlanDB) treeTier(tier Tier, ownerID string) ([]*TreeNode, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE owner_id = ? ORDER BY position",
		selectColumns(tier), tier.table())
	if tier == TierPhase {
		query = "SELECT id, owner_id, '', position, title, COALESCE(color, '') FROM phases WHERE owner_id = ? ORDER BY position"
	}

	rows, err := p.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", tier, err)
	}
	defer rows.Close()

	var nodes []*TreeNode
	for rows.Next() {
		item := &OrderedItem{}
		node := &TreeNode{Item: item}
		if tier == TierPhase {
			err = rows.Scan(&item.ID, &item.OwnerID, &item.ParentID, &item.Position, &item.Title, &node.Color)
		} else {
			err = rows.Scan(&item.ID, &item.OwnerID, &item.ParentID, &item.Position, &item.Title)
		}
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", tier, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, rows.Err()
}
