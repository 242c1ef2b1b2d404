package db

import (
	"testing"
)

const testOwner = "owner-1"

// buildHierarchy seeds one phase with one week, one day, and n resources.
func buildHierarchy(t *testing.T, pdb *PlanDB, n int) (phase, week, day *OrderedItem, resources []*Resource) {
	t.Helper()
	phase, err := pdb.AppendPhase(testOwner, "Phase 1", "")
	if err != nil {
		t.Fatalf("AppendPhase failed: %v", err)
	}
	week, err = pdb.AppendWeek(testOwner, phase.ID, "Week 1")
	if err != nil {
		t.Fatalf("AppendWeek failed: %v", err)
	}
	day, err = pdb.AppendDay(testOwner, week.ID, "Day 1")
	if err != nil {
		t.Fatalf("AppendDay failed: %v", err)
	}
	for i := 0; i < n; i++ {
		r, err := pdb.AppendResource(testOwner, day.ID, "Resource", "", "", "")
		if err != nil {
			t.Fatalf("AppendResource failed: %v", err)
		}
		resources = append(resources, r)
	}
	return phase, week, day, resources
}

// assertDense fails unless the scope's positions are exactly 0..n-1.
func assertDense(t *testing.T, pdb *PlanDB, tier Tier, parentID string) {
	t.Helper()
	items, err := pdb.Siblings(tier, testOwner, parentID)
	if err != nil {
		t.Fatalf("Siblings failed: %v", err)
	}
	for i, item := range items {
		if item.Position != i {
			t.Errorf("%s positions not dense: index %d has position %d", tier, i, item.Position)
		}
	}
}

func TestAppendAssignsDensePositions(t *testing.T) {
	pdb := NewTestPlanDB(t)

	for i := 0; i < 4; i++ {
		item, err := pdb.AppendPhase(testOwner, "Phase", "")
		if err != nil {
			t.Fatalf("AppendPhase failed: %v", err)
		}
		if item.Position != i {
			t.Errorf("Position = %d, want %d", item.Position, i)
		}
	}
	assertDense(t, pdb, TierPhase, "")
}

func TestAppendScopesAreIndependent(t *testing.T) {
	pdb := NewTestPlanDB(t)

	p1, err := pdb.AppendPhase(testOwner, "P1", "")
	if err != nil {
		t.Fatalf("AppendPhase failed: %v", err)
	}
	p2, err := pdb.AppendPhase(testOwner, "P2", "")
	if err != nil {
		t.Fatalf("AppendPhase failed: %v", err)
	}

	w1, err := pdb.AppendWeek(testOwner, p1.ID, "W1")
	if err != nil {
		t.Fatalf("AppendWeek failed: %v", err)
	}
	w2, err := pdb.AppendWeek(testOwner, p2.ID, "W2")
	if err != nil {
		t.Fatalf("AppendWeek failed: %v", err)
	}

	// Each phase starts its own position sequence.
	if w1.Position != 0 {
		t.Errorf("w1.Position = %d, want 0", w1.Position)
	}
	if w2.Position != 0 {
		t.Errorf("w2.Position = %d, want 0", w2.Position)
	}
}

func TestAppendWeekRejectsUnknownPhase(t *testing.T) {
	pdb := NewTestPlanDB(t)

	if _, err := pdb.AppendWeek(testOwner, "nope", "W1"); err == nil {
		t.Fatal("AppendWeek with unknown phase should fail")
	}
}

func TestAppendIsOwnerScoped(t *testing.T) {
	pdb := NewTestPlanDB(t)

	phase, err := pdb.AppendPhase(testOwner, "P1", "")
	if err != nil {
		t.Fatalf("AppendPhase failed: %v", err)
	}
	if _, err := pdb.AppendWeek("other-owner", phase.ID, "W1"); err == nil {
		t.Fatal("AppendWeek across owners should fail")
	}
}

func TestDeleteClosesGap(t *testing.T) {
	pdb := NewTestPlanDB(t)

	var phases []*OrderedItem
	for i := 0; i < 4; i++ {
		p, err := pdb.AppendPhase(testOwner, "Phase", "")
		if err != nil {
			t.Fatalf("AppendPhase failed: %v", err)
		}
		phases = append(phases, p)
	}

	if err := pdb.Delete(TierPhase, testOwner, phases[1].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	remaining, err := pdb.Siblings(TierPhase, testOwner, "")
	if err != nil {
		t.Fatalf("Siblings failed: %v", err)
	}
	if len(remaining) != 3 {
		t.Fatalf("got %d phases, want 3", len(remaining))
	}
	assertDense(t, pdb, TierPhase, "")
	// Relative order of survivors is preserved.
	if remaining[0].ID != phases[0].ID || remaining[1].ID != phases[2].ID || remaining[2].ID != phases[3].ID {
		t.Error("survivor order changed after delete")
	}
}

func TestDeleteCascades(t *testing.T) {
	pdb := NewTestPlanDB(t)

	phase, week, day, resources := buildHierarchy(t, pdb, 2)

	if err := pdb.Delete(TierPhase, testOwner, phase.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := pdb.GetItem(TierWeek, testOwner, week.ID); err == nil {
		t.Error("week should be gone after phase delete")
	}
	if _, err := pdb.GetItem(TierDay, testOwner, day.ID); err == nil {
		t.Error("day should be gone after phase delete")
	}
	if _, err := pdb.GetResource(testOwner, resources[0].ID); err == nil {
		t.Error("resource should be gone after phase delete")
	}
}

func TestDeleteUnknownItem(t *testing.T) {
	pdb := NewTestPlanDB(t)

	if err := pdb.Delete(TierPhase, testOwner, "nope"); err == nil {
		t.Fatal("Delete of unknown item should fail")
	}
}

func TestGetItemIsOwnerScoped(t *testing.T) {
	pdb := NewTestPlanDB(t)

	phase, err := pdb.AppendPhase(testOwner, "P1", "")
	if err != nil {
		t.Fatalf("AppendPhase failed: %v", err)
	}
	if _, err := pdb.GetItem(TierPhase, "other-owner", phase.ID); err == nil {
		t.Fatal("GetItem should not see another owner's items")
	}
}

func TestRename(t *testing.T) {
	pdb := NewTestPlanDB(t)

	phase, err := pdb.AppendPhase(testOwner, "Old", "")
	if err != nil {
		t.Fatalf("AppendPhase failed: %v", err)
	}
	if err := pdb.Rename(TierPhase, testOwner, phase.ID, "New"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	got, err := pdb.GetItem(TierPhase, testOwner, phase.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got.Title != "New" {
		t.Errorf("Title = %s, want New", got.Title)
	}
}

func TestParseTier(t *testing.T) {
	for _, valid := range []string{"phase", "week", "day", "resource"} {
		if _, err := ParseTier(valid); err != nil {
			t.Errorf("ParseTier(%q) failed: %v", valid, err)
		}
	}
	if _, err := ParseTier("month"); err == nil {
		t.Error("ParseTier should reject unknown tiers")
	}
}

func TestTree(t *testing.T) {
	pdb := NewTestPlanDB(t)

	phase, week, day, resources := buildHierarchy(t, pdb, 2)

	nodes, err := pdb.Tree(testOwner)
	if err != nil {
		t.Fatalf("Tree failed: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("got %d phases, want 1", len(nodes))
	}
	if nodes[0].Item.ID != phase.ID {
		t.Errorf("phase ID = %s, want %s", nodes[0].Item.ID, phase.ID)
	}
	if len(nodes[0].Children) != 1 || nodes[0].Children[0].Item.ID != week.ID {
		t.Fatal("week missing from tree")
	}
	dayNode := nodes[0].Children[0].Children[0]
	if dayNode.Item.ID != day.ID {
		t.Fatal("day missing from tree")
	}
	if len(dayNode.Resources) != len(resources) {
		t.Errorf("got %d resources, want %d", len(dayNode.Resources), len(resources))
	}
}
