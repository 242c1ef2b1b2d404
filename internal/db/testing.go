package db

import "testing"

// NewTestPlanDB creates an in-memory plan database for tests, migrated and
// cleaned up automatically.
func NewTestPlanDB(t *testing.T) *PlanDB {
	t.Helper()

	pdb, err := OpenPlanInMemory()
	if err != nil {
		t.Fatalf("open in-memory plan db: %v", err)
	}
	t.Cleanup(func() {
		_ = pdb.Close()
	})
	return pdb
}
