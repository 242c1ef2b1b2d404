package schedule

import (
	"context"
	"testing"

	"github.com/Greenjacket-nomad/personal-plan/internal/db"
	planerrors "github.com/Greenjacket-nomad/personal-plan/internal/errors"
	"github.com/Greenjacket-nomad/personal-plan/internal/order"
)

const testOwner = "owner-1"

// seedDays builds one phase with one week and n days, one resource each.
// Returns the day IDs in order.
func seedDays(t *testing.T, pdb *db.PlanDB, n int) []string {
	t.Helper()
	phase, err := pdb.AppendPhase(testOwner, "Phase 1", "")
	if err != nil {
		t.Fatalf("AppendPhase failed: %v", err)
	}
	week, err := pdb.AppendWeek(testOwner, phase.ID, "Week 1")
	if err != nil {
		t.Fatalf("AppendWeek failed: %v", err)
	}
	var dayIDs []string
	for i := 0; i < n; i++ {
		day, err := pdb.AppendDay(testOwner, week.ID, "Day")
		if err != nil {
			t.Fatalf("AppendDay failed: %v", err)
		}
		if _, err := pdb.AppendResource(testOwner, day.ID, "Resource", "", "", ""); err != nil {
			t.Fatalf("AppendResource failed: %v", err)
		}
		dayIDs = append(dayIDs, day.ID)
	}
	return dayIDs
}

// groupDates returns assigned dates for the owner's day groups in order.
func groupDates(t *testing.T, pdb *db.PlanDB) []string {
	t.Helper()
	groups, err := pdb.DayGroups(testOwner)
	if err != nil {
		t.Fatalf("DayGroups failed: %v", err)
	}
	dates := make([]string, 0, len(groups))
	for _, g := range groups {
		dates = append(dates, g.AssignedDate)
	}
	return dates
}

func assertDates(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d dates, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dates = %v, want %v", got, want)
		}
	}
}

func TestProjectAssignsConsecutiveDates(t *testing.T) {
	pdb := db.NewTestPlanDB(t)
	seedDays(t, pdb, 3)
	s := NewScheduler(pdb)

	if err := s.Project(context.Background(), testOwner, "2024-01-01", false); err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	assertDates(t, groupDates(t, pdb), []string{"2024-01-01", "2024-01-02", "2024-01-03"})

	start, err := pdb.GetSetting(testOwner, db.SettingStartDate)
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if start != "2024-01-01" {
		t.Errorf("start_date = %s, want 2024-01-01", start)
	}
}

func TestProjectSkipsBlockedDates(t *testing.T) {
	pdb := db.NewTestPlanDB(t)
	seedDays(t, pdb, 3)
	if err := pdb.AddBlockedDate(testOwner, "2024-01-02", ""); err != nil {
		t.Fatalf("AddBlockedDate failed: %v", err)
	}
	if err := pdb.AddBlockedDate(testOwner, "2024-01-03", ""); err != nil {
		t.Fatalf("AddBlockedDate failed: %v", err)
	}

	s := NewScheduler(pdb)
	if err := s.Project(context.Background(), testOwner, "2024-01-01", false); err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	assertDates(t, groupDates(t, pdb), []string{"2024-01-01", "2024-01-04", "2024-01-05"})
}

func TestProjectBlockedStartDate(t *testing.T) {
	pdb := db.NewTestPlanDB(t)
	seedDays(t, pdb, 2)
	if err := pdb.AddBlockedDate(testOwner, "2024-01-01", ""); err != nil {
		t.Fatalf("AddBlockedDate failed: %v", err)
	}

	s := NewScheduler(pdb)
	if err := s.Project(context.Background(), testOwner, "2024-01-01", false); err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	assertDates(t, groupDates(t, pdb), []string{"2024-01-02", "2024-01-03"})
}

func TestProjectRequiresResetWhenScheduled(t *testing.T) {
	pdb := db.NewTestPlanDB(t)
	seedDays(t, pdb, 2)
	s := NewScheduler(pdb)

	if err := s.Project(context.Background(), testOwner, "2024-01-01", false); err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	err := s.Project(context.Background(), testOwner, "2024-02-01", false)
	planErr := planerrors.AsPlanError(err)
	if planErr == nil || planErr.Code != planerrors.CodeScheduleExists {
		t.Fatalf("error = %v, want %s", err, planerrors.CodeScheduleExists)
	}

	if err := s.Project(context.Background(), testOwner, "2024-02-01", true); err != nil {
		t.Fatalf("Project with reset failed: %v", err)
	}
	assertDates(t, groupDates(t, pdb), []string{"2024-02-01", "2024-02-02"})

	// A reset re-walks assigned dates but never rewrites history.
	groups, err := pdb.DayGroups(testOwner)
	if err != nil {
		t.Fatalf("DayGroups failed: %v", err)
	}
	resources, err := pdb.DayResources(testOwner, groups[0].DayID)
	if err != nil {
		t.Fatalf("DayResources failed: %v", err)
	}
	if resources[0].FirstAssignedDate != "2024-01-01" {
		t.Errorf("first assigned = %s, want 2024-01-01", resources[0].FirstAssignedDate)
	}
}

func TestProjectEmptyPlan(t *testing.T) {
	pdb := db.NewTestPlanDB(t)
	s := NewScheduler(pdb)

	if err := s.Project(context.Background(), testOwner, "2024-01-01", false); err != nil {
		t.Fatalf("Project on empty plan failed: %v", err)
	}
}

func TestProjectRejectsBadDate(t *testing.T) {
	pdb := db.NewTestPlanDB(t)
	s := NewScheduler(pdb)

	err := s.Project(context.Background(), testOwner, "01/02/2024", false)
	planErr := planerrors.AsPlanError(err)
	if planErr == nil || planErr.Code != planerrors.CodeDateInvalid {
		t.Fatalf("error = %v, want %s", err, planerrors.CodeDateInvalid)
	}
}

func TestFirstAssignedDateSurvivesRecalc(t *testing.T) {
	pdb := db.NewTestPlanDB(t)
	dayIDs := seedDays(t, pdb, 3)
	s := NewScheduler(pdb)

	if err := s.Project(context.Background(), testOwner, "2024-01-01", false); err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if err := pdb.AddBlockedDate(testOwner, "2024-01-02", ""); err != nil {
		t.Fatalf("AddBlockedDate failed: %v", err)
	}
	if err := s.RecalculateFrom(context.Background(), testOwner, "2024-01-02"); err != nil {
		t.Fatalf("RecalculateFrom failed: %v", err)
	}

	// Day 2 moved to Jan 3, but its resources remember Jan 2.
	resources, err := pdb.DayResources(testOwner, dayIDs[1])
	if err != nil {
		t.Fatalf("DayResources failed: %v", err)
	}
	if resources[0].AssignedDate != "2024-01-03" {
		t.Errorf("assigned = %s, want 2024-01-03", resources[0].AssignedDate)
	}
	if resources[0].FirstAssignedDate != "2024-01-02" {
		t.Errorf("first assigned = %s, want 2024-01-02", resources[0].FirstAssignedDate)
	}
}

func TestRecalcLeavesEarlierDatesAlone(t *testing.T) {
	pdb := db.NewTestPlanDB(t)
	seedDays(t, pdb, 4)
	s := NewScheduler(pdb)

	if err := s.Project(context.Background(), testOwner, "2024-01-01", false); err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if err := pdb.AddBlockedDate(testOwner, "2024-01-03", ""); err != nil {
		t.Fatalf("AddBlockedDate failed: %v", err)
	}
	if err := s.RecalculateFrom(context.Background(), testOwner, "2024-01-03"); err != nil {
		t.Fatalf("RecalculateFrom failed: %v", err)
	}

	assertDates(t, groupDates(t, pdb), []string{"2024-01-01", "2024-01-02", "2024-01-04", "2024-01-05"})
}

func TestRecalcIsIdempotent(t *testing.T) {
	pdb := db.NewTestPlanDB(t)
	seedDays(t, pdb, 3)
	s := NewScheduler(pdb)

	if err := s.Project(context.Background(), testOwner, "2024-01-01", false); err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if err := pdb.AddBlockedDate(testOwner, "2024-01-02", ""); err != nil {
		t.Fatalf("AddBlockedDate failed: %v", err)
	}

	if err := s.RecalculateFrom(context.Background(), testOwner, "2024-01-02"); err != nil {
		t.Fatalf("RecalculateFrom failed: %v", err)
	}
	first := groupDates(t, pdb)

	if err := s.RecalculateFrom(context.Background(), testOwner, "2024-01-02"); err != nil {
		t.Fatalf("second RecalculateFrom failed: %v", err)
	}
	assertDates(t, groupDates(t, pdb), first)
}

func TestRecalcWithNoPivotIsNoOp(t *testing.T) {
	pdb := db.NewTestPlanDB(t)
	seedDays(t, pdb, 2)
	s := NewScheduler(pdb)

	if err := s.Project(context.Background(), testOwner, "2024-01-01", false); err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	// Every assigned date is before the cutoff, so nothing moves.
	if err := s.RecalculateFrom(context.Background(), testOwner, "2030-01-01"); err != nil {
		t.Fatalf("RecalculateFrom failed: %v", err)
	}
	assertDates(t, groupDates(t, pdb), []string{"2024-01-01", "2024-01-02"})
}

func TestRecalcUnscheduledPlanIsNoOp(t *testing.T) {
	pdb := db.NewTestPlanDB(t)
	seedDays(t, pdb, 2)
	s := NewScheduler(pdb)

	if err := s.RecalculateFrom(context.Background(), testOwner, "2024-01-01"); err != nil {
		t.Fatalf("RecalculateFrom failed: %v", err)
	}
	assertDates(t, groupDates(t, pdb), []string{"", ""})
}

func TestDatesStayMonotonicAcrossRecalc(t *testing.T) {
	pdb := db.NewTestPlanDB(t)
	seedDays(t, pdb, 5)
	s := NewScheduler(pdb)

	if err := s.Project(context.Background(), testOwner, "2024-01-01", false); err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	for _, blocked := range []string{"2024-01-02", "2024-01-04"} {
		if err := pdb.AddBlockedDate(testOwner, blocked, ""); err != nil {
			t.Fatalf("AddBlockedDate failed: %v", err)
		}
	}
	if err := s.RecalculateFrom(context.Background(), testOwner, "2024-01-02"); err != nil {
		t.Fatalf("RecalculateFrom failed: %v", err)
	}

	dates := groupDates(t, pdb)
	for i := 1; i < len(dates); i++ {
		if dates[i] <= dates[i-1] {
			t.Fatalf("dates not strictly increasing: %v", dates)
		}
	}
	for _, d := range dates {
		if d == "2024-01-02" || d == "2024-01-04" {
			t.Fatalf("blocked date assigned: %v", dates)
		}
	}
}

func TestProjectedEndDate(t *testing.T) {
	pdb := db.NewTestPlanDB(t)
	seedDays(t, pdb, 3)
	s := NewScheduler(pdb)

	end, err := pdb.ProjectedEndDate(testOwner)
	if err != nil {
		t.Fatalf("ProjectedEndDate failed: %v", err)
	}
	if end != "" {
		t.Errorf("end = %q before scheduling, want empty", end)
	}

	if err := s.Project(context.Background(), testOwner, "2024-01-01", false); err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	end, err = pdb.ProjectedEndDate(testOwner)
	if err != nil {
		t.Fatalf("ProjectedEndDate failed: %v", err)
	}
	if end != "2024-01-03" {
		t.Errorf("end = %s, want 2024-01-03", end)
	}
}

func TestRecalcAfterReorder(t *testing.T) {
	pdb := db.NewTestPlanDB(t)
	dayIDs := seedDays(t, pdb, 3)
	s := NewScheduler(pdb)

	if err := s.Project(context.Background(), testOwner, "2024-01-01", false); err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	// Move the last day to the front, then re-walk from the start date.
	engine := order.NewEngine(pdb)
	if err := engine.Move(context.Background(), testOwner, db.TierDay, dayIDs[2], weekOf(t, pdb, dayIDs[2]), 0); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if err := s.RecalculateFrom(context.Background(), testOwner, "2024-01-01"); err != nil {
		t.Fatalf("RecalculateFrom failed: %v", err)
	}

	groups, err := pdb.DayGroups(testOwner)
	if err != nil {
		t.Fatalf("DayGroups failed: %v", err)
	}
	if groups[0].DayID != dayIDs[2] {
		t.Fatal("moved day is not first in global order")
	}
	assertDates(t, groupDates(t, pdb), []string{"2024-01-01", "2024-01-02", "2024-01-03"})
}

func weekOf(t *testing.T, pdb *db.PlanDB, dayID string) string {
	t.Helper()
	item, err := pdb.GetItem(db.TierDay, testOwner, dayID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	return item.ParentID
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2024-02-29"); err != nil {
		t.Errorf("leap day rejected: %v", err)
	}
	for _, bad := range []string{"2024-13-01", "2024-02-30", "yesterday", ""} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestNextDay(t *testing.T) {
	if got := NextDay("2024-02-28"); got != "2024-02-29" {
		t.Errorf("NextDay = %s, want 2024-02-29", got)
	}
	if got := NextDay("2024-12-31"); got != "2025-01-01" {
		t.Errorf("NextDay = %s, want 2025-01-01", got)
	}
}
