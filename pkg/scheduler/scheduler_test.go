package scheduler

import (
	"context"
	"testing"

	"github.com/bluemens/dermatopathology-scheduler/pkg/errors"
	"github.com/bluemens/dermatopathology-scheduler/pkg/model"
	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/solver"
)

func mustPhysician(t *testing.T, name string, fte float64, targets model.Targets) *model.Physician {
	t.Helper()
	p, err := model.NewPhysicianWithTargets(name, fte, model.VacationCategory25, targets)
	if err != nil {
		t.Fatalf("NewPhysicianWithTargets(%s): %v", name, err)
	}
	return p
}

func mustInput(t *testing.T, physicians []*model.Physician, start, end string, roles []model.Role,
	coverage map[model.Role][]model.CoverageRequirement) *model.SchedulingInput {
	t.Helper()
	days, err := model.BuildHorizon(start, end)
	if err != nil {
		t.Fatalf("BuildHorizon: %v", err)
	}
	input, err := model.NewSchedulingInput(physicians, days, roles, coverage)
	if err != nil {
		t.Fatalf("NewSchedulingInput: %v", err)
	}
	return input
}

func run(t *testing.T, input *model.SchedulingInput) (*model.Schedule, *solver.Result, error) {
	t.Helper()
	s, err := New(input)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s.Run(context.Background())
}

func intPtr(v int) *int { return &v }

func periodPtr(p model.HalfDayPeriod) *model.HalfDayPeriod { return &p }

// Two physicians over a Monday and a Tuesday, with daily coverage floors and
// the afternoon diagnostics continuity chain. Workload 11+2 exactly matches
// the coverage demand worked out by hand.
func TestRunTwoDayPractice(t *testing.T) {
	a := mustPhysician(t, "Dr. Ash", 1.0, model.Targets{TotalWork: 11, Pathology: 11})
	b := mustPhysician(t, "Dr. Bell", 1.0, model.Targets{TotalWork: 2, Pathology: 2})
	roles := []model.Role{model.RoleIMF, model.RoleDP, model.RoleDPD, model.RoleDPED, model.RoleDPWG}
	coverage := map[model.Role][]model.CoverageRequirement{
		model.RoleIMF: {{Role: model.RoleIMF, MinUnits: 1}},
		model.RoleDP:  {{Role: model.RoleDP, MinUnits: 2}},
		model.RoleDPD: {
			{Role: model.RoleDPD, Period: periodPtr(model.Morning), MinUnits: 1, MaxUnits: intPtr(1)},
			{Role: model.RoleDPD, Period: periodPtr(model.Afternoon), MinUnits: 1, MaxUnits: intPtr(1)},
		},
	}
	// 2026-01-05 is a Monday.
	input := mustInput(t, []*model.Physician{a, b}, "2026-01-05", "2026-01-06", roles, coverage)

	schedule, res, err := run(t, input)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != solver.StatusOptimal || res.Objective != 0 {
		t.Fatalf("status %s objective %d, want optimal with 0", res.Status, res.Objective)
	}

	if got := schedule.CategoryUnits(a.ID, model.CategoryPathology); got != 11 {
		t.Errorf("Ash pathology units = %d, want 11", got)
	}
	if got := schedule.CategoryUnits(b.ID, model.CategoryPathology); got != 2 {
		t.Errorf("Bell pathology units = %d, want 2", got)
	}

	for _, date := range []string{"2026-01-05", "2026-01-06"} {
		if got := schedule.CoverageUnits(date, model.RoleDP); got < 2 {
			t.Errorf("%s: dp coverage = %d, want at least 2", date, got)
		}
		if got := schedule.CoverageUnits(date, model.RoleIMF); got < 1 {
			t.Errorf("%s: imf coverage = %d, want at least 1", date, got)
		}
		if got := schedule.CoverageUnits(date, model.RoleDPD); got != 2 {
			t.Errorf("%s: dpd coverage = %d, want exactly 2", date, got)
		}
	}

	// IMF never shares a slot with anything else.
	for _, slot := range schedule.Slots {
		if slot.HasRole(model.RoleIMF) && len(slot.Roles) != 1 {
			t.Errorf("imf stacked with %v in slot %s/%s", slot.Roles, slot.Date, slot.Period)
		}
	}

	// Tuesday afternoon: the DPD holder also carries DPED and DPWG.
	for _, p := range input.Physicians {
		slot, ok := schedule.Slot(p.ID, "2026-01-06", model.Afternoon)
		if !ok {
			t.Fatalf("missing Tuesday afternoon slot for %s", p.Name)
		}
		if slot.HasRole(model.RoleDPD) != slot.HasRole(model.RoleDPED) ||
			slot.HasRole(model.RoleDPD) != slot.HasRole(model.RoleDPWG) {
			t.Errorf("%s Tuesday afternoon: dpd/dped/dpwg not coupled, roles %v", p.Name, slot.Roles)
		}
	}
}

func TestRunPreferenceShortfallPenalized(t *testing.T) {
	p := mustPhysician(t, "Dr. Cole", 1.0, model.Targets{
		TotalWork: 10, Pathology: 8, Clinical: 2, OSD: 2,
	})
	// Five DP days are wished for but the pathology target leaves room for
	// only four, a shortfall of two half-day units.
	if err := p.AddPreference(model.RolePreference{Role: model.RoleDP, DaysPerWeek: 5, Weight: 0.5}); err != nil {
		t.Fatalf("AddPreference: %v", err)
	}
	input := mustInput(t, []*model.Physician{p}, "2026-03-02", "2026-03-06",
		[]model.Role{model.RoleDP, model.RoleOSD}, nil)

	schedule, res, err := run(t, input)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != solver.StatusOptimal {
		t.Fatalf("status = %s, want optimal", res.Status)
	}
	if res.Objective != 100 {
		t.Errorf("objective = %d, want 100 (2 units short at weight 50)", res.Objective)
	}
	if got := schedule.AssignedUnits(p.ID, model.RoleDP); got != 8 {
		t.Errorf("dp units = %d, want 8", got)
	}
	if got := schedule.AssignedUnits(p.ID, model.RoleOSD); got != 2 {
		t.Errorf("osd units = %d, want 2", got)
	}
}

func TestRunPartTimeSDODays(t *testing.T) {
	p := mustPhysician(t, "Dr. Drew", 0.5, model.Targets{TotalWork: 2, Pathology: 2, SDO: 2})
	input := mustInput(t, []*model.Physician{p}, "2026-03-02", "2026-03-03",
		[]model.Role{model.RoleDP, model.RoleSDO}, nil)

	schedule, res, err := run(t, input)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != solver.StatusOptimal {
		t.Fatalf("status = %s, want optimal", res.Status)
	}
	if got := schedule.AssignedUnits(p.ID, model.RoleSDO); got != 2 {
		t.Errorf("sdo units = %d, want 2", got)
	}
	if got := schedule.CategoryUnits(p.ID, model.CategoryPathology); got != 2 {
		t.Errorf("pathology units = %d, want 2", got)
	}

	// Each day is entirely work or entirely off.
	for _, date := range []string{"2026-03-02", "2026-03-03"} {
		sdo, dp := 0, 0
		for _, slot := range schedule.SlotsForDate(date) {
			if slot.HasRole(model.RoleSDO) {
				sdo++
			}
			if slot.HasRole(model.RoleDP) {
				dp++
			}
		}
		if sdo > 0 && dp > 0 {
			t.Errorf("%s mixes %d sdo and %d dp units on one day", date, sdo, dp)
		}
	}
}

func TestRunInfeasibleWhenFullyUnavailable(t *testing.T) {
	p := mustPhysician(t, "Dr. Eve", 1.0, model.Targets{TotalWork: 2, Pathology: 2})
	p.SetUnavailable("2026-03-02", "2026-03-03")
	input := mustInput(t, []*model.Physician{p}, "2026-03-02", "2026-03-03",
		[]model.Role{model.RoleDP}, nil)

	schedule, res, err := run(t, input)
	if err == nil {
		t.Fatal("expected an infeasibility error")
	}
	if !errors.Is(err, errors.CodeNoFeasibleSolution) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.CodeNoFeasibleSolution)
	}
	if schedule != nil {
		t.Error("no schedule should be returned on infeasibility")
	}
	if res == nil || res.Status != solver.StatusInfeasible {
		t.Errorf("result status should be infeasible, got %+v", res)
	}
}

func TestRunUnavailableDayStaysIdle(t *testing.T) {
	p := mustPhysician(t, "Dr. Faye", 1.0, model.Targets{TotalWork: 2, Pathology: 2})
	p.SetUnavailable("2026-03-02")
	input := mustInput(t, []*model.Physician{p}, "2026-03-02", "2026-03-03",
		[]model.Role{model.RoleDP}, nil)

	schedule, res, err := run(t, input)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != solver.StatusOptimal {
		t.Fatalf("status = %s, want optimal", res.Status)
	}
	for _, period := range model.Periods() {
		off, _ := schedule.Slot(p.ID, "2026-03-02", period)
		if !off.IsIdle() {
			t.Errorf("unavailable day carries roles %v in the %s", off.Roles, period)
		}
		on, _ := schedule.Slot(p.ID, "2026-03-03", period)
		if !on.HasRole(model.RoleDP) {
			t.Errorf("available day should carry dp in the %s", period)
		}
	}
	if got := len(schedule.IdleSlots()); got != 2 {
		t.Errorf("idle slots = %d, want 2", got)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("nil input should be rejected")
	}

	input := &model.SchedulingInput{}
	if _, err := New(input); err == nil {
		t.Error("empty input should fail validation")
	}
}

func TestVariableAllocationSkipsInapplicableTuples(t *testing.T) {
	full := mustPhysician(t, "Dr. Gray", 1.0, model.Targets{TotalWork: 2, Pathology: 2})
	part := mustPhysician(t, "Dr. Hale", 0.5, model.Targets{TotalWork: 2, Pathology: 2, SDO: 2})
	input := mustInput(t, []*model.Physician{full, part}, "2026-03-02", "2026-03-02",
		[]model.Role{model.RoleDP, model.RoleOSD, model.RoleSDO}, nil)

	s, err := New(input)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, space, err := s.BuildModel()
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}

	// Full-time physicians get no SDO variables; a zero clinical target
	// suppresses the clinical roles for both.
	if got := len(space.ForPhysicianRole(full.ID, model.RoleSDO)); got != 0 {
		t.Errorf("full-time sdo vars = %d, want 0", got)
	}
	if got := len(space.ForPhysicianRole(part.ID, model.RoleSDO)); got != 2 {
		t.Errorf("part-time sdo vars = %d, want 2", got)
	}
	if got := len(space.ForPhysicianRole(full.ID, model.RoleOSD)); got != 0 {
		t.Errorf("osd vars with zero clinical target = %d, want 0", got)
	}
	if got := len(space.ForPhysicianRole(full.ID, model.RoleDP)); got != 2 {
		t.Errorf("dp vars = %d, want 2", got)
	}
}
