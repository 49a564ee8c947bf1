package generator

import (
	"fmt"

	"github.com/bluemens/dermatopathology-scheduler/pkg/model"
	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/cpmodel"
)

// ExclusivityGenerator enforces the single-role-per-half-day rule with the
// DP-family exception. Per (physician, day, period): at most one non-DP role,
// at most one active role category, and the DP block counts as one occupant
// against every non-DP role. DP-family roles are the only ones allowed to
// combine within a slot.
type ExclusivityGenerator struct{}

// NewExclusivityGenerator creates the role-exclusivity generator.
func NewExclusivityGenerator() *ExclusivityGenerator {
	return &ExclusivityGenerator{}
}

// Name returns the constraint group name.
func (g *ExclusivityGenerator) Name() string { return GroupExclusivity }

// Generate emits the exclusivity constraints.
func (g *ExclusivityGenerator) Generate(ctx *Context) error {
	for _, p := range ctx.Input.Physicians {
		for _, day := range ctx.Input.Days {
			for _, period := range model.Periods() {
				g.generateSlot(ctx, p, day, period)
			}
		}
	}
	return nil
}

// generateSlot emits the constraints for one half-day slot.
func (g *ExclusivityGenerator) generateSlot(ctx *Context, p *model.Physician, day model.CalendarDay, period model.HalfDayPeriod) {
	slotVars := ctx.Space.ForSlot(p.ID, day.Date, period)
	if len(slotVars) == 0 {
		return
	}

	// The DP block occupies the slot as a unit: one activation boolean over
	// the DP-family variables, counted alongside each individual non-DP role.
	// At most one occupant total, so DP roles stack with each other and with
	// nothing else.
	occupants := cpmodel.NewLinearExpr()
	var dpMembers []cpmodel.VarID
	for _, rv := range slotVars {
		if rv.Key.Role.IsDPFamily() {
			dpMembers = append(dpMembers, rv.ID)
		} else {
			occupants.Add(rv.ID)
		}
	}
	if len(dpMembers) > 0 {
		label := fmt.Sprintf("%s/%s/%s/dp_active", p.ID, day.Date, period)
		dpActive := ctx.Model.NewBoolVar(label)
		LinkActivation(ctx.Model, GroupExclusivity, dpActive, dpMembers)
		occupants.Add(dpActive)
	}
	if occupants.Len() > 1 {
		ctx.Model.AddAtMost(GroupExclusivity, occupants, 1)
	}

	// One activation boolean per category present in the slot; at most one
	// category active. Redundant given the occupancy constraint, but it keeps
	// category switching visible as its own named mechanism for diagnostics.
	actives := cpmodel.NewLinearExpr()
	for _, cat := range model.AllCategories() {
		var members []cpmodel.VarID
		for _, rv := range slotVars {
			if rv.Key.Role.Category() == cat {
				members = append(members, rv.ID)
			}
		}
		if len(members) == 0 {
			continue
		}

		label := fmt.Sprintf("%s/%s/%s/%s_active", p.ID, day.Date, period, cat)
		active := ctx.Model.NewBoolVar(label)
		LinkActivation(ctx.Model, GroupExclusivity, active, members)
		actives.Add(active)
	}
	if actives.Len() > 1 {
		ctx.Model.AddAtMost(GroupExclusivity, actives, 1)
	}
}
