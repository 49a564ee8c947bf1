package generator

import (
	"github.com/bluemens/dermatopathology-scheduler/pkg/model"
	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/cpmodel"
)

// AnnualTargetGenerator pins every physician's annual workload to the
// FTE-derived targets. Work metrics use equality: the targets are contractual
// obligations, so both under- and over-assignment are ruled out. TRIP and
// VACATION are capped instead, leaving unused capacity free; the SDO
// entitlement is owned by the SDO generator.
type AnnualTargetGenerator struct{}

// NewAnnualTargetGenerator creates the annual-target generator.
func NewAnnualTargetGenerator() *AnnualTargetGenerator {
	return &AnnualTargetGenerator{}
}

// Name returns the constraint group name.
func (g *AnnualTargetGenerator) Name() string { return GroupAnnualTargets }

// Generate emits the annual-target constraints.
func (g *AnnualTargetGenerator) Generate(ctx *Context) error {
	for _, p := range ctx.Input.Physicians {
		g.generatePhysician(ctx, p)
	}
	return nil
}

func (g *AnnualTargetGenerator) generatePhysician(ctx *Context, p *model.Physician) {
	// Total work across all non-time-off roles.
	work := cpmodel.NewLinearExpr()
	for _, role := range ctx.Input.Roles {
		if role.IsTimeOff() {
			continue
		}
		for _, rv := range ctx.Space.ForPhysicianRole(p.ID, role) {
			work.Add(rv.ID)
		}
	}
	g.addEquality(ctx, work, int64(p.Targets.TotalWork))

	// Per-category equalities for the work categories.
	for _, cat := range []model.RoleCategory{
		model.CategoryPathology, model.CategoryClinical,
		model.CategoryAdministrative, model.CategoryResearch,
	} {
		e := cpmodel.NewLinearExpr()
		for _, role := range ctx.Input.Roles {
			if role.Category() != cat {
				continue
			}
			for _, rv := range ctx.Space.ForPhysicianRole(p.ID, role) {
				e.Add(rv.ID)
			}
		}
		g.addEquality(ctx, e, int64(p.Targets.CategoryTarget(cat)))
	}

	// Individual-role metrics inside the clinical category.
	if ctx.Input.HasRole(model.RoleOSD) {
		g.addEquality(ctx, exprOf(ctx.Space.ForPhysicianRole(p.ID, model.RoleOSD)), int64(p.Targets.OSD))
	}
	if ctx.Input.HasRole(model.RoleNVC) {
		g.addEquality(ctx, exprOf(ctx.Space.ForPhysicianRole(p.ID, model.RoleNVC)), int64(p.Targets.NVC))
	}

	// Trip and vacation are ceilings, not obligations. Unused trip capacity
	// is absorbed elsewhere; unused vacation units feed next year's banking
	// computation, which lives outside the model.
	if trip := exprOf(ctx.Space.ForPhysicianRole(p.ID, model.RoleTrip)); trip != nil {
		ctx.Model.AddAtMost(GroupAnnualTargets, trip, int64(p.Targets.Trip))
	}
	if vac := exprOf(ctx.Space.ForPhysicianRole(p.ID, model.RoleVacation)); vac != nil {
		ctx.Model.AddAtMost(GroupAnnualTargets, vac, int64(p.Targets.Vacation))
	}
}

// addEquality adds sum == target, skipping the trivial empty-sum == 0 case.
// An empty sum with a positive target is still added: that slot of the input
// is genuinely unsatisfiable and the engine, not the builder, reports it.
func (g *AnnualTargetGenerator) addEquality(ctx *Context, e *cpmodel.LinearExpr, target int64) {
	if e == nil {
		e = cpmodel.NewLinearExpr()
	}
	if e.Len() == 0 && target == 0 {
		return
	}
	ctx.Model.AddEquality(GroupAnnualTargets, e, target)
}
