package generator

import (
	"github.com/bluemens/dermatopathology-scheduler/pkg/model"
	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/cpmodel"
)

// SDOGenerator pins each part-time physician's scheduled-day-off units to the
// FTE-derived entitlement and makes SDO mutually exclusive with every other
// role on the same day. Full-time physicians have no SDO variables at all, so
// their entitlement of zero holds by construction.
type SDOGenerator struct{}

// NewSDOGenerator creates the SDO generator.
func NewSDOGenerator() *SDOGenerator {
	return &SDOGenerator{}
}

// Name returns the constraint group name.
func (g *SDOGenerator) Name() string { return GroupSDO }

// Generate emits the SDO constraints.
func (g *SDOGenerator) Generate(ctx *Context) error {
	if !ctx.Input.HasRole(model.RoleSDO) {
		return nil
	}
	for _, p := range ctx.Input.Physicians {
		g.generatePhysician(ctx, p)
	}
	return nil
}

func (g *SDOGenerator) generatePhysician(ctx *Context, p *model.Physician) {
	sdoVars := ctx.Space.ForPhysicianRole(p.ID, model.RoleSDO)

	// Entitlement. An empty variable set with a positive entitlement is left
	// to the engine to report as infeasible.
	e := exprOf(sdoVars)
	if e == nil {
		e = cpmodel.NewLinearExpr()
	}
	if e.Len() > 0 || p.Targets.SDO > 0 {
		ctx.Model.AddEquality(GroupSDO, e, int64(p.Targets.SDO))
	}

	// SDO on a day excludes every other role that day, both periods:
	// other <= 1 - sdo.
	for _, day := range ctx.Input.Days {
		dayVars := ctx.Space.ForPhysicianDay(p.ID, day.Date)

		var sdo, others []cpmodel.VarID
		for _, rv := range dayVars {
			if rv.Key.Role == model.RoleSDO {
				sdo = append(sdo, rv.ID)
			} else {
				others = append(others, rv.ID)
			}
		}
		for _, s := range sdo {
			for _, o := range others {
				pair := cpmodel.NewLinearExpr().Add(s).Add(o)
				ctx.Model.AddAtMost(GroupSDO, pair, 1)
			}
		}
	}
}
