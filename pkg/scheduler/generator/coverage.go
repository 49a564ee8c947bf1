package generator

import (
	"time"

	"github.com/bluemens/dermatopathology-scheduler/pkg/model"
	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/cpmodel"
)

// CoverageGenerator enforces the practice-wide daily coverage bounds and the
// weekday continuity coupling: the physician holding afternoon DPD also holds
// afternoon DPED Monday through Friday, plus afternoon DPWG on Tuesdays and
// Thursdays. Weekends carry only the baseline coverage bounds.
type CoverageGenerator struct{}

// NewCoverageGenerator creates the coverage generator.
func NewCoverageGenerator() *CoverageGenerator {
	return &CoverageGenerator{}
}

// Name returns the constraint group name.
func (g *CoverageGenerator) Name() string { return GroupCoverage }

// Generate emits the coverage constraints.
func (g *CoverageGenerator) Generate(ctx *Context) error {
	for _, day := range ctx.Input.Days {
		g.generateBounds(ctx, day)
		if !day.IsWeekend() {
			g.generateContinuity(ctx, day)
		}
	}
	return nil
}

// generateBounds applies the configured coverage requirements to one day.
// Iteration follows the input role order so emission is deterministic.
func (g *CoverageGenerator) generateBounds(ctx *Context, day model.CalendarDay) {
	for _, role := range ctx.Input.Roles {
		for _, req := range ctx.Input.Coverage[role] {
			var vars []cpmodel.RoleVar
			if req.Period == nil {
				vars = ctx.Space.ForDayRole(day.Date, role)
			} else {
				vars = ctx.Space.ForDayPeriodRole(day.Date, *req.Period, role)
			}

			e := exprOf(vars)
			if e == nil {
				e = cpmodel.NewLinearExpr()
				if req.MinUnits == 0 {
					continue
				}
			}

			ub := cpmodel.NoUpper
			if req.MaxUnits != nil {
				ub = int64(*req.MaxUnits)
			}
			ctx.Model.AddLinear(GroupCoverage, e, int64(req.MinUnits), ub)
		}
	}
}

// generateContinuity couples afternoon DPD to afternoon DPED (and DPWG on
// Tuesday/Thursday) per physician. The equalities are conditional on the
// physician actually taking DPD: with DPD at zero they force the linked roles
// to zero too, so the solver's search decides who, if anyone, takes the
// triplet.
func (g *CoverageGenerator) generateContinuity(ctx *Context, day model.CalendarDay) {
	linked := []model.Role{model.RoleDPED}
	if day.Weekday == time.Tuesday || day.Weekday == time.Thursday {
		linked = append(linked, model.RoleDPWG)
	}

	for _, p := range ctx.Input.Physicians {
		dpd, ok := ctx.Space.Lookup(cpmodel.Key{
			Physician: p.ID, Date: day.Date, Period: model.Afternoon, Role: model.RoleDPD,
		})
		if !ok {
			continue
		}
		for _, role := range linked {
			other, ok := ctx.Space.Lookup(cpmodel.Key{
				Physician: p.ID, Date: day.Date, Period: model.Afternoon, Role: role,
			})
			if !ok {
				continue
			}
			diff := cpmodel.NewLinearExpr().Add(dpd).AddTerm(other, -1)
			ctx.Model.AddEquality(GroupCoverage, diff, 0)
		}
	}
}
