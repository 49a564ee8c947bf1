package generator

import (
	"fmt"
	"math"
	"sort"

	"github.com/bluemens/dermatopathology-scheduler/pkg/model"
	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/cpmodel"
)

// preferenceWeightScale converts fractional preference weights to the integer
// objective coefficients the engine works with.
const preferenceWeightScale = 100

// WeeklyGenerator emits the per-week cadence constraints: hard floors for role
// requirements and penalized shortfall slack for role preferences. Both bind
// only on complete Monday-through-Friday weeks, so a horizon that starts or
// ends midweek never carries an artificially unsatisfiable week.
type WeeklyGenerator struct{}

// NewWeeklyGenerator creates the weekly-cadence generator.
func NewWeeklyGenerator() *WeeklyGenerator {
	return &WeeklyGenerator{}
}

// Name returns the constraint group name.
func (g *WeeklyGenerator) Name() string { return GroupWeeklyRequirements }

// Generate emits the weekly constraints.
func (g *WeeklyGenerator) Generate(ctx *Context) error {
	weeks := completeWeeks(ctx.Input.Days)

	for _, p := range ctx.Input.Physicians {
		for _, wk := range weeks {
			for _, req := range p.Requirements {
				g.generateRequirement(ctx, p, wk, req)
			}
			for _, pref := range p.Preferences {
				g.generatePreference(ctx, p, wk, pref)
			}
		}
	}
	return nil
}

// generateRequirement adds sum(role over week) >= floor.
func (g *WeeklyGenerator) generateRequirement(ctx *Context, p *model.Physician, wk week, req model.RoleRequirement) {
	if req.Units() == 0 {
		return
	}
	e := g.weekExpr(ctx, p, wk, req.Role)
	if e == nil {
		e = cpmodel.NewLinearExpr()
	}
	ctx.Model.AddAtLeast(GroupWeeklyRequirements, e, int64(req.Units()))
}

// generatePreference adds slack + sum(role over week) >= wish with the slack
// penalized in the objective. Slack absorbs exactly the shortfall: nothing
// pushes it above the minimum needed, and surplus assignment earns no reward.
func (g *WeeklyGenerator) generatePreference(ctx *Context, p *model.Physician, wk week, pref model.RolePreference) {
	units := pref.Units()
	weight := int64(math.Round(pref.Weight * preferenceWeightScale))
	if units == 0 || weight == 0 {
		return
	}

	e := g.weekExpr(ctx, p, wk, pref.Role)
	if e == nil {
		e = cpmodel.NewLinearExpr()
	}

	label := fmt.Sprintf("%s/%s/%s_shortfall", p.ID, wk.key, pref.Role)
	slack := ctx.Model.NewSlackVar(label, int64(units))
	e.Add(slack)
	ctx.Model.AddAtLeast(GroupWeeklyPreferences, e, int64(units))
	ctx.Model.AddObjectiveTerm(slack, weight)
}

// weekExpr sums the physician's variables for a role across both periods of
// every day in the week. Returns nil when no variables exist.
func (g *WeeklyGenerator) weekExpr(ctx *Context, p *model.Physician, wk week, role model.Role) *cpmodel.LinearExpr {
	var e *cpmodel.LinearExpr
	for _, day := range wk.days {
		for _, period := range model.Periods() {
			id, ok := ctx.Space.Lookup(cpmodel.Key{
				Physician: p.ID, Date: day.Date, Period: period, Role: role,
			})
			if !ok {
				continue
			}
			if e == nil {
				e = cpmodel.NewLinearExpr()
			}
			e.Add(id)
		}
	}
	return e
}

type week struct {
	key  string
	days []model.CalendarDay
}

// completeWeeks returns the horizon's complete work weeks in chronological
// order. Map iteration is unordered, so weeks are sorted by their first day to
// keep model emission deterministic.
func completeWeeks(days []model.CalendarDay) []week {
	grouped := model.GroupByISOWeek(days)

	var weeks []week
	for key, wkDays := range grouped {
		if !model.IsCompleteWorkWeek(wkDays) {
			continue
		}
		weeks = append(weeks, week{key: key.String(), days: wkDays})
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].days[0].Date < weeks[j].days[0].Date
	})
	return weeks
}
