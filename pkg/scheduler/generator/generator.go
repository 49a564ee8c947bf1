// Package generator provides the constraint generators that translate the
// domain model into the shared constraint model. Each generator is
// independent: it reads the variable space and domain model and only appends
// to the model, so generators may run in any order.
package generator

import (
	"fmt"

	"github.com/bluemens/dermatopathology-scheduler/pkg/logger"
	"github.com/bluemens/dermatopathology-scheduler/pkg/model"
	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/cpmodel"
)

// Constraint group names, one per generator. Infeasibility diagnostics report
// these back to the caller.
const (
	GroupExclusivity        = "role_exclusivity"
	GroupAvailability       = "availability"
	GroupAnnualTargets      = "annual_targets"
	GroupCoverage           = "coverage"
	GroupSDO                = "sdo"
	GroupWeeklyRequirements = "weekly_requirements"
	GroupWeeklyPreferences  = "weekly_preferences"
)

// Context carries the shared state every generator consumes: the validated
// input, the variable space and the constraint sink. Generators never hold
// ambient state of their own.
type Context struct {
	Input *model.SchedulingInput
	Model *cpmodel.Model
	Space *cpmodel.Space
}

// Generator emits one group of hard or soft constraints into the model.
type Generator interface {
	// Name returns the constraint group name.
	Name() string

	// Generate appends this generator's constraints to ctx.Model.
	Generate(ctx *Context) error
}

// DefaultGenerators returns the full generator set in its conventional order.
// The order is cosmetic: constraint satisfaction does not depend on it.
func DefaultGenerators() []Generator {
	return []Generator{
		NewExclusivityGenerator(),
		NewAvailabilityGenerator(),
		NewAnnualTargetGenerator(),
		NewCoverageGenerator(),
		NewSDOGenerator(),
		NewWeeklyGenerator(),
	}
}

// Builder runs a set of generators against a context.
type Builder struct {
	generators []Generator
	log        *logger.ModelLogger
}

// NewBuilder creates a builder. With no generators given, the default set is
// used.
func NewBuilder(generators ...Generator) *Builder {
	if len(generators) == 0 {
		generators = DefaultGenerators()
	}
	return &Builder{generators: generators, log: logger.NewModelLogger()}
}

// Build runs every generator. The first generator error aborts the build.
func (b *Builder) Build(ctx *Context) error {
	for _, g := range b.generators {
		before := ctx.Model.NumConstraints()
		if err := g.Generate(ctx); err != nil {
			return fmt.Errorf("generator %s: %w", g.Name(), err)
		}
		b.log.GeneratorDone(g.Name(), ctx.Model.NumConstraints()-before)
	}
	return nil
}

// exprOf builds a coefficient-1 sum over role variables. A nil return means
// no variable was allocated for any of the tuples: the term set is empty.
func exprOf(vars []cpmodel.RoleVar) *cpmodel.LinearExpr {
	if len(vars) == 0 {
		return nil
	}
	e := cpmodel.NewLinearExpr()
	for _, rv := range vars {
		e.Add(rv.ID)
	}
	return e
}
