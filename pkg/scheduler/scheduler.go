// Package scheduler orchestrates the scheduling pipeline: variable
// allocation, constraint generation, solving and solution extraction.
package scheduler

import (
	"context"

	"github.com/google/uuid"

	"github.com/bluemens/dermatopathology-scheduler/pkg/errors"
	"github.com/bluemens/dermatopathology-scheduler/pkg/logger"
	"github.com/bluemens/dermatopathology-scheduler/pkg/model"
	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/cpmodel"
	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/generator"
	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/solver"
)

// Scheduler builds the constraint model for one scheduling input and drives
// it through an optimization engine.
type Scheduler struct {
	id         uuid.UUID
	input      *model.SchedulingInput
	engine     solver.Engine
	generators []generator.Generator
	log        *logger.ModelLogger
}

// Option configures a scheduler.
type Option func(*Scheduler)

// WithEngine selects the optimization engine. The default is the native
// branch-and-bound engine.
func WithEngine(e solver.Engine) Option {
	return func(s *Scheduler) { s.engine = e }
}

// WithGenerators replaces the default constraint generator set.
func WithGenerators(gens ...generator.Generator) Option {
	return func(s *Scheduler) { s.generators = gens }
}

// New creates a scheduler for the given input. The input is validated here so
// every later stage can trust it.
func New(input *model.SchedulingInput, opts ...Option) (*Scheduler, error) {
	if input == nil {
		return nil, errors.New(errors.CodeInvalidInput, "scheduling input is nil")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	s := &Scheduler{
		id:     uuid.New(),
		input:  input,
		engine: solver.NewDFSEngine(),
		log:    logger.NewModelLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ID returns the identifier this run reports in logs.
func (s *Scheduler) ID() uuid.UUID { return s.id }

// BuildModel allocates the variable space and runs the constraint generators.
// The returned model has passed structural validation.
func (s *Scheduler) BuildModel() (*cpmodel.Model, *cpmodel.Space, error) {
	m := cpmodel.New()
	space := cpmodel.NewSpace(m)

	s.allocateVariables(space)

	builder := generator.NewBuilder(s.generators...)
	gctx := &generator.Context{Input: s.input, Model: m, Space: space}
	if err := builder.Build(gctx); err != nil {
		return nil, nil, errors.Wrap(err, errors.CodeModelInvalid, "constraint generation failed")
	}
	if err := m.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, errors.CodeModelInvalid, "model validation failed")
	}
	return m, space, nil
}

// allocateVariables creates one decision variable per applicable
// (physician, day, period, role) tuple. Tuples a physician can never use are
// left out of the space entirely: SDO for full-time physicians, and every role
// of a work category whose annual target is zero. Absent means inapplicable,
// so no constraint has to zero these out.
func (s *Scheduler) allocateVariables(space *cpmodel.Space) {
	for _, p := range s.input.Physicians {
		for _, day := range s.input.Days {
			for _, period := range model.Periods() {
				for _, role := range s.input.Roles {
					if !s.applicable(p, role) {
						continue
					}
					space.GetOrCreate(cpmodel.Key{
						Physician: p.ID,
						Date:      day.Date,
						Period:    period,
						Role:      role,
					})
				}
			}
		}
	}
}

func (s *Scheduler) applicable(p *model.Physician, role model.Role) bool {
	if role == model.RoleSDO {
		return !p.IsFullTime() && p.Targets.SDO > 0
	}
	switch cat := role.Category(); cat {
	case model.CategoryPathology, model.CategoryClinical,
		model.CategoryAdministrative, model.CategoryResearch:
		return p.Targets.CategoryTarget(cat) > 0
	}
	return true
}

// Run builds the model, solves it and extracts the schedule. On timeout with a
// partial-quality solution the schedule is still returned alongside the solver
// result so the caller can decide whether to accept it.
func (s *Scheduler) Run(ctx context.Context) (*model.Schedule, *solver.Result, error) {
	id := s.id.String()
	s.log.StartBuild(id, len(s.input.Physicians), len(s.input.Days))

	m, space, err := s.BuildModel()
	if err != nil {
		return nil, nil, err
	}
	s.log.BuildComplete(id, m.NumVariables(), m.NumConstraints())

	res, err := s.engine.Solve(ctx, m)
	if err != nil {
		return nil, res, errors.Wrap(err, errors.CodeModelInvalid, "solve failed")
	}
	s.log.SolveComplete(id, string(res.Status), res.Duration, res.Objective)

	if !res.HasSolution {
		if res.Status == solver.StatusTimeout {
			return nil, res, errors.New(errors.CodeTimeout, "time limit reached before any solution was found")
		}
		s.log.Infeasible(id, m.Groups())
		return nil, res, errors.NoFeasibleSolution("no assignment satisfies all hard constraints").
			WithField("constraint_groups", m.Groups())
	}

	schedule := ExtractSchedule(s.input, space, res)
	return schedule, res, nil
}
