// Package solver defines the optimization engine contract and the native
// branch-and-bound engine that satisfies it. The engine consumes a finished
// constraint model and produces a variable assignment or an infeasibility
// verdict.
package solver

import (
	"context"
	"time"

	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/cpmodel"
)

// Status classifies the outcome of a solve.
type Status string

const (
	// StatusOptimal means the search completed and the returned assignment
	// has the minimum objective value.
	StatusOptimal Status = "optimal"
	// StatusFeasible means an assignment was found but optimality was not
	// proven.
	StatusFeasible Status = "feasible"
	// StatusInfeasible means the search completed without finding any
	// assignment satisfying all hard constraints.
	StatusInfeasible Status = "infeasible"
	// StatusTimeout means the time budget ran out. The result still carries
	// the best assignment found so far, if any.
	StatusTimeout Status = "timeout"
	// StatusInvalid means the model failed structural validation.
	StatusInvalid Status = "invalid"
)

// Result is the outcome of one solve.
type Result struct {
	Status      Status        `json:"status"`
	HasSolution bool          `json:"has_solution"`
	Values      []int64       `json:"-"` // indexed by VarID, valid when HasSolution
	Objective   int64         `json:"objective"`
	Nodes       int64         `json:"nodes"`
	Duration    time.Duration `json:"duration"`
}

// Value returns the assigned value of one variable.
func (r *Result) Value(v cpmodel.VarID) int64 {
	return r.Values[v]
}

// Engine solves a constraint model. Implementations must honor context
// cancellation and return the best solution found so far on timeout.
type Engine interface {
	// Name identifies the engine in logs and solve metadata.
	Name() string

	// Solve searches for a minimum-objective assignment of m.
	Solve(ctx context.Context, m *cpmodel.Model) (*Result, error)
}
