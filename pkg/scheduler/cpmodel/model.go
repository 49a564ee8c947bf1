// Package cpmodel holds the boolean constraint model handed to the
// optimization engine: decision variables, linear constraints grouped under
// generator names, and a linear minimization objective.
package cpmodel

import (
	"fmt"
	"math"
)

// VarID indexes a variable within a model.
type VarID int32

// NoVar marks the absence of a variable.
const NoVar VarID = -1

// VarKind distinguishes decision variables from penalty slack.
type VarKind uint8

const (
	// KindBool is a 0/1 decision variable.
	KindBool VarKind = iota
	// KindSlack is a bounded non-negative integer used only by soft
	// constraints and the objective.
	KindSlack
)

// Variable describes one model variable.
type Variable struct {
	Kind  VarKind
	Ub    int64
	Label string
}

// Bounds sentinels for one-sided constraints.
const (
	NoLower = int64(math.MinInt64)
	NoUpper = int64(math.MaxInt64)
)

// Term is a coefficient applied to a variable.
type Term struct {
	Var   VarID
	Coeff int64
}

// LinearExpr is a sum of terms, built incrementally by the generators.
type LinearExpr struct {
	terms []Term
}

// NewLinearExpr creates an empty expression.
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{}
}

// Sum creates an expression summing the given variables with coefficient 1.
func Sum(vars ...VarID) *LinearExpr {
	e := NewLinearExpr()
	for _, v := range vars {
		e.Add(v)
	}
	return e
}

// Add appends a variable with coefficient 1.
func (e *LinearExpr) Add(v VarID) *LinearExpr {
	return e.AddTerm(v, 1)
}

// AddTerm appends a variable with an explicit coefficient.
func (e *LinearExpr) AddTerm(v VarID, coeff int64) *LinearExpr {
	e.terms = append(e.terms, Term{Var: v, Coeff: coeff})
	return e
}

// Terms returns the expression's terms. The slice is shared, not copied.
func (e *LinearExpr) Terms() []Term { return e.terms }

// Len returns the number of terms.
func (e *LinearExpr) Len() int { return len(e.terms) }

// Constraint is a linear constraint Lb <= sum(Terms) <= Ub, tagged with the
// name of the generator group that emitted it.
type Constraint struct {
	Terms []Term
	Lb    int64
	Ub    int64
	Group string
}

// Model is the shared constraint sink. It is purely additive: generators only
// ever append variables, constraints and objective terms.
type Model struct {
	vars       []Variable
	cons       []Constraint
	obj        []Term
	numBools   int
	groupOrder []string
	groupCount map[string]int
}

// New creates an empty model.
func New() *Model {
	return &Model{groupCount: make(map[string]int)}
}

// NewBoolVar allocates a 0/1 decision variable.
func (m *Model) NewBoolVar(label string) VarID {
	id := VarID(len(m.vars))
	m.vars = append(m.vars, Variable{Kind: KindBool, Ub: 1, Label: label})
	m.numBools++
	return id
}

// NewSlackVar allocates a non-negative integer slack variable bounded by ub.
func (m *Model) NewSlackVar(label string, ub int64) VarID {
	id := VarID(len(m.vars))
	m.vars = append(m.vars, Variable{Kind: KindSlack, Ub: ub, Label: label})
	return id
}

// AddLinear adds lb <= expr <= ub under the given group name.
func (m *Model) AddLinear(group string, e *LinearExpr, lb, ub int64) {
	m.cons = append(m.cons, Constraint{Terms: e.Terms(), Lb: lb, Ub: ub, Group: group})
	if _, ok := m.groupCount[group]; !ok {
		m.groupOrder = append(m.groupOrder, group)
	}
	m.groupCount[group]++
}

// AddEquality adds expr == rhs.
func (m *Model) AddEquality(group string, e *LinearExpr, rhs int64) {
	m.AddLinear(group, e, rhs, rhs)
}

// AddAtMost adds expr <= ub.
func (m *Model) AddAtMost(group string, e *LinearExpr, ub int64) {
	m.AddLinear(group, e, NoLower, ub)
}

// AddAtLeast adds expr >= lb.
func (m *Model) AddAtLeast(group string, e *LinearExpr, lb int64) {
	m.AddLinear(group, e, lb, NoUpper)
}

// FixZero forces a single variable to zero. An equality cannot be contradicted
// by inequalities elsewhere, so this always wins.
func (m *Model) FixZero(group string, v VarID) {
	m.AddEquality(group, Sum(v), 0)
}

// AddObjectiveTerm appends weight*v to the minimization objective. Weights
// must be non-negative; the engine relies on this for its bounding.
func (m *Model) AddObjectiveTerm(v VarID, weight int64) {
	if weight == 0 {
		return
	}
	m.obj = append(m.obj, Term{Var: v, Coeff: weight})
}

// Objective returns the minimization terms.
func (m *Model) Objective() []Term { return m.obj }

// Var returns the variable descriptor for id.
func (m *Model) Var(id VarID) Variable { return m.vars[id] }

// Variables returns all variable descriptors. The slice is shared, not copied.
func (m *Model) Variables() []Variable { return m.vars }

// Constraints returns all constraints. The slice is shared, not copied.
func (m *Model) Constraints() []Constraint { return m.cons }

// NumVariables returns the total variable count.
func (m *Model) NumVariables() int { return len(m.vars) }

// NumBooleans returns the decision-variable count.
func (m *Model) NumBooleans() int { return m.numBools }

// NumConstraints returns the constraint count.
func (m *Model) NumConstraints() int { return len(m.cons) }

// Groups returns the constraint group names in insertion order. Used to
// narrow diagnostics when the engine reports infeasibility.
func (m *Model) Groups() []string {
	groups := make([]string, len(m.groupOrder))
	copy(groups, m.groupOrder)
	return groups
}

// GroupCount returns how many constraints a group holds.
func (m *Model) GroupCount(group string) int { return m.groupCount[group] }

// Validate checks structural soundness before the model is handed over.
func (m *Model) Validate() error {
	for i, c := range m.cons {
		if c.Lb != NoLower && c.Ub != NoUpper && c.Lb > c.Ub {
			return fmt.Errorf("constraint %d (%s): lower bound %d above upper bound %d", i, c.Group, c.Lb, c.Ub)
		}
		for _, t := range c.Terms {
			if t.Var < 0 || int(t.Var) >= len(m.vars) {
				return fmt.Errorf("constraint %d (%s): unknown variable %d", i, c.Group, t.Var)
			}
		}
	}
	for _, t := range m.obj {
		if t.Var < 0 || int(t.Var) >= len(m.vars) {
			return fmt.Errorf("objective: unknown variable %d", t.Var)
		}
		if t.Coeff < 0 {
			return fmt.Errorf("objective: negative weight %d on variable %d", t.Coeff, t.Var)
		}
	}
	return nil
}
