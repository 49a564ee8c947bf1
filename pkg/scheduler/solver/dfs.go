package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/cpmodel"
)

// defaultTimeLimit bounds a solve when neither the engine option nor the
// context supplies a deadline.
const defaultTimeLimit = 60 * time.Second

// deadlineCheckInterval is how many nodes pass between deadline checks.
const deadlineCheckInterval = 256

// DFSEngine is the native depth-first branch-and-bound engine. It branches on
// the boolean decision variables with bounds-consistency propagation and
// assigns penalty slack analytically at each leaf, so slack never widens the
// search tree. Engine state lives per solve; the engine itself is safe to
// share.
//
// One structural requirement beyond cpmodel.Model.Validate: a constraint may
// reference at most one slack variable. The constraint builders satisfy this
// by construction.
type DFSEngine struct {
	timeLimit time.Duration
}

// DFSOption configures the engine.
type DFSOption func(*DFSEngine)

// WithTimeLimit sets the per-solve wall-clock budget.
func WithTimeLimit(d time.Duration) DFSOption {
	return func(e *DFSEngine) { e.timeLimit = d }
}

// NewDFSEngine creates the engine.
func NewDFSEngine(opts ...DFSOption) *DFSEngine {
	e := &DFSEngine{timeLimit: defaultTimeLimit}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name identifies the engine.
func (e *DFSEngine) Name() string { return "dfs" }

// Solve runs the search. On timeout the best assignment found so far is
// returned with StatusTimeout.
func (e *DFSEngine) Solve(ctx context.Context, m *cpmodel.Model) (*Result, error) {
	start := time.Now()

	if err := m.Validate(); err != nil {
		return &Result{Status: StatusInvalid, Duration: time.Since(start)}, err
	}

	s, err := newSearch(m)
	if err != nil {
		return &Result{Status: StatusInvalid, Duration: time.Since(start)}, err
	}

	s.deadline = start.Add(e.timeLimit)
	if d, ok := ctx.Deadline(); ok && d.Before(s.deadline) {
		s.deadline = d
	}

	if s.root() {
		s.dfs(ctx)
	}

	res := &Result{
		Nodes:    s.nodes,
		Duration: time.Since(start),
	}
	switch {
	case s.timedOut:
		res.Status = StatusTimeout
	case s.hasBest:
		res.Status = StatusOptimal
	default:
		res.Status = StatusInfeasible
	}
	if s.hasBest {
		res.HasSolution = true
		res.Values = s.best
		res.Objective = s.bestObj
	}
	return res, nil
}

// conState is the incremental activity window of one constraint: the minimum
// and maximum achievable value of its expression given the assignments so far,
// with slack contributing its full range as a constant.
type conState struct {
	lb, ub         int64
	minAct, maxAct int64
}

type occurrence struct {
	con   int
	coeff int64
}

type pendingAssign struct {
	v   cpmodel.VarID
	val int64
}

type search struct {
	vars []cpmodel.Variable
	cons []cpmodel.Constraint

	state []conState
	occ   [][]occurrence // per boolean variable

	slackCons map[cpmodel.VarID][]occurrence
	slackIDs  []cpmodel.VarID

	objBool  []cpmodel.Term
	objSlack []cpmodel.Term

	vals  []int64 // -1 means unassigned
	trail []cpmodel.VarID
	leaf  []int64 // scratch snapshot, reused across leaves

	best    []int64
	bestObj int64
	hasBest bool
	done    bool

	nodes    int64
	deadline time.Time
	timedOut bool
}

func newSearch(m *cpmodel.Model) (*search, error) {
	s := &search{
		vars:      m.Variables(),
		cons:      m.Constraints(),
		state:     make([]conState, m.NumConstraints()),
		occ:       make([][]occurrence, m.NumVariables()),
		slackCons: make(map[cpmodel.VarID][]occurrence),
		vals:      make([]int64, m.NumVariables()),
		leaf:      make([]int64, m.NumVariables()),
	}
	for i := range s.vals {
		s.vals[i] = -1
	}
	for id, v := range s.vars {
		if v.Kind == cpmodel.KindSlack {
			s.slackIDs = append(s.slackIDs, cpmodel.VarID(id))
		}
	}

	for ci, c := range s.cons {
		st := &s.state[ci]
		st.lb, st.ub = c.Lb, c.Ub

		slackTerms := 0
		for _, t := range c.Terms {
			if s.vars[t.Var].Kind == cpmodel.KindBool {
				st.minAct += minContrib(t.Coeff)
				st.maxAct += maxContrib(t.Coeff)
				s.occ[t.Var] = append(s.occ[t.Var], occurrence{con: ci, coeff: t.Coeff})
				continue
			}
			slackTerms++
			if slackTerms > 1 {
				return nil, fmt.Errorf("constraint %d (%s): more than one slack variable", ci, c.Group)
			}
			span := t.Coeff * s.vars[t.Var].Ub
			if span < 0 {
				st.minAct += span
			} else {
				st.maxAct += span
			}
			s.slackCons[t.Var] = append(s.slackCons[t.Var], occurrence{con: ci, coeff: t.Coeff})
		}
	}

	for _, t := range m.Objective() {
		if s.vars[t.Var].Kind == cpmodel.KindBool {
			s.objBool = append(s.objBool, t)
		} else {
			s.objSlack = append(s.objSlack, t)
		}
	}
	return s, nil
}

func minContrib(c int64) int64 {
	if c < 0 {
		return c
	}
	return 0
}

func maxContrib(c int64) int64 {
	if c > 0 {
		return c
	}
	return 0
}

// root checks the initial activity windows and runs the first round of
// propagation. A false return means the model is infeasible outright.
func (s *search) root() bool {
	var pending []pendingAssign
	for ci := range s.cons {
		st := &s.state[ci]
		if st.minAct > st.ub || st.maxAct < st.lb {
			return false
		}
		if !s.scanForced(ci, &pending) {
			return false
		}
	}
	return s.propagate(pending)
}

// dfs is the recursive branch step.
func (s *search) dfs(ctx context.Context) {
	if s.done || s.timedOut {
		return
	}
	s.nodes++
	if s.nodes%deadlineCheckInterval == 0 {
		if ctx.Err() != nil || time.Now().After(s.deadline) {
			s.timedOut = true
			return
		}
	}
	if s.hasBest && s.objectiveBound() >= s.bestObj {
		return
	}

	v := s.nextUnassigned()
	if v == cpmodel.NoVar {
		s.recordLeaf()
		return
	}

	for _, val := range [2]int64{1, 0} {
		mark := len(s.trail)
		if s.propagate([]pendingAssign{{v: v, val: val}}) {
			s.dfs(ctx)
		}
		s.undoTo(mark)
		if s.done || s.timedOut {
			return
		}
	}
}

func (s *search) nextUnassigned() cpmodel.VarID {
	for id := range s.vars {
		if s.vars[id].Kind == cpmodel.KindBool && s.vals[id] < 0 {
			return cpmodel.VarID(id)
		}
	}
	return cpmodel.NoVar
}

// propagate applies the pending assignments plus every assignment they force
// in turn. A false return means a constraint's activity window emptied; the
// caller unwinds via undoTo.
func (s *search) propagate(pending []pendingAssign) bool {
	for len(pending) > 0 {
		p := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		if s.vals[p.v] >= 0 {
			if s.vals[p.v] != p.val {
				return false
			}
			continue
		}
		if !s.assign(p.v, p.val) {
			return false
		}
		for _, o := range s.occ[p.v] {
			if !s.scanForced(o.con, &pending) {
				return false
			}
		}
	}
	return true
}

func (s *search) assign(v cpmodel.VarID, val int64) bool {
	s.vals[v] = val
	s.trail = append(s.trail, v)
	ok := true
	for _, o := range s.occ[v] {
		st := &s.state[o.con]
		st.minAct += o.coeff*val - minContrib(o.coeff)
		st.maxAct += o.coeff*val - maxContrib(o.coeff)
		if st.minAct > st.ub || st.maxAct < st.lb {
			ok = false
		}
	}
	return ok
}

// scanForced inspects one constraint's unassigned booleans. Any variable with
// only one feasible value is queued; a variable with none fails the scan.
func (s *search) scanForced(ci int, pending *[]pendingAssign) bool {
	st := &s.state[ci]
	for _, t := range s.cons[ci].Terms {
		if s.vars[t.Var].Kind != cpmodel.KindBool || s.vals[t.Var] >= 0 {
			continue
		}
		zeroOK := s.valueFits(st, t.Coeff, 0)
		oneOK := s.valueFits(st, t.Coeff, 1)
		switch {
		case !zeroOK && !oneOK:
			return false
		case !zeroOK:
			*pending = append(*pending, pendingAssign{v: t.Var, val: 1})
		case !oneOK:
			*pending = append(*pending, pendingAssign{v: t.Var, val: 0})
		}
	}
	return true
}

// valueFits reports whether fixing an unassigned variable with coefficient c
// to val leaves the constraint's activity window non-empty.
func (s *search) valueFits(st *conState, c, val int64) bool {
	newMin := st.minAct - minContrib(c) + c*val
	newMax := st.maxAct - maxContrib(c) + c*val
	return newMin <= st.ub && newMax >= st.lb
}

func (s *search) undoTo(mark int) {
	for len(s.trail) > mark {
		v := s.trail[len(s.trail)-1]
		s.trail = s.trail[:len(s.trail)-1]
		val := s.vals[v]
		s.vals[v] = -1
		for _, o := range s.occ[v] {
			st := &s.state[o.con]
			st.minAct -= o.coeff*val - minContrib(o.coeff)
			st.maxAct -= o.coeff*val - maxContrib(o.coeff)
		}
	}
}

// objectiveBound is an admissible lower bound on the objective reachable below
// the current node: assigned boolean terms at their value, unassigned at zero,
// and each slack at the minimum its lower-bounded constraints already force
// given the maximum remaining boolean activity. Only the positive-coefficient
// lower-bound shape contributes; other shapes bound trivially at zero.
func (s *search) objectiveBound() int64 {
	var bound int64
	for _, t := range s.objBool {
		if v := s.vals[t.Var]; v > 0 {
			bound += t.Coeff * v
		}
	}
	for _, t := range s.objSlack {
		bound += t.Coeff * s.slackImpliedMin(t.Var)
	}
	return bound
}

func (s *search) slackImpliedMin(v cpmodel.VarID) int64 {
	var implied int64
	ub := s.vars[v].Ub
	for _, o := range s.slackCons[v] {
		st := &s.state[o.con]
		if o.coeff <= 0 || st.lb == cpmodel.NoLower {
			continue
		}
		boolMax := st.maxAct - o.coeff*ub
		if need := ceilDiv(st.lb-boolMax, o.coeff); need > implied {
			implied = need
		}
	}
	return implied
}

// recordLeaf evaluates a complete boolean assignment: slack values are derived
// analytically per constraint, and the solution replaces the incumbent when it
// improves the objective.
func (s *search) recordLeaf() {
	copy(s.leaf, s.vals)

	for _, sv := range s.slackIDs {
		lo, hi := int64(0), s.vars[sv].Ub
		for _, o := range s.slackCons[sv] {
			st := &s.state[o.con]
			// All booleans are assigned, so the window minus the slack's own
			// span is the exact boolean activity.
			boolSum := st.minAct
			if o.coeff < 0 {
				boolSum -= o.coeff * s.vars[sv].Ub
			}

			if st.lb != cpmodel.NoLower {
				if o.coeff > 0 {
					lo = max64(lo, ceilDiv(st.lb-boolSum, o.coeff))
				} else {
					hi = min64(hi, floorDiv(st.lb-boolSum, o.coeff))
				}
			}
			if st.ub != cpmodel.NoUpper {
				if o.coeff > 0 {
					hi = min64(hi, floorDiv(st.ub-boolSum, o.coeff))
				} else {
					lo = max64(lo, ceilDiv(st.ub-boolSum, o.coeff))
				}
			}
		}
		if lo > hi {
			return // no slack value satisfies every bound
		}
		// Objective weights are non-negative, so the smallest feasible slack
		// is always the best choice.
		s.leaf[sv] = lo
	}

	var obj int64
	for _, t := range s.objBool {
		obj += t.Coeff * s.leaf[t.Var]
	}
	for _, t := range s.objSlack {
		obj += t.Coeff * s.leaf[t.Var]
	}

	if !s.hasBest || obj < s.bestObj {
		if s.best == nil {
			s.best = make([]int64, len(s.leaf))
		}
		copy(s.best, s.leaf)
		s.bestObj = obj
		s.hasBest = true
		if obj == 0 {
			s.done = true // objective is bounded below by zero
		}
	}
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a > 0) == (b > 0) {
		q++
	}
	return q
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a > 0) != (b > 0) {
		q--
	}
	return q
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
