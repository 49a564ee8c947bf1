package cpmodel

import "testing"

func TestModelGrouping(t *testing.T) {
	m := New()
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")

	m.AddAtMost("alpha", Sum(x, y), 1)
	m.AddAtLeast("beta", Sum(x), 1)
	m.AddEquality("alpha", Sum(y), 0)

	if m.NumConstraints() != 3 {
		t.Errorf("constraints = %d, want 3", m.NumConstraints())
	}
	groups := m.Groups()
	if len(groups) != 2 || groups[0] != "alpha" || groups[1] != "beta" {
		t.Errorf("groups = %v, want [alpha beta] in insertion order", groups)
	}
	if m.GroupCount("alpha") != 2 {
		t.Errorf("alpha count = %d, want 2", m.GroupCount("alpha"))
	}
	if m.NumBooleans() != 2 {
		t.Errorf("booleans = %d, want 2", m.NumBooleans())
	}
}

func TestModelBoundsAndKinds(t *testing.T) {
	m := New()
	x := m.NewBoolVar("x")
	s := m.NewSlackVar("s", 4)

	if m.Var(x).Kind != KindBool || m.Var(x).Ub != 1 {
		t.Error("bool var should have kind bool and ub 1")
	}
	if m.Var(s).Kind != KindSlack || m.Var(s).Ub != 4 {
		t.Error("slack var should have kind slack and ub 4")
	}
	if m.NumBooleans() != 1 || m.NumVariables() != 2 {
		t.Errorf("counts = %d bools / %d vars, want 1/2", m.NumBooleans(), m.NumVariables())
	}

	m.AddAtMost("g", Sum(x), 1)
	c := m.Constraints()[0]
	if c.Lb != NoLower || c.Ub != 1 {
		t.Errorf("at-most bounds = [%d, %d], want [NoLower, 1]", c.Lb, c.Ub)
	}
}

func TestModelValidate(t *testing.T) {
	m := New()
	x := m.NewBoolVar("x")
	m.AddLinear("g", Sum(x), 0, 1)
	if err := m.Validate(); err != nil {
		t.Errorf("valid model rejected: %v", err)
	}

	m.AddLinear("g", Sum(x), 2, 1)
	if err := m.Validate(); err == nil {
		t.Error("expected error for crossed bounds")
	}
}

func TestModelValidateUnknownVariable(t *testing.T) {
	m := New()
	m.AddAtMost("g", Sum(VarID(7)), 1)
	if err := m.Validate(); err == nil {
		t.Error("expected error for out-of-range variable")
	}
}

func TestObjectiveTerms(t *testing.T) {
	m := New()
	s := m.NewSlackVar("s", 2)
	m.AddObjectiveTerm(s, 0) // dropped
	m.AddObjectiveTerm(s, 50)

	if len(m.Objective()) != 1 {
		t.Fatalf("objective terms = %d, want 1", len(m.Objective()))
	}
	if m.Objective()[0].Coeff != 50 {
		t.Errorf("weight = %d, want 50", m.Objective()[0].Coeff)
	}
}
