package generator

import "github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/cpmodel"

// LinkActivation ties a control boolean to a set of member booleans with the
// standard two-inequality linearization:
//
//	sum(members) <= len(members) * control   (any member on forces control on)
//	sum(members) >= control                  (control on forces a member on)
//
// It is shared by every generator needing "OR of booleans implies a control
// boolean, and vice versa".
func LinkActivation(m *cpmodel.Model, group string, control cpmodel.VarID, members []cpmodel.VarID) {
	if len(members) == 0 {
		return
	}

	upper := cpmodel.NewLinearExpr()
	for _, v := range members {
		upper.Add(v)
	}
	upper.AddTerm(control, -int64(len(members)))
	m.AddAtMost(group, upper, 0)

	lower := cpmodel.NewLinearExpr()
	for _, v := range members {
		lower.Add(v)
	}
	lower.AddTerm(control, -1)
	m.AddAtLeast(group, lower, 0)
}
