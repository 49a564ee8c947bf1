package scheduler

import (
	"github.com/bluemens/dermatopathology-scheduler/pkg/model"
	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/cpmodel"
	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/solver"
)

// ExtractSchedule turns a solved assignment back into the domain: one slot per
// (physician, day, period) with the roles whose variables are set. Slots with
// no set role are emitted too, so idleness is explicit in the result rather
// than inferred from absence.
func ExtractSchedule(input *model.SchedulingInput, space *cpmodel.Space, res *solver.Result) *model.Schedule {
	slots := make([]model.SlotAssignment, 0, len(input.Physicians)*len(input.Days)*2)

	for _, p := range input.Physicians {
		for _, day := range input.Days {
			for _, period := range model.Periods() {
				var roles []model.Role
				for _, role := range input.Roles {
					id, ok := space.Lookup(cpmodel.Key{
						Physician: p.ID,
						Date:      day.Date,
						Period:    period,
						Role:      role,
					})
					if ok && res.Value(id) == 1 {
						roles = append(roles, role)
					}
				}
				slots = append(slots, model.SlotAssignment{
					PhysicianID:   p.ID,
					PhysicianName: p.Name,
					Date:          day.Date,
					Period:        period,
					Roles:         roles,
				})
			}
		}
	}

	return model.NewSchedule(input, slots, res.Objective)
}
