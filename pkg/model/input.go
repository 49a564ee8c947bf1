package model

import (
	"fmt"

	"github.com/bluemens/dermatopathology-scheduler/pkg/errors"
)

// SchedulingInput is the complete, validated input to model building. All
// entities it references are immutable once Validate has passed.
type SchedulingInput struct {
	Physicians []*Physician                   `json:"physicians"`
	Days       []CalendarDay                  `json:"days"`
	Roles      []Role                         `json:"roles"`
	Coverage   map[Role][]CoverageRequirement `json:"coverage"`
}

// NewSchedulingInput assembles and validates a scheduling input.
func NewSchedulingInput(physicians []*Physician, days []CalendarDay, roles []Role,
	coverage map[Role][]CoverageRequirement) (*SchedulingInput, error) {
	in := &SchedulingInput{
		Physicians: physicians,
		Days:       days,
		Roles:      roles,
		Coverage:   coverage,
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

// Validate checks the input for completeness and consistency.
func (in *SchedulingInput) Validate() error {
	ve := &errors.ValidationErrors{}
	if len(in.Physicians) == 0 {
		ve.Add("physicians", "at least one physician is required")
	}
	if len(in.Days) == 0 {
		ve.Add("days", "at least one calendar day is required")
	}
	if len(in.Roles) == 0 {
		ve.Add("roles", "at least one role is required")
	}

	seen := make(map[string]bool, len(in.Physicians))
	for _, p := range in.Physicians {
		if p == nil {
			ve.Add("physicians", "nil physician")
			continue
		}
		if seen[p.Name] {
			ve.Addf("physicians", "duplicate physician name %q", p.Name)
		}
		seen[p.Name] = true
		if err := p.Validate(); err != nil {
			ve.Addf("physicians", "physician %q: %v", p.Name, err)
		}
	}

	roleSet := make(map[Role]bool, len(in.Roles))
	for _, r := range in.Roles {
		if r.Category() == "" {
			ve.Addf("roles", "unknown role %q", r)
		}
		roleSet[r] = true
	}
	for role, reqs := range in.Coverage {
		if !roleSet[role] {
			ve.Addf("coverage", "coverage for role %q not in the role set", role)
		}
		for _, req := range reqs {
			if err := req.Validate(); err != nil {
				ve.Addf("coverage", "role %q: %v", role, err)
			}
			if req.Role != role {
				ve.Addf("coverage", "requirement role %q filed under %q", req.Role, role)
			}
		}
	}

	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return nil
}

// HasRole reports whether a role is part of the input role set.
func (in *SchedulingInput) HasRole(role Role) bool {
	for _, r := range in.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// DayIndex returns the position of a date in the horizon, or -1.
func (in *SchedulingInput) DayIndex(date string) int {
	for i, d := range in.Days {
		if d.Date == date {
			return i
		}
	}
	return -1
}

// PhysicianByName returns the physician with the given name.
func (in *SchedulingInput) PhysicianByName(name string) (*Physician, error) {
	for _, p := range in.Physicians {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("physician %q not in input", name)
}
