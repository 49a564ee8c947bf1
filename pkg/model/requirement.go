package model

import "github.com/bluemens/dermatopathology-scheduler/pkg/errors"

// RoleRequirement is a hard per-week floor: the physician must work the role
// at least DaysPerWeek full days (2*DaysPerWeek half-day units) each complete
// work week of the horizon.
type RoleRequirement struct {
	Role        Role `json:"role"`
	DaysPerWeek int  `json:"days_per_week"`
}

// Units returns the weekly floor in half-day units.
func (r RoleRequirement) Units() int { return r.DaysPerWeek * 2 }

// Validate checks the requirement.
func (r RoleRequirement) Validate() error {
	if r.Role == "" || r.Role.Category() == "" {
		return errors.InvalidInput("role", "unknown role")
	}
	if r.DaysPerWeek < 0 {
		return errors.InvalidInput("days_per_week", "frequency must be non-negative")
	}
	return nil
}

// RolePreference is a soft per-week wish. A shortfall below DaysPerWeek full
// days in a week incurs a penalty scaled by Weight; surplus is never rewarded.
type RolePreference struct {
	Role        Role    `json:"role"`
	DaysPerWeek int     `json:"days_per_week"`
	Weight      float64 `json:"weight"` // 0.0 to 1.0
}

// Units returns the weekly wish in half-day units.
func (p RolePreference) Units() int { return p.DaysPerWeek * 2 }

// Validate checks the preference.
func (p RolePreference) Validate() error {
	if p.Role == "" || p.Role.Category() == "" {
		return errors.InvalidInput("role", "unknown role")
	}
	if p.DaysPerWeek < 0 {
		return errors.InvalidInput("days_per_week", "frequency must be non-negative")
	}
	if p.Weight < 0.0 || p.Weight > 1.0 {
		return errors.InvalidInput("weight", "weight must be within [0.0, 1.0]")
	}
	return nil
}

// CoverageRequirement is a practice-wide bound on how many half-day units of a
// role must be filled on a day, independent of which physician fills them.
// A nil Period applies the bound to the whole day across both periods.
type CoverageRequirement struct {
	Role     Role           `json:"role"`
	Period   *HalfDayPeriod `json:"period,omitempty"` // nil means any period
	MinUnits int            `json:"min_units"`
	MaxUnits *int           `json:"max_units,omitempty"` // nil means no maximum
}

// Validate checks the coverage requirement.
func (c CoverageRequirement) Validate() error {
	if c.Role == "" || c.Role.Category() == "" {
		return errors.InvalidInput("role", "unknown role")
	}
	if c.MinUnits < 0 {
		return errors.InvalidInput("min_units", "minimum must be non-negative")
	}
	if c.MaxUnits != nil && *c.MaxUnits < c.MinUnits {
		return errors.InvalidInput("max_units", "maximum below minimum")
	}
	return nil
}

// intPtr is a small helper for optional bounds.
func intPtr(v int) *int { return &v }

// periodPtr is a small helper for optional periods.
func periodPtr(p HalfDayPeriod) *HalfDayPeriod { return &p }

// DefaultCoverageRequirements returns the practice's standing daily coverage
// rules: at least one IMF unit, at least five DP units (2.5 days), and exactly
// one DPD per period. These apply to every calendar day including weekends.
func DefaultCoverageRequirements() map[Role][]CoverageRequirement {
	return map[Role][]CoverageRequirement{
		RoleIMF: {
			{Role: RoleIMF, MinUnits: 1},
		},
		RoleDP: {
			{Role: RoleDP, MinUnits: 5},
		},
		RoleDPD: {
			{Role: RoleDPD, Period: periodPtr(Morning), MinUnits: 1, MaxUnits: intPtr(1)},
			{Role: RoleDPD, Period: periodPtr(Afternoon), MinUnits: 1, MaxUnits: intPtr(1)},
		},
	}
}
