// Package model defines the core data model for physician scheduling.
package model

import "strings"

// Role is an assignable half-day work activity.
type Role string

const (
	RoleIMF       Role = "imf"       // immunodermatology
	RoleDP        Role = "dp"        // dermatopathology sign-out
	RoleDPD       Role = "dpd"       // dermatopathologist of the day
	RoleDPWG      Role = "dpwg"      // dermpath working group
	RoleDPED      Role = "dped"      // dermpath education
	RoleEducation Role = "education" // teaching
	RoleOSD       Role = "osd"       // outpatient service day / clinic
	RoleNVC       Role = "nvc"       // non-visit care
	RoleAdmin     Role = "admin"
	RoleResearch  Role = "research"
	RoleTrip      Role = "trip"
	RoleVacation  Role = "vacation"
	RoleSDO       Role = "sdo" // scheduled day off
)

// RoleCategory groups roles by the kind of work they represent.
type RoleCategory string

const (
	CategoryPathology      RoleCategory = "pathology"
	CategoryClinical       RoleCategory = "clinical"
	CategoryAdministrative RoleCategory = "administrative"
	CategoryResearch       RoleCategory = "research"
	CategoryTimeOff        RoleCategory = "time_off"
)

// Category returns the category a role belongs to. Every role belongs to
// exactly one category.
func (r Role) Category() RoleCategory {
	switch r {
	case RoleIMF, RoleDP, RoleDPD, RoleDPWG, RoleDPED, RoleEducation:
		return CategoryPathology
	case RoleOSD, RoleNVC:
		return CategoryClinical
	case RoleAdmin:
		return CategoryAdministrative
	case RoleResearch:
		return CategoryResearch
	case RoleTrip, RoleVacation, RoleSDO:
		return CategoryTimeOff
	}
	return ""
}

// IsDPFamily reports whether the role is part of the DP family, which is
// exempt from the single-role-per-half-day rule.
func (r Role) IsDPFamily() bool {
	return strings.HasPrefix(string(r), "dp")
}

// IsTimeOff reports whether the role represents time away from work.
func (r Role) IsTimeOff() bool {
	return r.Category() == CategoryTimeOff
}

// String returns the role identifier.
func (r Role) String() string { return string(r) }

// AllRoles returns every defined role in a stable order.
func AllRoles() []Role {
	return []Role{
		RoleIMF, RoleDP, RoleDPD, RoleDPWG, RoleDPED, RoleEducation,
		RoleOSD, RoleNVC, RoleAdmin, RoleResearch,
		RoleTrip, RoleVacation, RoleSDO,
	}
}

// AllCategories returns every defined category in a stable order.
func AllCategories() []RoleCategory {
	return []RoleCategory{
		CategoryPathology, CategoryClinical, CategoryAdministrative,
		CategoryResearch, CategoryTimeOff,
	}
}

// RolesByCategory returns the roles belonging to a category, preserving the
// AllRoles order.
func RolesByCategory(cat RoleCategory) []Role {
	var roles []Role
	for _, r := range AllRoles() {
		if r.Category() == cat {
			roles = append(roles, r)
		}
	}
	return roles
}

// VacationCategory is the contractual vacation tier, valued in whole vacation
// days per year.
type VacationCategory int

const (
	VacationCategory22 VacationCategory = 22
	VacationCategory25 VacationCategory = 25
	VacationCategory30 VacationCategory = 30
	VacationCategory35 VacationCategory = 35
)

// Days returns the allocated vacation days for the category.
func (vc VacationCategory) Days() int { return int(vc) }

// Valid reports whether the category is one of the defined tiers.
func (vc VacationCategory) Valid() bool {
	switch vc {
	case VacationCategory22, VacationCategory25, VacationCategory30, VacationCategory35:
		return true
	}
	return false
}
