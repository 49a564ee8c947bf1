package model

import (
	"time"

	"github.com/google/uuid"
)

// SlotAssignment records what a physician does in one half-day slot. An empty
// Roles slice means the slot is explicitly idle, not merely unrecorded. More
// than one role appears only for DP-family combinations.
type SlotAssignment struct {
	PhysicianID   uuid.UUID     `json:"physician_id"`
	PhysicianName string        `json:"physician_name"`
	Date          string        `json:"date"`
	Period        HalfDayPeriod `json:"period"`
	Roles         []Role        `json:"roles"`
}

// IsIdle reports whether no role is assigned in the slot.
func (s SlotAssignment) IsIdle() bool { return len(s.Roles) == 0 }

// HasRole reports whether the slot contains the given role.
func (s SlotAssignment) HasRole(role Role) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Schedule is the extracted result of a solved model.
type Schedule struct {
	ID          uuid.UUID        `json:"id"`
	Input       *SchedulingInput `json:"-"`
	Slots       []SlotAssignment `json:"slots"`
	Objective   int64            `json:"objective"`
	GeneratedAt time.Time        `json:"generated_at"`

	byPhysician map[uuid.UUID][]SlotAssignment
	byDate      map[string][]SlotAssignment
}

// NewSchedule creates a schedule and builds its lookup indexes.
func NewSchedule(input *SchedulingInput, slots []SlotAssignment, objective int64) *Schedule {
	s := &Schedule{
		ID:          uuid.New(),
		Input:       input,
		Slots:       slots,
		Objective:   objective,
		GeneratedAt: time.Now(),
		byPhysician: make(map[uuid.UUID][]SlotAssignment),
		byDate:      make(map[string][]SlotAssignment),
	}
	for _, slot := range slots {
		s.byPhysician[slot.PhysicianID] = append(s.byPhysician[slot.PhysicianID], slot)
		s.byDate[slot.Date] = append(s.byDate[slot.Date], slot)
	}
	return s
}

// SlotsForPhysician returns all slots of one physician across the horizon.
func (s *Schedule) SlotsForPhysician(id uuid.UUID) []SlotAssignment {
	return s.byPhysician[id]
}

// SlotsForDate returns all slots on one date.
func (s *Schedule) SlotsForDate(date string) []SlotAssignment {
	return s.byDate[date]
}

// Slot returns the slot for a physician, date and period.
func (s *Schedule) Slot(id uuid.UUID, date string, period HalfDayPeriod) (SlotAssignment, bool) {
	for _, slot := range s.byPhysician[id] {
		if slot.Date == date && slot.Period == period {
			return slot, true
		}
	}
	return SlotAssignment{}, false
}

// AssignedUnits counts the half-day units a physician spends in a role.
func (s *Schedule) AssignedUnits(id uuid.UUID, role Role) int {
	units := 0
	for _, slot := range s.byPhysician[id] {
		if slot.HasRole(role) {
			units++
		}
	}
	return units
}

// CategoryUnits counts the half-day units a physician spends in a category.
// A DP-family slot with several pathology roles still counts its units once
// per role, matching how the annual-target sums are built.
func (s *Schedule) CategoryUnits(id uuid.UUID, cat RoleCategory) int {
	units := 0
	for _, slot := range s.byPhysician[id] {
		for _, r := range slot.Roles {
			if r.Category() == cat {
				units++
			}
		}
	}
	return units
}

// CoverageUnits counts practice-wide half-day units of a role on a date.
func (s *Schedule) CoverageUnits(date string, role Role) int {
	units := 0
	for _, slot := range s.byDate[date] {
		if slot.HasRole(role) {
			units++
		}
	}
	return units
}

// BankableVacationUnits returns the unused vacation half-day units a physician
// may carry into next year's allocation, capped at VacationBankCapUnits. This
// is bookkeeping over a solved schedule, never a model constraint.
func (s *Schedule) BankableVacationUnits(p *Physician) int {
	unused := p.Targets.Vacation - s.AssignedUnits(p.ID, RoleVacation)
	if unused < 0 {
		return 0
	}
	if unused > VacationBankCapUnits {
		return VacationBankCapUnits
	}
	return unused
}

// IdleSlots returns every explicitly idle slot in the schedule.
func (s *Schedule) IdleSlots() []SlotAssignment {
	var idle []SlotAssignment
	for _, slot := range s.Slots {
		if slot.IsIdle() {
			idle = append(idle, slot)
		}
	}
	return idle
}
