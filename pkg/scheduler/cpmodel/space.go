package cpmodel

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/bluemens/dermatopathology-scheduler/pkg/model"
)

// Key is the structured composite key of one decision variable. No string
// concatenation is involved, so lookups are O(1) and collision-free.
type Key struct {
	Physician uuid.UUID
	Date      string // YYYY-MM-DD
	Period    model.HalfDayPeriod
	Role      model.Role
}

// RoleVar pairs a key with its allocated variable.
type RoleVar struct {
	Key Key
	ID  VarID
}

type slotKey struct {
	physician uuid.UUID
	date      string
	period    model.HalfDayPeriod
}

type physDayKey struct {
	physician uuid.UUID
	date      string
}

type physRoleKey struct {
	physician uuid.UUID
	role      model.Role
}

type dayRoleKey struct {
	date string
	role model.Role
}

type dayPeriodRoleKey struct {
	date   string
	period model.HalfDayPeriod
	role   model.Role
}

// Space is the single owner and sole allocator of decision variables. A tuple
// absent from the space means "not applicable", never "false": generators must
// omit absent tuples from their sums.
type Space struct {
	mu    sync.Mutex
	model *Model

	index map[Key]VarID
	keys  []Key

	bySlot          map[slotKey][]RoleVar
	byPhysDay       map[physDayKey][]RoleVar
	byPhysRole      map[physRoleKey][]RoleVar
	byDayRole       map[dayRoleKey][]RoleVar
	byDayPeriodRole map[dayPeriodRoleKey][]RoleVar
}

// NewSpace creates an empty variable space writing into m.
func NewSpace(m *Model) *Space {
	return &Space{
		model:           m,
		index:           make(map[Key]VarID),
		bySlot:          make(map[slotKey][]RoleVar),
		byPhysDay:       make(map[physDayKey][]RoleVar),
		byPhysRole:      make(map[physRoleKey][]RoleVar),
		byDayRole:       make(map[dayRoleKey][]RoleVar),
		byDayPeriodRole: make(map[dayPeriodRoleKey][]RoleVar),
	}
}

// GetOrCreate returns the variable for key, allocating it on first use.
// Allocation is idempotent and safe for concurrent callers.
func (s *Space) GetOrCreate(key Key) VarID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.index[key]; ok {
		return id
	}

	label := fmt.Sprintf("%s/%s/%s/%s", key.Physician, key.Date, key.Period, key.Role)
	id := s.model.NewBoolVar(label)
	s.index[key] = id
	s.keys = append(s.keys, key)

	rv := RoleVar{Key: key, ID: id}
	s.bySlot[slotKey{key.Physician, key.Date, key.Period}] = append(s.bySlot[slotKey{key.Physician, key.Date, key.Period}], rv)
	s.byPhysDay[physDayKey{key.Physician, key.Date}] = append(s.byPhysDay[physDayKey{key.Physician, key.Date}], rv)
	s.byPhysRole[physRoleKey{key.Physician, key.Role}] = append(s.byPhysRole[physRoleKey{key.Physician, key.Role}], rv)
	s.byDayRole[dayRoleKey{key.Date, key.Role}] = append(s.byDayRole[dayRoleKey{key.Date, key.Role}], rv)
	s.byDayPeriodRole[dayPeriodRoleKey{key.Date, key.Period, key.Role}] = append(s.byDayPeriodRole[dayPeriodRoleKey{key.Date, key.Period, key.Role}], rv)

	return id
}

// Lookup returns the variable for key, or an explicit absent signal.
func (s *Space) Lookup(key Key) (VarID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.index[key]
	if !ok {
		return NoVar, false
	}
	return id, true
}

// ForSlot returns all role variables allocated for one half-day slot.
func (s *Space) ForSlot(physician uuid.UUID, date string, period model.HalfDayPeriod) []RoleVar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bySlot[slotKey{physician, date, period}]
}

// ForPhysicianDay returns all variables of one physician on one date, both
// periods included.
func (s *Space) ForPhysicianDay(physician uuid.UUID, date string) []RoleVar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byPhysDay[physDayKey{physician, date}]
}

// ForPhysicianRole returns all variables of one physician in one role across
// the horizon.
func (s *Space) ForPhysicianRole(physician uuid.UUID, role model.Role) []RoleVar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byPhysRole[physRoleKey{physician, role}]
}

// ForDayRole returns all variables of one role on one date across all
// physicians and periods.
func (s *Space) ForDayRole(date string, role model.Role) []RoleVar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byDayRole[dayRoleKey{date, role}]
}

// ForDayPeriodRole returns all variables of one role in one half-day period
// on one date across all physicians.
func (s *Space) ForDayPeriodRole(date string, period model.HalfDayPeriod, role model.Role) []RoleVar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byDayPeriodRole[dayPeriodRoleKey{date, period, role}]
}

// All returns every allocated variable in allocation order.
func (s *Space) All() []RoleVar {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]RoleVar, 0, len(s.keys))
	for _, key := range s.keys {
		all = append(all, RoleVar{Key: key, ID: s.index[key]})
	}
	return all
}

// Len returns the number of allocated variables.
func (s *Space) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}
