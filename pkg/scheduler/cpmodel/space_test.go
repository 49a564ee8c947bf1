package cpmodel

import (
	"testing"

	"github.com/google/uuid"

	"github.com/bluemens/dermatopathology-scheduler/pkg/model"
)

func TestSpaceGetOrCreateIdempotent(t *testing.T) {
	m := New()
	s := NewSpace(m)
	key := Key{Physician: uuid.New(), Date: "2026-03-02", Period: model.Morning, Role: model.RoleDP}

	id1 := s.GetOrCreate(key)
	id2 := s.GetOrCreate(key)
	if id1 != id2 {
		t.Errorf("same key allocated twice: %d and %d", id1, id2)
	}
	if s.Len() != 1 || m.NumBooleans() != 1 {
		t.Errorf("space len %d / model bools %d, want 1/1", s.Len(), m.NumBooleans())
	}
}

func TestSpaceLookupAbsent(t *testing.T) {
	s := NewSpace(New())
	id, ok := s.Lookup(Key{Physician: uuid.New(), Date: "2026-03-02", Period: model.Morning, Role: model.RoleDP})
	if ok || id != NoVar {
		t.Errorf("absent lookup = (%d, %v), want (NoVar, false)", id, ok)
	}
}

func TestSpaceIndexes(t *testing.T) {
	m := New()
	s := NewSpace(m)
	alice, bob := uuid.New(), uuid.New()

	for _, k := range []Key{
		{alice, "2026-03-02", model.Morning, model.RoleDP},
		{alice, "2026-03-02", model.Morning, model.RoleDPD},
		{alice, "2026-03-02", model.Afternoon, model.RoleDP},
		{alice, "2026-03-03", model.Morning, model.RoleDP},
		{bob, "2026-03-02", model.Morning, model.RoleDP},
	} {
		s.GetOrCreate(k)
	}

	if got := len(s.ForSlot(alice, "2026-03-02", model.Morning)); got != 2 {
		t.Errorf("ForSlot = %d vars, want 2", got)
	}
	if got := len(s.ForPhysicianDay(alice, "2026-03-02")); got != 3 {
		t.Errorf("ForPhysicianDay = %d vars, want 3", got)
	}
	if got := len(s.ForPhysicianRole(alice, model.RoleDP)); got != 3 {
		t.Errorf("ForPhysicianRole = %d vars, want 3", got)
	}
	if got := len(s.ForDayRole("2026-03-02", model.RoleDP)); got != 3 {
		t.Errorf("ForDayRole = %d vars, want 3", got)
	}
	if got := len(s.ForDayPeriodRole("2026-03-02", model.Morning, model.RoleDP)); got != 2 {
		t.Errorf("ForDayPeriodRole = %d vars, want 2", got)
	}
	if got := len(s.All()); got != 5 {
		t.Errorf("All = %d vars, want 5", got)
	}
}
