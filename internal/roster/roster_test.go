package roster

import (
	"strings"
	"testing"

	"github.com/bluemens/dermatopathology-scheduler/pkg/errors"
	"github.com/bluemens/dermatopathology-scheduler/pkg/model"
)

const validRoster = `{
  "start_date": "2026-03-02",
  "end_date": "2026-03-06",
  "physicians": [
    {
      "name": "Dr. Ash",
      "fte": 1.0,
      "vacation_category": 25,
      "unavailable": ["2026-03-04"],
      "preferences": [{"role": "dp", "days_per_week": 3, "weight": 0.5}]
    },
    {
      "name": "Dr. Bell",
      "fte": 0.8,
      "admin_fte": 0.2,
      "vacation_category": 30
    }
  ]
}`

func TestParseValidRoster(t *testing.T) {
	input, err := Parse(strings.NewReader(validRoster))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(input.Days) != 5 {
		t.Errorf("days = %d, want 5", len(input.Days))
	}
	// Omitted roles default to the full role set.
	if len(input.Roles) != len(model.AllRoles()) {
		t.Errorf("roles = %d, want the full set of %d", len(input.Roles), len(model.AllRoles()))
	}

	ash, err := input.PhysicianByName("Dr. Ash")
	if err != nil {
		t.Fatalf("PhysicianByName: %v", err)
	}
	if !ash.IsUnavailable("2026-03-04") {
		t.Error("unavailable date not carried over")
	}
	if len(ash.Preferences) != 1 || ash.Preferences[0].Role != model.RoleDP {
		t.Errorf("preferences = %+v, want one dp preference", ash.Preferences)
	}
	// Derived targets, not zero values.
	if ash.Targets.TotalWork == 0 || ash.Targets.Vacation != 50 {
		t.Errorf("derived targets = %+v", ash.Targets)
	}

	bell, err := input.PhysicianByName("Dr. Bell")
	if err != nil {
		t.Fatalf("PhysicianByName: %v", err)
	}
	if bell.Targets.SDO == 0 {
		t.Error("part-time physician should carry an SDO entitlement")
	}
	if bell.Targets.Admin == 0 {
		t.Error("admin FTE should derive an admin target")
	}

	// Default coverage rules apply when no override is given.
	if len(input.Coverage[model.RoleDPD]) != 2 {
		t.Errorf("dpd coverage rules = %d, want 2", len(input.Coverage[model.RoleDPD]))
	}
}

func TestParseExplicitTargetsOverrideDerivation(t *testing.T) {
	doc := `{
	  "start_date": "2026-03-02",
	  "end_date": "2026-03-03",
	  "physicians": [
	    {
	      "name": "Dr. Cole",
	      "fte": 1.0,
	      "vacation_category": 25,
	      "targets": {"total_work": 4, "pathology": 4}
	    }
	  ]
	}`
	input, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := input.Physicians[0]
	if p.Targets.TotalWork != 4 || p.Targets.Pathology != 4 {
		t.Errorf("targets = %+v, want the explicit 4/4", p.Targets)
	}
}

func TestParseCoverageOverride(t *testing.T) {
	doc := `{
	  "start_date": "2026-03-02",
	  "end_date": "2026-03-03",
	  "physicians": [{"name": "Dr. Ash", "fte": 1.0, "vacation_category": 25}],
	  "coverage": [
	    {"role": "dp", "requirements": [{"role": "dp", "min_units": 3}]}
	  ]
	}`
	input, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	reqs := input.Coverage[model.RoleDP]
	if len(reqs) != 1 || reqs[0].MinUnits != 3 {
		t.Errorf("dp coverage = %+v, want the single overridden rule", reqs)
	}
	// Untouched roles keep the defaults.
	if len(input.Coverage[model.RoleIMF]) != 1 {
		t.Errorf("imf coverage rules = %d, want the default 1", len(input.Coverage[model.RoleIMF]))
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"malformed json", `{"start_date": `},
		{"unknown field", `{"start_date": "2026-03-02", "end_date": "2026-03-03", "physicians": [], "surprise": 1}`},
		{"bad horizon", `{"start_date": "2026-03-03", "end_date": "2026-03-02", "physicians": [{"name": "A", "fte": 1.0, "vacation_category": 25}]}`},
		{"invalid physician", `{"start_date": "2026-03-02", "end_date": "2026-03-03", "physicians": [{"name": "A", "fte": 2.0, "vacation_category": 25}]}`},
		{"no physicians", `{"start_date": "2026-03-02", "end_date": "2026-03-03", "physicians": []}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tc.doc)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseErrorCarriesInputCode(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"start_date": "nope"`))
	if !errors.Is(err, errors.CodeInvalidInput) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.CodeInvalidInput)
	}
}
