// Package roster loads scheduling inputs from roster files. A roster is the
// operator-facing JSON document naming the physicians, the planning horizon
// and any coverage overrides; loading turns it into a validated scheduling
// input.
package roster

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bluemens/dermatopathology-scheduler/pkg/errors"
	"github.com/bluemens/dermatopathology-scheduler/pkg/model"
)

// File is the on-disk roster document.
type File struct {
	StartDate  string             `json:"start_date"`
	EndDate    string             `json:"end_date"`
	Roles      []model.Role       `json:"roles,omitempty"`
	Physicians []PhysicianEntry   `json:"physicians"`
	Coverage   []CoverageOverride `json:"coverage,omitempty"`
}

// PhysicianEntry describes one physician in the roster. Targets may be given
// explicitly; when omitted they are derived from the FTE fractions.
type PhysicianEntry struct {
	Name             string                  `json:"name"`
	FTE              float64                 `json:"fte"`
	AdminFTE         float64                 `json:"admin_fte"`
	ResearchFTE      float64                 `json:"research_fte"`
	VacationCategory model.VacationCategory  `json:"vacation_category"`
	Unavailable      []string                `json:"unavailable,omitempty"`
	Requirements     []model.RoleRequirement `json:"requirements,omitempty"`
	Preferences      []model.RolePreference  `json:"preferences,omitempty"`
	Targets          *model.Targets          `json:"targets,omitempty"`
}

// CoverageOverride replaces the default coverage rules for one role.
type CoverageOverride struct {
	Role         model.Role                  `json:"role"`
	Requirements []model.CoverageRequirement `json:"requirements"`
}

// Load reads and assembles a scheduling input from a roster file.
func Load(path string) (*model.SchedulingInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a roster document and assembles a validated scheduling input.
func Parse(r io.Reader) (*model.SchedulingInput, error) {
	var file File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "decode roster")
	}
	return file.Build()
}

// Build assembles the scheduling input from the decoded document.
func (f *File) Build() (*model.SchedulingInput, error) {
	days, err := model.BuildHorizon(f.StartDate, f.EndDate)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "build horizon")
	}

	roles := f.Roles
	if len(roles) == 0 {
		roles = model.AllRoles()
	}

	physicians := make([]*model.Physician, 0, len(f.Physicians))
	for _, entry := range f.Physicians {
		p, err := entry.build()
		if err != nil {
			return nil, err
		}
		physicians = append(physicians, p)
	}

	coverage := model.DefaultCoverageRequirements()
	for _, ov := range f.Coverage {
		coverage[ov.Role] = ov.Requirements
	}

	return model.NewSchedulingInput(physicians, days, roles, coverage)
}

func (e *PhysicianEntry) build() (*model.Physician, error) {
	var p *model.Physician
	var err error
	if e.Targets != nil {
		p, err = model.NewPhysicianWithTargets(e.Name, e.FTE, e.VacationCategory, *e.Targets)
	} else {
		p, err = model.NewPhysician(e.Name, e.FTE, e.AdminFTE, e.ResearchFTE, e.VacationCategory)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, fmt.Sprintf("physician %q", e.Name))
	}

	p.SetUnavailable(e.Unavailable...)
	for _, req := range e.Requirements {
		if err := p.AddRequirement(req); err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidInput, fmt.Sprintf("physician %q requirement", e.Name))
		}
	}
	for _, pref := range e.Preferences {
		if err := p.AddPreference(pref); err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidInput, fmt.Sprintf("physician %q preference", e.Name))
		}
	}
	return p, nil
}
