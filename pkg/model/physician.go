package model

import (
	"math"

	"github.com/google/uuid"

	"github.com/bluemens/dermatopathology-scheduler/pkg/errors"
)

const (
	// InstitutionalDays is the number of working days in the institutional year.
	InstitutionalDays = 255

	// TripDaysPerYear is the fixed annual trip allowance in whole days.
	TripDaysPerYear = 18

	// VacationBankCapUnits is the maximum number of unused vacation half-day
	// units that may be carried into the next year's allocation.
	VacationBankCapUnits = 10
)

// Targets holds a physician's annual targets, all in half-day units.
// The work categories must satisfy Pathology+Clinical+Admin+Research ==
// TotalWork exactly; Clinical is further split as OSD+NVC == Clinical.
type Targets struct {
	TotalWork int `json:"total_work"`
	Pathology int `json:"pathology"`
	Clinical  int `json:"clinical"`
	Admin     int `json:"admin"`
	Research  int `json:"research"`
	OSD       int `json:"osd"`
	NVC       int `json:"nvc"`
	SDO       int `json:"sdo"`
	Vacation  int `json:"vacation"`
	Trip      int `json:"trip"`
}

// Validate checks the internal consistency of the targets.
func (t Targets) Validate() error {
	ve := &errors.ValidationErrors{}
	if t.TotalWork < 0 || t.Pathology < 0 || t.Clinical < 0 || t.Admin < 0 ||
		t.Research < 0 || t.OSD < 0 || t.NVC < 0 || t.SDO < 0 || t.Vacation < 0 || t.Trip < 0 {
		ve.Add("targets", "targets must be non-negative")
	}
	if sum := t.Pathology + t.Clinical + t.Admin + t.Research; sum != t.TotalWork {
		ve.Addf("targets", "pathology+clinical+admin+research = %d, want total_work = %d", sum, t.TotalWork)
	}
	if t.OSD+t.NVC != t.Clinical {
		ve.Addf("targets", "osd+nvc = %d, want clinical = %d", t.OSD+t.NVC, t.Clinical)
	}
	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return nil
}

// CategoryTarget returns the annual target for a work category.
func (t Targets) CategoryTarget(cat RoleCategory) int {
	switch cat {
	case CategoryPathology:
		return t.Pathology
	case CategoryClinical:
		return t.Clinical
	case CategoryAdministrative:
		return t.Admin
	case CategoryResearch:
		return t.Research
	}
	return 0
}

// halfUnits rounds a fractional half-day quantity to the nearest whole unit.
func halfUnits(x float64) int {
	return int(math.Round(x))
}

// DeriveTargets computes the annual targets from FTE fractions and the
// vacation category. All arithmetic is carried out in half-day units so the
// category sums are exact:
//
//	institutional = round(255*2*fte)
//	work          = institutional - vacation - trip
//	clinical      = 10% of (work - admin - research), pathology the remainder
//	nvc           = 10% of clinical, osd the remainder
//
// SDO entitlement is (1-fte)*255 days for part-time physicians, zero otherwise.
func DeriveTargets(fte, adminFTE, researchFTE float64, vc VacationCategory) Targets {
	institutional := halfUnits(InstitutionalDays * 2 * fte)
	vacation := vc.Days() * 2
	trip := TripDaysPerYear * 2

	sdo := 0
	if fte < 1.0 {
		sdo = halfUnits((1.0 - fte) * InstitutionalDays * 2)
	}

	work := institutional - vacation - trip
	admin := halfUnits(InstitutionalDays * 2 * adminFTE)
	research := halfUnits(InstitutionalDays * 2 * researchFTE)

	clinicalWork := work - admin - research
	clinical := halfUnits(float64(clinicalWork) * 0.10)
	pathology := clinicalWork - clinical
	nvc := halfUnits(float64(clinical) * 0.10)
	osd := clinical - nvc

	return Targets{
		TotalWork: work,
		Pathology: pathology,
		Clinical:  clinical,
		Admin:     admin,
		Research:  research,
		OSD:       osd,
		NVC:       nvc,
		SDO:       sdo,
		Vacation:  vacation,
		Trip:      trip,
	}
}

// Physician is a scheduling participant. It is a value object: built and
// validated once from input, then only read during model building.
type Physician struct {
	ID               uuid.UUID         `json:"id"`
	Name             string            `json:"name"`
	FTE              float64           `json:"fte"`
	AdminFTE         float64           `json:"admin_fte"`
	ResearchFTE      float64           `json:"research_fte"`
	VacationCategory VacationCategory  `json:"vacation_category"`
	Unavailable      map[string]bool   `json:"unavailable,omitempty"` // dates, YYYY-MM-DD
	Requirements     []RoleRequirement `json:"requirements,omitempty"`
	Preferences      []RolePreference  `json:"preferences,omitempty"`
	Targets          Targets           `json:"targets"`
}

// NewPhysician creates a physician with annual targets derived from the FTE
// fractions. Validation failures are fatal for this physician's inclusion.
func NewPhysician(name string, fte, adminFTE, researchFTE float64, vc VacationCategory) (*Physician, error) {
	p := &Physician{
		ID:               uuid.New(),
		Name:             name,
		FTE:              fte,
		AdminFTE:         adminFTE,
		ResearchFTE:      researchFTE,
		VacationCategory: vc,
		Unavailable:      make(map[string]bool),
		Targets:          DeriveTargets(fte, adminFTE, researchFTE, vc),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewPhysicianWithTargets creates a physician with explicitly supplied targets.
// The targets are still checked for internal consistency.
func NewPhysicianWithTargets(name string, fte float64, vc VacationCategory, targets Targets) (*Physician, error) {
	p := &Physician{
		ID:               uuid.New(),
		Name:             name,
		FTE:              fte,
		VacationCategory: vc,
		Unavailable:      make(map[string]bool),
		Targets:          targets,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the physician's attributes and target consistency.
func (p *Physician) Validate() error {
	ve := &errors.ValidationErrors{}
	if p.Name == "" {
		ve.Add("name", "name cannot be empty")
	}
	if p.FTE <= 0 || p.FTE > 1.0 {
		ve.Addf("fte", "must be in (0, 1], got %v", p.FTE)
	}
	if p.AdminFTE < 0 || p.AdminFTE > 1.0 {
		ve.Addf("admin_fte", "must be in [0, 1], got %v", p.AdminFTE)
	}
	if p.ResearchFTE < 0 || p.ResearchFTE > 1.0 {
		ve.Addf("research_fte", "must be in [0, 1], got %v", p.ResearchFTE)
	}
	if p.AdminFTE+p.ResearchFTE > p.FTE {
		ve.Addf("admin_fte", "admin+research FTE %v exceeds total FTE %v", p.AdminFTE+p.ResearchFTE, p.FTE)
	}
	if !p.VacationCategory.Valid() {
		ve.Addf("vacation_category", "unknown category %d", p.VacationCategory)
	}
	for i, r := range p.Requirements {
		if err := r.Validate(); err != nil {
			ve.Addf("requirements", "requirement %d: %v", i, err)
		}
	}
	for i, pref := range p.Preferences {
		if err := pref.Validate(); err != nil {
			ve.Addf("preferences", "preference %d: %v", i, err)
		}
	}
	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return p.Targets.Validate()
}

// EffectiveClinicalFTE returns the FTE fraction left after admin and research.
func (p *Physician) EffectiveClinicalFTE() float64 {
	return p.FTE - p.AdminFTE - p.ResearchFTE
}

// IsFullTime reports whether the physician carries a full workload and
// therefore has no SDO entitlement.
func (p *Physician) IsFullTime() bool {
	return p.FTE >= 1.0
}

// IsUnavailable reports whether the physician cannot work on the given date.
func (p *Physician) IsUnavailable(date string) bool {
	return p.Unavailable[date]
}

// SetUnavailable marks dates as unavailable.
func (p *Physician) SetUnavailable(dates ...string) {
	if p.Unavailable == nil {
		p.Unavailable = make(map[string]bool)
	}
	for _, d := range dates {
		p.Unavailable[d] = true
	}
}

// AddRequirement attaches a hard weekly role requirement.
func (p *Physician) AddRequirement(r RoleRequirement) error {
	if err := r.Validate(); err != nil {
		return err
	}
	p.Requirements = append(p.Requirements, r)
	return nil
}

// AddPreference attaches a soft weekly role preference.
func (p *Physician) AddPreference(pref RolePreference) error {
	if err := pref.Validate(); err != nil {
		return err
	}
	p.Preferences = append(p.Preferences, pref)
	return nil
}
