// Package stats provides descriptive analytics over solved schedules:
// workload balance across physicians and coverage attainment across the
// horizon. Everything here is read-only bookkeeping; no statistic feeds back
// into the constraint model.
package stats

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/bluemens/dermatopathology-scheduler/pkg/model"
)

// PhysicianStat summarizes one physician's assigned workload in half-day units.
type PhysicianStat struct {
	PhysicianID    uuid.UUID `json:"physician_id"`
	PhysicianName  string    `json:"physician_name"`
	WorkUnits      int       `json:"work_units"`
	PathologyUnits int       `json:"pathology_units"`
	ClinicalUnits  int       `json:"clinical_units"`
	AdminUnits     int       `json:"admin_units"`
	ResearchUnits  int       `json:"research_units"`
	TimeOffUnits   int       `json:"time_off_units"`
	IdleUnits      int       `json:"idle_units"`
	TargetUnits    int       `json:"target_units"`
	Deviation      float64   `json:"deviation"` // percent deviation from target
}

// WorkloadMetrics describes how evenly work is spread across the practice.
type WorkloadMetrics struct {
	Gini           float64         `json:"gini"` // 0 is perfectly even
	MeanUnits      float64         `json:"mean_units"`
	StdDevUnits    float64         `json:"std_dev_units"`
	MaxUnits       float64         `json:"max_units"`
	MinUnits       float64         `json:"min_units"`
	PhysicianStats []PhysicianStat `json:"physician_stats"`
	BalanceScore   float64         `json:"balance_score"` // 0-100
}

// WorkloadAnalyzer computes workload metrics over a solved schedule.
type WorkloadAnalyzer struct{}

// NewWorkloadAnalyzer creates a workload analyzer.
func NewWorkloadAnalyzer() *WorkloadAnalyzer {
	return &WorkloadAnalyzer{}
}

// Analyze computes workload metrics for every physician in the schedule.
func (a *WorkloadAnalyzer) Analyze(s *model.Schedule) *WorkloadMetrics {
	physicians := s.Input.Physicians
	if len(physicians) == 0 {
		return &WorkloadMetrics{BalanceScore: 100}
	}

	pstats := make([]PhysicianStat, 0, len(physicians))
	units := make([]float64, 0, len(physicians))

	for _, p := range physicians {
		ps := a.physicianStat(s, p)
		pstats = append(pstats, ps)
		units = append(units, float64(ps.WorkUnits))
	}

	sort.Slice(pstats, func(i, j int) bool {
		return pstats[i].WorkUnits > pstats[j].WorkUnits
	})

	mean := stat.Mean(units, nil)
	stdDev := stat.StdDev(units, nil)
	if math.IsNaN(stdDev) {
		stdDev = 0 // single physician
	}
	maxU, minU := rangeOf(units)

	return &WorkloadMetrics{
		Gini:           gini(units),
		MeanUnits:      mean,
		StdDevUnits:    stdDev,
		MaxUnits:       maxU,
		MinUnits:       minU,
		PhysicianStats: pstats,
		BalanceScore:   balanceScore(gini(units), stdDev, mean),
	}
}

func (a *WorkloadAnalyzer) physicianStat(s *model.Schedule, p *model.Physician) PhysicianStat {
	ps := PhysicianStat{
		PhysicianID:    p.ID,
		PhysicianName:  p.Name,
		PathologyUnits: s.CategoryUnits(p.ID, model.CategoryPathology),
		ClinicalUnits:  s.CategoryUnits(p.ID, model.CategoryClinical),
		AdminUnits:     s.CategoryUnits(p.ID, model.CategoryAdministrative),
		ResearchUnits:  s.CategoryUnits(p.ID, model.CategoryResearch),
		TimeOffUnits:   s.CategoryUnits(p.ID, model.CategoryTimeOff),
		TargetUnits:    p.Targets.TotalWork,
	}
	ps.WorkUnits = ps.PathologyUnits + ps.ClinicalUnits + ps.AdminUnits + ps.ResearchUnits

	for _, slot := range s.SlotsForPhysician(p.ID) {
		if slot.IsIdle() {
			ps.IdleUnits++
		}
	}
	if ps.TargetUnits > 0 {
		ps.Deviation = float64(ps.WorkUnits-ps.TargetUnits) / float64(ps.TargetUnits) * 100
	}
	return ps
}

// gini computes the Gini coefficient of the values, clamped to [0, 1].
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum, weighted float64
	for i, v := range sorted {
		sum += v
		weighted += (2*float64(i+1) - float64(n) - 1) * v
	}
	if sum == 0 {
		return 0
	}
	return math.Max(0, math.Min(1, weighted/(float64(n)*sum)))
}

func rangeOf(values []float64) (max, min float64) {
	if len(values) == 0 {
		return 0, 0
	}
	max, min = values[0], values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return max, min
}

// balanceScore folds the Gini coefficient and the coefficient of variation
// into a 0-100 score. Targets differ legitimately by FTE, so the score is a
// rough signal, not a fairness verdict.
func balanceScore(g, stdDev, mean float64) float64 {
	giniScore := (1 - g) * 100
	cvScore := 100.0
	if mean > 0 {
		cvScore = math.Max(0, 100-(stdDev/mean)*200)
	}
	return math.Max(0, math.Min(100, 0.6*giniScore+0.4*cvScore))
}
