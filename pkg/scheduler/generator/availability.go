package generator

// AvailabilityGenerator forces every role variable of a physician to zero on
// the physician's unavailable dates. An equality-to-zero cannot be
// contradicted by inequalities elsewhere, so this override always wins.
type AvailabilityGenerator struct{}

// NewAvailabilityGenerator creates the availability generator.
func NewAvailabilityGenerator() *AvailabilityGenerator {
	return &AvailabilityGenerator{}
}

// Name returns the constraint group name.
func (g *AvailabilityGenerator) Name() string { return GroupAvailability }

// Generate emits the availability constraints. Dates outside the planning
// horizon are ignored.
func (g *AvailabilityGenerator) Generate(ctx *Context) error {
	for _, p := range ctx.Input.Physicians {
		for date := range p.Unavailable {
			if ctx.Input.DayIndex(date) < 0 {
				continue
			}
			for _, rv := range ctx.Space.ForPhysicianDay(p.ID, date) {
				ctx.Model.FixZero(GroupAvailability, rv.ID)
			}
		}
	}
	return nil
}
