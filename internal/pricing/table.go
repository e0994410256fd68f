package pricing

// Table holds every pricing constant. It is a plain value: pass it by value
// and never share a mutable copy.
type Table struct {
	// BaseCostPerM2 and TraditionalCostPerM2 are in the reference currency (PLN).
	BaseCostPerM2        float64
	TraditionalCostPerM2 float64

	// CO2 emitted per square metre, in kilograms.
	CO2ModularPerM2     float64
	CO2TraditionalPerM2 float64

	// StoreyLoading is added to the cost factor for every storey above one.
	StoreyLoading float64
	// SelfBuildFactor multiplies the cost per m² when the owner does the labour.
	SelfBuildFactor float64

	BuildingTypeModifiers BuildingTypeModifiers
	InsulationModifiers   InsulationModifiers
	FinishingModifiers    FinishingModifiers
}

// BuildingTypeModifiers are proportional cost adjustments per building type.
type BuildingTypeModifiers struct {
	SingleFamily   float64
	MultiUnit      float64
	Commercial     float64
	Superstructure float64
}

// InsulationModifiers are proportional cost adjustments per insulation grade.
type InsulationModifiers struct {
	Standard float64
	Premium  float64
	Eco      float64
}

// FinishingModifiers are proportional cost adjustments per finishing level.
// They apply to both the modular and the traditional figure.
type FinishingModifiers struct {
	Shell     float64
	Developer float64
	Turnkey   float64
}

// DefaultTable returns the published price list.
func DefaultTable() Table {
	return Table{
		BaseCostPerM2:        2600,
		TraditionalCostPerM2: 4800,
		CO2ModularPerM2:      150,
		CO2TraditionalPerM2:  675,
		StoreyLoading:        0.05,
		SelfBuildFactor:      0.85,
		BuildingTypeModifiers: BuildingTypeModifiers{
			SingleFamily:   0,
			MultiUnit:      0.05,
			Commercial:     0.08,
			Superstructure: 0.10,
		},
		InsulationModifiers: InsulationModifiers{
			Standard: 0,
			Premium:  0.08,
			Eco:      0.12,
		},
		FinishingModifiers: FinishingModifiers{
			Shell:     -0.20,
			Developer: 0,
			Turnkey:   0.40,
		},
	}
}

// BuildingTypeModifier returns the modifier for b, or 0 for an unknown value.
func (t Table) BuildingTypeModifier(b BuildingType) float64 {
	switch b {
	case SingleFamily:
		return t.BuildingTypeModifiers.SingleFamily
	case MultiUnit:
		return t.BuildingTypeModifiers.MultiUnit
	case Commercial:
		return t.BuildingTypeModifiers.Commercial
	case Superstructure:
		return t.BuildingTypeModifiers.Superstructure
	default:
		return 0
	}
}

// InsulationModifier returns the modifier for g, or 0 for an unknown value.
func (t Table) InsulationModifier(g InsulationGrade) float64 {
	switch g {
	case Standard:
		return t.InsulationModifiers.Standard
	case Premium:
		return t.InsulationModifiers.Premium
	case Eco:
		return t.InsulationModifiers.Eco
	default:
		return 0
	}
}

// FinishingModifier returns the modifier for f, or 0 for an unknown value.
func (t Table) FinishingModifier(f FinishingLevel) float64 {
	switch f {
	case Shell:
		return t.FinishingModifiers.Shell
	case Developer:
		return t.FinishingModifiers.Developer
	case Turnkey:
		return t.FinishingModifiers.Turnkey
	default:
		return 0
	}
}

// Option is one selectable value of a dimension together with its modifier.
type Option struct {
	Value    string  `json:"value"`
	Modifier float64 `json:"modifier"`
}

// Dimension groups the options of one Selection field.
type Dimension struct {
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

// Dimensions lists every enumerated Selection field with its modifiers.
func (t Table) Dimensions() []Dimension {
	bt := make([]Option, 0, len(BuildingTypes()))
	for _, v := range BuildingTypes() {
		bt = append(bt, Option{Value: string(v), Modifier: t.BuildingTypeModifier(v)})
	}
	ins := make([]Option, 0, len(InsulationGrades()))
	for _, v := range InsulationGrades() {
		ins = append(ins, Option{Value: string(v), Modifier: t.InsulationModifier(v)})
	}
	fin := make([]Option, 0, len(FinishingLevels()))
	for _, v := range FinishingLevels() {
		fin = append(fin, Option{Value: string(v), Modifier: t.FinishingModifier(v)})
	}
	return []Dimension{
		{Name: "buildingType", Options: bt},
		{Name: "insulationGrade", Options: ins},
		{Name: "finishingLevel", Options: fin},
	}
}
