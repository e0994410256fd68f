package greenops

// EPA greenhouse gas equivalency factors, kg CO2e per unit.
// equivalency = kg / factor.
const (
	// EPATreeSeedlingFactor is kg CO2e absorbed by one seedling over ten years.
	EPATreeSeedlingFactor = 60.0

	// EPAMilesDrivenFactor is kg CO2e per mile in an average passenger vehicle.
	EPAMilesDrivenFactor = 0.192

	// EPAHomeDayFactor is kg CO2e per day of average home electricity use.
	EPAHomeDayFactor = 18.3
)

const (
	// MinEquivalencyThresholdKg is the smallest saving worth translating.
	MinEquivalencyThresholdKg = 1.0

	// LargeNumberThreshold switches FormatLarge to "~X.X million".
	LargeNumberThreshold = 1_000_000

	// BillionThreshold switches FormatLarge to "~X.X billion".
	BillionThreshold = 1_000_000_000
)
