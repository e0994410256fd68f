package greenops

type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrNegativeValue is returned for a negative CO2 saving.
	ErrNegativeValue = constError("negative carbon value")

	// ErrCalculationOverflow is returned for NaN or infinite input.
	ErrCalculationOverflow = constError("calculation overflow")
)
