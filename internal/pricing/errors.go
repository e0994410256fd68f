package pricing

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Selection contract violations, comparable with errors.Is.
var (
	ErrUnknownBuildingType = constError("unknown building type")
	ErrUnknownInsulation   = constError("unknown insulation grade")
	ErrUnknownFinishing    = constError("unknown finishing level")
	ErrFloorAreaOutOfRange = constError("floor area out of range")
	ErrStoreysOutOfRange   = constError("storeys out of range")
)
