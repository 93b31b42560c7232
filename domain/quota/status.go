package quota

// Status classifies how much of the daily allowance is left.
type Status string

const (
	StatusGreen  Status = "green"
	StatusOrange Status = "orange"
	StatusRed    Status = "red"
)

// Thresholds holds the classification boundaries, expressed in remaining
// units. Remaining below Red is red, below Orange is orange, otherwise
// green. The boundaries are configuration, not law.
type Thresholds struct {
	Orange int64
	Red    int64
}

// DefaultThresholds matches the reference deployment against a 10000-unit
// daily limit.
func DefaultThresholds() Thresholds {
	return Thresholds{Orange: 2000, Red: 1000}
}

// Classify maps remaining units to a status. This is a PURE function.
func Classify(remaining int64, t Thresholds) Status {
	switch {
	case remaining < t.Red:
		return StatusRed
	case remaining < t.Orange:
		return StatusOrange
	default:
		return StatusGreen
	}
}
