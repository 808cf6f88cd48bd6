package shared

// Direction represents the directional call of a trading signal.
type Direction int

const (
	Hold Direction = iota
	Up
	Down
)

// String stringifies the provided direction.
func (d Direction) String() string {
	switch d {
	case Hold:
		return "hold"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Signal represents a directional call with an attached heuristic strength
// score in [0, 1]. The confidence is not a calibrated probability.
type Signal struct {
	Direction  Direction
	Confidence float64
}

// HoldSignal returns the neutral signal.
func HoldSignal() Signal {
	return Signal{Direction: Hold, Confidence: 0}
}

// WeightedSignal pairs a strategy signal with the static weight applied to it
// during aggregation.
type WeightedSignal struct {
	Signal
	// Strategy identifies the strategy that produced the signal.
	Strategy string
	// Weight is the static aggregation multiplier for the strategy.
	Weight float64
}
