package rotframe

import (
	"fmt"
	"strings"
)

// Direction selects the sense of a transform.
type Direction int

const (
	// Forward goes from the static frame to the rotating frame.
	Forward Direction = iota
	// Inverse goes from the rotating frame to the static frame.
	Inverse
)

// Sign is the factor applied to the rotation angle: +1 for Forward, -1 for Inverse.
func (d Direction) Sign() float64 {
	if d == Inverse {
		return -1
	}
	return 1
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Inverse:
		return "inverse"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

func (d Direction) validate() error {
	if d != Forward && d != Inverse {
		return fmt.Errorf("%w: unknown direction %d", ErrInvalidInput, int(d))
	}
	return nil
}

// ParseDirection accepts "forward"/"static-to-rotating" and
// "inverse"/"rotating-to-static", case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "static-to-rotating":
		return Forward, nil
	case "inverse", "rotating-to-static":
		return Inverse, nil
	default:
		return Forward, fmt.Errorf("%w: unknown direction %q", ErrInvalidInput, s)
	}
}
