package units

import "fmt"

// System maps each dimension to the unit phase-space data is expressed in.
type System struct {
	Length string `json:"length"`
	Time   string `json:"time"`
	Angle  string `json:"angle"`
}

// Galactic is the kpc/Myr/rad system used when nothing else is configured.
var Galactic = System{Length: KPC, Time: MYR, Angle: RAD}

// SI is the m/s/rad system.
var SI = System{Length: M, Time: S, Angle: RAD}

// NewSystem builds and validates a unit system.
func NewSystem(length, time, angle string) (System, error) {
	s := System{Length: length, Time: time, Angle: angle}
	if err := s.Validate(); err != nil {
		return System{}, err
	}
	return s, nil
}

// Validate checks every dimension holds a unit of the right kind.
func (s System) Validate() error {
	if !IsLength(s.Length) {
		return fmt.Errorf("%w: length %q (valid: %s)", ErrUnknownUnit, s.Length, GetValidUnitsString())
	}
	if !IsTime(s.Time) {
		return fmt.Errorf("%w: time %q (valid: %s)", ErrUnknownUnit, s.Time, GetValidUnitsString())
	}
	if !IsAngle(s.Angle) {
		return fmt.Errorf("%w: angle %q (valid: %s)", ErrUnknownUnit, s.Angle, GetValidUnitsString())
	}
	return nil
}

// Get returns the unit for a dimension name, or "" when the name is unknown.
func (s System) Get(dimension string) string {
	switch dimension {
	case Length:
		return s.Length
	case Time:
		return s.Time
	case Angle:
		return s.Angle
	default:
		return ""
	}
}

// VelocityUnit is the derived length/time unit.
func (s System) VelocityUnit() string {
	return s.Length + "/" + s.Time
}

// FrequencyUnit is the derived angle/time unit.
func (s System) FrequencyUnit() string {
	return s.Angle + "/" + s.Time
}

// String implements fmt.Stringer.
func (s System) String() string {
	return fmt.Sprintf("[%s, %s, %s]", s.Length, s.Time, s.Angle)
}
