package units

import (
	"fmt"
	"strings"
)

// VelocityFactor converts a velocity unit written "length/time" (e.g. "km/s")
// into another one.
func VelocityFactor(from, to string) (float64, error) {
	fl, ft, err := splitVelocity(from)
	if err != nil {
		return 0, err
	}
	tl, tt, err := splitVelocity(to)
	if err != nil {
		return 0, err
	}
	lf, err := LengthFactor(fl, tl)
	if err != nil {
		return 0, err
	}
	tf, err := TimeFactor(ft, tt)
	if err != nil {
		return 0, err
	}
	return lf / tf, nil
}

func splitVelocity(unit string) (length, time string, err error) {
	parts := strings.Split(unit, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q is not a length/time unit", ErrUnknownUnit, unit)
	}
	return parts[0], parts[1], nil
}

// FrequencyFactor returns the multiplier converting an angular frequency in
// unit from into radians per toTime.
//
// Accepted forms:
//
//	angle/time         e.g. "rad/Myr", "deg/s"
//	1/time             e.g. "1/Myr" (radians implied)
//	length/time/length e.g. "km/s/kpc" (radians implied)
func FrequencyFactor(from, toTime string) (float64, error) {
	parts := strings.Split(from, "/")
	switch len(parts) {
	case 2:
		af := 1.0
		if parts[0] != "1" {
			var err error
			if af, err = AngleFactor(parts[0], RAD); err != nil {
				return 0, err
			}
		}
		// x per t1 = x / (t1 in toTime) per toTime
		tf, err := TimeFactor(parts[1], toTime)
		if err != nil {
			return 0, err
		}
		return af / tf, nil
	case 3:
		vf, err := VelocityFactor(parts[0]+"/"+parts[1], parts[2]+"/"+toTime)
		if err != nil {
			return 0, err
		}
		return vf, nil
	default:
		return 0, fmt.Errorf("%w: %q is not an angular frequency unit", ErrUnknownUnit, from)
	}
}
