// Package units provides the unit system used to tag and convert phase-space
// data: lengths, times and angles, plus the derived velocity and angular
// frequency units built from them.
package units

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Dimension names understood by System.Get.
const (
	Length = "length"
	Time   = "time"
	Angle  = "angle"
)

// Length units
const (
	M   = "m"
	KM  = "km"
	AU  = "au"
	PC  = "pc"
	KPC = "kpc"
)

// Time units
const (
	S   = "s"
	DAY = "day"
	YR  = "yr"
	MYR = "Myr"
	GYR = "Gyr"
)

// Angle units
const (
	RAD = "rad"
	DEG = "deg"
)

// ErrUnknownUnit is returned when a unit name is not part of any table below.
var ErrUnknownUnit = errors.New("unknown unit")

const (
	meterPerAU     = 1.495978707e11
	meterPerParsec = 3.0856775814913673e16
	secondsPerDay  = 86400.0
	secondsPerYear = 365.25 * secondsPerDay // Julian year
)

// lengthInMeters maps each length unit to its size in meters.
var lengthInMeters = map[string]float64{
	M:   1,
	KM:  1e3,
	AU:  meterPerAU,
	PC:  meterPerParsec,
	KPC: 1e3 * meterPerParsec,
}

// timeInSeconds maps each time unit to its size in seconds.
var timeInSeconds = map[string]float64{
	S:   1,
	DAY: secondsPerDay,
	YR:  secondsPerYear,
	MYR: 1e6 * secondsPerYear,
	GYR: 1e9 * secondsPerYear,
}

// angleInRadians maps each angle unit to its size in radians.
var angleInRadians = map[string]float64{
	RAD: 1,
	DEG: math.Pi / 180,
}

// IsLength reports whether unit is a known length unit.
func IsLength(unit string) bool {
	_, ok := lengthInMeters[unit]
	return ok
}

// IsTime reports whether unit is a known time unit.
func IsTime(unit string) bool {
	_, ok := timeInSeconds[unit]
	return ok
}

// IsAngle reports whether unit is a known angle unit.
func IsAngle(unit string) bool {
	_, ok := angleInRadians[unit]
	return ok
}

// IsValid checks if the given unit is a known length, time or angle unit.
func IsValid(unit string) bool {
	return IsLength(unit) || IsTime(unit) || IsAngle(unit)
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	var names []string
	for _, table := range []map[string]float64{lengthInMeters, timeInSeconds, angleInRadians} {
		var group []string
		for name := range table {
			group = append(group, name)
		}
		sort.Strings(group)
		names = append(names, group...)
	}
	return strings.Join(names, ", ")
}

func factor(table map[string]float64, kind, from, to string) (float64, error) {
	f, ok := table[from]
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a %s unit", ErrUnknownUnit, from, kind)
	}
	t, ok := table[to]
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a %s unit", ErrUnknownUnit, to, kind)
	}
	if from == to {
		return 1, nil
	}
	return f / t, nil
}

// LengthFactor returns the multiplier converting a length in from into to.
func LengthFactor(from, to string) (float64, error) {
	return factor(lengthInMeters, Length, from, to)
}

// TimeFactor returns the multiplier converting a time in from into to.
func TimeFactor(from, to string) (float64, error) {
	return factor(timeInSeconds, Time, from, to)
}

// AngleFactor returns the multiplier converting an angle in from into to.
func AngleFactor(from, to string) (float64, error) {
	return factor(angleInRadians, Angle, from, to)
}

// ConvertLength converts a length value between units.
func ConvertLength(v float64, from, to string) (float64, error) {
	f, err := LengthFactor(from, to)
	if err != nil {
		return 0, err
	}
	return v * f, nil
}

// ConvertTime converts a time value between units.
func ConvertTime(v float64, from, to string) (float64, error) {
	f, err := TimeFactor(from, to)
	if err != nil {
		return 0, err
	}
	return v * f, nil
}

// ScaleAll multiplies every element of vs by f in place.
func ScaleAll(vs []float64, f float64) {
	if f == 1 {
		return
	}
	for i := range vs {
		vs[i] *= f
	}
}
