package units

import (
	"errors"
	"math"
	"testing"
)

func TestVelocityFactor(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		expected float64
		tol      float64
	}{
		{"km/s to m/s", "km/s", "m/s", 1000, 1e-12},
		{"km/s to kpc/Myr", "km/s", "kpc/Myr", 1.0227121650537077e-3, 1e-9},
		{"identity", "pc/yr", "pc/yr", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VelocityFactor(tt.from, tt.to)
			if err != nil {
				t.Fatalf("VelocityFactor returned error: %v", err)
			}
			if math.Abs(got-tt.expected) > tt.tol*math.Abs(tt.expected) {
				t.Errorf("VelocityFactor(%s, %s) = %g, want %g", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestVelocityFactor_Malformed(t *testing.T) {
	for _, u := range []string{"kms", "km/s/s", "km/kpc"} {
		if _, err := VelocityFactor(u, "m/s"); !errors.Is(err, ErrUnknownUnit) {
			t.Errorf("VelocityFactor(%q) error = %v, want ErrUnknownUnit", u, err)
		}
	}
}

func TestFrequencyFactor(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		expected float64
	}{
		{"rad/Myr to rad/Myr", "rad/Myr", MYR, 1},
		{"deg/s to rad/s", "deg/s", S, math.Pi / 180},
		{"1/Myr to rad/yr", "1/Myr", YR, 1e-6},
		{"rad/Myr to rad/s", "rad/Myr", S, 1 / (1e6 * 365.25 * 86400)},
		{"km/s/kpc to rad/Myr", "km/s/kpc", MYR, 1.0227121650537077e-3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FrequencyFactor(tt.from, tt.to)
			if err != nil {
				t.Fatalf("FrequencyFactor returned error: %v", err)
			}
			if math.Abs(got-tt.expected) > 1e-9*math.Abs(tt.expected) {
				t.Errorf("FrequencyFactor(%s, %s) = %g, want %g", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestFrequencyFactor_Unknown(t *testing.T) {
	for _, u := range []string{"rpm", "grad/s", "rad/fortnight", "a/b/c/d"} {
		if _, err := FrequencyFactor(u, S); !errors.Is(err, ErrUnknownUnit) {
			t.Errorf("FrequencyFactor(%q) error = %v, want ErrUnknownUnit", u, err)
		}
	}
}

func TestSystem(t *testing.T) {
	s, err := NewSystem(KPC, MYR, RAD)
	if err != nil {
		t.Fatalf("NewSystem returned error: %v", err)
	}
	if s != Galactic {
		t.Errorf("NewSystem = %v, want %v", s, Galactic)
	}
	if got := s.Get(Length); got != KPC {
		t.Errorf("Get(length) = %s, want kpc", got)
	}
	if got := s.Get("mass"); got != "" {
		t.Errorf("Get(mass) = %q, want empty", got)
	}
	if got := s.VelocityUnit(); got != "kpc/Myr" {
		t.Errorf("VelocityUnit() = %s", got)
	}
	if got := s.FrequencyUnit(); got != "rad/Myr" {
		t.Errorf("FrequencyUnit() = %s", got)
	}

	if _, err := NewSystem(MYR, KPC, RAD); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("swapped dimensions should fail with ErrUnknownUnit, got %v", err)
	}
}
