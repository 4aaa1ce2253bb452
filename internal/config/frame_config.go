package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/rotframe/internal/frame"
	"github.com/banshee-data/rotframe/internal/rotation"
	"github.com/banshee-data/rotframe/internal/rotframe"
	"github.com/banshee-data/rotframe/internal/units"
)

// DefaultConfigPath is the path to the canonical frame defaults file.
const DefaultConfigPath = "config/frame.defaults.json"

// FrameConfig describes an inertial/rotating frame pair and how to run the
// transform between them. Omitted fields fall back to the Get* defaults, so
// partial configs are safe.
type FrameConfig struct {
	// Inertial unit system
	LengthUnit *string `json:"length_unit,omitempty"`
	TimeUnit   *string `json:"time_unit,omitempty"`
	AngleUnit  *string `json:"angle_unit,omitempty"`

	// Rotating frame. Omega is a number (planar) or a 3-element array.
	Omega     json.RawMessage `json:"omega,omitempty"`
	OmegaUnit *string         `json:"omega_unit,omitempty"`

	// Transform params
	Direction *string `json:"direction,omitempty"` // "forward" or "inverse"
	Workers   *int    `json:"workers,omitempty"`
	ChunkSize *int    `json:"chunk_size,omitempty"`
}

func ptrString(v string) *string { return &v }
func ptrInt(v int) *int          { return &v }

// EmptyFrameConfig returns a FrameConfig with all fields unset.
func EmptyFrameConfig() *FrameConfig {
	return &FrameConfig{}
}

// LoadFrameConfig loads a FrameConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadFrameConfig(path string) (*FrameConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseFrameConfig(data)
}

// ParseFrameConfig decodes and validates a JSON document.
func ParseFrameConfig(data []byte) (*FrameConfig, error) {
	cfg := EmptyFrameConfig()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *FrameConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadFrameConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *FrameConfig) Validate() error {
	u, err := c.GetUnits()
	if err != nil {
		return err
	}

	if c.OmegaUnit != nil {
		if _, err := units.FrequencyFactor(*c.OmegaUnit, u.Time); err != nil {
			return fmt.Errorf("invalid omega_unit '%s': %w", *c.OmegaUnit, err)
		}
	}

	if len(c.Omega) > 0 {
		if _, err := c.GetOmega(); err != nil {
			return err
		}
	}

	if c.Direction != nil {
		if _, err := rotframe.ParseDirection(*c.Direction); err != nil {
			return fmt.Errorf("invalid direction '%s': %w", *c.Direction, err)
		}
	}

	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.ChunkSize != nil && *c.ChunkSize < 0 {
		return fmt.Errorf("chunk_size must be non-negative, got %d", *c.ChunkSize)
	}

	return nil
}

// GetUnits returns the inertial unit system, defaulting to kpc/Myr/rad.
func (c *FrameConfig) GetUnits() (units.System, error) {
	s := units.Galactic
	if c.LengthUnit != nil {
		s.Length = *c.LengthUnit
	}
	if c.TimeUnit != nil {
		s.Time = *c.TimeUnit
	}
	if c.AngleUnit != nil {
		s.Angle = *c.AngleUnit
	}
	if err := s.Validate(); err != nil {
		return units.System{}, err
	}
	return s, nil
}

// GetOmegaUnit returns omega_unit, or "" meaning the unit system's angle/time.
func (c *FrameConfig) GetOmegaUnit() string {
	if c.OmegaUnit == nil {
		return ""
	}
	return *c.OmegaUnit
}

// GetOmega decodes omega as a planar scalar or a 3-vector.
func (c *FrameConfig) GetOmega() (frame.AngularVelocity, error) {
	if len(c.Omega) == 0 || bytes.Equal(bytes.TrimSpace(c.Omega), []byte("null")) {
		return frame.AngularVelocity{}, fmt.Errorf("omega is required")
	}
	var scalar float64
	if err := json.Unmarshal(c.Omega, &scalar); err == nil {
		return frame.Planar(scalar, c.GetOmegaUnit()), nil
	}
	var vec []float64
	if err := json.Unmarshal(c.Omega, &vec); err != nil || len(vec) != 3 {
		return frame.AngularVelocity{}, fmt.Errorf("omega must be a number or a 3-element array, got %s", string(c.Omega))
	}
	return frame.Spatial(r3.Vec{X: vec[0], Y: vec[1], Z: vec[2]}, c.GetOmegaUnit()), nil
}

// GetDirection returns the direction or Forward.
func (c *FrameConfig) GetDirection() rotframe.Direction {
	if c.Direction == nil {
		return rotframe.Forward
	}
	d, err := rotframe.ParseDirection(*c.Direction)
	if err != nil {
		return rotframe.Forward // default on parse error
	}
	return d
}

// GetWorkers returns the workers value or the default (serial).
func (c *FrameConfig) GetWorkers() int {
	if c.Workers == nil {
		return 1
	}
	return *c.Workers
}

// GetChunkSize returns the chunk_size value or the default.
func (c *FrameConfig) GetChunkSize() int {
	if c.ChunkSize == nil || *c.ChunkSize == 0 {
		return rotation.DefaultChunkSize
	}
	return *c.ChunkSize
}

// RotationOptions collects the worker settings.
func (c *FrameConfig) RotationOptions() rotation.Options {
	return rotation.Options{Workers: c.GetWorkers(), ChunkSize: c.GetChunkSize()}
}

// BuildFrames returns the inertial and rotating frames described by c. Both
// share the configured unit system.
func (c *FrameConfig) BuildFrames() (*frame.StaticFrame, *frame.ConstantRotatingFrame, error) {
	u, err := c.GetUnits()
	if err != nil {
		return nil, nil, err
	}
	omega, err := c.GetOmega()
	if err != nil {
		return nil, nil, err
	}
	fi, err := frame.NewStaticFrame(u)
	if err != nil {
		return nil, nil, err
	}
	fr, err := frame.NewConstantRotatingFrame(omega, u)
	if err != nil {
		return nil, nil, err
	}
	return fi, fr, nil
}

// WithOverrides returns a copy of c with any non-empty flag values applied.
func (c *FrameConfig) WithOverrides(direction string, workers int) *FrameConfig {
	out := *c
	if direction != "" {
		out.Direction = ptrString(direction)
	}
	if workers > 0 {
		out.Workers = ptrInt(workers)
	}
	return &out
}
