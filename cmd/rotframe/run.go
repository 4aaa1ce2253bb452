package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/rotframe/internal/config"
	"github.com/banshee-data/rotframe/internal/db"
	"github.com/banshee-data/rotframe/internal/monitoring"
	"github.com/banshee-data/rotframe/internal/phasespace"
	"github.com/banshee-data/rotframe/internal/plotting"
	"github.com/banshee-data/rotframe/internal/rotframe"
	"github.com/banshee-data/rotframe/internal/security"
)

type options struct {
	configPath string
	inputPath  string
	outputPath string
	times      string
	direction  string
	workers    int
	dbPath     string
	pngPath    string
	htmlPath   string
}

// parseCSVFloatSlice parses a comma-separated list of floats
func parseCSVFloatSlice(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// validateOutputs rejects output paths outside the working or temp
// directory before any work is done.
func (o options) validateOutputs() error {
	checks := []struct {
		path string
		exts []string
	}{
		{o.outputPath, []string{".csv"}},
		{o.dbPath, []string{".db", ".sqlite", ".sqlite3"}},
		{o.pngPath, []string{".png", ".svg", ".pdf"}},
		{o.htmlPath, []string{".html", ".htm"}},
	}
	for _, c := range checks {
		if c.path == "" {
			continue
		}
		if err := security.ValidateOutputPath(c.path, c.exts...); err != nil {
			return err
		}
	}
	return nil
}

func run(ctx context.Context, o options, stdin io.Reader, stdout io.Writer) error {
	if err := o.validateOutputs(); err != nil {
		return err
	}

	cfg, err := config.LoadFrameConfig(o.configPath)
	if err != nil {
		return err
	}
	cfg = cfg.WithOverrides(o.direction, o.workers)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid overrides: %w", err)
	}

	inertial, rotating, err := cfg.BuildFrames()
	if err != nil {
		return err
	}
	u := inertial.Units()
	dir := cfg.GetDirection()

	in := stdin
	if o.inputPath != "" {
		f, err := os.Open(o.inputPath)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}
	w, err := phasespace.ReadCSV(in, u)
	if err != nil {
		return err
	}

	var t *rotframe.Times
	ts, err := parseCSVFloatSlice(o.times)
	if err != nil {
		return fmt.Errorf("invalid -t: %w", err)
	}
	if ts != nil {
		t = rotframe.At(ts...)
	}

	tr := rotframe.New(cfg.RotationOptions())
	done := monitoring.Timed("%s transform of %d %dD samples (omega %s, units %s)",
		dir, w.Len(), w.Dim(), rotating.AngularVelocity(), u)
	res, err := tr.Transform(inertial, rotating, w, t, dir)
	if err != nil {
		return err
	}
	done()

	out, err := res.PhaseSpace()
	if err != nil {
		return err
	}

	dst := stdout
	if o.outputPath != "" {
		f, err := os.Create(o.outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		dst = f
	}
	if err := phasespace.WriteCSV(dst, out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	inName, outName := "inertial", "rotating"
	if dir == rotframe.Inverse {
		inName, outName = outName, inName
	}

	if o.dbPath != "" {
		if err := store(ctx, o.dbPath, inName, w, outName, out); err != nil {
			return err
		}
	}

	series := []plotting.Series{
		plotting.SeriesFromDense(inName, w.Pos()),
		plotting.SeriesFromDense(outName, res.Pos),
	}
	title := fmt.Sprintf("%s transform, omega %s", dir, rotating.AngularVelocity())
	if o.pngPath != "" {
		if err := plotting.SaveTrajectoryPNG(o.pngPath, title, series...); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", o.pngPath)
	}
	if o.htmlPath != "" {
		f, err := os.Create(o.htmlPath)
		if err != nil {
			return fmt.Errorf("failed to create html output: %w", err)
		}
		defer f.Close()
		if err := plotting.RenderTrajectoryHTML(f, title, series...); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", o.htmlPath)
	}
	return nil
}

func store(ctx context.Context, path, inName string, in phasespace.Sample, outName string, out phasespace.Sample) error {
	database, err := db.NewDB(path)
	if err != nil {
		return err
	}
	defer database.Close()

	inID, err := database.SaveOrbit(ctx, inName, in, in.Units())
	if err != nil {
		return err
	}
	outID, err := database.SaveOrbit(ctx, outName, out, out.Units())
	if err != nil {
		return err
	}
	monitoring.Logf("saved %s as %s and %s as %s", inName, inID, outName, outID)
	return nil
}
