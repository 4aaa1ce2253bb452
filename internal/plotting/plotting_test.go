package plotting

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"
)

func circle(name string, n int, r float64) Series {
	s := Series{Name: name, X: make([]float64, n), Y: make([]float64, n)}
	for i := 0; i < n; i++ {
		th := 2 * math.Pi * float64(i) / float64(n)
		s.X[i], s.Y[i] = r*math.Cos(th), r*math.Sin(th)
	}
	return s
}

func TestSeriesFromDense(t *testing.T) {
	pos := mat.NewDense(3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})
	want := Series{Name: "orbit", X: []float64{1, 2}, Y: []float64{3, 4}}
	if diff := cmp.Diff(want, SeriesFromDense("orbit", pos)); diff != "" {
		t.Errorf("SeriesFromDense mismatch (-want +got):\n%s", diff)
	}
}

func TestExtent(t *testing.T) {
	tests := []struct {
		name   string
		series []Series
		want   float64
	}{
		{"origin only", []Series{{X: []float64{0}, Y: []float64{0}}}, 1},
		{"skips non-finite", []Series{
			{X: []float64{1, -5}, Y: []float64{2, 0}},
			{X: []float64{math.NaN()}, Y: []float64{math.Inf(1)}},
		}, 5.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extent(tt.series); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("extent = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSaveTrajectoryPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trajectory.png")

	if err := SaveTrajectoryPNG(path, "test", circle("inertial", 32, 1), circle("rotating", 32, 2)); err != nil {
		t.Fatalf("SaveTrajectoryPNG failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read plot: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("expected PNG signature, got % x", data[:min(len(data), 8)])
	}
}

func TestRenderTrajectoryHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTrajectoryHTML(&buf, "Frames", circle("inertial", 8, 1), circle("rotating", 8, 1)); err != nil {
		t.Fatalf("RenderTrajectoryHTML failed: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"<html", "Frames", "inertial", "rotating"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestPlotting_Errors(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTrajectoryHTML(&buf, "empty"); !errors.Is(err, ErrNoData) {
		t.Errorf("RenderTrajectoryHTML with no series = %v, want ErrNoData", err)
	}

	empty := Series{Name: "empty"}
	if err := SaveTrajectoryPNG(filepath.Join(t.TempDir(), "x.png"), "t", empty); !errors.Is(err, ErrNoData) {
		t.Errorf("SaveTrajectoryPNG with empty series = %v, want ErrNoData", err)
	}

	ragged := Series{Name: "ragged", X: []float64{1, 2}, Y: []float64{1}}
	if err := RenderTrajectoryHTML(&buf, "ragged", ragged); err == nil {
		t.Error("expected an error for ragged series")
	}
}
