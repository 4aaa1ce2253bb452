package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/rotframe/internal/monitoring"
	"github.com/banshee-data/rotframe/internal/phasespace"
	"github.com/banshee-data/rotframe/internal/units"
)

// ErrNotFound is returned when no orbit has the requested ID.
var ErrNotFound = errors.New("orbit not found")

// OrbitSummary describes a stored orbit without its samples.
type OrbitSummary struct {
	ID      string
	Name    string
	Dim     int
	Len     int
	HasTime bool
	Units   units.System
	Created time.Time
}

// SaveOrbit stores w, expressed in the unit system u, under a new ID and
// returns that ID. Times are kept only when w carries its own time axis.
func (db *DB) SaveOrbit(ctx context.Context, name string, w phasespace.Sample, u units.System) (string, error) {
	if w == nil {
		return "", fmt.Errorf("nil sample")
	}
	if err := u.Validate(); err != nil {
		return "", err
	}
	pos, vel, err := phasespace.Decompose(w, u)
	if err != nil {
		return "", err
	}
	t, hasTime := w.Time()
	if hasTime {
		f, err := units.TimeFactor(w.Units().Time, u.Time)
		if err != nil {
			return "", err
		}
		t = append([]float64(nil), t...)
		units.ScaleAll(t, f)
	}

	id := uuid.NewString()
	dim, n := w.Dim(), w.Len()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orbits (
			orbit_id, name, dim, n_samples, has_time,
			length_unit, time_unit, angle_unit, created_unix
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, name, dim, n, hasTime,
		u.Length, u.Time, u.Angle, float64(db.clock.Now().UnixNano())/1e9,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert orbit: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO orbit_samples (orbit_id, idx, t, x, y, z, vx, vy, vz)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for j := 0; j < n; j++ {
		var ti, z, vz sql.NullFloat64
		if hasTime {
			ti = sql.NullFloat64{Float64: t[j], Valid: true}
		}
		if dim == 3 {
			z = sql.NullFloat64{Float64: pos.At(2, j), Valid: true}
			vz = sql.NullFloat64{Float64: vel.At(2, j), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, id, j, ti,
			pos.At(0, j), pos.At(1, j), z,
			vel.At(0, j), vel.At(1, j), vz,
		); err != nil {
			return "", fmt.Errorf("failed to insert sample %d: %w", j, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit orbit: %w", err)
	}
	monitoring.Logf("stored orbit %s (%q, %d×%d)", id, name, dim, n)
	return id, nil
}

// LoadOrbit reads back a stored orbit. The result is an *Orbit when times
// were stored and a *PhaseSpacePosition otherwise.
func (db *DB) LoadOrbit(ctx context.Context, id string) (phasespace.Sample, error) {
	s, err := db.getSummary(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT idx, t, x, y, z, vx, vy, vz
		FROM orbit_samples
		WHERE orbit_id = ?
		ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	pos := mat.NewDense(s.Dim, s.Len, nil)
	vel := mat.NewDense(s.Dim, s.Len, nil)
	var t []float64
	if s.HasTime {
		t = make([]float64, s.Len)
	}

	count := 0
	for rows.Next() {
		var (
			idx       int
			ti, z, vz sql.NullFloat64
			x, y      float64
			vx, vy    float64
		)
		if err := rows.Scan(&idx, &ti, &x, &y, &z, &vx, &vy, &vz); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		if idx < 0 || idx >= s.Len {
			return nil, fmt.Errorf("orbit %s: sample index %d out of range", id, idx)
		}
		pos.Set(0, idx, x)
		pos.Set(1, idx, y)
		vel.Set(0, idx, vx)
		vel.Set(1, idx, vy)
		if s.Dim == 3 {
			pos.Set(2, idx, nullOrNaN(z))
			vel.Set(2, idx, nullOrNaN(vz))
		}
		if s.HasTime {
			t[idx] = nullOrNaN(ti)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if count != s.Len {
		return nil, fmt.Errorf("orbit %s: found %d samples, want %d", id, count, s.Len)
	}

	if s.HasTime {
		return phasespace.NewOrbit(pos, vel, t, s.Units)
	}
	return phasespace.NewPhaseSpacePosition(pos, vel, s.Units)
}

// ListOrbits returns every stored orbit, newest first.
func (db *DB) ListOrbits(ctx context.Context) ([]OrbitSummary, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT orbit_id, name, dim, n_samples, has_time,
			length_unit, time_unit, angle_unit, created_unix
		FROM orbits
		ORDER BY created_unix DESC, orbit_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orbits: %w", err)
	}
	defer rows.Close()

	var out []OrbitSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteOrbit removes an orbit and its samples.
func (db *DB) DeleteOrbit(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM orbits WHERE orbit_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete orbit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	monitoring.Logf("deleted orbit %s", id)
	return nil
}

func (db *DB) getSummary(ctx context.Context, id string) (OrbitSummary, error) {
	row := db.QueryRowContext(ctx,
		`SELECT orbit_id, name, dim, n_samples, has_time,
			length_unit, time_unit, angle_unit, created_unix
		FROM orbits
		WHERE orbit_id = ?`, id)
	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return OrbitSummary{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(r scanner) (OrbitSummary, error) {
	var (
		s       OrbitSummary
		created float64
	)
	err := r.Scan(&s.ID, &s.Name, &s.Dim, &s.Len, &s.HasTime,
		&s.Units.Length, &s.Units.Time, &s.Units.Angle, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, err
		}
		return s, fmt.Errorf("failed to scan orbit: %w", err)
	}
	sec, frac := math.Modf(created)
	s.Created = time.Unix(int64(sec), int64(frac*1e9))
	return s, nil
}

func nullOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
