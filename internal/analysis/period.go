package analysis

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrTooShort   = errors.New("analysis: series too short")
	ErrNoPeriod   = errors.New("analysis: no dominant period")
	ErrMismatched = errors.New("analysis: times and values differ in length")
)

const minSamples = 16

// Resample linearly interpolates values taken at increasing times onto n
// evenly spaced points spanning the same interval. It returns the spacing.
func Resample(times, values []float64, n int) ([]float64, float64, error) {
	if len(times) != len(values) {
		return nil, 0, ErrMismatched
	}
	if len(times) < 2 || n < 2 {
		return nil, 0, ErrTooShort
	}
	t0, t1 := times[0], times[len(times)-1]
	if !(t1 > t0) {
		return nil, 0, fmt.Errorf("%w: no elapsed time", ErrTooShort)
	}

	step := (t1 - t0) / float64(n-1)
	out := make([]float64, n)
	j := 0
	for i := range out {
		t := t0 + float64(i)*step
		for j < len(times)-2 && times[j+1] < t {
			j++
		}
		span := times[j+1] - times[j]
		if span <= 0 {
			out[i] = values[j+1]
			continue
		}
		f := math.Max(0, math.Min(1, (t-times[j])/span))
		out[i] = values[j] + f*(values[j+1]-values[j])
	}
	return out, step, nil
}

// DominantPeriod estimates the strongest oscillation period, in the unit of
// times, from the power spectrum of the mean-removed series.
func DominantPeriod(times, values []float64) (float64, error) {
	n := PrevPow2(len(values))
	if n < minSamples {
		return 0, fmt.Errorf("%w: %d samples, need %d", ErrTooShort, len(values), minSamples)
	}

	uniform, step, err := Resample(times, values, n)
	if err != nil {
		return 0, err
	}

	mean := 0.0
	for _, v := range uniform {
		mean += v
	}
	mean /= float64(n)
	for i := range uniform {
		uniform[i] -= mean
	}

	ps := PowerSpectrum(uniform)
	peak, best := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > best {
			peak, best = k, ps[k]
		}
	}
	if peak == 0 || best == 0 {
		return 0, ErrNoPeriod
	}
	return float64(n) * step / float64(peak), nil
}

// Distances returns |a - b| for two position tracks given per axis.
func Distances(ax, ay, az, bx, by, bz []float64) []float64 {
	n := min(len(ax), len(ay), len(az), len(bx), len(by), len(bz))
	out := make([]float64, n)
	for i := range out {
		dx, dy, dz := ax[i]-bx[i], ay[i]-by[i], az[i]-bz[i]
		out[i] = math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return out
}

// Apsides returns the smallest and largest value in distances.
func Apsides(distances []float64) (periapsis, apoapsis float64) {
	if len(distances) == 0 {
		return math.NaN(), math.NaN()
	}
	periapsis, apoapsis = distances[0], distances[0]
	for _, d := range distances[1:] {
		periapsis = math.Min(periapsis, d)
		apoapsis = math.Max(apoapsis, d)
	}
	return periapsis, apoapsis
}
