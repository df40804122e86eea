// Package normalize rescales colorplots into the unit interval.
package normalize

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrEmpty         = errors.New("normalize: empty matrix")
	ErrConstant      = errors.New("normalize: constant matrix has no range")
	ErrNormalization = errors.New("normalize: values do not map onto [0, 1]")
)

// MinMax shifts m by |min| and divides by the shifted maximum, so the result
// spans [0, 1]. A constant matrix returns ErrConstant instead of dividing by
// zero. NaN or infinite input, or a result that does not span exactly
// [0, 1], returns ErrNormalization.
func MinMax(m mat.Matrix) (*mat.Dense, error) {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, ErrEmpty
	}
	out := mat.DenseCopyOf(m)
	raw := out.RawMatrix().Data

	// floats.Min and floats.Max skip NaN, so look at every value.
	for i, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrapf(ErrNormalization, "non-finite value %v at (%d, %d)", v, i/c, i%c)
		}
	}
	mn, mx := floats.Min(raw), floats.Max(raw)
	if mn == mx {
		return nil, errors.Wrapf(ErrConstant, "all values %v", mn)
	}

	shift := math.Abs(mn)
	if mn < 0 {
		scale := mx + shift
		for i, v := range raw {
			raw[i] = (v + shift) / scale
		}
	} else {
		scale := mx - shift
		for i, v := range raw {
			raw[i] = (v - shift) / scale
		}
	}

	if got := floats.Min(raw); got != 0 {
		return nil, errors.Wrapf(ErrNormalization, "minimum %v", got)
	}
	if got := floats.Max(raw); got != 1 || floats.HasNaN(raw) {
		return nil, errors.Wrapf(ErrNormalization, "maximum %v", got)
	}
	return out, nil
}
