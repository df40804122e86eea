package normalize

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestMinMaxNegative(t *testing.T) {
	out, err := MinMax(mat.NewDense(1, 3, []float64{-2, 0, 2}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, out.RawMatrix().Data)
	assert.Equal(t, 0.0, mat.Min(out))
	assert.Equal(t, 1.0, mat.Max(out))
}

func TestMinMaxPositive(t *testing.T) {
	in := mat.NewDense(2, 2, []float64{2, 4, 6, 10})
	out, err := MinMax(in)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.25, 0.5, 1}, out.RawMatrix().Data)

	// input is not modified
	assert.Equal(t, 2.0, in.At(0, 0))
}

func TestMinMaxZeroMinimum(t *testing.T) {
	out, err := MinMax(mat.NewDense(1, 4, []float64{0, 1, 3, 4}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.25, 0.75, 1}, out.RawMatrix().Data)
}

func TestMinMaxView(t *testing.T) {
	big := mat.NewDense(3, 4, []float64{
		9, 9, 9, 9,
		9, -1, 3, 9,
		9, 1, 7, 9,
	})
	out, err := MinMax(big.Slice(1, 3, 1, 3))
	require.NoError(t, err)
	r, c := out.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, []float64{0, 0.5, 0.25, 1}, out.RawMatrix().Data)
}

func TestMinMaxRange(t *testing.T) {
	data := make([]float64, 270*30)
	for i := range data {
		data[i] = math.Sin(float64(i)/17) * 13.7
	}
	out, err := MinMax(mat.NewDense(270, 30, data))
	require.NoError(t, err)
	raw := out.RawMatrix().Data
	assert.Equal(t, 0.0, floats.Min(raw))
	assert.InDelta(t, 1.0, floats.Max(raw), 1e-12)
}

func TestMinMaxConstant(t *testing.T) {
	out, err := MinMax(mat.NewDense(2, 2, []float64{5, 5, 5, 5}))
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, ErrConstant))

	_, err = MinMax(mat.NewDense(1, 2, []float64{-3, -3}))
	assert.True(t, errors.Is(err, ErrConstant))
}

func TestMinMaxNonFinite(t *testing.T) {
	for _, data := range [][]float64{
		{1, math.Inf(1), 2},
		{1, math.Inf(-1), 2},
		{0, math.NaN(), 2},
		{math.NaN(), -1, 1},
		{-1, 1, math.NaN()},
	} {
		out, err := MinMax(mat.NewDense(1, 3, data))
		assert.Nil(t, out, "%v", data)
		assert.True(t, errors.Is(err, ErrNormalization), "%v", data)
	}
}

func TestMinMaxRangeOverflow(t *testing.T) {
	// max - min overflows to +Inf, which would flatten everything to 0
	_, err := MinMax(mat.NewDense(1, 2, []float64{-math.MaxFloat64, math.MaxFloat64}))
	assert.True(t, errors.Is(err, ErrNormalization))
}

func TestMinMaxEmpty(t *testing.T) {
	_, err := MinMax(&mat.Dense{})
	assert.Equal(t, ErrEmpty, err)
}
