package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/fscv-lab/spons/labels"
)

// ramp returns a rows x cols matrix whose value encodes its position.
func ramp(rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			m.Set(r, c, float64(r*1000+c))
		}
	}
	return m
}

var triple = labels.Triple{labels.RegionCore, labels.SexFemale, labels.DrugCocaine}

func TestExtractDropsRemainder(t *testing.T) {
	cp := ramp(10, 95)
	recs, err := Extract(cp, "/a/02_x.tdms", ChunkOptions{OILow: 2, OIHigh: 6, Size: 30}, triple)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	for i, r := range recs {
		end := (i + 1) * 30
		assert.Equal(t, end, r.End)
		assert.Equal(t, "/a/02_x.tdms", r.Source)
		assert.Equal(t, "/a/02_x.tdms "+[]string{"30", "60", "90"}[i], r.Provenance)
		assert.Equal(t, triple, r.Labels)

		rows, cols := r.Plot.Dims()
		assert.Equal(t, 4, rows)
		assert.Equal(t, 30, cols)
		assert.Equal(t, float64(2*1000+end-30), r.Plot.At(0, 0))
		assert.Equal(t, float64(5*1000+end-1), r.Plot.At(3, 29))
	}
}

func TestExtractExactMultiple(t *testing.T) {
	recs, err := Extract(ramp(3, 60), "s", ChunkOptions{OILow: 0, OIHigh: 3, Size: 30}, triple)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestExtractShortRecording(t *testing.T) {
	recs, err := Extract(ramp(10, 29), "s", ChunkOptions{OILow: 0, OIHigh: 10, Size: 30}, triple)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestExtractLabelsAreCopies(t *testing.T) {
	recs, err := Extract(ramp(4, 90), "s", ChunkOptions{OILow: 0, OIHigh: 4, Size: 30}, triple)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	recs[0].Labels[labels.Drug] = labels.DrugUnknown
	assert.Equal(t, labels.DrugCocaine, recs[1].Labels.Drug())
	assert.Equal(t, labels.DrugCocaine, recs[2].Labels.Drug())
	assert.Equal(t, labels.DrugCocaine, triple.Drug())
}

func TestExtractOwnsWindows(t *testing.T) {
	cp := ramp(4, 60)
	recs, err := Extract(cp, "s", ChunkOptions{OILow: 0, OIHigh: 4, Size: 30}, triple)
	require.NoError(t, err)

	recs[0].Plot.Set(0, 0, -1)
	assert.Equal(t, 0.0, cp.At(0, 0))
	cp.Set(0, 30, -1)
	assert.Equal(t, 30.0, recs[1].Plot.At(0, 0))
}

func TestExtractGenericMatrix(t *testing.T) {
	// a transpose has no Slice method
	cp := ramp(40, 5).T()
	recs, err := Extract(cp, "s", ChunkOptions{OILow: 1, OIHigh: 3, Size: 20}, triple)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, cp.At(2, 39), recs[1].Plot.At(1, 19))
}

func TestExtractInvalidOptions(t *testing.T) {
	cp := ramp(10, 60)
	for _, opt := range []ChunkOptions{
		{OILow: 0, OIHigh: 10, Size: 0},
		{OILow: 0, OIHigh: 10, Size: -5},
		{OILow: -1, OIHigh: 10, Size: 30},
		{OILow: 5, OIHigh: 5, Size: 30},
		{OILow: 6, OIHigh: 5, Size: 30},
		{OILow: 0, OIHigh: 11, Size: 30},
	} {
		_, err := Extract(cp, "s", opt, triple)
		assert.Error(t, err, "%+v", opt)
	}
}
