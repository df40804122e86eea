package orchestrator

import (
	"gonum.org/v1/gonum/mat"

	"github.com/fscv-lab/spons/dataset"
	"github.com/fscv-lab/spons/labels"
)

type slicer interface {
	Slice(i, k, j, l int) mat.Matrix
}

// Extract cuts cp into consecutive windows of opt.Size samples. A trailing
// remainder shorter than a window is dropped, so a recording shorter than
// one window yields no records. Every record owns a copy of its window.
func Extract(cp mat.Matrix, source string, opt ChunkOptions, l labels.Triple) ([]dataset.Record, error) {
	rows, recLength := cp.Dims()
	if err := opt.validate(rows); err != nil {
		return nil, err
	}
	chunkable := recLength - recLength%opt.Size

	var out []dataset.Record
	for n := 0; n < chunkable; n += opt.Size {
		m := n + opt.Size
		out = append(out, dataset.NewRecord(source, m, window(cp, opt.OILow, opt.OIHigh, n, m), l))
	}
	return out, nil
}

func window(cp mat.Matrix, i, k, j, l int) *mat.Dense {
	if s, ok := cp.(slicer); ok {
		return mat.DenseCopyOf(s.Slice(i, k, j, l))
	}
	w := mat.NewDense(k-i, l-j, nil)
	for r := i; r < k; r++ {
		for c := j; c < l; c++ {
			w.Set(r-i, c-j, cp.At(r, c))
		}
	}
	return w
}
