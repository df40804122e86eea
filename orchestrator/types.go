package orchestrator

import (
	"context"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Decoder turns a raw recording into its colorplot.
type Decoder interface {
	Decode(ctx context.Context, path string) (*mat.Dense, error)
}

type DecoderFunc func(ctx context.Context, path string) (*mat.Dense, error)

func (f DecoderFunc) Decode(ctx context.Context, path string) (*mat.Dense, error) {
	return f(ctx, path)
}

// ChunkOptions selects rows [OILow, OIHigh) of the oxidation index and cuts
// the time axis into windows of Size samples.
type ChunkOptions struct {
	OILow  int
	OIHigh int
	Size   int
}

func (o ChunkOptions) validate(rows int) error {
	switch {
	case o.Size <= 0:
		return errors.Errorf("chunk size %d must be positive", o.Size)
	case o.OILow < 0 || o.OIHigh <= o.OILow:
		return errors.Errorf("oxidation index range [%d, %d) is empty", o.OILow, o.OIHigh)
	case o.OIHigh > rows:
		return errors.Errorf("oxidation index range [%d, %d) exceeds %d rows", o.OILow, o.OIHigh, rows)
	}
	return nil
}
