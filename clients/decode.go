package clients

import (
	"context"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// --- Decoding (/decode) ---
type DecodeResp struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"` // row-major
}

func (r *DecodeResp) Matrix() (*mat.Dense, error) {
	if r.Rows <= 0 || r.Cols <= 0 {
		return nil, errors.Errorf("decode: bad shape %dx%d", r.Rows, r.Cols)
	}
	if len(r.Data) != r.Rows*r.Cols {
		return nil, errors.Errorf("decode: %d values for shape %dx%d", len(r.Data), r.Rows, r.Cols)
	}
	return mat.NewDense(r.Rows, r.Cols, r.Data), nil
}

// Decode uploads a raw recording to the decoding service at url and returns
// its colorplot.
func (h *HTTP) Decode(ctx context.Context, url, path string) (*mat.Dense, error) {
	var out DecodeResp
	if err := h.upload(ctx, url+"/decode", path, &out); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	return out.Matrix()
}

// Service binds a decoding service URL so it can be handed to the pipeline.
type Service struct {
	HTTP *HTTP
	URL  string
}

func (s Service) Decode(ctx context.Context, path string) (*mat.Dense, error) {
	return s.HTTP.Decode(ctx, s.URL, path)
}
