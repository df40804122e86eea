package clients

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gonum.org/v1/gonum/mat"
)

// CSVDecoder reads colorplots exported as text: one line per oxidation
// index, one comma-separated value per time sample, no header.
type CSVDecoder struct {
	Fs afero.Fs
}

func (d CSVDecoder) Decode(ctx context.Context, path string) (*mat.Dense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := d.Fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ReadCSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "csv %s", path)
	}
	return m, nil
}

func ReadCSV(r io.Reader) (*mat.Dense, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	var data []float64
	rows, cols := 0, 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			cols = len(rec)
		}
		for i, s := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d col %d", rows+1, i+1)
			}
			data = append(data, v)
		}
		rows++
	}
	if rows == 0 || cols == 0 {
		return nil, errors.New("no samples")
	}
	return mat.NewDense(rows, cols, data), nil
}
