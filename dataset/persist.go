package dataset

import (
	"encoding/gob"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Save writes d to path as a snappy-framed gob stream. Matrices are stored
// through mat.Dense's binary encoding, so values round-trip bit for bit.
func Save(fs afero.Fs, path string, d *Dataset) error {
	f, err := fs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	if err := Encode(f, d); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return f.Close()
}

// Load reads a dataset written by Save.
func Load(fs afero.Fs, path string) (*Dataset, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	d, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return d, nil
}

func Encode(w io.Writer, d *Dataset) error {
	sw := snappy.NewBufferedWriter(w)
	if err := gob.NewEncoder(sw).Encode(d); err != nil {
		sw.Close()
		return errors.Wrap(err, "gob encode")
	}
	return sw.Close()
}

func Decode(r io.Reader) (*Dataset, error) {
	var d Dataset
	if err := gob.NewDecoder(snappy.NewReader(r)).Decode(&d); err != nil {
		return nil, errors.Wrap(err, "gob decode")
	}
	return &d, nil
}

type manifestRow struct {
	Provenance string `csv:"file_information"`
	Source     string `csv:"source"`
	End        int    `csv:"end"`
	Region     string `csv:"region"`
	Sex        string `csv:"sex"`
	Drug       string `csv:"drug"`
	Class      string `csv:"class"`
	Rows       int    `csv:"rows"`
	Cols       int    `csv:"cols"`
}

// WriteManifest writes one CSV row per record, without the matrices.
func WriteManifest(w io.Writer, d *Dataset) error {
	rows := make([]*manifestRow, 0, len(d.Records))
	for _, r := range d.Records {
		row := &manifestRow{
			Provenance: r.Provenance,
			Source:     r.Source,
			End:        r.End,
			Region:     r.Labels.Region(),
			Sex:        r.Labels.Sex(),
			Drug:       r.Labels.Drug(),
			Class:      r.Class,
		}
		if r.Plot != nil {
			row.Rows, row.Cols = r.Plot.Dims()
		}
		rows = append(rows, row)
	}
	return gocsv.Marshal(&rows, w)
}
