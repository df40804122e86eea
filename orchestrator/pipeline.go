package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sbwhitecap/tqdm"
	"github.com/sbwhitecap/tqdm/iterators"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gonum.org/v1/gonum/mat"

	cfg "github.com/fscv-lab/spons/config"
	"github.com/fscv-lab/spons/dataset"
	"github.com/fscv-lab/spons/labels"
	"github.com/fscv-lab/spons/normalize"
	"github.com/fscv-lab/spons/plots"
)

type Pipeline struct {
	cfg *cfg.Root
	dec Decoder
	fs  afero.Fs
	log logrus.FieldLogger
}

func NewPipeline(c *cfg.Root, dec Decoder, fs afero.Fs, log logrus.FieldLogger) *Pipeline {
	return &Pipeline{cfg: c, dec: dec, fs: fs, log: log}
}

func (p *Pipeline) chunkOptions() ChunkOptions {
	return ChunkOptions{
		OILow:  p.cfg.Chunking.OILow,
		OIHigh: p.cfg.Chunking.OIHigh,
		Size:   p.cfg.Chunking.Size,
	}
}

// Run decodes, labels and chunks every path in order and concatenates the
// records. The first failing file aborts the run.
func (p *Pipeline) Run(ctx context.Context, paths []string) (*dataset.Dataset, error) {
	d := dataset.New()
	err := p.each(len(paths), func(i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := paths[i]
		recs, err := p.file(ctx, path)
		if err != nil {
			return err
		}
		d.Append(recs...)
		p.log.WithFields(logrus.Fields{"count": i + 1, "path": path, "chunks": len(recs)}).Info("completed")
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.log.WithFields(logrus.Fields{"files": len(paths), "records": d.Len()}).Info("dataset assembled")
	return d, nil
}

func (p *Pipeline) file(ctx context.Context, path string) ([]dataset.Record, error) {
	cp, err := p.dec.Decode(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	recs, err := Extract(cp, path, p.chunkOptions(), labels.Classify(path))
	if err != nil {
		return nil, errors.Wrapf(err, "chunk %s", path)
	}

	if p.cfg.Chunking.Normalize {
		for i := range recs {
			if recs[i].Plot, err = normalize.MinMax(recs[i].Plot); err != nil {
				return nil, errors.Wrapf(err, "normalize %s", recs[i].Provenance)
			}
		}
	}
	if p.cfg.Visualize.Heatmaps {
		p.heatmaps(recs)
	}
	return recs, nil
}

// heatmaps only logs failures; a missing picture never changes the dataset.
func (p *Pipeline) heatmaps(recs []dataset.Record) {
	dir := filepath.Join(p.cfg.Paths.Outputs, "heatmaps")
	if err := p.fs.MkdirAll(dir, 0o755); err != nil {
		p.log.WithError(err).Warn("heatmap dir")
		return
	}
	for _, r := range recs {
		base := strings.TrimSuffix(filepath.Base(r.Source), filepath.Ext(r.Source))
		out := filepath.Join(dir, fmt.Sprintf("%s_%d.png", base, r.End))
		if err := plots.Heatmap(p.fs, out, r.Provenance, r.Plot); err != nil {
			p.log.WithError(err).WithField("chunk", r.Provenance).Warn("heatmap")
		}
	}
}

// each runs fn for 0..n-1, behind a terminal progress bar when enabled.
func (p *Pipeline) each(n int, fn func(i int) error) error {
	if !p.cfg.Visualize.Progress {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var ferr error
	err := tqdm.With(iterators.Interval(0, n), "Chunking", func(v interface{}) (brk bool) {
		if ferr = fn(v.(int)); ferr != nil {
			return true
		}
		return false
	})
	if ferr != nil {
		return ferr
	}
	return err
}

// NormalizeDataset min-max normalizes every chunk of d into a new dataset.
func NormalizeDataset(d *dataset.Dataset, log logrus.FieldLogger) (*dataset.Dataset, error) {
	out, err := d.Map(func(r dataset.Record) (*mat.Dense, error) {
		m, err := normalize.MinMax(r.Plot)
		if err != nil {
			return nil, errors.Wrapf(err, "normalize %s", r.Provenance)
		}
		return m, nil
	})
	if err != nil {
		log.WithError(err).Error("normalization failed")
		return nil, err
	}
	log.WithField("records", out.Len()).Info("normalization successful")
	return out, nil
}
