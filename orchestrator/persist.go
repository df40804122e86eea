package orchestrator

import (
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	cfg "github.com/fscv-lab/spons/config"
	"github.com/fscv-lab/spons/dataset"
	"github.com/fscv-lab/spons/labels"
	"github.com/fscv-lab/spons/plots"
)

const (
	DatasetFile  = "dataset.gob.sz"
	ManifestFile = "manifest.csv"
	ConfigFile   = "config.yaml"
	SummaryFile  = "summary.json"
)

type Summary struct {
	DatasetID   string                    `json:"dataset_id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Records     int                       `json:"records"`
	BalancedOn  string                    `json:"balanced_on,omitempty"`
	Counts      map[string]map[string]int `json:"counts"`
}

func mkRunDir(fs afero.Fs, outputsRoot, id string) (string, error) {
	ts := time.Now().Format("20060102-150405")
	if len(id) > 8 {
		id = id[:8]
	}
	dir := filepath.Join(outputsRoot, "dataset_"+ts+"_"+id)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func writeJSON(fs afero.Fs, path string, v any) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func summarize(d *dataset.Dataset) Summary {
	s := Summary{
		DatasetID:   d.ID,
		GeneratedAt: time.Now(),
		Records:     d.Len(),
		Counts:      map[string]map[string]int{},
	}
	if d.BalancedOn != dataset.Unbalanced {
		s.BalancedOn = labels.Name(d.BalancedOn)
	}
	for idx := labels.Region; idx <= labels.Drug; idx++ {
		s.Counts[labels.Name(idx)] = d.Counts(idx)
	}
	return s
}

// Persist writes d and its side files into a fresh run directory under the
// outputs root of c and returns that directory. snapshot is stored as the
// run's config.yaml; nil stores c.
func Persist(fs afero.Fs, c, snapshot *cfg.Root, d *dataset.Dataset, log logrus.FieldLogger) (string, error) {
	if snapshot == nil {
		snapshot = c
	}
	dir, err := mkRunDir(fs, c.Paths.Outputs, d.ID)
	if err != nil {
		return "", errors.Wrap(err, "run dir")
	}

	if err := dataset.Save(fs, filepath.Join(dir, DatasetFile), d); err != nil {
		return "", err
	}

	mf, err := fs.Create(filepath.Join(dir, ManifestFile))
	if err != nil {
		return "", errors.Wrap(err, "manifest")
	}
	if err := dataset.WriteManifest(mf, d); err != nil {
		mf.Close()
		return "", errors.Wrap(err, "manifest")
	}
	if err := mf.Close(); err != nil {
		return "", errors.Wrap(err, "manifest")
	}

	if err := snapshot.Write(fs, filepath.Join(dir, ConfigFile)); err != nil {
		return "", errors.Wrap(err, "config snapshot")
	}
	if err := writeJSON(fs, filepath.Join(dir, SummaryFile), summarize(d)); err != nil {
		return "", errors.Wrap(err, "summary")
	}

	if c.Visualize.Counts && d.Len() > 0 {
		plotCounts(fs, dir, d, log)
	}

	log.WithFields(logrus.Fields{"dir": dir, "records": d.Len()}).Info("dataset saved")
	return dir, nil
}

// plotCounts charts the balanced column, or every label column when d is
// unbalanced.
func plotCounts(fs afero.Fs, dir string, d *dataset.Dataset, log logrus.FieldLogger) {
	idxs := []int{labels.Region, labels.Sex, labels.Drug}
	if d.BalancedOn != dataset.Unbalanced {
		idxs = []int{d.BalancedOn}
	}
	for _, idx := range idxs {
		counts := d.Counts(idx)
		name := labels.Name(idx)
		out := filepath.Join(dir, "counts_"+name+".png")
		if err := plots.Counts(fs, out, name, dataset.SortedKeys(counts), counts); err != nil {
			log.WithError(err).WithField("label", name).Warn("count plot")
		}
	}
}
