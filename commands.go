package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/fscv-lab/spons/clients"
	cfg "github.com/fscv-lab/spons/config"
	"github.com/fscv-lab/spons/dataset"
	"github.com/fscv-lab/spons/labels"
	"github.com/fscv-lab/spons/orchestrator"
)

type app struct {
	fs  afero.Fs
	log *logrus.Logger

	cfgFile  string
	logLevel string
	conf     *cfg.Root
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "spons",
		Short:         "chunk and label voltammetry colorplots into a training dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default config/$CONFIG_ENV/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override pipeline.log_level")

	root.AddCommand(a.assembleCmd(), a.balanceCmd(), a.normalizeCmd())
	return root
}

func (a *app) setup() error {
	conf, err := cfg.Load(a.fs, a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		conf.Pipeline.LogLvl = a.logLevel
	}
	lvl, err := logrus.ParseLevel(conf.Pipeline.LogLvl)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	a.log.SetLevel(lvl)
	a.conf = conf
	return nil
}

func (a *app) decoder() (orchestrator.Decoder, error) {
	switch a.conf.Decoder.Kind {
	case "service":
		return clients.Service{HTTP: clients.NewHTTP(a.fs, a.conf.Decoder.Timeout()), URL: a.conf.Decoder.URL}, nil
	case "csv":
		return clients.CSVDecoder{Fs: a.fs}, nil
	}
	return nil, errors.Errorf("unknown decoder %q", a.conf.Decoder.Kind)
}

func (a *app) assembleCmd() *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "assemble [ROOT]",
		Short: "discover recordings under ROOT (default paths.data) and chunk them into a dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := a.conf.Paths.Data
			if len(args) > 0 {
				root = args[0]
			}
			if root == "" {
				return errors.New("no data directory: pass ROOT or set paths.data")
			}

			paths, err := orchestrator.Discover(a.fs, root, a.conf.Chunking.Extension, a.conf.Chunking.Limit)
			if err != nil {
				return err
			}
			dec, err := a.decoder()
			if err != nil {
				return err
			}

			d, err := orchestrator.NewPipeline(a.conf, dec, a.fs, a.log).Run(cmd.Context(), paths)
			if err != nil {
				return err
			}
			if !save {
				a.logCounts(d)
				return nil
			}
			return a.persist(cmd, d, nil)
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "write the dataset to a run directory under paths.outputs")
	return cmd
}

func (a *app) balanceCmd() *cobra.Command {
	var (
		label string
		seed  int64
		plot  bool
	)
	cmd := &cobra.Command{
		Use:   "balance DATASET",
		Short: "downsample every class of a label to the size of the rarest class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("label") {
				label = a.conf.Balance.Label
			}
			if !cmd.Flags().Changed("seed") {
				seed = a.conf.Balance.Seed
			}
			idx, err := labels.ParseIndex(label)
			if err != nil {
				return err
			}

			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			d, err := dataset.Load(a.fs, args[0])
			if err != nil {
				return err
			}
			out, err := dataset.Balance(d, idx, dataset.NewRand(seed))
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"label": labels.Name(idx), "seed": seed, "before": d.Len(), "after": out.Len()}).Info("balanced")

			if plot {
				a.conf.Visualize.Counts = true
			}
			snap := a.sourceConfig(args[0])
			snap.Balance = cfg.Balance{Label: labels.Name(idx), Seed: seed}
			return a.persist(cmd, out, snap)
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "label to balance on: region, sex or drug (default balance.label)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed, 0 for a time based seed (default balance.seed)")
	cmd.Flags().BoolVar(&plot, "plot", false, "chart the balanced class counts")
	return cmd
}

func (a *app) normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize DATASET",
		Short: "min-max normalize every chunk of a dataset into [0, 1]",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dataset.Load(a.fs, args[0])
			if err != nil {
				return err
			}
			out, err := orchestrator.NormalizeDataset(d, a.log)
			if err != nil {
				return err
			}
			snap := a.sourceConfig(args[0])
			snap.Chunking.Normalize = true
			return a.persist(cmd, out, snap)
		},
	}
}

// sourceConfig returns the config snapshot stored next to the dataset at
// path, so a derived run records how its records were chunked.
func (a *app) sourceConfig(path string) *cfg.Root {
	p := filepath.Join(filepath.Dir(path), orchestrator.ConfigFile)
	snap, err := cfg.Read(a.fs, p)
	if err != nil {
		a.log.WithError(err).WithField("path", p).Warn("no source config, recording the current one")
		c := *a.conf
		return &c
	}
	return snap
}

func (a *app) persist(cmd *cobra.Command, d *dataset.Dataset, snap *cfg.Root) error {
	dir, err := orchestrator.Persist(a.fs, a.conf, snap, d, a.log)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), dir)
	return nil
}

func (a *app) logCounts(d *dataset.Dataset) {
	for idx := labels.Region; idx <= labels.Drug; idx++ {
		a.log.WithFields(logrus.Fields{"label": labels.Name(idx), "counts": d.Counts(idx)}).Info("dataset")
	}
}
