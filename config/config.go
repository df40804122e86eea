package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Pipeline struct {
	Name   string `yaml:"name" mapstructure:"name"`
	LogLvl string `yaml:"log_level" mapstructure:"log_level" validate:"oneof=trace debug info warn warning error"`
}
type Paths struct {
	Data    string `yaml:"data" mapstructure:"data"`
	Outputs string `yaml:"outputs" mapstructure:"outputs" validate:"required"`
}
type Chunking struct {
	OILow     int    `yaml:"oi_low" mapstructure:"oi_low" validate:"gte=0"`
	OIHigh    int    `yaml:"oi_high" mapstructure:"oi_high" validate:"gtfield=OILow"`
	Size      int    `yaml:"size" mapstructure:"size" validate:"gt=0"`
	Normalize bool   `yaml:"normalize" mapstructure:"normalize"`
	Extension string `yaml:"extension" mapstructure:"extension"`
	Limit     int    `yaml:"limit" mapstructure:"limit" validate:"gte=0"`
}
type Decoder struct {
	Kind           string `yaml:"kind" mapstructure:"kind" validate:"oneof=service csv"`
	URL            string `yaml:"url" mapstructure:"url" validate:"required_if=Kind service"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds" validate:"gte=0"`
}
type Balance struct {
	Label string `yaml:"label" mapstructure:"label" validate:"oneof=region sex drug 0 1 2"`
	Seed  int64  `yaml:"seed" mapstructure:"seed"`
}
type Visualize struct {
	Heatmaps bool `yaml:"heatmaps" mapstructure:"heatmaps"`
	Counts   bool `yaml:"counts" mapstructure:"counts"`
	Progress bool `yaml:"progress" mapstructure:"progress"`
}
type Root struct {
	Pipeline  Pipeline  `yaml:"pipeline" mapstructure:"pipeline"`
	Paths     Paths     `yaml:"paths" mapstructure:"paths"`
	Chunking  Chunking  `yaml:"chunking" mapstructure:"chunking"`
	Decoder   Decoder   `yaml:"decoder" mapstructure:"decoder"`
	Balance   Balance   `yaml:"balance" mapstructure:"balance"`
	Visualize Visualize `yaml:"visualize" mapstructure:"visualize"`
}

// EnvPrefix prefixes environment overrides, e.g. SPONS_CHUNKING_SIZE.
const EnvPrefix = "SPONS"

var defaults = map[string]any{
	"pipeline.name":           "spons",
	"pipeline.log_level":      "info",
	"paths.data":              "",
	"paths.outputs":           "outputs",
	"chunking.oi_low":         230,
	"chunking.oi_high":        500,
	"chunking.size":           30,
	"chunking.normalize":      false,
	"chunking.extension":      ".tdms",
	"chunking.limit":          0,
	"decoder.kind":            "service",
	"decoder.url":             "http://localhost:8090",
	"decoder.timeout_seconds": 60,
	"balance.label":           "drug",
	"balance.seed":            0,
	"visualize.heatmaps":      false,
	"visualize.counts":        false,
	"visualize.progress":      false,
}

// Load reads file, or the first of the usual locations that exists, on top
// of the defaults. Environment variables override both. With no file at all
// the defaults are used as is.
func Load(fs afero.Fs, file string) (*Root, error) {
	v := viper.New()
	v.SetFs(fs)
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file == "" {
		env := os.Getenv("CONFIG_ENV")
		if env == "" {
			env = "dev"
		}
		var guess []string = []string{
			filepath.Join("config", env, "config.yaml"),
			filepath.Join("src", "shared", "config.yaml"),
		}
		for _, p := range guess {
			if ok, _ := afero.Exists(fs, p); ok {
				file = p
				break
			}
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", file)
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize folds case the same way labels.ParseIndex and logrus.ParseLevel do.
func (r *Root) normalize() {
	r.Balance.Label = strings.ToLower(strings.TrimSpace(r.Balance.Label))
	r.Pipeline.LogLvl = strings.ToLower(strings.TrimSpace(r.Pipeline.LogLvl))
}

func (r *Root) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

// Write stores the configuration as YAML, next to the dataset it produced.
func (r *Root) Write(fs afero.Fs, path string) error {
	b, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, b, 0o644)
}

// Read loads a snapshot written by Write as is, without defaults or
// environment overrides.
func Read(fs afero.Fs, path string) (*Root, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	var r Root
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &r, nil
}

func (d Decoder) Timeout() time.Duration { return DurSeconds(d.TimeoutSeconds) }

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }
