package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Extraction holds the analysis parameters shared by every interval in a
// batch. LPCutoff feeds both the intensity and HNR computations so the two
// bands cannot diverge.
type Extraction struct {
	Tier       string  `yaml:"tier" mapstructure:"tier"`
	MinFreq    float64 `yaml:"min_freq" mapstructure:"min_freq"`
	MaxFreq    float64 `yaml:"max_freq" mapstructure:"max_freq"`
	LPCutoff   float64 `yaml:"lp_cutoff" mapstructure:"lp_cutoff"`
	HNRCeiling float64 `yaml:"hnr_ceiling" mapstructure:"hnr_ceiling"`
}

type Root struct {
	LogLvl     string     `yaml:"log_level" mapstructure:"log_level"`
	Extraction Extraction `yaml:"extraction" mapstructure:"extraction"`
}

func Defaults() *Root {
	return &Root{
		LogLvl: "info",
		Extraction: Extraction{
			Tier:       "phrase",
			MinFreq:    0,
			MaxFreq:    8000,
			LPCutoff:   500,
			HNRCeiling: 20,
		},
	}
}

// Load resolves the run configuration: built-in defaults, then an optional
// YAML file, then SPEECHFEAT_* environment variables.
func Load(file string) (*Root, error) {
	v := viper.New()
	d := Defaults()
	v.SetDefault("log_level", d.LogLvl)
	v.SetDefault("extraction.tier", d.Extraction.Tier)
	v.SetDefault("extraction.min_freq", d.Extraction.MinFreq)
	v.SetDefault("extraction.max_freq", d.Extraction.MaxFreq)
	v.SetDefault("extraction.lp_cutoff", d.Extraction.LPCutoff)
	v.SetDefault("extraction.hnr_ceiling", d.Extraction.HNRCeiling)

	v.SetEnvPrefix("SPEECHFEAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config read: %w", err)
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Root) Validate() error {
	e := c.Extraction
	switch {
	case strings.TrimSpace(e.Tier) == "":
		return fmt.Errorf("config: tier must not be empty")
	case e.MinFreq < 0:
		return fmt.Errorf("config: min_freq %g must be >= 0", e.MinFreq)
	case e.MaxFreq <= e.MinFreq:
		return fmt.Errorf("config: max_freq %g must exceed min_freq %g", e.MaxFreq, e.MinFreq)
	case e.LPCutoff <= 0:
		return fmt.Errorf("config: lp_cutoff %g must be > 0", e.LPCutoff)
	case e.HNRCeiling <= 0:
		return fmt.Errorf("config: hnr_ceiling %g must be > 0", e.HNRCeiling)
	}
	return nil
}

// Dump writes the resolved configuration next to a report so a result file
// carries the parameters that produced it.
func (c *Root) Dump(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	defer enc.Close()
	return enc.Encode(c)
}
