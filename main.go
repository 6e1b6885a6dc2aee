package main

import (
	"context"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cfg "github.com/maastricht-university/speech-features/config"
	"github.com/maastricht-university/speech-features/orchestrator"
)

var (
	flagSounds     string
	flagGrids      string
	flagOut        string
	flagConfig     string
	flagTier       string
	flagMinFreq    float64
	flagMaxFreq    float64
	flagLPCutoff   float64
	flagHNRCeiling float64
)

var rootCmd = &cobra.Command{
	Use:   "speech-features",
	Short: "Extract per-interval acoustic features from wav/TextGrid pairs",
	Long: `speech-features pairs wav recordings with TextGrid annotation files by
base filename, computes intensity, HNR, duration, ZCR and spectral center of
gravity for every labeled interval of one tier, and writes a tab-delimited
report.`,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flagSounds, "sounds", "", "directory of wav files")
	f.StringVar(&flagGrids, "textgrids", "", "directory of TextGrid files")
	f.StringVar(&flagOut, "out", "features.txt", "output report path")
	f.StringVar(&flagConfig, "config", "", "optional YAML config file")
	f.StringVar(&flagTier, "tier", "", "annotation tier to extract")
	f.Float64Var(&flagMinFreq, "min-freq", 0, "lower CoG bound (Hz)")
	f.Float64Var(&flagMaxFreq, "max-freq", 0, "upper CoG bound (Hz)")
	f.Float64Var(&flagLPCutoff, "lp-cutoff", 0, "low-pass cutoff for intensity and HNR (Hz)")
	f.Float64Var(&flagHNRCeiling, "hnr-ceiling", 0, "HNR cap (dB)")
	_ = rootCmd.MarkFlagRequired("sounds")
	_ = rootCmd.MarkFlagRequired("textgrids")
}

func run(cmd *cobra.Command, _ []string) error {
	conf, err := cfg.Load(flagConfig)
	if err != nil {
		return err
	}
	// explicit flags win over config file and environment
	if cmd.Flags().Changed("tier") {
		conf.Extraction.Tier = flagTier
	}
	if cmd.Flags().Changed("min-freq") {
		conf.Extraction.MinFreq = flagMinFreq
	}
	if cmd.Flags().Changed("max-freq") {
		conf.Extraction.MaxFreq = flagMaxFreq
	}
	if cmd.Flags().Changed("lp-cutoff") {
		conf.Extraction.LPCutoff = flagLPCutoff
	}
	if cmd.Flags().Changed("hnr-ceiling") {
		conf.Extraction.HNRCeiling = flagHNRCeiling
	}
	if err := conf.Validate(); err != nil {
		return err
	}

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(conf.LogLvl); err == nil {
		log.SetLevel(lvl)
	}

	p := orchestrator.NewPipeline(conf, log)
	sum, err := p.Run(context.Background(), flagSounds, flagGrids, flagOut)
	if err != nil {
		return err
	}

	color.Green("done: %d pairs, %d rows -> %s", sum.Pairs, sum.Rows, flagOut)
	if sum.Unpaired > 0 || sum.SkippedPairs > 0 || sum.SkippedIntervals > 0 {
		color.Yellow("skipped: %d unpaired files, %d pairs, %d intervals",
			sum.Unpaired, sum.SkippedPairs, sum.SkippedIntervals)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}
