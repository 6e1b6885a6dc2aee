// Package orchestrator runs the batch: pair recordings with annotation
// files, extract per-interval features, write the report. Per-file and
// per-interval failures are logged and skipped; only I/O on the report
// itself aborts a run.
package orchestrator

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	cfg "github.com/maastricht-university/speech-features/config"
	"github.com/maastricht-university/speech-features/features"
	"github.com/maastricht-university/speech-features/textgrid"
	"github.com/maastricht-university/speech-features/wav"
)

type Pipeline struct {
	cfg *cfg.Root
	log *logrus.Logger
	ex  *features.Extractor
}

func NewPipeline(c *cfg.Root, log *logrus.Logger) *Pipeline {
	return &Pipeline{cfg: c, log: log, ex: features.New(c.Extraction)}
}

// Run processes every wav/TextGrid pair found in the two directories and
// writes the report to outPath, plus a YAML dump of the resolved
// configuration beside it. A header-only report is still written when no
// pair yields rows.
func (p *Pipeline) Run(ctx context.Context, soundDir, gridDir, outPath string) (*Summary, error) {
	pairs, unpaired, err := scanPairs(soundDir, gridDir)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Unpaired: len(unpaired)}
	for _, name := range unpaired {
		p.log.WithFields(logrus.Fields{"file": name, "err": ErrMissingPair}).
			Warn("skipping unpaired file")
	}
	if len(pairs) == 0 {
		p.log.Warn("no complete wav/TextGrid pairs found")
	}

	var rows []features.Row
	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pl := p.log.WithField("participant", pair.Base)

		w, err := wav.Load(pair.WavPath)
		if err != nil {
			pl.WithError(err).Warn("skipping pair: cannot load audio")
			sum.SkippedPairs++
			continue
		}
		tg, err := textgrid.ReadFile(pair.GridPath)
		if err != nil {
			pl.WithError(err).Warn("skipping pair: cannot read TextGrid")
			sum.SkippedPairs++
			continue
		}
		tier, err := tg.TierByName(p.cfg.Extraction.Tier)
		if err != nil {
			pl.WithError(err).Warn("skipping pair: tier missing")
			sum.SkippedPairs++
			continue
		}

		n := 0
		for _, ivl := range tier.Intervals {
			if strings.TrimSpace(ivl.Label) == "" {
				continue
			}
			row, err := p.ex.Extract(w, ivl, pair.Base)
			if err != nil {
				pl.WithFields(logrus.Fields{"start": ivl.Start, "end": ivl.End}).
					WithError(err).Warn("skipping interval")
				sum.SkippedIntervals++
				continue
			}
			rows = append(rows, row)
			n++
		}
		pl.WithField("rows", n).Info("pair processed")
		sum.Pairs++
	}

	if err := writeReport(outPath, rows); err != nil {
		return nil, err
	}
	sum.Rows = len(rows)

	if err := p.cfg.Dump(outPath + ".config.yaml"); err != nil {
		p.log.WithError(err).Warn("could not write config dump")
	}
	return sum, nil
}
