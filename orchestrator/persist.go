package orchestrator

import (
	"bufio"
	"fmt"
	"os"

	"github.com/maastricht-university/speech-features/features"
)

const header = "participant\tword\tintensity\thnr\tduration\tzcr\tcog\tcog_log"

// writeReport serializes rows as UTF-8 tab-delimited text with a fixed
// header. Column precision follows the established report format so files
// from different runs stay comparable.
func writeReport(path string, rows []features.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, r := range rows {
		_, err := fmt.Fprintf(w, "%s\t%s\t%.1f\t%.1f\t%.4f\t%.4f\t%.2f\t%.3f\n",
			r.Participant, r.Label, r.Intensity, r.HNR, r.Duration, r.ZCR, r.CoG, r.CoGLog)
		if err != nil {
			return err
		}
	}
	return w.Flush()
}
