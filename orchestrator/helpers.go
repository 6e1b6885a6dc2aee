package orchestrator

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrMissingPair marks a wav or TextGrid file without a counterpart.
var ErrMissingPair = errors.New("missing counterpart file")

// scanPairs walks the TextGrid directory and matches each annotation file to
// a wav with the same base name (base is case-sensitive, extension is not).
// It returns the complete pairs sorted by base plus the bases that lack a
// counterpart on either side.
func scanPairs(soundDir, gridDir string) (pairs []Pair, unpaired []string, err error) {
	grids, err := os.ReadDir(gridDir)
	if err != nil {
		return nil, nil, err
	}
	sounds, err := os.ReadDir(soundDir)
	if err != nil {
		return nil, nil, err
	}

	wavByBase := map[string]string{}
	for _, e := range sounds {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			base := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
			wavByBase[base] = filepath.Join(soundDir, e.Name())
		}
	}

	paired := map[string]bool{}
	for _, e := range grids {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".TextGrid") {
			continue
		}
		base := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		wavPath, ok := wavByBase[base]
		if !ok {
			unpaired = append(unpaired, e.Name())
			continue
		}
		paired[base] = true
		pairs = append(pairs, Pair{
			Base:     base,
			WavPath:  wavPath,
			GridPath: filepath.Join(gridDir, e.Name()),
		})
	}
	for base, path := range wavByBase {
		if !paired[base] {
			unpaired = append(unpaired, filepath.Base(path))
		}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Base < pairs[j].Base })
	sort.Strings(unpaired)
	return pairs, unpaired, nil
}
