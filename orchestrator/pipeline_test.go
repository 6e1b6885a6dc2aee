package orchestrator

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maastricht-university/speech-features/config"
)

const grid = `File type = "ooTextFile"
Object class = "TextGrid"

xmin = 0
xmax = 1
tiers? <exists>
size = 1
item []:
	item [1]:
		class = "IntervalTier"
		name = "phrase"
		xmin = 0
		xmax = 1
		intervals: size = 3
		intervals [1]:
			xmin = 0
			xmax = 0.2
			text = ""
		intervals [2]:
			xmin = 0.2
			xmax = 0.7
			text = "hello"
		intervals [3]:
			xmin = 0.7
			xmax = 1
			text = "   "
`

func writeTone(t *testing.T, path string, sr int, dur float64) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	n := int(dur * float64(sr))
	data := make([]int, n)
	for i := range data {
		data[i] = int(0.5 * 32767 * math.Sin(2*math.Pi*220*float64(i)/float64(sr)))
	}
	enc := gowav.NewEncoder(f, sr, 16, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sr},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRunBatchWithMissingCounterpart(t *testing.T) {
	sounds := t.TempDir()
	grids := t.TempDir()
	out := filepath.Join(t.TempDir(), "features.txt")

	// complete pair
	writeTone(t, filepath.Join(sounds, "p01.wav"), 16000, 1)
	require.NoError(t, os.WriteFile(filepath.Join(grids, "p01.TextGrid"), []byte(grid), 0o644))
	// annotation without audio
	require.NoError(t, os.WriteFile(filepath.Join(grids, "p02.TextGrid"), []byte(grid), 0o644))
	// audio without annotation
	writeTone(t, filepath.Join(sounds, "p03.wav"), 16000, 1)

	p := NewPipeline(config.Defaults(), quietLogger())
	sum, err := p.Run(context.Background(), sounds, grids, out)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Pairs)
	assert.Equal(t, 2, sum.Unpaired)
	assert.Equal(t, 0, sum.SkippedPairs)
	assert.Equal(t, 1, sum.Rows)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, header, lines[0])
	// only the labeled interval: empty and whitespace-only labels emit no row
	assert.True(t, strings.HasPrefix(lines[1], "p01\thello\t"), lines[1])
	assert.Equal(t, 8, len(strings.Split(lines[1], "\t")))

	// provenance dump sits next to the report
	_, err = os.Stat(out + ".config.yaml")
	assert.NoError(t, err)
}

func TestRunNoPairs(t *testing.T) {
	out := filepath.Join(t.TempDir(), "features.txt")
	p := NewPipeline(config.Defaults(), quietLogger())

	sum, err := p.Run(context.Background(), t.TempDir(), t.TempDir(), out)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Pairs)
	assert.Equal(t, 0, sum.Rows)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, header+"\n", string(raw))
}

func TestRunSkipsUnreadablePair(t *testing.T) {
	sounds := t.TempDir()
	grids := t.TempDir()
	out := filepath.Join(t.TempDir(), "features.txt")

	require.NoError(t, os.WriteFile(filepath.Join(sounds, "p01.wav"), []byte("junk"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(grids, "p01.TextGrid"), []byte(grid), 0o644))

	p := NewPipeline(config.Defaults(), quietLogger())
	sum, err := p.Run(context.Background(), sounds, grids, out)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Pairs)
	assert.Equal(t, 1, sum.SkippedPairs)
	assert.Equal(t, 0, sum.Rows)
}

func TestRunMissingTier(t *testing.T) {
	sounds := t.TempDir()
	grids := t.TempDir()
	out := filepath.Join(t.TempDir(), "features.txt")

	writeTone(t, filepath.Join(sounds, "p01.wav"), 16000, 1)
	require.NoError(t, os.WriteFile(filepath.Join(grids, "p01.TextGrid"), []byte(grid), 0o644))

	cfg := config.Defaults()
	cfg.Extraction.Tier = "word"
	p := NewPipeline(cfg, quietLogger())

	sum, err := p.Run(context.Background(), sounds, grids, out)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.SkippedPairs)
	assert.Equal(t, 0, sum.Rows)
}

func TestRunCanceledContext(t *testing.T) {
	sounds := t.TempDir()
	grids := t.TempDir()
	writeTone(t, filepath.Join(sounds, "p01.wav"), 16000, 1)
	require.NoError(t, os.WriteFile(filepath.Join(grids, "p01.TextGrid"), []byte(grid), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(config.Defaults(), quietLogger())
	_, err := p.Run(ctx, sounds, grids, filepath.Join(t.TempDir(), "out.txt"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanPairs(t *testing.T) {
	sounds := t.TempDir()
	grids := t.TempDir()

	writeTone(t, filepath.Join(sounds, "a.wav"), 8000, 0.1)
	writeTone(t, filepath.Join(sounds, "B.wav"), 8000, 0.1)
	require.NoError(t, os.WriteFile(filepath.Join(grids, "a.TextGrid"), []byte(grid), 0o644))
	// base match is case-sensitive
	require.NoError(t, os.WriteFile(filepath.Join(grids, "b.TextGrid"), []byte(grid), 0o644))

	pairs, unpaired, err := scanPairs(sounds, grids)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "a", pairs[0].Base)
	assert.ElementsMatch(t, []string{"b.TextGrid", "B.wav"}, unpaired)
}
