package orchestrator

// Pair is one participant's recording and its annotation file, matched by
// base filename.
type Pair struct {
	Base     string // participant id: filename without extension
	WavPath  string
	GridPath string
}

// Summary reports what a batch run did. Zero pairs is a valid outcome, not
// an error.
type Summary struct {
	Pairs            int // complete pairs processed
	SkippedPairs     int // pairs dropped (unreadable file, missing tier)
	Unpaired         int // files with no counterpart
	Rows             int // rows written to the report
	SkippedIntervals int // intervals dropped (invalid or degenerate)
}
