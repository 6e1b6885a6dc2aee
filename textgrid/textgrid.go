// Package textgrid reads Praat TextGrid annotation files (long text format)
// and exposes their interval tiers.
package textgrid

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Interval struct {
	Start float64
	End   float64
	Label string
}

type Tier struct {
	Name      string
	Intervals []Interval
}

type TextGrid struct {
	XMin  float64
	XMax  float64
	Tiers []Tier
}

var (
	ErrMalformed    = errors.New("malformed TextGrid")
	ErrTierNotFound = errors.New("tier not found")
)

// TierByName returns the interval tier with the given name.
func (tg *TextGrid) TierByName(name string) (*Tier, error) {
	for i := range tg.Tiers {
		if tg.Tiers[i].Name == name {
			return &tg.Tiers[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrTierNotFound, name)
}

func ReadFile(path string) (*TextGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(bufio.NewScanner(f))
}

func Parse(s string) (*TextGrid, error) {
	return parse(bufio.NewScanner(strings.NewReader(s)))
}

// parse walks the long text format line by line. Point tiers (TextTier) are
// skipped; only IntervalTier items are kept.
func parse(sc *bufio.Scanner) (*TextGrid, error) {
	var tg TextGrid
	var cur *Tier
	header := true  // before the first item
	inTier := false // inside an IntervalTier item
	inIvl := false  // inside an intervals [n] block
	var ivl Interval

	flush := func() {
		if inIvl && cur != nil {
			cur.Intervals = append(cur.Intervals, ivl)
			inIvl = false
		}
	}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "item ["):
			flush()
			cur = nil
			header = false
			inTier = false
		case strings.HasPrefix(line, "intervals ["):
			flush()
			if inTier {
				inIvl = true
				ivl = Interval{}
			}
		case strings.HasPrefix(line, "points ["):
			flush()
		}

		key, val, ok := splitAssign(line)
		if !ok {
			continue
		}
		switch key {
		case "class":
			if unquote(val) == "IntervalTier" {
				tg.Tiers = append(tg.Tiers, Tier{})
				cur = &tg.Tiers[len(tg.Tiers)-1]
				inTier = true
			}
		case "name":
			if cur != nil {
				cur.Name = unquote(val)
			}
		case "xmin":
			x, err := parseFloat(val)
			if err != nil {
				return nil, err
			}
			if inIvl {
				ivl.Start = x
			} else if header {
				tg.XMin = x
			}
		case "xmax":
			x, err := parseFloat(val)
			if err != nil {
				return nil, err
			}
			if inIvl {
				ivl.End = x
			} else if header {
				tg.XMax = x
			}
		case "text":
			if inIvl {
				ivl.Label = unquote(val)
			}
		}
	}
	flush()
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if tg.Tiers == nil {
		return nil, fmt.Errorf("%w: no interval tiers", ErrMalformed)
	}
	return &tg, nil
}

func splitAssign(line string) (key, val string, ok bool) {
	i := strings.Index(line, "=")
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}

func parseFloat(s string) (float64, error) {
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrMalformed, s)
	}
	return x, nil
}

// unquote strips surrounding quotes and collapses Praat's doubled-quote
// escape.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, `""`, `"`)
}
