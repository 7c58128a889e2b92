package channel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

// List is an ordered collection of channels. Insertion order is preserved
// and duplicate names are allowed. Filtering operations return a new List
// and leave the receiver unmodified.
type List []Channel

// Names returns the channel names in list order.
func (l List) Names() []string {
	names := make([]string, len(l))
	for i, c := range l {
		names[i] = c.Name()
	}
	return names
}

// Find returns the index of the first channel whose name equals name
// exactly. When no channel matches it returns an error wrapping
// ErrNotFound, including a nearest-name suggestion when one is close
// enough.
func (l List) Find(name string) (int, error) {
	for i, c := range l {
		if c.Name() == name {
			return i, nil
		}
	}
	if closest := l.closest(name); closest != "" {
		return 0, fmt.Errorf("%w: %q (closest match: %q)", ErrNotFound, name, closest)
	}
	return 0, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// closest returns the list name nearest to name by edit distance, or ""
// when nothing is within half the query length.
func (l List) closest(name string) string {
	best := ""
	bestDist := len(name)/2 + 1
	for _, c := range l {
		if d := levenshtein.ComputeDistance(name, c.Name()); d < bestDist {
			best, bestDist = c.Name(), d
		}
	}
	return best
}

// sieveConfig collects the optional Sieve predicates. The name pattern is a
// tagged union: either a raw expression compiled at sieve time or a
// pre-compiled regexp reused as-is (inline flags such as (?i) survive in
// its source text).
type sieveConfig struct {
	rawPattern      string
	compiledPattern *regexp.Regexp
	hasPattern      bool
	exact           bool

	rate     *float64
	rangeLow *float64
	rangeHi  *float64
}

// SieveOption configures one Sieve predicate.
type SieveOption func(*sieveConfig)

// WithNamePattern matches channel names against a regular expression given
// as source text. The match is a substring search unless WithExactMatch is
// also given.
func WithNamePattern(expr string) SieveOption {
	return func(cfg *sieveConfig) {
		cfg.rawPattern = expr
		cfg.compiledPattern = nil
		cfg.hasPattern = true
	}
}

// WithCompiledPattern matches channel names against a pre-compiled regexp.
func WithCompiledPattern(re *regexp.Regexp) SieveOption {
	return func(cfg *sieveConfig) {
		cfg.compiledPattern = re
		cfg.rawPattern = ""
		cfg.hasPattern = true
	}
}

// WithExactMatch anchors the name pattern at both ends so the whole name
// must match rather than a substring.
func WithExactMatch() SieveOption {
	return func(cfg *sieveConfig) { cfg.exact = true }
}

// WithRate keeps only channels whose sample rate equals hz exactly.
func WithRate(hz float64) SieveOption {
	return func(cfg *sieveConfig) { cfg.rate = &hz }
}

// WithRateRange keeps only channels whose sample rate lies within the
// closed interval [low, high] hertz.
func WithRateRange(low, high float64) SieveOption {
	return func(cfg *sieveConfig) {
		cfg.rangeLow = &low
		cfg.rangeHi = &high
	}
}

func (cfg *sieveConfig) resolvePattern() (*regexp.Regexp, error) {
	expr := cfg.rawPattern
	if cfg.compiledPattern != nil {
		if !cfg.exact {
			return cfg.compiledPattern, nil
		}
		expr = cfg.compiledPattern.String()
	}
	if cfg.exact {
		if !strings.HasPrefix(expr, `\A`) {
			expr = `\A` + expr
		}
		if !strings.HasSuffix(expr, `\z`) {
			expr += `\z`
		}
	}
	return regexp.Compile(expr)
}

// Sieve returns a new List containing the channels that pass every active
// predicate, in their original relative order. Predicates combine as an
// AND-conjunction and each is skipped when not supplied; no active
// predicates yields a shallow copy of the whole list. Channels with an
// unknown sample rate never pass a rate predicate.
func (l List) Sieve(opts ...SieveOption) (List, error) {
	var cfg sieveConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var re *regexp.Regexp
	if cfg.hasPattern {
		var err error
		re, err = cfg.resolvePattern()
		if err != nil {
			return nil, fmt.Errorf("channel: compile sieve pattern: %w", err)
		}
	}

	out := make(List, 0, len(l))
	for _, c := range l {
		if re != nil && !re.MatchString(c.Name()) {
			continue
		}
		if cfg.rate != nil || cfg.rangeLow != nil {
			q, ok := c.SampleRate()
			if !ok {
				continue
			}
			hz, err := q.Hz()
			if err != nil {
				continue
			}
			if cfg.rate != nil && hz != *cfg.rate {
				continue
			}
			if cfg.rangeLow != nil && (hz < *cfg.rangeLow || hz > *cfg.rangeHi) {
				continue
			}
		}
		out = append(out, c)
	}
	return out, nil
}
