package duedate

import (
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Match is one natural-language date/time candidate found in free text.
// Parsers return candidates in confidence/position order; the resolver only
// ever consumes the first.
type Match struct {
	// Index is the offset of the matched fragment in the input text
	Index int

	// Text is the matched fragment
	Text string

	// Time is the resolved instant
	Time time.Time

	// HasClock reports whether the match carried an explicit time-of-day
	HasClock bool
}

// Parser extracts date/time candidates from free text.
type Parser interface {
	Parse(text string, base time.Time) []Match
}

// NaturalParser parses English natural-language dates ("tomorrow 5pm",
// "next friday") using the when library.
type NaturalParser struct {
	w *when.Parser
}

// NewNaturalParser creates a parser with the English and common rule sets.
func NewNaturalParser() *NaturalParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &NaturalParser{w: w}
}

// Parse implements Parser. Parsing is anchored to local midnight of the base
// day, so a non-midnight result means the text named an explicit clock time.
// ("at midnight" is the one fragment this cannot distinguish; it resolves as
// date-only, which builds to midnight anyway.)
func (p *NaturalParser) Parse(text string, base time.Time) []Match {
	midnight := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, base.Location())
	r, err := p.w.Parse(text, midnight)
	if err != nil || r == nil {
		return nil
	}

	hasClock := r.Time.Hour() != 0 || r.Time.Minute() != 0 || r.Time.Second() != 0
	return []Match{{
		Index:    r.Index,
		Text:     r.Text,
		Time:     r.Time,
		HasClock: hasClock,
	}}
}
