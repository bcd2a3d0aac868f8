package entities

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/joseph-ayodele/docsense/internal/entity"
)

// Entity types.
const (
	TypeEmail      = "email"
	TypeURL        = "url"
	TypeDate       = "date"
	TypePhone      = "phone"
	TypeMoney      = "money"
	TypePercentage = "percentage"
)

const months = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?`

// entityPatterns is also the preference order when two matches start at the same
// offset and have the same length.
var entityPatterns = []struct {
	typ string
	re  *regexp.Regexp
}{
	{TypeEmail, regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)},
	{TypeURL, regexp.MustCompile(`(?i)\bhttps?://[^\s<>"']+|\bwww\.[^\s<>"']+`)},
	{TypeDate, regexp.MustCompile(`(?i)\b\d{4}-\d{2}-\d{2}\b` +
		`|\b\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}\b` +
		`|\b` + months + `\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b` +
		`|\b\d{1,2}(?:st|nd|rd|th)?\s+` + months + `,?\s+\d{4}\b` +
		`|\b\d{1,2}-` + months + `-\d{2,4}\b`)},
	{TypePhone, regexp.MustCompile(`(?:\+\d{1,3}[ .\-]?)?(?:\(\d{3}\)|\b\d{3})[ .\-]?\d{3}[ .\-]\d{4}\b`)},
	{TypeMoney, regexp.MustCompile(`[$€£¥]\s?\d+(?:,\d{3})*(?:\.\d+)?` +
		`|\b(?:USD|EUR|GBP|CAD|AUD|INR|JPY|CHF)\s?\d+(?:,\d{3})*(?:\.\d+)?` +
		`|\b\d+(?:,\d{3})*(?:\.\d+)?\s?(?:USD|EUR|GBP|CAD|AUD|INR|JPY|CHF)\b`)},
	{TypePercentage, regexp.MustCompile(`\b\d+(?:\.\d+)?\s?%`)},
}

// Extractor finds typed values in free text with a fixed pattern family.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

type span struct {
	start, end int
	rank       int
	typ        string
}

// Extract returns every entity in order of position. Where matches overlap, the
// one starting first wins, then the longer one, then the earlier pattern.
func (x *Extractor) Extract(text string) []entity.Entity {
	out := []entity.Entity{}
	if strings.TrimSpace(text) == "" {
		return out
	}

	var spans []span
	for rank, p := range entityPatterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			end := loc[0] + len(trimTrailing(p.typ, text[loc[0]:loc[1]]))
			if end > loc[0] {
				spans = append(spans, span{start: loc[0], end: end, rank: rank, typ: p.typ})
			}
		}
	}
	sort.SliceStable(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		if a.start != b.start {
			return a.start < b.start
		}
		if a.end-a.start != b.end-b.start {
			return a.end-a.start > b.end-b.start
		}
		return a.rank < b.rank
	})

	lastEnd := -1
	for _, s := range spans {
		if s.start < lastEnd {
			continue
		}
		out = append(out, entity.Entity{Type: s.typ, Value: text[s.start:s.end], Offset: s.start})
		lastEnd = s.end
	}

	x.logger.Debug("entities.extract.ok", "candidates", len(spans), "entities", len(out))
	return out
}

// trimTrailing drops sentence punctuation a URL pattern swallows.
func trimTrailing(typ, v string) string {
	if typ != TypeURL {
		return v
	}
	return strings.TrimRight(v, ".,;:!?)]}")
}
