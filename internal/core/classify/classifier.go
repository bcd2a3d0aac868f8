package classify

import (
	"log/slog"
	"math"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/joseph-ayodele/docsense/constants"
)

// MinScore is the normalized score below which a document is reported as unknown.
const MinScore = 0.1

// Result is the outcome of classifying one text.
type Result struct {
	DocumentType  constants.DocumentType `json:"document_type"`
	Confidence    float64                `json:"confidence"`
	AllScores     map[string]float64     `json:"all_scores"`
	KeywordsFound []string               `json:"keywords_found"`
}

// Classifier scores a text against a fixed table of document types using keyword
// and regex signals. The table is built in NewClassifier and never mutated.
type Classifier struct {
	profiles []typeProfile
	logger   *slog.Logger
}

func NewClassifier(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{profiles: buildProfiles(), logger: logger}
}

var (
	defaultOnce       sync.Once
	defaultClassifier *Classifier
)

// Default returns the process-wide classifier, built on first use.
func Default() *Classifier {
	defaultOnce.Do(func() {
		defaultClassifier = NewClassifier(nil)
	})
	return defaultClassifier
}

// Classify picks the type with the highest normalized score. Ties resolve to the
// type declared first. A best score under MinScore yields UnknownType with zero
// confidence and no keywords.
func (c *Classifier) Classify(text string) Result {
	folded := cases.Fold().String(text)

	scores := make(map[string]float64, len(c.profiles))
	bestIdx := -1
	bestScore := 0.0
	var bestKeywords []string

	for i, p := range c.profiles {
		score, found := p.score(folded)
		scores[string(p.docType)] = score
		if bestIdx == -1 || score > bestScore {
			bestIdx, bestScore, bestKeywords = i, score, found
		}
	}

	if bestIdx == -1 || bestScore < MinScore {
		c.logger.Debug("classify.unknown", "best_score", bestScore)
		return Result{
			DocumentType:  constants.UnknownType,
			Confidence:    0,
			AllScores:     scores,
			KeywordsFound: []string{},
		}
	}

	res := Result{
		DocumentType:  c.profiles[bestIdx].docType,
		Confidence:    math.Min(bestScore*2, 1.0),
		AllScores:     scores,
		KeywordsFound: bestKeywords,
	}
	c.logger.Debug("classify.ok", "type", res.DocumentType, "confidence", res.Confidence)
	return res
}

// score returns weight × (keyword hits + 2 × pattern hits) / maxScore along with
// the keywords that matched, in table order.
func (p typeProfile) score(folded string) (float64, []string) {
	raw := 0.0
	found := []string{}
	for _, kw := range p.keywords {
		if strings.Contains(folded, kw) {
			raw++
			found = append(found, kw)
		}
	}
	for _, re := range p.patterns {
		if re.MatchString(folded) {
			raw += 2
		}
	}
	raw *= p.weight

	max := p.maxScore()
	if max == 0 {
		return 0, found
	}
	return raw / max, found
}

// ClassifyWithRouting classifies text and names the extraction schema for the result.
func (c *Classifier) ClassifyWithRouting(text string) (Result, string) {
	res := c.Classify(text)
	return res, constants.SchemaFor(res.DocumentType)
}

// SupportedTypes lists every classifiable type, Unknown excluded.
func (c *Classifier) SupportedTypes() []string {
	return constants.SupportedDocumentTypes()
}
