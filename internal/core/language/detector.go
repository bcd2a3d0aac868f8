package language

import (
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/dlclark/regexp2"

	"github.com/joseph-ayodele/docsense/constants"
)

// MultilingualThreshold is the score a runner-up language needs to be reported as
// a secondary language.
const MultilingualThreshold = 0.1

// maxSecondary caps how many runners-up are reported.
const maxSecondary = 3

// Result is the outcome of language detection on one text.
type Result struct {
	PrimaryLanguage    constants.Language   `json:"primary_language"`
	Confidence         float64              `json:"confidence"`
	AllScores          map[string]float64   `json:"all_scores"`
	ScriptDetected     constants.Script     `json:"script_detected"`
	IsMultilingual     bool                 `json:"is_multilingual"`
	SecondaryLanguages []constants.Language `json:"secondary_languages"`
}

// Detector scores text against per-language word and pattern tables.
type Detector struct {
	profiles []languageProfile
	logger   *slog.Logger
}

func NewDetector(logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{profiles: buildProfiles(), logger: logger}
}

var (
	defaultOnce     sync.Once
	defaultDetector *Detector
)

// Default returns the process-wide detector, built on first use.
func Default() *Detector {
	defaultOnce.Do(func() {
		defaultDetector = NewDetector(nil)
	})
	return defaultDetector
}

type rankedLanguage struct {
	lang  constants.Language
	score float64
}

// Detect returns the best scoring language. Blank text and texts where no language
// scores above zero come back as unknown with zero confidence.
func (d *Detector) Detect(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{
			PrimaryLanguage:    constants.UnknownLanguage,
			AllScores:          map[string]float64{},
			ScriptDetected:     constants.ScriptUnknown,
			SecondaryLanguages: []constants.Language{},
		}
	}

	lower := strings.ToLower(text)
	script := DetectScript(text)

	scores := make(map[string]float64, len(d.profiles))
	ranked := make([]rankedLanguage, 0, len(d.profiles))
	for _, p := range d.profiles {
		s := p.score(text, lower, script)
		scores[string(p.lang)] = s
		ranked = append(ranked, rankedLanguage{lang: p.lang, score: s})
	}
	// Stable so equal scores keep table order.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	res := Result{
		PrimaryLanguage:    constants.UnknownLanguage,
		AllScores:          scores,
		ScriptDetected:     script,
		SecondaryLanguages: []constants.Language{},
	}
	if len(ranked) == 0 || ranked[0].score <= 0 {
		d.logger.Debug("language.detect.unknown", "script", script)
		return res
	}

	res.PrimaryLanguage = ranked[0].lang
	res.Confidence = math.Min(ranked[0].score*2, 1.0)
	for i := 1; i < len(ranked) && i <= maxSecondary; i++ {
		if ranked[i].score > MultilingualThreshold {
			res.SecondaryLanguages = append(res.SecondaryLanguages, ranked[i].lang)
		}
	}
	res.IsMultilingual = len(res.SecondaryLanguages) > 0

	d.logger.Debug("language.detect.ok",
		"language", res.PrimaryLanguage,
		"confidence", res.Confidence,
		"script", script,
		"secondary", len(res.SecondaryLanguages))
	return res
}

// score sums one point per common word present and half a point per pattern
// occurrence, boosts by 1.5 when the profile's script dominates the text and
// normalizes by the profile's maximum.
func (p languageProfile) score(text, lower string, script constants.Script) float64 {
	raw := 0.0
	for _, w := range p.words {
		if ok, err := w.MatchString(lower); err == nil && ok {
			raw++
		}
	}
	for _, re := range p.patterns {
		raw += float64(countMatches(re, text)) * 0.5
	}
	if p.script == script {
		raw *= 1.5
	}

	max := p.maxScore()
	if max == 0 {
		return 0
	}
	return raw / max
}

func countMatches(re *regexp2.Regexp, text string) int {
	n := 0
	m, err := re.FindStringMatch(text)
	for err == nil && m != nil {
		n++
		m, err = re.FindNextMatch(m)
	}
	return n
}

// DetectScript counts runes per Unicode block and returns the block with the most
// hits, ties going to the block listed first. Text with no rune in any known block
// is ScriptUnknown.
func DetectScript(text string) constants.Script {
	counts := make([]int, len(scriptRanges))
	for _, r := range text {
		for i, sr := range scriptRanges {
			if r >= sr.lo && r <= sr.hi {
				counts[i]++
				break
			}
		}
	}

	best, bestCount := constants.ScriptUnknown, 0
	for i, c := range counts {
		if c > bestCount {
			best, bestCount = scriptRanges[i].script, c
		}
	}
	return best
}

// SupportedLanguages lists every recognised language code except unknown.
func (d *Detector) SupportedLanguages() []string {
	return constants.SupportedLanguages()
}
