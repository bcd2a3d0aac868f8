package language

import (
	"github.com/dlclark/regexp2"

	"github.com/joseph-ayodele/docsense/constants"
)

// languageProfile holds the signals for one language. Word matchers run against
// lower-cased text; pattern matchers run case-insensitively against the original.
type languageProfile struct {
	lang     constants.Language
	words    []*regexp2.Regexp
	patterns []*regexp2.Regexp
	script   constants.Script
}

// maxScore is the normalizer for a profile's raw score.
func (p languageProfile) maxScore() float64 {
	return float64(len(p.words) + 5*len(p.patterns))
}

type scriptRange struct {
	script constants.Script
	lo, hi rune
}

// scriptRanges is also the tie-break order of DetectScript.
var scriptRanges = []scriptRange{
	{constants.ScriptLatin, 0x0000, 0x024F},
	{constants.ScriptCyrillic, 0x0400, 0x04FF},
	{constants.ScriptArabic, 0x0600, 0x06FF},
	{constants.ScriptCJK, 0x4E00, 0x9FFF},
	{constants.ScriptHangul, 0xAC00, 0xD7AF},
	{constants.ScriptDevanagari, 0x0900, 0x097F},
	{constants.ScriptThai, 0x0E00, 0x0E7F},
	{constants.ScriptJapanese, 0x3040, 0x30FF},
	{constants.ScriptHebrew, 0x0590, 0x05FF},
	{constants.ScriptGreek, 0x0370, 0x03FF},
}

// wordMatchers compiles each word into a whole-word matcher. regexp2 follows .NET
// semantics where \b respects Unicode letters, unlike RE2.
func wordMatchers(words ...string) []*regexp2.Regexp {
	out := make([]*regexp2.Regexp, len(words))
	for i, w := range words {
		out[i] = regexp2.MustCompile(`\b`+regexp2.Escape(w)+`\b`, regexp2.None)
	}
	return out
}

func patternMatchers(exprs ...string) []*regexp2.Regexp {
	out := make([]*regexp2.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp2.MustCompile(e, regexp2.IgnoreCase)
	}
	return out
}

// buildProfiles returns the language table in declaration order. Languages that are
// recognised codes but have no entry here never score.
func buildProfiles() []languageProfile {
	return []languageProfile{
		{
			lang:     constants.English,
			words:    wordMatchers("the", "and", "is", "in", "to", "of", "a", "for", "that", "with"),
			patterns: patternMatchers(`\bthe\b`, `\band\b`, `\bis\b`),
			script:   constants.ScriptLatin,
		},
		{
			lang:     constants.Spanish,
			words:    wordMatchers("de", "la", "que", "el", "en", "y", "los", "se", "del", "las"),
			patterns: patternMatchers(`\bque\b`, `\bdel\b`, `ñ`, `¿`, `¡`),
			script:   constants.ScriptLatin,
		},
		{
			lang:     constants.French,
			words:    wordMatchers("de", "la", "le", "et", "les", "des", "en", "un", "du", "une"),
			patterns: patternMatchers(`\bqu['e]`, `\bc'est\b`, `œ`, `ç`),
			script:   constants.ScriptLatin,
		},
		{
			lang:     constants.German,
			words:    wordMatchers("der", "die", "und", "in", "den", "von", "zu", "das", "mit", "sich"),
			patterns: patternMatchers(`\bder\b`, `\bdie\b`, `\bund\b`, `ß`, `ü`, `ö`, `ä`),
			script:   constants.ScriptLatin,
		},
		{
			lang:     constants.Italian,
			words:    wordMatchers("di", "che", "la", "il", "un", "per", "con", "non", "una", "sono"),
			patterns: patternMatchers(`\bche\b`, `\bnon\b`, `\bper\b`),
			script:   constants.ScriptLatin,
		},
		{
			lang:     constants.Portuguese,
			words:    wordMatchers("de", "que", "e", "do", "da", "em", "um", "para", "com", "não"),
			patterns: patternMatchers(`\bnão\b`, `\bpara\b`, `ã`, `õ`),
			script:   constants.ScriptLatin,
		},
		{
			lang:     constants.Dutch,
			words:    wordMatchers("de", "het", "een", "van", "en", "in", "is", "dat", "op", "te"),
			patterns: patternMatchers(`\bhet\b`, `\been\b`, `\bvan\b`, `ij`),
			script:   constants.ScriptLatin,
		},
		{
			lang:     constants.Russian,
			words:    wordMatchers("и", "в", "не", "на", "я", "что", "он", "с", "это", "как"),
			patterns: patternMatchers(`[а-яА-Я]`),
			script:   constants.ScriptCyrillic,
		},
		{
			lang:     constants.Chinese,
			words:    wordMatchers("的", "一", "是", "不", "了", "在", "人", "有", "我", "他"),
			patterns: patternMatchers("[\u4e00-\u9fff]"),
			script:   constants.ScriptCJK,
		},
		{
			lang:     constants.Japanese,
			words:    wordMatchers("の", "に", "は", "を", "た", "が", "で", "て", "と", "し"),
			patterns: patternMatchers("[\u3040-\u309f]", "[\u30a0-\u30ff]"),
			script:   constants.ScriptJapanese,
		},
		{
			lang:     constants.Korean,
			words:    wordMatchers("이", "그", "저", "것", "수", "하다", "있다", "되다", "없다"),
			patterns: patternMatchers("[\uac00-\ud7af]"),
			script:   constants.ScriptHangul,
		},
		{
			lang:     constants.Arabic,
			words:    wordMatchers("من", "في", "على", "إلى", "عن", "مع", "هذا", "أن", "كان", "لا"),
			patterns: patternMatchers("[\u0600-\u06ff]"),
			script:   constants.ScriptArabic,
		},
		{
			lang:     constants.Hindi,
			words:    wordMatchers("का", "की", "को", "में", "है", "और", "से", "के", "एक", "यह"),
			patterns: patternMatchers("[\u0900-\u097f]"),
			script:   constants.ScriptDevanagari,
		},
		{
			lang:     constants.Thai,
			words:    wordMatchers("ที่", "และ", "ใน", "ของ", "มี", "เป็น", "ได้", "จะ", "นี้", "ไม่"),
			patterns: patternMatchers("[\u0e00-\u0e7f]"),
			script:   constants.ScriptThai,
		},
	}
}
