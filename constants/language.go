package constants

type Language string

const (
	English         Language = "en"
	Spanish         Language = "es"
	French          Language = "fr"
	German          Language = "de"
	Italian         Language = "it"
	Portuguese      Language = "pt"
	Dutch           Language = "nl"
	Russian         Language = "ru"
	Chinese         Language = "zh"
	Japanese        Language = "ja"
	Korean          Language = "ko"
	Arabic          Language = "ar"
	Hindi           Language = "hi"
	Thai            Language = "th"
	Vietnamese      Language = "vi"
	Indonesian      Language = "id"
	Malay           Language = "ms"
	Turkish         Language = "tr"
	Polish          Language = "pl"
	Swedish         Language = "sv"
	Norwegian       Language = "no"
	Danish          Language = "da"
	Finnish         Language = "fi"
	Greek           Language = "el"
	Hebrew          Language = "he"
	Czech           Language = "cs"
	Romanian        Language = "ro"
	Hungarian       Language = "hu"
	Ukrainian       Language = "uk"
	UnknownLanguage Language = "unknown"
)

var allLanguages = []Language{
	English, Spanish, French, German, Italian, Portuguese, Dutch, Russian,
	Chinese, Japanese, Korean, Arabic, Hindi, Thai, Vietnamese, Indonesian,
	Malay, Turkish, Polish, Swedish, Norwegian, Danish, Finnish, Greek,
	Hebrew, Czech, Romanian, Hungarian, Ukrainian,
	UnknownLanguage,
}

// SupportedLanguages returns every language code except "unknown", in declaration order.
func SupportedLanguages() []string {
	result := make([]string, 0, len(allLanguages)-1)
	for _, l := range allLanguages {
		if l == UnknownLanguage {
			continue
		}
		result = append(result, string(l))
	}
	return result
}

// ParseLanguage maps an ISO 639-1 code onto a supported language.
func ParseLanguage(code string) (Language, bool) {
	for _, l := range allLanguages {
		if string(l) == code {
			return l, l != UnknownLanguage
		}
	}
	return UnknownLanguage, false
}
