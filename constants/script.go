package constants

// Script is the dominant Unicode block family of a text.
type Script string

const (
	ScriptLatin      Script = "latin"
	ScriptCyrillic   Script = "cyrillic"
	ScriptArabic     Script = "arabic"
	ScriptCJK        Script = "cjk"
	ScriptHangul     Script = "hangul"
	ScriptDevanagari Script = "devanagari"
	ScriptThai       Script = "thai"
	ScriptJapanese   Script = "japanese"
	ScriptHebrew     Script = "hebrew"
	ScriptGreek      Script = "greek"
	ScriptUnknown    Script = "unknown"
)
