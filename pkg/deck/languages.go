package deck

// languageNames maps supported ISO 639-1 codes to the English language name
// used when prompting the translation model.
var languageNames = map[string]string{
	"en": "English",
	"de": "German",
	"ru": "Russian",
	"fr": "French",
	"es": "Spanish",
	"it": "Italian",
	"pt": "Portuguese",
	"pl": "Polish",
	"zh": "Chinese",
	"ja": "Japanese",
	"ar": "Arabic",
	"hi": "Hindi",
}

// needsTranscription lists languages whose script is opaque to most learners,
// so translations should carry a phonetic transcription.
var needsTranscription = map[string]bool{
	"zh": true,
	"ja": true,
	"ar": true,
	"ru": true,
	"hi": true,
}

// LanguageName returns the English name for a language code and whether the
// code is supported.
func LanguageName(code string) (string, bool) {
	name, ok := languageNames[code]
	return name, ok
}

// NeedsTranscription reports whether translations into the given language
// should include a phonetic transcription.
func NeedsTranscription(code string) bool {
	return needsTranscription[code]
}
