package registry

// Language describes one supported interface language. VoiceCode drives
// speech-synthesis voice selection in the UI layer.
type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
	Flag       string `json:"flag"`
	VoiceCode  string `json:"voiceCode,omitempty"`
}

// DefaultLanguageCode is the language assumed when the user has not picked one.
const DefaultLanguageCode = "en"

// SupportedLanguages is the static language registry, keyed by unique code.
var SupportedLanguages = []Language{
	{Code: "en", Name: "English", NativeName: "English", Flag: "🇬🇧", VoiceCode: "en-IN"},
	{Code: "hi", Name: "Hindi", NativeName: "हिन्दी", Flag: "🇮🇳", VoiceCode: "hi-IN"},
	{Code: "bn", Name: "Bengali", NativeName: "বাংলা", Flag: "🇮🇳", VoiceCode: "bn-IN"},
	{Code: "te", Name: "Telugu", NativeName: "తెలుగు", Flag: "🇮🇳", VoiceCode: "te-IN"},
	{Code: "mr", Name: "Marathi", NativeName: "मराठी", Flag: "🇮🇳", VoiceCode: "mr-IN"},
	{Code: "ta", Name: "Tamil", NativeName: "தமிழ்", Flag: "🇮🇳", VoiceCode: "ta-IN"},
	{Code: "gu", Name: "Gujarati", NativeName: "ગુજરાતી", Flag: "🇮🇳", VoiceCode: "gu-IN"},
	{Code: "kn", Name: "Kannada", NativeName: "ಕನ್ನಡ", Flag: "🇮🇳", VoiceCode: "kn-IN"},
	{Code: "ml", Name: "Malayalam", NativeName: "മലയാളം", Flag: "🇮🇳", VoiceCode: "ml-IN"},
	{Code: "pa", Name: "Punjabi", NativeName: "ਪੰਜਾਬੀ", Flag: "🇮🇳", VoiceCode: "pa-IN"},
	{Code: "or", Name: "Odia", NativeName: "ଓଡ଼ିଆ", Flag: "🇮🇳"},
	{Code: "as", Name: "Assamese", NativeName: "অসমীয়া", Flag: "🇮🇳"},
}

// LanguageByCode looks up a language by its code. The second return value
// reports whether the code is registered.
func LanguageByCode(code string) (Language, bool) {
	for _, lang := range SupportedLanguages {
		if lang.Code == code {
			return lang, true
		}
	}
	return Language{}, false
}
