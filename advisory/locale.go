package advisory

import (
	"strings"

	"golang.org/x/text/language"
)

// supported lists the locales that have phrase tables, the first entry is
// the fallback for unknown tags
var supported = []language.Tag{language.English, language.Hindi}

var matcher = language.NewMatcher(supported)

// languageNames maps the language names offered by the language selector to
// their tags
var languageNames = map[string]language.Tag{
	"english": language.English,
	"hindi":   language.Hindi,
}

// MatchLocale resolves a locale tag such as "en", "hi-IN" or "Hindi" to one
// of the supported locales.  Unknown or malformed tags resolve to English
func MatchLocale(locale string) language.Tag {

	if tag, ok := languageNames[strings.ToLower(strings.TrimSpace(locale))]; ok {
		return tag
	}

	tag, err := language.Parse(locale)

	if err != nil {
		return language.English
	}

	_, idx, conf := matcher.Match(tag)

	if conf == language.No {
		return language.English
	}

	return supported[idx]
}
