// Package i18n provides the two-locale message catalog used for user-visible
// messages. Catalogs are embedded YAML files, one per locale.
package i18n

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	// LocaleCS is Czech, the default locale.
	LocaleCS = "cs"
	// LocaleEN is English.
	LocaleEN = "en"
)

// DefaultLocale is the locale active for a fresh visitor.
const DefaultLocale = LocaleCS

//go:embed catalogs/*.yml
var catalogFS embed.FS

var catalogs map[string]map[string]string

func init() {
	catalogs = make(map[string]map[string]string, 2)
	for _, locale := range []string{LocaleCS, LocaleEN} {
		raw, err := catalogFS.ReadFile(fmt.Sprintf("catalogs/%s.yml", locale))
		if err != nil {
			panic(fmt.Sprintf("i18n: missing catalog for %s: %v", locale, err))
		}
		messages := make(map[string]string)
		if err := yaml.Unmarshal(raw, &messages); err != nil {
			panic(fmt.Sprintf("i18n: malformed catalog for %s: %v", locale, err))
		}
		catalogs[locale] = messages
	}
}

// Supported reports whether the locale has a catalog.
func Supported(locale string) bool {
	_, ok := catalogs[locale]
	return ok
}

// Toggle returns the other of the two locales.
func Toggle(locale string) string {
	if locale == LocaleCS {
		return LocaleEN
	}
	return LocaleCS
}

// T returns the message for key in the given locale. Unknown locales fall
// back to English; unknown keys come back verbatim so a missing translation
// is visible instead of silent.
func T(locale, key string) string {
	if messages, ok := catalogs[locale]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[LocaleEN][key]; ok {
		return msg
	}
	return key
}
