// Package i18n carries the storefront's locale table and the path
// helpers the route guard depends on.
package i18n

import "strings"

// Locale describes one supported storefront language.
type Locale struct {
	Code       string
	Name       string
	NativeName string
}

var Locales = map[string]Locale{
	"en": {Code: "en", Name: "English", NativeName: "English"},
	"br": {Code: "br", Name: "Portuguese (Brazil)", NativeName: "Português (Brasil)"},
}

const DefaultLocale = "br"

// Supported reports whether code names a known locale.
func Supported(code string) bool {
	_, ok := Locales[code]
	return ok
}

// StripLocale splits a request path into its locale and the remainder.
// Paths without a locale prefix resolve to the default locale. The
// remainder always starts with "/".
func StripLocale(path string) (locale, rest string) {
	trimmed := strings.TrimPrefix(path, "/")
	first, tail, found := strings.Cut(trimmed, "/")

	if Supported(first) {
		if !found || tail == "" {
			return first, "/"
		}
		return first, "/" + tail
	}

	if path == "" {
		return DefaultLocale, "/"
	}
	return DefaultLocale, path
}
