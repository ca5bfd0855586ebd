package i18n

import "golang.org/x/text/language"

// Supported lists the locales present in the bundled table.
var Supported = []language.Tag{language.Uzbek, language.Russian, language.English}

// Resolver picks a response locale from an Accept-Language header.
type Resolver struct {
	tags    []language.Tag
	matcher language.Matcher
}

// NewResolver builds a Resolver whose fallback is defaultLocale. An
// unparseable default falls back to Uzbek.
func NewResolver(defaultLocale string) *Resolver {
	fallback, err := language.Parse(defaultLocale)
	if err != nil {
		fallback = language.Uzbek
	}

	tags := []language.Tag{fallback}
	for _, t := range Supported {
		if t != fallback {
			tags = append(tags, t)
		}
	}

	return &Resolver{tags: tags, matcher: language.NewMatcher(tags)}
}

// Default returns the fallback locale.
func (r *Resolver) Default() language.Tag { return r.tags[0] }

// Resolve returns the best supported locale for header, or the fallback when
// the header is empty, malformed, or matches nothing.
func (r *Resolver) Resolve(header string) language.Tag {
	if header == "" {
		return r.Default()
	}
	prefs, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(prefs) == 0 {
		return r.Default()
	}
	_, idx, conf := r.matcher.Match(prefs...)
	if conf == language.No {
		return r.Default()
	}
	return r.tags[idx]
}
