package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}
type countryContextKey struct{}

var (
	LocaleKey  = localeContextKey{}
	CountryKey = countryContextKey{}
)

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// I18NOptions configures locale negotiation.
type I18NOptions struct {
	DefaultLocale    string
	SupportedLocales []string
	Lookup           CountryLookup
}

type localeMatcher struct {
	matcher   language.Matcher
	supported []language.Tag
}

func newLocaleMatcher(defaultLocale string, supported []string) localeMatcher {
	def := language.Make(strings.TrimSpace(defaultLocale))
	if def == language.Und {
		def = language.English
	}
	tags := []language.Tag{def}
	for _, raw := range supported {
		tag, err := language.Parse(strings.TrimSpace(raw))
		if err != nil || tag == def {
			continue
		}
		tags = append(tags, tag)
	}
	return localeMatcher{matcher: language.NewMatcher(tags), supported: tags}
}

// match returns the supported locale for the candidates, or "" when none is
// a confident match.
func (m localeMatcher) match(candidates ...language.Tag) string {
	if len(candidates) == 0 {
		return ""
	}
	_, index, conf := m.matcher.Match(candidates...)
	if conf < language.High {
		return ""
	}
	return m.supported[index].String()
}

func (m localeMatcher) fallback() string {
	return m.supported[0].String()
}

// I18N stores the negotiated locale and the client country in the request
// context.
func I18N(opts I18NOptions) func(http.Handler) http.Handler {
	matcher := newLocaleMatcher(opts.DefaultLocale, opts.SupportedLocales)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := ResolveCountry(r, opts.Lookup)
			locale := detectLocale(r, matcher, country)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			if country != "" {
				ctx = context.WithValue(ctx, CountryKey, strings.ToUpper(country))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, m localeMatcher, country string) string {
	if v := strings.TrimSpace(r.Header.Get("X-Locale")); v != "" {
		if tag, err := language.Parse(v); err == nil {
			if locale := m.match(tag); locale != "" {
				return locale
			}
		}
	}
	if tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language")); err == nil {
		if locale := m.match(tags...); locale != "" {
			return locale
		}
	}
	if country != "" {
		if tag, err := language.Parse("und-" + country); err == nil {
			if locale := m.match(tag); locale != "" {
				return locale
			}
		}
	}
	return m.fallback()
}

func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "en"
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}

// ResolveCountry resolves a best-effort ISO 3166-1 alpha-2 country code for
// the given request. Values that are not a known country code are ignored.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	headerHints := []string{"X-Country-Code", "X-IP-Country", "CF-IPCountry", "X-Appengine-Country"}
	for _, key := range headerHints {
		if code := countryCode(r.Header.Get(key)); code != "" {
			return code
		}
	}
	if region := localeRegion(r.Header.Get("X-Locale")); region != "" {
		return region
	}
	if region := localeRegion(r.Header.Get("Accept-Language")); region != "" {
		return region
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil {
				return countryCode(country)
			}
		}
	}
	return ""
}

// countryCode returns raw as an upper-case two-letter country code, or "".
func countryCode(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) != 2 {
		return ""
	}
	region, err := language.ParseRegion(raw)
	if err != nil || !region.IsCountry() {
		return ""
	}
	return region.String()
}

// localeRegion returns the first explicit country subtag in a locale or
// Accept-Language value.
func localeRegion(accept string) string {
	for _, part := range strings.Split(accept, ",") {
		token := strings.TrimSpace(strings.Split(part, ";")[0])
		if token == "" {
			continue
		}
		tag, err := language.Parse(strings.ReplaceAll(token, "_", "-"))
		if err != nil {
			continue
		}
		if region, conf := tag.Region(); conf == language.Exact {
			if code := countryCode(region.String()); code != "" {
				return code
			}
		}
	}
	return ""
}
