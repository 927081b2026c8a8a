package middleware

import (
	"context"
	"net"
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

// Locales matches requested languages against the supported set.
type Locales struct {
	tags     []language.Tag
	matcher  language.Matcher
	fallback string
}

// NewLocales builds a matcher over supported. The default locale is always
// supported and wins ties.
func NewLocales(defaultLocale string, supported []string) *Locales {
	fallback := language.English
	if tag, err := language.Parse(defaultLocale); err == nil {
		fallback = tag
	}
	tags := []language.Tag{fallback}
	for _, s := range supported {
		tag, err := language.Parse(strings.TrimSpace(s))
		if err != nil || tag == fallback {
			continue
		}
		tags = append(tags, tag)
	}
	return &Locales{tags: tags, matcher: language.NewMatcher(tags), fallback: baseOf(fallback)}
}

// Match returns the supported base language closest to any of the given
// BCP 47 strings or Accept-Language values, or "" when none is confident.
func (l *Locales) Match(candidates ...string) string {
	var desired []language.Tag
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c == "" {
			continue
		}
		if tags, _, err := language.ParseAcceptLanguage(c); err == nil {
			desired = append(desired, tags...)
		}
	}
	if len(desired) == 0 {
		return ""
	}
	_, idx, conf := l.matcher.Match(desired...)
	if conf < language.High {
		return ""
	}
	return baseOf(l.tags[idx])
}

// ForCountry maps an ISO country to its most likely supported language.
func (l *Locales) ForCountry(country string) string {
	if country == "" {
		return ""
	}
	region, err := language.ParseRegion(country)
	if err != nil {
		return ""
	}
	tag, err := language.Compose(language.Und, region)
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	return l.Match(base.String())
}

func (l *Locales) Default() string { return l.fallback }

func baseOf(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

func I18N(locales *Locales, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := ResolveCountry(r, lookup)
			locale := detectLocale(r, locales, country)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			if country != "" {
				ctx = context.WithValue(ctx, CountryKey, strings.ToUpper(country))
			}
			w.Header().Set("Content-Language", locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, locales *Locales, country string) string {
	if v := locales.Match(r.Header.Get("X-Locale")); v != "" {
		return v
	}
	// token locale, set by AuthJWT
	if claimed, ok := r.Context().Value(LocaleKey).(string); ok {
		if v := locales.Match(claimed); v != "" {
			return v
		}
	}
	if v := locales.Match(r.Header.Get("Accept-Language")); v != "" {
		return v
	}
	if v := locales.ForCountry(country); v != "" {
		return v
	}
	return locales.Default()
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
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

// ResolveCountry resolves a best-effort ISO country code for the given request:
// proxy headers first, then the region of the requested locale, then lookup.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	headerHints := []string{"X-Country-Code", "X-IP-Country", "CF-IPCountry", "X-Appengine-Country"}
	for _, key := range headerHints {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
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
			if country, err := lookup(ip); err == nil && country != "" {
				return strings.ToUpper(country)
			}
		}
	}
	return ""
}

func localeRegion(accept string) string {
	for _, part := range strings.Split(accept, ",") {
		token := strings.TrimSpace(strings.Split(part, ";")[0])
		if token == "" {
			continue
		}
		if idx := strings.IndexAny(token, "-_"); idx > 0 && idx < len(token)-1 {
			return strings.ToUpper(token[idx+1:])
		}
	}
	return ""
}
