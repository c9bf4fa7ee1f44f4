package urlutil

import (
	"net/url"
	"path"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	BoardGreenhouse = "greenhouse"
	BoardLever      = "lever"
)

var staticExtensions = map[string]struct{}{
	".css":   {},
	".gif":   {},
	".ico":   {},
	".jpeg":  {},
	".jpg":   {},
	".js":    {},
	".mp4":   {},
	".pdf":   {},
	".png":   {},
	".svg":   {},
	".woff":  {},
	".woff2": {},
	".zip":   {},
}

var trackingParams = []string{"gclid", "fbclid", "ref", "source"}

// Slug lowercases name, strips accents and joins alphanumeric runs with
// single dashes: "Café Labs, Inc." -> "cafe-labs-inc".
func Slug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}

	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return sb.String()
}

// Normalize cleans a URL for comparison and returns it with its host.
func Normalize(raw string) (string, string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	u.Fragment = ""
	u.Host = normalizeHost(u.Host)
	u.Path = normalizePath(u.Path)
	u.RawQuery = normalizeQuery(u.RawQuery)
	return u.String(), u.Hostname(), nil
}

// Resolve makes href absolute against base. mailto/tel links resolve to "".
func Resolve(base *url.URL, href string) string {
	if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "javascript:") {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	return u.String()
}

// BoardFromURL recognises a hosted job board link and returns its kind and
// board token, e.g. ("greenhouse", "acme") for boards.greenhouse.io/acme.
func BoardFromURL(raw string) (string, string, bool) {
	normalized, host, err := Normalize(raw)
	if err != nil || host == "" {
		return "", "", false
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return "", "", false
	}
	segs := splitPath(u.Path)
	switch {
	case strings.HasSuffix(host, "greenhouse.io"):
		if len(segs) > 0 && segs[0] == "embed" {
			if token := u.Query().Get("for"); token != "" {
				return BoardGreenhouse, token, true
			}
			return "", "", false
		}
		if len(segs) > 0 {
			return BoardGreenhouse, segs[0], true
		}
	case strings.HasSuffix(host, "lever.co"):
		if len(segs) > 0 {
			return BoardLever, segs[0], true
		}
	}
	return "", "", false
}

func IsCrawlable(raw string) bool {
	normalized, host, err := Normalize(raw)
	if err != nil || host == "" {
		return false
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return false
	}
	_, static := staticExtensions[strings.ToLower(path.Ext(u.Path))]
	return !static
}

// SameHost compares hosts ignoring case and a leading www.
func SameHost(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return normalizeHost(a) == normalizeHost(b)
}

func normalizeHost(host string) string {
	host = strings.ToLower(host)
	return strings.TrimPrefix(host, "www.")
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	clean := path.Clean(p)
	if clean == "." {
		return "/"
	}
	return clean
}

func normalizeQuery(raw string) string {
	if raw == "" {
		return ""
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return ""
	}
	for key := range values {
		lk := strings.ToLower(key)
		if strings.HasPrefix(lk, "utm_") {
			delete(values, key)
			continue
		}
		for _, p := range trackingParams {
			if lk == p {
				delete(values, key)
				break
			}
		}
	}
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		for _, v := range values[k] {
			parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(parts, "&")
}

func splitPath(p string) []string {
	var out []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			out = append(out, strings.ToLower(seg))
		}
	}
	return out
}
