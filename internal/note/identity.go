package note

import (
	"encoding/base64"
	"net/url"
	"strings"
)

// IDLength is the maximum length of a derived note id.
const IDLength = 20

// DeriveID maps a page URL to its note id.
//
// YouTube watch URLs collapse to their video id and Udemy URLs lose their
// query string. The normalized URL is base64 encoded, stripped to
// alphanumerics and truncated. The result is lossy: distinct URLs sharing a
// long prefix collide, and ids must stay byte-compatible with existing backups.
func DeriveID(pageURL string) string {
	encoded := base64.StdEncoding.EncodeToString(latin1Bytes(NormalizeURL(pageURL)))

	var b strings.Builder
	for i := 0; i < len(encoded) && b.Len() < IDLength; i++ {
		c := encoded[i]
		if isAlnum(c) {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// NormalizeURL applies the per-site rewrites that precede encoding.
func NormalizeURL(pageURL string) string {
	switch {
	case strings.Contains(pageURL, "youtube.com/watch"):
		return "youtube.com/watch?v=" + queryParam(pageURL, "v")
	case strings.Contains(pageURL, "udemy.com"):
		if i := strings.IndexByte(pageURL, '?'); i >= 0 {
			return pageURL[:i]
		}
		return pageURL
	default:
		return pageURL
	}
}

// queryParam reads key from the URL's query string. A missing key renders as
// "null" so ids match those produced by older clients.
func queryParam(pageURL, key string) string {
	q := ""
	if i := strings.IndexByte(pageURL, '?'); i >= 0 {
		q = pageURL[i+1:]
	}
	if i := strings.IndexByte(q, '#'); i >= 0 {
		q = q[:i]
	}
	// ParseQuery keeps every pair it could decode even when it reports an error.
	values, _ := url.ParseQuery(q)
	if vs, ok := values[key]; ok && len(vs) > 0 {
		return vs[0]
	}
	return "null"
}

// latin1Bytes returns one byte per rune when every rune fits in Latin-1,
// otherwise the UTF-8 bytes.
func latin1Bytes(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return []byte(s)
		}
		out = append(out, byte(r))
	}
	return out
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
