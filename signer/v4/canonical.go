package v4

import (
	"net/url"
	"sort"
	"strings"
)

// =============================================================================
// Canonical URI
// =============================================================================

// canonicalURI URI-encodes each path segment, preserving "/" and any
// already-percent-encoded octets (spec.md: "path encoding preserves %2F
// when already encoded").
func canonicalURI(path string) string {
	if path == "" {
		return "/"
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = encodePathSegment(seg)
	}
	return strings.Join(segments, "/")
}

// encodePathSegment percent-encodes a single path segment using the
// unreserved set A-Z a-z 0-9 - _ . ~, re-encoding a literal "%" so that an
// already-encoded "%2F" survives untouched.
func encodePathSegment(seg string) string {
	var b strings.Builder
	i := 0
	for i < len(seg) {
		c := seg[i]
		if c == '%' && i+2 < len(seg) && isHex(seg[i+1]) && isHex(seg[i+2]) {
			b.WriteByte(c)
			b.WriteByte(seg[i+1])
			b.WriteByte(seg[i+2])
			i += 3
			continue
		}
		if isUnreserved(c) {
			b.WriteByte(c)
		} else {
			b.WriteString(percentEncodeByte(c))
		}
		i++
	}
	return b.String()
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isUnreserved(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.' || c == '~'
}

func percentEncodeByte(c byte) string {
	const hexDigits = "0123456789ABCDEF"
	return string([]byte{'%', hexDigits[c>>4], hexDigits[c&0xf]})
}

// encodeQueryValue percent-encodes a query string key or value using the
// same unreserved set, additionally encoding "/" (spec invariant I3).
func encodeQueryValue(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
		} else {
			b.WriteString(percentEncodeByte(c))
		}
	}
	return b.String()
}

// =============================================================================
// Canonical query string
// =============================================================================

// canonicalQueryString sorts query parameters by key then value and
// percent-encodes them with encodeQueryValue; empty values keep the "=".
func canonicalQueryString(query url.Values) string {
	if len(query) == 0 {
		return ""
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []string
	for _, k := range keys {
		values := append([]string(nil), query[k]...)
		sort.Strings(values)
		encodedKey := encodeQueryValue(k)
		for _, v := range values {
			pairs = append(pairs, encodedKey+"="+encodeQueryValue(v))
		}
	}
	return strings.Join(pairs, "&")
}

// =============================================================================
// Canonical headers
// =============================================================================

// canonicalHeaders renders "name:value\n" lines for each signed header, in
// sorted order, with internal whitespace runs collapsed to a single space.
func canonicalHeaders(headers map[string]string, signedHeaders []string) string {
	var b strings.Builder
	for _, name := range signedHeaders {
		value := collapseWhitespace(strings.TrimSpace(headers[name]))
		b.WriteString(name)
		b.WriteString(":")
		b.WriteString(value)
		b.WriteString("\n")
	}
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// signedHeadersList lower-cases, dedupes and sorts header names into the
// semicolon-joined signed-headers string (spec.md §4.2 step 2).
func signedHeadersList(names []string) (sorted []string, joined string) {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		lower := strings.ToLower(n)
		if headersNeverSigned[lower] || seen[lower] {
			continue
		}
		seen[lower] = true
		sorted = append(sorted, lower)
	}
	sort.Strings(sorted)
	return sorted, strings.Join(sorted, ";")
}

// buildCanonicalRequest assembles the seven-line canonical request
// (spec.md §4.2 step 3).
func buildCanonicalRequest(method, uri, queryString, headers, signedHeaders, payloadHash string) string {
	return method + "\n" +
		uri + "\n" +
		queryString + "\n" +
		headers + "\n" +
		signedHeaders + "\n" +
		payloadHash
}
