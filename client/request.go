package client

import (
	"bytes"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/alexander-sdk/core/endpoints"
	"github.com/alexander-sdk/core/protocol"
	"github.com/google/uuid"
)

// buildURL resolves svc's endpoint (spec.md §4.6 step 2: override ->
// per-region map -> per-partition map -> conventional fallback),
// substitutes the operation's path template against container's path
// params, and appends the sorted, percent-encoded query string.
func buildURL(svc endpoints.ServiceConfig, c *protocol.Container) (string, error) {
	host := svc.ResolveHost()
	if c.HostPrefix != "" {
		host = substitutePath(c.HostPrefix, c.PathParams, false) + host
	}

	path := substitutePath(c.PathTemplate, c.PathParams, true)

	u := url.URL{Scheme: "https", Host: host, Path: path}
	u.RawQuery = canonicalQuery(c.Query)
	return u.String(), nil
}

// substitutePath expands "{key}" (component-safe percent-encoding) and
// "{key+}" ("/"-preserving percent-encoding) placeholders against params
// (spec.md §3 "Operation": path templates).
func substitutePath(template string, params map[string]string, leadingSlash bool) string {
	var out strings.Builder
	i := 0
	for i < len(template) {
		if template[i] == '{' {
			end := strings.IndexByte(template[i:], '}')
			if end == -1 {
				out.WriteString(template[i:])
				break
			}
			end += i
			key := template[i+1 : end]
			greedy := strings.HasSuffix(key, "+")
			if greedy {
				key = key[:len(key)-1]
			}
			val := params[key]
			if greedy {
				out.WriteString(encodePathPreservingSlash(val))
			} else {
				out.WriteString(url.PathEscape(val))
			}
			i = end + 1
			continue
		}
		out.WriteByte(template[i])
		i++
	}
	result := out.String()
	if leadingSlash && !strings.HasPrefix(result, "/") {
		result = "/" + result
	}
	return result
}

// encodePathPreservingSlash percent-encodes a path component, keeping "/"
// literal, the "{key+}" form (spec.md §3).
func encodePathPreservingSlash(s string) string {
	segments := strings.Split(s, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// canonicalQuery sorts query params by key and percent-encodes values
// over the unreserved set (spec invariant I3); empty values keep the "=".
func canonicalQuery(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out strings.Builder
	for i, k := range keys {
		if i > 0 {
			out.WriteByte('&')
		}
		out.WriteString(url.QueryEscape(k))
		out.WriteByte('=')
		out.WriteString(url.QueryEscape(params[k]))
	}
	return out.String()
}

// defaultHeaders builds the protocol-dependent default header set (spec.md
// §4.6 step 3): User-Agent, Content-Type, X-Amz-Target for JSON services,
// Content-Length when the body length is known.
func defaultHeaders(svc endpoints.ServiceConfig, op Operation, c *protocol.Container) map[string]string {
	headers := map[string]string{
		"User-Agent":            "alexander-sdk-go/1.0",
		"Amz-Sdk-Invocation-Id": uuid.New().String(),
	}
	if ct := svc.Protocol.ContentType(svc.APIVersion, op.TargetPrefix); ct != "" {
		headers["Content-Type"] = ct
	}
	if svc.Protocol == endpoints.ProtocolJSON && op.TargetPrefix != "" {
		headers["X-Amz-Target"] = op.TargetPrefix + "." + op.Name
	}
	if len(c.Body) > 0 {
		headers["Content-Length"] = strconv.Itoa(len(c.Body))
	}
	return headers
}

// bodyReader returns body as an io.Reader, or nil for an empty body
// (spec.md §3 "HttpRequest/HttpResponse": "body is empty | bytes |
// byte_stream").
func bodyReader(body []byte) io.Reader {
	if len(body) == 0 {
		return nil
	}
	return bytes.NewReader(body)
}
