package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alexander-sdk/core/transport"
)

// S3MiddlewareConfig configures S3Middleware's behaviors (spec.md §4.5:
// "virtual-hosted-style bucket addressing, accelerate endpoint rewrite,
// Expect: 100-continue for large PUTs, CreateBucket location-constraint
// XML injection, synthetic error body for HEAD 404s").
type S3MiddlewareConfig struct {
	Bucket string
	Region string

	// Accelerate rewrites the host to the s3-accelerate endpoint.
	Accelerate bool

	// ExpectContinueThreshold is the body size above which
	// "Expect: 100-continue" is set on PUT requests. Zero disables it.
	ExpectContinueThreshold int64

	// IsCreateBucket marks this request as CreateBucket, triggering
	// location-constraint XML body injection for non-us-east-1 regions.
	IsCreateBucket bool

	// IsHead marks this request as a HEAD operation, so a 404 response
	// gets a synthetic XML error body (HEAD responses have none on the
	// wire).
	IsHead bool
}

// S3Middleware implements S3's bucket-addressing and request-shaping
// quirks (spec.md §4.5).
func S3Middleware(cfg S3MiddlewareConfig) Middleware {
	return Middleware{
		Name: "S3",
		OnRequest: func(req transport.Request, ctx Context) (transport.Request, error) {
			if cfg.Bucket != "" {
				u, err := url.Parse(req.URL)
				if err == nil {
					host := u.Host
					if cfg.Accelerate {
						host = "s3-accelerate.amazonaws.com"
					}
					u.Host = cfg.Bucket + "." + host
					u.Path = strings.TrimPrefix(u.Path, "/"+cfg.Bucket)
					req.URL = u.String()
				}
			}

			if req.Method == http.MethodPut && cfg.ExpectContinueThreshold > 0 {
				if sz, err := strconv.ParseInt(req.Headers["Content-Length"], 10, 64); err == nil && sz > cfg.ExpectContinueThreshold {
					if req.Headers == nil {
						req.Headers = map[string]string{}
					}
					req.Headers["Expect"] = "100-continue"
				}
			}

			if cfg.IsCreateBucket && cfg.Region != "" && cfg.Region != "us-east-1" {
				body := locationConstraintXML(cfg.Region)
				req.Body = strings.NewReader(body)
				if req.Headers == nil {
					req.Headers = map[string]string{}
				}
				req.Headers["Content-Length"] = strconv.Itoa(len(body))
			}

			return req, nil
		},
		OnResponse: func(resp *transport.Response, ctx Context) (*transport.Response, error) {
			if cfg.IsHead && resp.StatusCode == http.StatusNotFound && len(resp.Body) == 0 {
				resp.Body = []byte(`<?xml version="1.0" encoding="UTF-8"?>` +
					`<Error><Code>NotFound</Code><Message>Not Found</Message></Error>`)
			}
			return resp, nil
		},
	}
}

func locationConstraintXML(region string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		`<CreateBucketConfiguration xmlns="http://s3.amazonaws.com/doc/2006-03-01/">` +
		`<LocationConstraint>` + region + `</LocationConstraint>` +
		`</CreateBucketConfiguration>`
}
