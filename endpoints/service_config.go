// Package endpoints implements the per-service endpoint resolution model
// (spec.md §3, §4.6 step 2): ServiceConfig, and resolving a request's host
// from the override, per-region map, per-partition map, or the
// conventional "<service>.<region>.<partition DNS suffix>" fallback
// (amazonaws.com for the aws partition).
package endpoints

import (
	"time"

	"github.com/alexander-sdk/core/aws"
	"github.com/alexander-sdk/core/middleware"
	"github.com/alexander-sdk/core/protocol"
)

// Protocol names the wire protocol a service uses (spec.md §3).
type Protocol string

const (
	ProtocolJSON     Protocol = "json"
	ProtocolRestJSON Protocol = "rest_json"
	ProtocolRestXML  Protocol = "rest_xml"
	ProtocolQuery    Protocol = "query"
	ProtocolEC2Query Protocol = "ec2_query"
)

// Options is a bitset of per-service behavior toggles (spec.md §3
// "options: bitset").
type Options uint32

const (
	OptionDualStack Options = 1 << iota
	OptionFIPS
	OptionAccelerate
	OptionForcePathStyle
)

func (o Options) Has(flag Options) bool { return o&flag != 0 }

// ServiceConfig is the per-service immutable bundle every operation is
// dispatched against (spec.md §3).
type ServiceConfig struct {
	Region           aws.Region
	Partition        aws.Partition
	ServiceID        string
	SigningName      string
	APIVersion       string
	Protocol         Protocol
	EndpointOverride string

	// ServiceEndpoints maps region -> endpoint host, taking priority over
	// PartitionEndpoints.
	ServiceEndpoints map[aws.Region]string
	// PartitionEndpoints maps partition -> endpoint host, used when no
	// per-region entry exists.
	PartitionEndpoints map[aws.Partition]string

	Options     Options
	Timeout     time.Duration
	Middlewares []middleware.Middleware

	// Codec is the wire protocol codec client.Execute consults for error
	// decoding (spec.md §4.6 step 9, §6 "Codec collaborators"). With a nil
	// Codec, a non-2xx response surfaces as awserr.RawError unless its
	// x-amzn-ErrorType header supplies the error code.
	Codec protocol.Codec

	// PossibleErrors maps a protocol error code to a constructor for a
	// typed error, consulted during response decoding (spec.md §4.6
	// step 9).
	PossibleErrors map[string]func(Context) error
}

// Context is the decoded error envelope passed to a PossibleErrors
// constructor.
type Context struct {
	Message          string
	Status           int
	Headers          map[string]string
	AdditionalFields map[string]string
}

// ResolveHost picks the host to dispatch to, in spec.md §4.6 step 2's
// priority order: explicit override, per-service region map, per-
// partition map, then the conventional "<service>.<region>.<suffix>"
// fallback, where suffix is the DNS suffix of the region's partition
// (amazonaws.com for the aws partition).
func (c ServiceConfig) ResolveHost() string {
	if c.EndpointOverride != "" {
		return c.EndpointOverride
	}
	if host, ok := c.ServiceEndpoints[c.Region]; ok {
		return host
	}
	if host, ok := c.PartitionEndpoints[c.Partition]; ok {
		return host
	}
	return c.ServiceID + "." + string(c.Region) + "." + aws.PartitionForRegion(c.Region).DNSSuffix()
}

// ContentType returns the protocol-dependent Content-Type header (spec.md
// §4.6 step 3).
func (p Protocol) ContentType(apiVersion, targetPrefix string) string {
	switch p {
	case ProtocolJSON:
		return "application/x-amz-json-1.1"
	case ProtocolQuery, ProtocolEC2Query:
		return "application/x-www-form-urlencoded; charset=utf-8"
	case ProtocolRestXML:
		return "application/xml"
	default:
		return "application/octet-stream"
	}
}
