package protocol

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"sort"
	"strconv"
)

// Query is the query protocol codec (STS, SQS-style): input members
// serialize as a sorted, form-urlencoded member=value body; errors
// decode from the `<ErrorResponse><Error>` shape. ec2_query uses the
// same request encoding with PascalCase member keys and the
// `<Response><Errors><Error>` error shape, so EC2Query embeds Query and
// overrides Name and DecodeError.
type Query struct {
	// Action and Version are injected as fixed form fields, the way
	// every query-protocol operation requires (spec.md §3 api_version).
	Action  string
	Version string
}

func (Query) Name() string { return "query" }

// EncodeForm builds the sorted, percent-encoded form body from a flat
// member map, the table-driven mapping style
// internal/serialization/serialization.go uses for column ordering,
// adapted from SQL columns to wire form fields.
func (q Query) EncodeForm(members map[string]string) []byte {
	values := url.Values{}
	if q.Action != "" {
		values.Set("Action", q.Action)
	}
	if q.Version != "" {
		values.Set("Version", q.Version)
	}
	keys := make([]string, 0, len(members))
	for k := range members {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values.Set(k, members[k])
	}
	return []byte(values.Encode())
}

type queryErrorResponse struct {
	XMLName xml.Name `xml:"ErrorResponse"`
	Error   struct {
		Code    string `xml:"Code"`
		Message string `xml:"Message"`
	} `xml:"Error"`
	RequestID string `xml:"RequestId"`
}

func (Query) DecodeError(src DecodeSource) (ErrorEnvelope, error) {
	var parsed queryErrorResponse
	if err := xml.Unmarshal(src.Body, &parsed); err != nil {
		return ErrorEnvelope{}, fmt.Errorf("query: decoding error body: %w", err)
	}
	return ErrorEnvelope{
		Code:    parsed.Error.Code,
		Message: parsed.Error.Message,
		AdditionalFields: map[string]string{
			"RequestId": parsed.RequestID,
		},
	}, nil
}

// EC2Query is the ec2_query protocol: same form-body encoding as Query,
// but the flatter EC2-style error envelope (`<Errors><Error>` under a
// top-level `<Response>`).
type EC2Query struct {
	Query
}

func (EC2Query) Name() string { return "ec2_query" }

type ec2ErrorResponse struct {
	XMLName xml.Name `xml:"Response"`
	Errors  struct {
		Error []struct {
			Code    string `xml:"Code"`
			Message string `xml:"Message"`
		} `xml:"Error"`
	} `xml:"Errors"`
	RequestID string `xml:"RequestID"`
}

func (EC2Query) DecodeError(src DecodeSource) (ErrorEnvelope, error) {
	var parsed ec2ErrorResponse
	if err := xml.Unmarshal(src.Body, &parsed); err != nil {
		return ErrorEnvelope{}, fmt.Errorf("ec2_query: decoding error body: %w", err)
	}
	if len(parsed.Errors.Error) == 0 {
		return ErrorEnvelope{}, fmt.Errorf("ec2_query: no <Error> elements in response")
	}
	first := parsed.Errors.Error[0]
	return ErrorEnvelope{
		Code:    first.Code,
		Message: first.Message,
		AdditionalFields: map[string]string{
			"RequestID": parsed.RequestID,
			"count":     strconv.Itoa(len(parsed.Errors.Error)),
		},
	}, nil
}
