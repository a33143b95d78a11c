package protocol

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestXML_DecodeError(t *testing.T) {
	body := []byte(`<Error><Code>NoSuchBucket</Code><Message>The bucket does not exist</Message><Resource>/my-bucket</Resource></Error>`)
	env, err := RestXML{}.DecodeError(DecodeSource{StatusCode: 404, Body: body})
	require.NoError(t, err)
	assert.Equal(t, "NoSuchBucket", env.Code)
	assert.Equal(t, "The bucket does not exist", env.Message)
	assert.Equal(t, "/my-bucket", env.AdditionalFields["Resource"])
}

func TestQuery_EncodeForm_SortedAndIncludesActionVersion(t *testing.T) {
	q := Query{Action: "AssumeRole", Version: "2011-06-15"}
	body := q.EncodeForm(map[string]string{"RoleArn": "arn:aws:iam::123:role/x", "RoleSessionName": "sess"})
	assert.Equal(t, "Action=AssumeRole&RoleArn=arn%3Aaws%3Aiam%3A%3A123%3Arole%2Fx&RoleSessionName=sess&Version=2011-06-15", string(body))
}

func TestQuery_DecodeError(t *testing.T) {
	body := []byte(`<ErrorResponse><Error><Code>ExpiredToken</Code><Message>token expired</Message></Error><RequestId>abc-123</RequestId></ErrorResponse>`)
	env, err := Query{}.DecodeError(DecodeSource{StatusCode: 400, Body: body})
	require.NoError(t, err)
	assert.Equal(t, "ExpiredToken", env.Code)
	assert.Equal(t, "abc-123", env.AdditionalFields["RequestId"])
}

func TestEC2Query_DecodeError(t *testing.T) {
	body := []byte(`<Response><Errors><Error><Code>InvalidInstanceID.NotFound</Code><Message>not found</Message></Error></Errors><RequestID>req-1</RequestID></Response>`)
	env, err := EC2Query{}.DecodeError(DecodeSource{StatusCode: 400, Body: body})
	require.NoError(t, err)
	assert.Equal(t, "InvalidInstanceID.NotFound", env.Code)
	assert.Equal(t, "req-1", env.AdditionalFields["RequestID"])
}

func TestEC2Query_DecodeError_NoErrorElements(t *testing.T) {
	body := []byte(`<Response><Errors></Errors><RequestID>req-2</RequestID></Response>`)
	_, err := EC2Query{}.DecodeError(DecodeSource{StatusCode: 400, Body: body})
	assert.Error(t, err)
}

func TestEncodeDecodeXMLBody_RoundTrip(t *testing.T) {
	type bucket struct {
		XMLName xml.Name `xml:"Bucket"`
		Name    string   `xml:"Name"`
	}
	encoded, err := EncodeXMLBody(bucket{Name: "my-bucket"})
	require.NoError(t, err)

	var decoded bucket
	require.NoError(t, DecodeXMLBody(encoded, &decoded))
	assert.Equal(t, "my-bucket", decoded.Name)
}
