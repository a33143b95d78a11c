package awserr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseError_Error(t *testing.T) {
	err := &ResponseError{Code: "ThrottlingException", Context: Context{Message: "Rate exceeded"}}
	assert.Equal(t, "ThrottlingException: Rate exceeded", err.Error())
}

func TestRawError_Error(t *testing.T) {
	err := &RawError{RawBody: "<html>oops</html>", Context: Context{Status: 502}}
	assert.Equal(t, "Unhandled error, code: 502, body: <html>oops</html>", err.Error())
}

func TestClientError_UnwrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &ClientError{Kind: KindInvalidURL, Message: "bad url", Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "InvalidUrl")
}

func TestTransportError_Unwraps(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := &TransportError{Cause: cause}
	assert.ErrorIs(t, err, cause)
}
