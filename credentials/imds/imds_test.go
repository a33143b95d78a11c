package imds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_V2TokenHandshakeThenCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == tokenPath:
			w.Write([]byte("test-token"))
		case r.URL.Path == securityCredsPath:
			assert.Equal(t, "test-token", r.Header.Get(tokenHeader))
			w.Write([]byte("my-role"))
		case r.URL.Path == securityCredsPath+"my-role":
			assert.Equal(t, "test-token", r.Header.Get(tokenHeader))
			w.Write([]byte(`{"Code":"Success","AccessKeyId":"AKID","SecretAccessKey":"SECRET","Token":"TOK","Expiration":"` +
				time.Now().Add(time.Hour).UTC().Format(time.RFC3339) + `"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := &Provider{Endpoint: srv.URL, Version: V2, Client: srv.Client()}
	cred, err := p.Retrieve(context.Background(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "AKID", cred.AccessKeyID)
	assert.Equal(t, "TOK", cred.SessionToken)
	assert.True(t, cred.HasExpiration())
}

func TestProvider_V1SkipsTokenHandshake(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(tokenHeader))
		switch r.URL.Path {
		case securityCredsPath:
			w.Write([]byte("my-role"))
		case securityCredsPath + "my-role":
			w.Write([]byte(`{"AccessKeyId":"AKID","SecretAccessKey":"SECRET"}`))
		}
	}))
	defer srv.Close()

	p := &Provider{Endpoint: srv.URL, Version: V1, Client: srv.Client()}
	cred, err := p.Retrieve(context.Background(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "AKID", cred.AccessKeyID)
}
