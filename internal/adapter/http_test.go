package adapter

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealHTTPClient_PostWithHeadersNoRetry(t *testing.T) {
	var (
		gotHost   string
		gotProto  string
		gotClose  bool
		gotType   string
		gotBody   string
		gotMethod string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Host
		gotProto = r.Proto
		gotClose = r.Close
		gotType = r.Header.Get("Content-Type")
		gotMethod = r.Method
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("VERIFIED"))
	}))
	defer server.Close()

	client := NewHTTPClient(5 * time.Second)
	resp, err := client.PostWithHeadersNoRetry(context.Background(), server.URL, map[string]string{
		"Host":         "ipnpb.paypal.com",
		"Content-Type": "application/x-www-form-urlencoded",
		"Connection":   "Close",
	}, strings.NewReader("cmd=_notify-validate&a=b"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "VERIFIED", string(body))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "ipnpb.paypal.com", gotHost)
	assert.Equal(t, "HTTP/1.1", gotProto)
	assert.True(t, gotClose)
	assert.Equal(t, "application/x-www-form-urlencoded", gotType)
	assert.Equal(t, "cmd=_notify-validate&a=b", gotBody)
}

func TestRealHTTPClient_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewHTTPClient(time.Second)
	resp, err := client.PostWithHeadersNoRetry(context.Background(), url, nil, strings.NewReader(""))
	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestRealIO_ReadAllLimit(t *testing.T) {
	b, err := NewIO().ReadAll(strings.NewReader("0123456789"), 4)
	require.NoError(t, err)
	assert.Equal(t, "0123", string(b))
}
