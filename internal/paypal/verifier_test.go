package paypal_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-paywall/internal/adapter"
	"github.com/feral-file/ff-paywall/internal/mocks"
	"github.com/feral-file/ff-paywall/internal/paypal"
)

func newTestVerifier(url string, attempts int) paypal.Verifier {
	return paypal.NewVerifier(paypal.VerifierConfig{
		URL:           url,
		Host:          "ipnpb.sandbox.paypal.com",
		Attempts:      attempts,
		RetryInterval: time.Millisecond,
	}, adapter.NewHTTPClient(5*time.Second), adapter.NewIO())
}

func TestVerifier_Verify(t *testing.T) {
	form := paypal.Form{{"txn_id", "T1"}, {"item_name", "Art module"}}

	tests := []struct {
		name             string
		responses        []func(w http.ResponseWriter)
		expectedResult   paypal.Result
		expectedResponse string
		expectedAttempts int
	}{
		{
			name: "verified on first attempt",
			responses: []func(w http.ResponseWriter){
				func(w http.ResponseWriter) { _, _ = w.Write([]byte("VERIFIED\r\n")) },
			},
			expectedResult:   paypal.ResultVerified,
			expectedResponse: "VERIFIED",
			expectedAttempts: 1,
		},
		{
			name: "invalid reply",
			responses: []func(w http.ResponseWriter){
				func(w http.ResponseWriter) { _, _ = w.Write([]byte("INVALID")) },
			},
			expectedResult:   paypal.ResultNotVerified,
			expectedResponse: "INVALID",
			expectedAttempts: 1,
		},
		{
			name: "retries non-200 then verifies",
			responses: []func(w http.ResponseWriter){
				func(w http.ResponseWriter) { w.WriteHeader(http.StatusServiceUnavailable) },
				func(w http.ResponseWriter) { w.WriteHeader(http.StatusInternalServerError) },
				func(w http.ResponseWriter) { _, _ = w.Write([]byte("VERIFIED")) },
			},
			expectedResult:   paypal.ResultVerified,
			expectedResponse: "VERIFIED",
			expectedAttempts: 3,
		},
		{
			name: "empty reply is a transport failure",
			responses: []func(w http.ResponseWriter){
				func(w http.ResponseWriter) { w.WriteHeader(http.StatusOK) },
			},
			expectedResult:   paypal.ResultTransportFailure,
			expectedAttempts: 1,
		},
		{
			name: "exhausted retries",
			responses: []func(w http.ResponseWriter){
				func(w http.ResponseWriter) { w.WriteHeader(http.StatusBadGateway) },
			},
			expectedResult:   paypal.ResultTransportFailure,
			expectedAttempts: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			var lastBody atomic.Value
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := int(atomic.AddInt32(&calls, 1))
				b, _ := io.ReadAll(r.Body)
				lastBody.Store(string(b))
				idx := n - 1
				if idx >= len(tt.responses) {
					idx = len(tt.responses) - 1
				}
				tt.responses[idx](w)
			}))
			defer server.Close()

			v := newTestVerifier(server.URL, 5)
			result := v.Verify(context.Background(), form)

			assert.Equal(t, tt.expectedResult, result.Result)
			assert.Equal(t, tt.expectedResponse, result.Response)
			assert.Equal(t, tt.expectedAttempts, result.Attempts)
			assert.Equal(t, tt.expectedAttempts, int(atomic.LoadInt32(&calls)))
			assert.Equal(t, "cmd=_notify-validate&txn_id=T1&item_name=Art+module", lastBody.Load())
		})
	}
}

func TestVerifier_ConnectionErrorIsNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		PostWithHeadersNoRetry(gomock.Any(), "https://ipnpb.paypal.com/cgi-bin/webscr", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, headers map[string]string, _ io.Reader) (*http.Response, error) {
			assert.Equal(t, "ipnpb.paypal.com", headers["Host"])
			assert.Equal(t, "application/x-www-form-urlencoded", headers["Content-Type"])
			assert.Equal(t, "Close", headers["Connection"])
			return nil, errors.New("connection refused")
		}).
		Times(1)

	v := paypal.NewVerifier(paypal.VerifierConfig{
		URL:           "https://ipnpb.paypal.com/cgi-bin/webscr",
		Host:          "ipnpb.paypal.com",
		Attempts:      5,
		RetryInterval: time.Millisecond,
	}, httpClient, mocks.NewMockIO(ctrl))

	result := v.Verify(context.Background(), paypal.Form{{"txn_id", "T1"}})
	assert.Equal(t, paypal.ResultTransportFailure, result.Result)
	assert.Equal(t, 1, result.Attempts)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "connection refused")
}

func TestVerifier_ReadErrorIsTransportFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	ioAdapter := mocks.NewMockIO(ctrl)

	httpClient.EXPECT().
		PostWithHeadersNoRetry(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("VERIFIED"))}, nil)
	ioAdapter.EXPECT().ReadAll(gomock.Any(), int64(4096)).Return(nil, errors.New("reset by peer"))

	v := paypal.NewVerifier(paypal.VerifierConfig{URL: "https://x/cgi-bin/webscr", Host: "x", Attempts: 5}, httpClient, ioAdapter)
	result := v.Verify(context.Background(), nil)
	assert.Equal(t, paypal.ResultTransportFailure, result.Result)
	assert.Equal(t, 1, result.Attempts)
}

func TestVerifier_ContextCancelledStopsRetrying(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := paypal.NewVerifier(paypal.VerifierConfig{URL: server.URL, Host: "h", Attempts: 5, RetryInterval: time.Hour},
		adapter.NewHTTPClient(time.Second), adapter.NewIO())
	result := v.Verify(ctx, paypal.Form{{"a", "b"}})
	assert.Equal(t, paypal.ResultTransportFailure, result.Result)
}
