package paypal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-paywall/internal/adapter"
	"github.com/feral-file/ff-paywall/internal/logger"
)

//go:generate mockgen -source=verifier.go -destination=../mocks/verifier.go -package=mocks -mock_names=Verifier=MockVerifier

const (
	// verifyCommand is prepended to the echoed notification
	verifyCommand = "cmd=_notify-validate"
	// replyVerified is PayPal's exact positive answer
	replyVerified = "VERIFIED"
	// maxReplySize caps how much of a verification reply is read
	maxReplySize = 4 * 1024
)

// Result is the outcome of a verification round-trip
type Result string

const (
	ResultVerified         Result = "VERIFIED"
	ResultNotVerified      Result = "NOT_VERIFIED"
	ResultTransportFailure Result = "TRANSPORT_FAILURE"
)

// Verification describes a finished round-trip
type Verification struct {
	Result Result
	// Response is the trimmed reply body
	Response string
	// Attempts is the number of POSTs made
	Attempts int
	// Err explains a transport failure
	Err error
}

// Verifier asks PayPal whether a notification is genuine
type Verifier interface {
	Verify(ctx context.Context, form Form) Verification
}

// VerifierConfig holds the endpoint and retry policy
type VerifierConfig struct {
	// URL is the full verification endpoint
	URL string
	// Host is sent as the Host header
	Host string
	// Attempts is the maximum number of POSTs, at least 1
	Attempts int
	// RetryInterval is the pause between attempts after a non-200 reply
	RetryInterval time.Duration
}

type verifier struct {
	config     VerifierConfig
	httpClient adapter.HTTPClient
	io         adapter.IO
}

// NewVerifier creates a verifier. The HTTP client is expected to enforce the per-attempt timeout.
func NewVerifier(cfg VerifierConfig, httpClient adapter.HTTPClient, ioAdapter adapter.IO) Verifier {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	return &verifier{config: cfg, httpClient: httpClient, io: ioAdapter}
}

func (v *verifier) Verify(ctx context.Context, form Form) Verification {
	body := verifyCommand
	if len(form) > 0 {
		body += "&" + form.Encode()
	}
	headers := map[string]string{
		"Host":         v.config.Host,
		"Content-Type": "application/x-www-form-urlencoded",
		"Connection":   "Close",
	}

	var (
		reply    string
		attempts int
	)

	operation := func() error {
		attempts++
		resp, err := v.httpClient.PostWithHeadersNoRetry(ctx, v.config.URL, headers, strings.NewReader(body))
		if err != nil {
			// Connection errors end the round-trip
			return backoff.Permanent(err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logger.WarnCtx(ctx, "failed to close verification response body", zap.Error(err))
			}
		}()

		data, err := v.io.ReadAll(resp.Body, maxReplySize)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to read verification reply: %w", err))
		}

		if resp.StatusCode != http.StatusOK {
			logger.DebugCtx(ctx, "unexpected verification response code",
				zap.Int("status_code", resp.StatusCode),
				zap.Int("attempt", attempts))
			return fmt.Errorf("unexpected status code %d", resp.StatusCode)
		}

		reply = strings.TrimSpace(string(data))
		return nil
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(v.config.RetryInterval), uint64(v.config.Attempts-1)), //nolint:gosec,G115
		ctx)

	if err := backoff.Retry(operation, b); err != nil {
		return Verification{Result: ResultTransportFailure, Attempts: attempts, Err: err}
	}

	logger.DebugCtx(ctx, "verification response", zap.String("response", reply), zap.Int("attempts", attempts))

	switch reply {
	case "":
		return Verification{Result: ResultTransportFailure, Attempts: attempts, Err: errors.New("empty verification reply")}
	case replyVerified:
		return Verification{Result: ResultVerified, Response: reply, Attempts: attempts}
	default:
		return Verification{Result: ResultNotVerified, Response: reply, Attempts: attempts}
	}
}
