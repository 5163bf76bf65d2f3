package sweeper

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-paywall/internal/adapter"
	"github.com/feral-file/ff-paywall/internal/domain"
	"github.com/feral-file/ff-paywall/internal/logger"
	"github.com/feral-file/ff-paywall/internal/notification"
	"github.com/feral-file/ff-paywall/internal/store"
	"github.com/feral-file/ff-paywall/internal/store/schema"
)

const subjectStaleVerification = "Payment verification did not complete"

// StaleVerificationSweeperConfig holds configuration for the stale verification sweeper
type StaleVerificationSweeperConfig struct {
	StaleAfter time.Duration // Provisional rows older than this are reported
	Interval   time.Duration // Time to sleep between sweep cycles
	BatchSize  int           // Rows loaded per query
}

// staleVerificationSweeper reports ToBeVerified rows whose verification
// round-trip never finished. Rows are left in place for an administrator.
type staleVerificationSweeper struct {
	config    *StaleVerificationSweeperConfig
	store     store.Store
	alerter   notification.Alerter
	clock     adapter.Clock
	running   atomic.Bool
	stopOnce  sync.Once
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewStaleVerificationSweeper creates a new stale verification sweeper
func NewStaleVerificationSweeper(
	config *StaleVerificationSweeperConfig,
	st store.Store,
	alerter notification.Alerter,
	clock adapter.Clock,
) Sweeper {
	return &staleVerificationSweeper{
		config:    config,
		store:     st,
		alerter:   alerter,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *staleVerificationSweeper) Name() string {
	return "stale-verification-sweeper"
}

// Start runs sweep cycles every Interval until the context is canceled or Stop is called
func (s *staleVerificationSweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting stale verification sweeper",
		zap.Duration("stale_after", s.config.StaleAfter),
		zap.Duration("interval", s.config.Interval),
		zap.Int("batch_size", s.config.BatchSize),
	)

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Stale verification sweeper stopping due to context cancellation", zap.Error(ctx.Err()))
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Stale verification sweeper stop requested")
			return nil
		default:
			if err := s.runSweepCycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorCtx(ctx, err)
			}
			s.sleep(ctx, s.config.Interval)
		}
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *staleVerificationSweeper) Stop(ctx context.Context) error {
	if !s.running.Load() {
		return nil
	}

	logger.InfoCtx(ctx, "Stopping stale verification sweeper")

	s.stopOnce.Do(func() { close(s.stopChan) })

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Stale verification sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Stale verification sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runSweepCycle walks every stale provisional row once
func (s *staleVerificationSweeper) runSweepCycle(ctx context.Context) error {
	startTime := s.clock.Now()
	olderThan := startTime.Add(-s.config.StaleAfter)

	var afterID uint64
	var alerted, known, failed int
	for {
		rows, err := s.store.GetStaleProvisionalTransactions(ctx, olderThan, afterID, s.config.BatchSize)
		if err != nil {
			return fmt.Errorf("failed to get stale provisional transactions: %w", err)
		}

		for _, row := range rows {
			afterID = row.ID

			sent, err := s.alertOnce(ctx, row)
			switch {
			case err != nil:
				failed++
				logger.ErrorCtx(ctx, err, zap.Uint64("id", row.ID), zap.String("txn_id", row.TxnID))
			case sent:
				alerted++
			default:
				known++
			}
		}

		if len(rows) < s.config.BatchSize {
			break
		}
	}

	logger.InfoCtx(ctx, "Sweep cycle completed",
		zap.Duration("duration", s.clock.Since(startTime)),
		zap.Int("alerted", alerted),
		zap.Int("already_alerted", known),
		zap.Int("failed", failed),
	)

	return nil
}

// alertOnce reports a row unless its marker exists. It returns whether an alert went out.
func (s *staleVerificationSweeper) alertOnce(ctx context.Context, row *schema.Transaction) (bool, error) {
	key := StaleAlertKey(row.ID)

	marker, err := s.store.GetKeyValue(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read stale alert marker: %w", err)
	}
	if marker != "" {
		return false, nil
	}

	logger.WarnCtx(ctx, "Payment verification did not complete",
		zap.Uint64("id", row.ID),
		zap.String("txn_id", row.TxnID),
		zap.Int64("user_id", row.UserID),
		zap.Int64("context_id", row.ContextID),
		zap.Time("timeupdated", row.TimeUpdated),
	)
	s.alerter.AlertAdmins(ctx, subjectStaleVerification, staleFields(row))

	if err := s.markAlerted(ctx, key); err != nil {
		return true, err
	}
	return true, nil
}

// markAlerted writes the marker, retrying briefly so one blip does not re-alert next cycle
func (s *staleVerificationSweeper) markAlerted(ctx context.Context, key string) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	value := s.clock.Now().UTC().Format(time.RFC3339)
	operation := func() error {
		return s.store.SetKeyValue(ctx, key, value)
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("failed to write stale alert marker: %w", err)
	}
	return nil
}

func (s *staleVerificationSweeper) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-s.stopChan:
		return false
	}
}

// StaleAlertKey is the key-value marker of a reported row
func StaleAlertKey(id uint64) string {
	return domain.STALE_ALERT_KEY_PREFIX + strconv.FormatUint(id, 10)
}

func staleFields(row *schema.Transaction) []notification.Field {
	return []notification.Field{
		{Key: "id", Value: strconv.FormatUint(row.ID, 10)},
		{Key: "txn_id", Value: row.TxnID},
		{Key: "item_name", Value: row.ItemName},
		{Key: "mc_gross", Value: row.PaymentGross},
		{Key: "mc_currency", Value: row.PaymentCurrency},
		{Key: "userid", Value: strconv.FormatInt(row.UserID, 10)},
		{Key: "contextid", Value: strconv.FormatInt(row.ContextID, 10)},
		{Key: "sectionid", Value: strconv.FormatInt(row.SectionID, 10)},
		{Key: "timeupdated", Value: strconv.FormatInt(row.TimeUpdated.Unix(), 10)},
	}
}
