package ipn

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/feral-file/ff-paywall/internal/adapter"
	"github.com/feral-file/ff-paywall/internal/availability"
	"github.com/feral-file/ff-paywall/internal/domain"
	"github.com/feral-file/ff-paywall/internal/logger"
	"github.com/feral-file/ff-paywall/internal/notification"
	"github.com/feral-file/ff-paywall/internal/paypal"
	"github.com/feral-file/ff-paywall/internal/store"
	"github.com/feral-file/ff-paywall/internal/store/schema"
)

//go:generate mockgen -source=handler.go -destination=../mocks/ipn.go -package=mocks -mock_names=Handler=MockIPNHandler

// Result is the final decision for one notification
type Result string

const (
	ResultAccepted Result = "ACCEPTED"
	ResultRejected Result = "REJECTED"
	ResultAborted  Result = "ABORTED"
)

// State is the step at which processing of a notification stopped
type State string

const (
	StateReceived           State = "RECEIVED"
	StateVerified           State = "VERIFIED"
	StateVerificationFailed State = "VERIFICATION_FAILED"
	StateTransportFailed    State = "TRANSPORT_FAILED"
	StateReconciled         State = "RECONCILED"
	StateTerminalRecorded   State = "TERMINAL_RECORDED"
	StateProvisionalCleared State = "PROVISIONAL_CLEARED"
)

// Alert subjects sent to administrators
const (
	subjectInvalidUser       = "Not a valid user id"
	subjectInvalidContext    = "Not a valid context id"
	subjectConditionNotFound = "PayPal condition not found while processing incoming IPN"
	subjectTransportFailure  = "Could not access paypal.com to verify payment"
	subjectVerifyFailed      = "Payment verification failed"
)

// Request is an inbound webhook call
type Request struct {
	Method   string
	RawQuery string
	Body     []byte
}

// Outcome reports what happened to a notification
type Outcome struct {
	Result Result
	State  State
	Reason string
}

// Handler processes PayPal instant payment notifications
type Handler interface {
	// Handle runs one notification through verification and reconciliation.
	// The outcome is informational; PayPal always gets an empty 200.
	Handle(ctx context.Context, req Request) Outcome
}

// Dependencies are the collaborators of the handler
type Dependencies struct {
	Store    store.Store
	Resolver availability.Resolver
	Verifier paypal.Verifier
	Alerter  notification.Alerter
	Clock    adapter.Clock
	JSON     adapter.JSON
}

type handler struct {
	deps Dependencies
}

// NewHandler creates a notification handler
func NewHandler(deps Dependencies) Handler {
	return &handler{deps: deps}
}

// exchange carries one notification through the steps of Handle
type exchange struct {
	notification paypal.Notification
	correlation  domain.Correlation
	user         *schema.User
	resource     *availability.Resource
	raw          []byte
	receivedAt   time.Time
	// extra is appended to the transaction data of alerts
	extra []notification.Field
}

func (h *handler) Handle(ctx context.Context, req Request) Outcome {
	if req.Method != http.MethodPost || req.RawQuery != "" || len(req.Body) == 0 {
		logger.DebugCtx(ctx, "Ignoring IPN request", zap.String("method", req.Method), zap.Bool("has_query", req.RawQuery != ""))
		return aborted(StateReceived, "unsupported request")
	}

	form, err := paypal.ParseForm(string(req.Body))
	if err != nil || len(form) == 0 {
		logger.DebugCtx(ctx, "Ignoring IPN with unreadable body", zap.Error(err))
		return aborted(StateReceived, "unreadable body")
	}

	n := paypal.NewNotification(form)
	corr, err := domain.ParseCorrelation(n.Custom)
	if err != nil {
		logger.DebugCtx(ctx, "IPN custom value does not match expected format", zap.String("custom", n.Custom))
		return aborted(StateReceived, err.Error())
	}

	x := &exchange{
		notification: n,
		correlation:  corr,
		receivedAt:   h.deps.Clock.Now(),
	}
	x.raw, err = h.deps.JSON.Marshal(form)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to encode IPN payload: %w", err))
		return aborted(StateReceived, "failed to encode payload")
	}

	logger.DebugCtx(ctx, "Incoming IPN notification",
		zap.String("txn_id", n.TxnID),
		zap.String("payment_status", string(n.PaymentStatus)),
		zap.String("correlation", corr.String()))

	if outcome, ok := h.resolve(ctx, x); !ok {
		return outcome
	}

	if _, err := h.deps.Store.CreateTransaction(ctx, x.input(domain.PaymentStatusToBeVerified), true); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to record provisional transaction: %w", err), zap.String("txn_id", n.TxnID))
		return aborted(StateReceived, "failed to record provisional transaction")
	}

	verification := h.deps.Verifier.Verify(ctx, form)
	logger.DebugCtx(ctx, "IPN verification response",
		zap.String("result", string(verification.Result)),
		zap.String("response", verification.Response),
		zap.Int("attempts", verification.Attempts))

	var outcome Outcome
	switch verification.Result {
	case paypal.ResultVerified:
		outcome = h.reconcile(ctx, x)
	case paypal.ResultNotVerified:
		outcome = h.recordUnverified(ctx, x, verification)
	default:
		// The provisional row is kept for manual inspection
		if verification.Err != nil {
			x.extra = append(x.extra, notification.Field{Key: "verification_error", Value: verification.Err.Error()})
		}
		h.alert(ctx, x, subjectTransportFailure)
		return Outcome{Result: ResultRejected, State: StateTransportFailed, Reason: subjectTransportFailure}
	}

	if outcome.Result == ResultAborted {
		return outcome
	}
	if !h.clearProvisional(ctx, x) && outcome.Result == ResultAccepted {
		outcome.State = StateTerminalRecorded
	}
	return outcome
}

// resolve loads the payer and the guarded resource. It reports false with the outcome when processing must stop.
func (h *handler) resolve(ctx context.Context, x *exchange) (Outcome, bool) {
	user, err := h.deps.Store.GetUserByID(ctx, x.correlation.UserID)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to load user: %w", err), zap.Int64("user_id", x.correlation.UserID))
		return aborted(StateReceived, "failed to load user"), false
	}
	if user == nil {
		h.alert(ctx, x, subjectInvalidUser)
		return rejected(StateReceived, subjectInvalidUser), false
	}
	x.user = user

	resource, err := h.deps.Resolver.Resolve(ctx, x.correlation.ContextID, x.correlation.SectionID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrContextNotFound):
		h.alert(ctx, x, subjectInvalidContext)
		return rejected(StateReceived, subjectInvalidContext), false
	case errors.Is(err, domain.ErrConditionNotFound), errors.Is(err, domain.ErrInvalidCondition):
		logger.WarnCtx(ctx, "PayPal condition not usable", zap.Error(err), zap.Int64("context_id", x.correlation.ContextID))
		h.alert(ctx, x, subjectConditionNotFound)
		return rejected(StateReceived, subjectConditionNotFound), false
	default:
		logger.ErrorCtx(ctx, fmt.Errorf("failed to resolve condition: %w", err), zap.Int64("context_id", x.correlation.ContextID))
		return aborted(StateReceived, "failed to resolve condition"), false
	}
	x.resource = resource

	return Outcome{}, true
}

// reconcile applies the business rules to a verified notification and records the terminal row
func (h *handler) reconcile(ctx context.Context, x *exchange) Outcome {
	n := x.notification

	replayed, err := h.deps.Store.TransactionExists(ctx, store.TransactionFilter{
		TxnID:         &n.TxnID,
		PaymentStatus: &n.PaymentStatus,
		PendingReason: &n.PendingReason,
	})
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to check for replay: %w", err), zap.String("txn_id", n.TxnID))
		return aborted(StateVerified, "failed to check for replay")
	}
	if replayed {
		return h.reject(ctx, x, repeatedSubject(n.TxnID))
	}

	if !n.PaymentStatus.IsAccepted() {
		return h.reject(ctx, x, "Status neither completed nor pending: "+string(n.PaymentStatus))
	}

	cond := x.resource.Condition
	if n.PaymentCurrency != cond.Currency {
		return h.reject(ctx, x, "Currency does not match course settings, received: "+n.PaymentCurrency)
	}

	if !amountMatches(n.PaymentGross, cond.Cost) {
		return h.reject(ctx, x, "Payment gross does not match course settings, received: "+n.PaymentGross)
	}

	if n.PaymentStatus == domain.PaymentStatusPending && n.PendingReason != domain.PENDING_REASON_ECHECK {
		h.deps.Alerter.NotifyPending(ctx, notification.Recipient{UserID: x.user.ID, Email: x.user.Email})
	}

	_, err = h.deps.Store.CreateTransaction(ctx, x.input(n.PaymentStatus), false)
	if errors.Is(err, domain.ErrDuplicateTransaction) {
		return h.reject(ctx, x, repeatedSubject(n.TxnID))
	}
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to record transaction: %w", err), zap.String("txn_id", n.TxnID))
		return aborted(StateReconciled, "failed to record transaction")
	}

	logger.InfoCtx(ctx, "PayPal payment recorded",
		zap.String("txn_id", n.TxnID),
		zap.String("payment_status", string(n.PaymentStatus)),
		zap.Int64("user_id", x.correlation.UserID),
		zap.Int64("context_id", x.correlation.ContextID),
		zap.Int64("section_id", x.correlation.SectionID))

	return Outcome{Result: ResultAccepted, State: StateProvisionalCleared}
}

// recordUnverified keeps the rejected notification as evidence and tells the administrators
func (h *handler) recordUnverified(ctx context.Context, x *exchange, v paypal.Verification) Outcome {
	if _, err := h.deps.Store.CreateTransaction(ctx, x.input(domain.PaymentStatusUnverified), true); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to record unverified transaction: %w", err), zap.String("txn_id", x.notification.TxnID))
	}

	x.extra = append(x.extra, notification.Field{Key: "verification_result", Value: html.EscapeString(v.Response)})
	h.alert(ctx, x, subjectVerifyFailed)

	return Outcome{Result: ResultRejected, State: StateVerificationFailed, Reason: subjectVerifyFailed}
}

func (h *handler) reject(ctx context.Context, x *exchange, subject string) Outcome {
	h.alert(ctx, x, subject)
	return rejected(StateVerified, subject)
}

// clearProvisional deletes the ToBeVerified row written for this notification
func (h *handler) clearProvisional(ctx context.Context, x *exchange) bool {
	status := domain.PaymentStatusToBeVerified
	deleted, err := h.deps.Store.DeleteTransactions(ctx, store.TransactionFilter{
		PaymentStatus: &status,
		TxnID:         &x.notification.TxnID,
		UserID:        &x.correlation.UserID,
		ContextID:     &x.correlation.ContextID,
		SectionID:     &x.correlation.SectionID,
	})
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to delete provisional transaction: %w", err), zap.String("txn_id", x.notification.TxnID))
		return false
	}
	logger.DebugCtx(ctx, "Provisional transaction cleared", zap.String("txn_id", x.notification.TxnID), zap.Int64("deleted", deleted))
	return true
}

func (h *handler) alert(ctx context.Context, x *exchange, subject string) {
	logger.WarnCtx(ctx, "PayPal transaction problem",
		zap.String("subject", subject),
		zap.String("txn_id", x.notification.TxnID))
	h.deps.Alerter.AlertAdmins(ctx, subject, x.fields())
}

// input builds the ledger row for this notification with the given status
func (x *exchange) input(status domain.PaymentStatus) store.CreateTransactionInput {
	n := x.notification
	return store.CreateTransactionInput{
		UserID:            x.correlation.UserID,
		ContextID:         x.correlation.ContextID,
		SectionID:         x.correlation.SectionID,
		Business:          n.Business,
		ReceiverEmail:     n.ReceiverEmail,
		ReceiverID:        n.ReceiverID,
		ItemName:          n.ItemName,
		Memo:              n.Memo,
		Tax:               n.Tax,
		OptionName1:       n.OptionName1,
		OptionSelection1X: n.OptionSelection1X,
		OptionName2:       n.OptionName2,
		OptionSelection2X: n.OptionSelection2X,
		PaymentStatus:     status,
		PendingReason:     n.PendingReason,
		ReasonCode:        n.ReasonCode,
		TxnID:             n.TxnID,
		ParentTxnID:       n.ParentTxnID,
		PaymentType:       n.PaymentType,
		PaymentGross:      n.PaymentGross,
		PaymentCurrency:   n.PaymentCurrency,
		Raw:               x.raw,
		TimeUpdated:       x.receivedAt,
	}
}

// fields lists the transaction data attached to alerts
func (x *exchange) fields() []notification.Field {
	base := x.notification.Fields()
	fields := make([]notification.Field, 0, len(base)+4+len(x.extra))
	for _, f := range base {
		fields = append(fields, notification.Field{Key: f.Key, Value: f.Value})
	}
	fields = append(fields,
		notification.Field{Key: "userid", Value: strconv.FormatInt(x.correlation.UserID, 10)},
		notification.Field{Key: "contextid", Value: strconv.FormatInt(x.correlation.ContextID, 10)},
		notification.Field{Key: "sectionid", Value: strconv.FormatInt(x.correlation.SectionID, 10)},
		notification.Field{Key: "timeupdated", Value: strconv.FormatInt(x.receivedAt.Unix(), 10)},
	)
	return append(fields, x.extra...)
}

// amountMatches compares a received gross with the configured cost at cent precision.
// Anything that is not a number never matches.
func amountMatches(gross string, cost decimal.Decimal) bool {
	received, err := decimal.NewFromString(strings.TrimSpace(gross))
	if err != nil {
		return false
	}
	return received.Round(2).Equal(cost.Round(2))
}

func repeatedSubject(txnID string) string {
	return fmt.Sprintf("Transaction %s is being repeated!", txnID)
}

func aborted(state State, reason string) Outcome {
	return Outcome{Result: ResultAborted, State: state, Reason: reason}
}

func rejected(state State, reason string) Outcome {
	return Outcome{Result: ResultRejected, State: state, Reason: reason}
}
