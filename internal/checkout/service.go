package checkout

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-paywall/internal/adapter"
	"github.com/feral-file/ff-paywall/internal/availability"
	"github.com/feral-file/ff-paywall/internal/domain"
	"github.com/feral-file/ff-paywall/internal/logger"
	"github.com/feral-file/ff-paywall/internal/paypal"
	"github.com/feral-file/ff-paywall/internal/store"
	"github.com/feral-file/ff-paywall/internal/store/schema"
)

//go:generate mockgen -source=service.go -destination=../mocks/checkout.go -package=mocks -mock_names=Service=MockCheckoutService

// IPNPath is the webhook path PayPal posts notifications to
const IPNPath = "/availability/condition/paypal/ipn.php"

// Page texts
const (
	MessagePaymentCompleted = "Your payment was accepted and now you can access the activity or resource. Thank you."
	MessagePaymentPending   = "There is a pending payment registered for you."
	MessagePaymentRequired  = "You must make a payment via PayPal to access the activity or resource."
	MessagePaymentInstant   = "Use the button below to pay and access the activity or resource."
	MessageWaitReminder     = "Please note that if you already made a payment recently, it should be processing. Please wait a few minutes and refresh this page."
	LabelSendPayment        = "Send payment via PayPal"
	labelContinuePrefix     = "Click here and go back to "
	labelUser               = "User"
)

// PageKind selects what the payment page shows
type PageKind string

const (
	// PageLogin asks a guest to log in
	PageLogin PageKind = "login"
	// PageRedirect sends a paying user on to the resource
	PageRedirect PageKind = "redirect"
	// PagePending tells the user a payment is being processed
	PagePending PageKind = "pending"
	// PagePayment renders the PayPal checkout form
	PagePayment PageKind = "payment"
)

// Request is a visit to the payment page
type Request struct {
	ContextID int64
	SectionID int64
	// Token is the correlation token echoed back by PayPal's return URL
	Token string
	// User is the logged-in visitor, nil for guests
	User *schema.User
}

// Page is everything the payment page template needs
type Page struct {
	Kind        PageKind
	ItemName    string
	Currency    string
	Cost        string
	RedirectURL string
	LoginURL    string
	CheckoutURL string
	// Reminder is shown when a recent payment may still be in flight
	Reminder bool
	// Fields are the hidden inputs of the checkout form, in order
	Fields []paypal.Field
}

// Config holds the site settings used to build the page
type Config struct {
	SiteName    string
	WWWRoot     string
	CheckoutURL string
}

// Service decides what the payment page shows
type Service interface {
	Prepare(ctx context.Context, req Request) (*Page, error)
}

type service struct {
	config    Config
	store     store.Store
	resolver  availability.Resolver
	evaluator availability.Evaluator
	clock     adapter.Clock
}

// NewService creates a checkout service
func NewService(cfg Config, st store.Store, resolver availability.Resolver, evaluator availability.Evaluator, clock adapter.Clock) Service {
	cfg.WWWRoot = strings.TrimRight(cfg.WWWRoot, "/")
	return &service{config: cfg, store: st, resolver: resolver, evaluator: evaluator, clock: clock}
}

// Prepare resolves the gated resource and picks the page for the visitor.
// A missing context or condition is returned as domain.ErrContextNotFound or domain.ErrConditionNotFound.
func (s *service) Prepare(ctx context.Context, req Request) (*Page, error) {
	res, err := s.resolver.Resolve(ctx, req.ContextID, req.SectionID)
	if err != nil {
		return nil, err
	}
	cond := res.Condition

	page := &Page{
		ItemName: cond.ItemName,
		Currency: cond.Currency,
		Cost:     cond.FormattedCost(),
	}

	if req.User == nil {
		page.Kind = PageLogin
		page.LoginURL = s.config.WWWRoot + "/login/"
		return page, nil
	}

	info := availability.ContextInfo{ContextID: res.Context.ID, SectionID: res.SectionID}
	paid, err := s.evaluator.IsAvailable(ctx, false, info, req.User.ID)
	if err != nil {
		return nil, err
	}
	if paid {
		page.Kind = PageRedirect
		page.RedirectURL = s.resourceURL(res)
		return page, nil
	}

	latest, err := s.store.GetMostRecentTransaction(ctx, store.TransactionFilter{
		UserID:    &req.User.ID,
		ContextID: &info.ContextID,
		SectionID: &info.SectionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load latest transaction: %w", err)
	}
	if latest != nil && latest.PaymentStatus == domain.PaymentStatusPending {
		page.Kind = PagePending
		return page, nil
	}

	corr := domain.Correlation{UserID: req.User.ID, ContextID: info.ContextID, SectionID: info.SectionID}
	sessionToken, err := s.store.GetKeyValue(ctx, corr.SessionKey())
	if err != nil {
		return nil, fmt.Errorf("failed to load session token: %w", err)
	}
	if req.Token != "" && req.Token == sessionToken {
		// Back from PayPal before the notification arrived
		page.Kind = PagePending
		page.Reminder = true
		return page, nil
	}

	token := ulid.MustNew(ulid.Timestamp(s.clock.Now()), ulid.DefaultEntropy()).String()
	if err := s.store.SetKeyValue(ctx, corr.SessionKey(), token); err != nil {
		return nil, fmt.Errorf("failed to store session token: %w", err)
	}
	logger.DebugCtx(ctx, "Issued checkout token", zap.String("correlation", corr.String()))

	page.Kind = PagePayment
	page.CheckoutURL = s.config.CheckoutURL
	page.Fields = s.formFields(cond, corr, info, req.User, token)
	return page, nil
}

// formFields lists the hidden inputs of PayPal's _xclick form
func (s *service) formFields(cond *availability.PayPalCondition, corr domain.Correlation, info availability.ContextInfo, user *schema.User, token string) []paypal.Field {
	cancelURL := availability.ViewURL(s.config.WWWRoot, info, "")
	return []paypal.Field{
		{Key: "cmd", Value: "_xclick"},
		{Key: "charset", Value: "utf-8"},
		{Key: "business", Value: cond.BusinessEmail},
		{Key: "item_name", Value: cond.ItemName},
		{Key: "item_number", Value: cond.ItemNumber},
		{Key: "quantity", Value: "1"},
		{Key: "on0", Value: labelUser},
		{Key: "os0", Value: user.FullName()},
		{Key: "custom", Value: corr.String()},
		{Key: "currency_code", Value: cond.Currency},
		{Key: "amount", Value: cond.FormattedCost()},
		{Key: "for_auction", Value: "false"},
		{Key: "no_note", Value: "1"},
		{Key: "no_shipping", Value: "1"},
		{Key: "notify_url", Value: s.config.WWWRoot + IPNPath},
		{Key: "return", Value: availability.ViewURL(s.config.WWWRoot, info, token)},
		{Key: "cancel_return", Value: cancelURL},
		{Key: "rm", Value: "2"},
		{Key: "cbt", Value: labelContinuePrefix + s.config.SiteName},
		{Key: "first_name", Value: user.FirstName},
		{Key: "last_name", Value: user.LastName},
		{Key: "address", Value: user.Address},
		{Key: "city", Value: user.City},
		{Key: "email", Value: user.Email},
		{Key: "country", Value: user.Country},
	}
}

// resourceURL points at the module or section inside its course page
func (s *service) resourceURL(res *availability.Resource) string {
	u := s.config.WWWRoot + "/course/view.php?id=" + strconv.FormatInt(res.Context.CourseID, 10)
	if res.Context.ContextLevel == domain.ContextLevelModule {
		return u + "#module-" + strconv.FormatInt(res.Context.InstanceID, 10)
	}
	return u + "#section-" + strconv.FormatInt(res.SectionID, 10)
}
