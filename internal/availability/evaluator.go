package availability

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/feral-file/ff-paywall/internal/domain"
	"github.com/feral-file/ff-paywall/internal/store"
)

//go:generate mockgen -source=evaluator.go -destination=../mocks/evaluator.go -package=mocks -mock_names=Evaluator=MockEvaluator

// ViewPath is the payment page path relative to the site root
const ViewPath = "/availability/condition/paypal/view.php"

// ContextInfo identifies the resource being gated
type ContextInfo struct {
	ContextID int64
	// SectionID is 0 for module-level resources
	SectionID int64
}

// Evaluator answers access questions for the host's availability engine
type Evaluator interface {
	// IsAvailable reports whether userID has a completed payment for the resource.
	// negate is applied after the lookup.
	IsAvailable(ctx context.Context, negate bool, info ContextInfo, userID int64) (bool, error)
	// Describe returns an HTML sentence fragment linking to the payment page
	Describe(full bool, negate bool, info ContextInfo) string
	// RestoreOffset adjusts the condition after a course restore. There is nothing to shift.
	RestoreOffset(priorCourseID, newCourseID int64, offset time.Duration) bool
}

type evaluator struct {
	store   store.Store
	wwwRoot string
}

// NewEvaluator creates an evaluator. wwwRoot is the site base URL used in descriptions.
func NewEvaluator(st store.Store, wwwRoot string) Evaluator {
	return &evaluator{store: st, wwwRoot: strings.TrimRight(wwwRoot, "/")}
}

func (e *evaluator) IsAvailable(ctx context.Context, negate bool, info ContextInfo, userID int64) (bool, error) {
	status := domain.PaymentStatusCompleted
	exists, err := e.store.TransactionExists(ctx, store.TransactionFilter{
		UserID:        &userID,
		ContextID:     &info.ContextID,
		SectionID:     &info.SectionID,
		PaymentStatus: &status,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check payment: %w", err)
	}
	return exists != negate, nil
}

func (e *evaluator) Describe(_ bool, negate bool, info ContextInfo) string {
	link := html.EscapeString(ViewURL(e.wwwRoot, info, ""))
	if negate {
		return fmt.Sprintf(`you have not made a <a href="%s">payment with PayPal</a>`, link)
	}
	return fmt.Sprintf(`you make a <a href="%s">payment with PayPal</a>`, link)
}

func (e *evaluator) RestoreOffset(int64, int64, time.Duration) bool {
	return false
}

// ViewURL builds the payment page URL for a resource, optionally carrying a correlation token
func ViewURL(wwwRoot string, info ContextInfo, token string) string {
	q := url.Values{}
	q.Set("contextid", strconv.FormatInt(info.ContextID, 10))
	if info.SectionID != domain.MODULE_LEVEL_SECTION_ID {
		q.Set("sectionid", strconv.FormatInt(info.SectionID, 10))
	}
	if token != "" {
		q.Set("token", token)
	}
	return strings.TrimRight(wwwRoot, "/") + ViewPath + "?" + q.Encode()
}
