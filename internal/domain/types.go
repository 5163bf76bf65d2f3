package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PaymentStatus is the payment_status column of a ledger row
type PaymentStatus string

const (
	PaymentStatusToBeVerified PaymentStatus = "ToBeVerified"
	PaymentStatusCompleted    PaymentStatus = "Completed"
	PaymentStatusPending      PaymentStatus = "Pending"
	PaymentStatusUnverified   PaymentStatus = "Unverified"
)

// IsAccepted reports whether PayPal's status is one the ledger records as a payment
func (s PaymentStatus) IsAccepted() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusPending
}

// ContextLevel is the kind of resource a context points at
type ContextLevel string

const (
	ContextLevelModule ContextLevel = "module"
	ContextLevelCourse ContextLevel = "course"
)

var correlationSanitizer = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Correlation identifies the user and gated resource a payment belongs to.
// It travels through PayPal in the "custom" field.
type Correlation struct {
	UserID    int64
	ContextID int64
	SectionID int64
}

// ParseCorrelation decodes the "custom" value of a notification.
// Characters outside [A-Za-z0-9_-] are dropped before splitting.
func ParseCorrelation(custom string) (Correlation, error) {
	clean := correlationSanitizer.ReplaceAllString(custom, "")
	parts := strings.Split(clean, "-")
	if len(parts) != 4 || parts[0] != PLUGIN_ID {
		return Correlation{}, fmt.Errorf("%w: unexpected custom value %q", ErrMalformedNotification, custom)
	}

	ids := make([]int64, 3)
	for i, p := range parts[1:] {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return Correlation{}, fmt.Errorf("%w: non-numeric custom part %q", ErrMalformedNotification, p)
		}
		ids[i] = id
	}

	return Correlation{UserID: ids[0], ContextID: ids[1], SectionID: ids[2]}, nil
}

// String encodes the correlation for the checkout form
func (c Correlation) String() string {
	return fmt.Sprintf("%s-%d-%d-%d", PLUGIN_ID, c.UserID, c.ContextID, c.SectionID)
}

// SessionKey is the key-value store key holding the user's correlation token
func (c Correlation) SessionKey() string {
	return fmt.Sprintf("%s:%d:%d:%d", SESSION_KEY_PREFIX, c.UserID, c.ContextID, c.SectionID)
}
