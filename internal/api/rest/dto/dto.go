package dto

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/feral-file/ff-paywall/internal/availability"
	"github.com/feral-file/ff-paywall/internal/domain"
	"github.com/feral-file/ff-paywall/internal/store"
)

// Badge classes of the payment status column
const (
	BadgeSuccess = "success"
	BadgeInfo    = "info"
	BadgeWarning = "warning"
	BadgeDanger  = "danger"
)

// AvailabilityResponse answers GET /api/v1/availability/paypal/check
type AvailabilityResponse struct {
	Available bool `json:"available"`
}

// DescriptionResponse answers GET /api/v1/availability/paypal/describe
type DescriptionResponse struct {
	Description string `json:"description"`
}

// HealthResponse answers GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// TransactionResponse is one row of the transactions report
type TransactionResponse struct {
	ID uint64 `json:"id"`
	// Item is "<course shortname> / <item name>", or the bare item name when the context is gone
	Item    string `json:"item"`
	ItemURL string `json:"item_url,omitempty"`
	// Dimmed marks rows outside the course the report was opened from
	Dimmed        bool      `json:"dimmed"`
	UserID        int64     `json:"userid"`
	FullName      string    `json:"fullname"`
	ProfileURL    string    `json:"profile_url"`
	Email         string    `json:"email"`
	PaymentStatus string    `json:"payment_status"`
	Badge         string    `json:"badge"`
	PendingReason string    `json:"pending_reason"`
	TxnID         string    `json:"txn_id"`
	Memo          string    `json:"memo"`
	TimeUpdated   time.Time `json:"timeupdated"`
}

// TransactionListResponse is a page of the transactions report
type TransactionListResponse struct {
	Items  []TransactionResponse `json:"items"`
	Total  uint64                `json:"total"`
	Limit  int                   `json:"limit"`
	Offset uint64                `json:"offset"`
}

// StatusBadge returns the badge class for a payment status
func StatusBadge(status domain.PaymentStatus) string {
	switch status {
	case domain.PaymentStatusCompleted:
		return BadgeSuccess
	case domain.PaymentStatusPending:
		return BadgeInfo
	case domain.PaymentStatusToBeVerified:
		return BadgeWarning
	default:
		return BadgeDanger
	}
}

// NewTransactionResponse maps a report row. courseID is the course the report
// was opened from, 0 for the site-wide view.
func NewTransactionResponse(row store.TransactionReportRow, wwwRoot string, courseID int64) TransactionResponse {
	wwwRoot = strings.TrimRight(wwwRoot, "/")

	resp := TransactionResponse{
		ID:            row.ID,
		Item:          row.ItemName,
		UserID:        row.UserID,
		FullName:      strings.TrimSpace(row.FirstName + " " + row.LastName),
		ProfileURL:    profileURL(wwwRoot, row.UserID, courseID),
		Email:         row.Email,
		PaymentStatus: string(row.PaymentStatus),
		Badge:         StatusBadge(row.PaymentStatus),
		PendingReason: row.PendingReason,
		TxnID:         row.TxnID,
		Memo:          row.Memo,
		TimeUpdated:   row.TimeUpdated,
	}

	if row.CourseID == nil {
		return resp
	}

	resp.ItemURL = availability.ViewURL(wwwRoot, availability.ContextInfo{ContextID: row.ContextID, SectionID: row.SectionID}, "")
	if row.CourseShortName != nil {
		resp.Item = *row.CourseShortName + " / " + row.ItemName
	}
	resp.Dimmed = courseID != 0 && *row.CourseID != courseID

	return resp
}

func profileURL(wwwRoot string, userID, courseID int64) string {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(userID, 10))
	if courseID == 0 {
		return wwwRoot + "/user/profile.php?" + q.Encode()
	}
	q.Set("course", strconv.FormatInt(courseID, 10))
	return wwwRoot + "/user/view.php?" + q.Encode()
}
