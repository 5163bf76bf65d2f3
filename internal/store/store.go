package store

import (
	"context"
	"time"

	"github.com/feral-file/ff-paywall/internal/domain"
	"github.com/feral-file/ff-paywall/internal/store/schema"
)

//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore

// CreateTransactionInput holds the fields of a ledger row to insert
type CreateTransactionInput struct {
	UserID            int64
	ContextID         int64
	SectionID         int64
	Business          string
	ReceiverEmail     string
	ReceiverID        string
	ItemName          string
	Memo              string
	Tax               string
	OptionName1       string
	OptionSelection1X string
	OptionName2       string
	OptionSelection2X string
	PaymentStatus     domain.PaymentStatus
	PendingReason     string
	ReasonCode        string
	TxnID             string
	ParentTxnID       string
	PaymentType       string
	PaymentGross      string
	PaymentCurrency   string
	Raw               []byte
	TimeUpdated       time.Time
}

// TransactionFilter selects ledger rows. Nil fields are not filtered on.
type TransactionFilter struct {
	UserID        *int64
	ContextID     *int64
	SectionID     *int64
	TxnID         *string
	PaymentStatus *domain.PaymentStatus
	PendingReason *string
}

// IsEmpty reports whether the filter matches every row
func (f TransactionFilter) IsEmpty() bool {
	return f.UserID == nil && f.ContextID == nil && f.SectionID == nil &&
		f.TxnID == nil && f.PaymentStatus == nil && f.PendingReason == nil
}

// TransactionListQuery pages through the transactions report
type TransactionListQuery struct {
	Limit  int
	Offset uint64
}

// TransactionReportRow is a ledger row joined with its payer and course
type TransactionReportRow struct {
	ID              uint64
	ItemName        string
	UserID          int64
	ContextID       int64
	SectionID       int64
	FirstName       string
	LastName        string
	Email           string
	CourseID        *int64
	CourseShortName *string
	PaymentStatus   domain.PaymentStatus
	PendingReason   string
	TxnID           string
	Memo            string
	TimeUpdated     time.Time
}

// Store defines the interface for database operations
type Store interface {
	// CreateTransaction inserts a ledger row. Unless allowDuplicate is set, a row
	// clashing with an accepted row of the same (txn_id, payment_status, pending_reason)
	// fails with domain.ErrDuplicateTransaction. With allowDuplicate the clash is
	// ignored and nil is returned for the row.
	CreateTransaction(ctx context.Context, input CreateTransactionInput, allowDuplicate bool) (*schema.Transaction, error)
	// TransactionExists checks whether any ledger row matches the filter
	TransactionExists(ctx context.Context, filter TransactionFilter) (bool, error)
	// DeleteTransactions deletes the ledger rows matching the filter and returns how many were removed
	DeleteTransactions(ctx context.Context, filter TransactionFilter) (int64, error)
	// GetMostRecentTransaction returns the latest row matching the filter, or nil
	GetMostRecentTransaction(ctx context.Context, filter TransactionFilter) (*schema.Transaction, error)
	// ListTransactions returns a page of the transactions report, newest first, plus the total count
	ListTransactions(ctx context.Context, query TransactionListQuery) ([]TransactionReportRow, uint64, error)
	// GetStaleProvisionalTransactions returns ToBeVerified rows written before olderThan,
	// ordered by id and starting after afterID
	GetStaleProvisionalTransactions(ctx context.Context, olderThan time.Time, afterID uint64, limit int) ([]*schema.Transaction, error)

	// GetUserByID returns a non-deleted user, or nil
	GetUserByID(ctx context.Context, id int64) (*schema.User, error)
	// GetContextByID returns a context, or nil
	GetContextByID(ctx context.Context, id int64) (*schema.Context, error)
	// GetCourseModuleByID returns a course module, or nil
	GetCourseModuleByID(ctx context.Context, id int64) (*schema.CourseModule, error)
	// GetCourseSectionByID returns a course section, or nil
	GetCourseSectionByID(ctx context.Context, id int64) (*schema.CourseSection, error)
	// GetNotificationRecipients returns users subscribed to PayPal problem reports
	GetNotificationRecipients(ctx context.Context) ([]*schema.User, error)
	// GetSiteAdmins returns the site administrators
	GetSiteAdmins(ctx context.Context) ([]*schema.User, error)

	// SetKeyValue sets a key-value pair in the key-value store
	SetKeyValue(ctx context.Context, key string, value string) error
	// GetKeyValue retrieves a value by key, or "" when missing
	GetKeyValue(ctx context.Context, key string) (string, error)
}
