package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-paywall/internal/domain"
	"github.com/feral-file/ff-paywall/internal/store/schema"
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// Zero values fall back to the defaults of NormalizeConnectionPoolSettings.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// isUniqueViolation detects a Postgres unique_violation
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// applyTransactionFilter adds a WHERE clause per non-nil filter field
func applyTransactionFilter(query *gorm.DB, filter TransactionFilter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("userid = ?", *filter.UserID)
	}
	if filter.ContextID != nil {
		query = query.Where("contextid = ?", *filter.ContextID)
	}
	if filter.SectionID != nil {
		query = query.Where("sectionid = ?", *filter.SectionID)
	}
	if filter.TxnID != nil {
		query = query.Where("txn_id = ?", *filter.TxnID)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.PendingReason != nil {
		query = query.Where("pending_reason = ?", *filter.PendingReason)
	}
	return query
}

// CreateTransaction inserts a ledger row
func (s *pgStore) CreateTransaction(ctx context.Context, input CreateTransactionInput, allowDuplicate bool) (*schema.Transaction, error) {
	tnx := &schema.Transaction{
		UserID:            input.UserID,
		ContextID:         input.ContextID,
		SectionID:         input.SectionID,
		Business:          input.Business,
		ReceiverEmail:     input.ReceiverEmail,
		ReceiverID:        input.ReceiverID,
		ItemName:          input.ItemName,
		Memo:              input.Memo,
		Tax:               input.Tax,
		OptionName1:       input.OptionName1,
		OptionSelection1X: input.OptionSelection1X,
		OptionName2:       input.OptionName2,
		OptionSelection2X: input.OptionSelection2X,
		PaymentStatus:     input.PaymentStatus,
		PendingReason:     input.PendingReason,
		ReasonCode:        input.ReasonCode,
		TxnID:             input.TxnID,
		ParentTxnID:       input.ParentTxnID,
		PaymentType:       input.PaymentType,
		PaymentGross:      input.PaymentGross,
		PaymentCurrency:   input.PaymentCurrency,
		TimeUpdated:       input.TimeUpdated,
	}
	if len(input.Raw) > 0 {
		tnx.Raw = datatypes.JSON(input.Raw)
	}
	if tnx.TimeUpdated.IsZero() {
		tnx.TimeUpdated = time.Now().UTC()
	}

	if allowDuplicate {
		result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(tnx)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to create transaction: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, nil
		}
		return tnx, nil
	}

	// Savepoint keeps an enclosing transaction usable after a unique violation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(tnx).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: txn_id=%s status=%s", domain.ErrDuplicateTransaction, input.TxnID, input.PaymentStatus)
		}
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return tnx, nil
}

// TransactionExists checks whether any ledger row matches the filter
func (s *pgStore) TransactionExists(ctx context.Context, filter TransactionFilter) (bool, error) {
	var exists bool
	sub := applyTransactionFilter(s.db.WithContext(ctx).Model(&schema.Transaction{}).Select("1"), filter)
	err := s.db.WithContext(ctx).Raw("SELECT EXISTS (?)", sub).Scan(&exists).Error
	if err != nil {
		return false, fmt.Errorf("failed to check transaction existence: %w", err)
	}
	return exists, nil
}

// DeleteTransactions deletes the ledger rows matching the filter
func (s *pgStore) DeleteTransactions(ctx context.Context, filter TransactionFilter) (int64, error) {
	if filter.IsEmpty() {
		return 0, errors.New("refusing to delete transactions without a filter")
	}

	result := applyTransactionFilter(s.db.WithContext(ctx), filter).Delete(&schema.Transaction{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete transactions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// GetMostRecentTransaction returns the latest row matching the filter
func (s *pgStore) GetMostRecentTransaction(ctx context.Context, filter TransactionFilter) (*schema.Transaction, error) {
	var tnx schema.Transaction
	err := applyTransactionFilter(s.db.WithContext(ctx), filter).
		Order("timeupdated DESC").
		Order("id DESC").
		First(&tnx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get most recent transaction: %w", err)
	}
	return &tnx, nil
}

// ListTransactions returns a page of the transactions report
func (s *pgStore) ListTransactions(ctx context.Context, query TransactionListQuery) ([]TransactionReportRow, uint64, error) {
	base := s.db.WithContext(ctx).
		Table("availability_paypal_tnx AS t").
		Joins("JOIN users u ON u.id = t.userid")

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	q := base.
		Select(`t.id, t.item_name, t.userid AS user_id, t.contextid AS context_id, t.sectionid AS section_id,
			u.firstname AS first_name, u.lastname AS last_name, u.email,
			co.id AS course_id, co.shortname AS course_short_name,
			t.payment_status, t.pending_reason, t.txn_id, t.memo, t.timeupdated AS time_updated`).
		Joins("LEFT JOIN contexts c ON c.id = t.contextid").
		Joins("LEFT JOIN courses co ON co.id = c.course_id").
		Order("t.id DESC")
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}
	if query.Offset > 0 {
		q = q.Offset(int(query.Offset)) //nolint:gosec,G115
	}

	var rows []TransactionReportRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return rows, uint64(total), nil //nolint:gosec,G115
}

// GetStaleProvisionalTransactions returns ToBeVerified rows written before olderThan with an id above afterID
func (s *pgStore) GetStaleProvisionalTransactions(ctx context.Context, olderThan time.Time, afterID uint64, limit int) ([]*schema.Transaction, error) {
	var tnxs []*schema.Transaction
	err := s.db.WithContext(ctx).
		Where("payment_status = ?", domain.PaymentStatusToBeVerified).
		Where("timeupdated < ?", olderThan).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&tnxs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get stale provisional transactions: %w", err)
	}
	return tnxs, nil
}

// GetUserByID returns a non-deleted user
func (s *pgStore) GetUserByID(ctx context.Context, id int64) (*schema.User, error) {
	var user schema.User
	err := s.db.WithContext(ctx).Where("id = ? AND NOT deleted", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetContextByID returns a context
func (s *pgStore) GetContextByID(ctx context.Context, id int64) (*schema.Context, error) {
	var c schema.Context
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get context: %w", err)
	}
	return &c, nil
}

// GetCourseModuleByID returns a course module
func (s *pgStore) GetCourseModuleByID(ctx context.Context, id int64) (*schema.CourseModule, error) {
	var cm schema.CourseModule
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&cm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course module: %w", err)
	}
	return &cm, nil
}

// GetCourseSectionByID returns a course section
func (s *pgStore) GetCourseSectionByID(ctx context.Context, id int64) (*schema.CourseSection, error) {
	var cs schema.CourseSection
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&cs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course section: %w", err)
	}
	return &cs, nil
}

// GetNotificationRecipients returns users subscribed to PayPal problem reports
func (s *pgStore) GetNotificationRecipients(ctx context.Context) ([]*schema.User, error) {
	var users []*schema.User
	err := s.db.WithContext(ctx).
		Where("receive_paypal_notifications AND NOT deleted").
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get notification recipients: %w", err)
	}
	return users, nil
}

// GetSiteAdmins returns the site administrators
func (s *pgStore) GetSiteAdmins(ctx context.Context) ([]*schema.User, error) {
	var users []*schema.User
	err := s.db.WithContext(ctx).
		Where("is_site_admin AND NOT deleted").
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get site admins: %w", err)
	}
	return users, nil
}

// SetKeyValue sets a key-value pair in the key-value store
func (s *pgStore) SetKeyValue(ctx context.Context, key string, value string) error {
	kv := schema.KeyValueStore{
		Key:   key,
		Value: value,
	}

	if err := s.db.WithContext(ctx).Save(&kv).Error; err != nil {
		return fmt.Errorf("failed to set key-value: %w", err)
	}

	return nil
}

// GetKeyValue retrieves a value by key from the key-value store
func (s *pgStore) GetKeyValue(ctx context.Context, key string) (string, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get key-value: %w", err)
	}

	return kv.Value, nil
}
