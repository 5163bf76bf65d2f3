package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-paywall/internal/domain"
)

// Transaction represents the availability_paypal_tnx table - the payment ledger.
// Rows are written only by the IPN handler; provisional rows are removed once
// verification resolves, terminal rows are never updated.
type Transaction struct {
	// ID is an auto-incrementing sequence number
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// UserID is the payer, taken from the correlation value
	UserID int64 `gorm:"column:userid;not null"`
	// ContextID is the gated resource context
	ContextID int64 `gorm:"column:contextid;not null"`
	// SectionID is the gated section, 0 for module-level conditions
	SectionID int64 `gorm:"column:sectionid;not null;default:0"`

	Business          string `gorm:"column:business;not null;default:'';type:text"`
	ReceiverEmail     string `gorm:"column:receiver_email;not null;default:'';type:text"`
	ReceiverID        string `gorm:"column:receiver_id;not null;default:'';type:text"`
	ItemName          string `gorm:"column:item_name;not null;default:'';type:text"`
	Memo              string `gorm:"column:memo;not null;default:'';type:text"`
	Tax               string `gorm:"column:tax;not null;default:'';type:text"`
	OptionName1       string `gorm:"column:option_name1;not null;default:'';type:text"`
	OptionSelection1X string `gorm:"column:option_selection1_x;not null;default:'';type:text"`
	OptionName2       string `gorm:"column:option_name2;not null;default:'';type:text"`
	OptionSelection2X string `gorm:"column:option_selection2_x;not null;default:'';type:text"`

	// PaymentStatus is ToBeVerified, Unverified or the status PayPal reported
	PaymentStatus domain.PaymentStatus `gorm:"column:payment_status;not null;type:varchar(64)"`
	PendingReason string               `gorm:"column:pending_reason;not null;default:'';type:varchar(64)"`
	ReasonCode    string               `gorm:"column:reason_code;not null;default:'';type:varchar(64)"`
	TxnID         string               `gorm:"column:txn_id;not null;default:'';type:varchar(255)"`
	ParentTxnID   string               `gorm:"column:parent_txn_id;not null;default:'';type:varchar(255)"`
	PaymentType   string               `gorm:"column:payment_type;not null;default:'';type:varchar(64)"`
	// PaymentGross is kept as sent by PayPal (mc_gross)
	PaymentGross string `gorm:"column:payment_gross;not null;default:'';type:varchar(64)"`
	// PaymentCurrency is kept as sent by PayPal (mc_currency)
	PaymentCurrency string `gorm:"column:payment_currency;not null;default:'';type:varchar(16)"`

	// Raw is the full notification as ordered key/value pairs
	Raw datatypes.JSON `gorm:"column:raw;type:jsonb"`
	// TimeUpdated is the time the row was written
	TimeUpdated time.Time `gorm:"column:timeupdated;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Transaction model
func (Transaction) TableName() string {
	return "availability_paypal_tnx"
}
