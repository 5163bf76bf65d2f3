package paypal

import (
	"github.com/feral-file/ff-paywall/internal/domain"
)

// Notification holds the IPN fields the ledger records
type Notification struct {
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
	Custom            string
}

// NewNotification extracts the recognised fields of a form. Unknown fields are ignored.
func NewNotification(form Form) Notification {
	return Notification{
		Business:          form.Get("business"),
		ReceiverEmail:     form.Get("receiver_email"),
		ReceiverID:        form.Get("receiver_id"),
		ItemName:          form.Get("item_name"),
		Memo:              form.Get("memo"),
		Tax:               form.Get("tax"),
		OptionName1:       form.Get("option_name1"),
		OptionSelection1X: form.Get("option_selection1_x"),
		OptionName2:       form.Get("option_name2"),
		OptionSelection2X: form.Get("option_selection2_x"),
		PaymentStatus:     domain.PaymentStatus(form.Get("payment_status")),
		PendingReason:     form.Get("pending_reason"),
		ReasonCode:        form.Get("reason_code"),
		TxnID:             form.Get("txn_id"),
		ParentTxnID:       form.Get("parent_txn_id"),
		PaymentType:       form.Get("payment_type"),
		PaymentGross:      form.Get("mc_gross"),
		PaymentCurrency:   form.Get("mc_currency"),
		Custom:            form.Get("custom"),
	}
}

// Fields lists the notification as ordered key/value pairs for admin reports
func (n Notification) Fields() []Field {
	return []Field{
		{"business", n.Business},
		{"receiver_email", n.ReceiverEmail},
		{"receiver_id", n.ReceiverID},
		{"item_name", n.ItemName},
		{"memo", n.Memo},
		{"tax", n.Tax},
		{"option_name1", n.OptionName1},
		{"option_selection1_x", n.OptionSelection1X},
		{"option_name2", n.OptionName2},
		{"option_selection2_x", n.OptionSelection2X},
		{"payment_status", string(n.PaymentStatus)},
		{"pending_reason", n.PendingReason},
		{"reason_code", n.ReasonCode},
		{"txn_id", n.TxnID},
		{"parent_txn_id", n.ParentTxnID},
		{"payment_type", n.PaymentType},
		{"payment_gross", n.PaymentGross},
		{"payment_currency", n.PaymentCurrency},
	}
}
