package rest

import (
	"embed"
	"html/template"

	"github.com/feral-file/ff-paywall/internal/checkout"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	viewTemplate = "view.html"
	viewTitle    = "PayPal payment"
	labelLogin   = "Log in"
)

// viewMessages are the fixed texts of the payment page
type viewMessages struct {
	Required    string
	Instant     string
	Pending     string
	Reminder    string
	SendPayment string
	Login       string
}

var messages = viewMessages{
	Required:    checkout.MessagePaymentRequired,
	Instant:     checkout.MessagePaymentInstant,
	Pending:     checkout.MessagePaymentPending,
	Reminder:    checkout.MessageWaitReminder,
	SendPayment: checkout.LabelSendPayment,
	Login:       labelLogin,
}

// viewData is what the payment page template renders
type viewData struct {
	Title    string
	Page     *checkout.Page
	Messages viewMessages
	Error    string
}

// LoadTemplates parses the embedded HTML templates
func LoadTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
