package notification

import "context"

//go:generate mockgen -source=types.go -destination=../mocks/notification.go -package=mocks -mock_names=Sink=MockSink,Alerter=MockAlerter

// Kind is the message provider a message is sent through
type Kind string

const (
	// KindPaymentPending tells a payer their payment is on hold
	KindPaymentPending Kind = "payment_pending"
	// KindPaymentError reports a transaction problem to administrators
	KindPaymentError Kind = "payment_error"
)

// Message is a plain-text message from one user to another
type Message struct {
	Kind       Kind   `json:"kind"`
	FromUserID int64  `json:"from_user_id"`
	ToUserID   int64  `json:"to_user_id"`
	ToEmail    string `json:"to_email"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	// Summary is the short form shown in popups
	Summary string `json:"summary"`
}

// Field is one line of the transaction data appended to an alert
type Field struct {
	Key   string
	Value string
}

// Sink delivers messages
type Sink interface {
	Send(ctx context.Context, msg Message) error
}

// Recipient is the addressee of a payer notice
type Recipient struct {
	UserID int64
	Email  string
}

// Alerter sends the service's outgoing messages. Delivery failures are logged, never returned.
type Alerter interface {
	// AlertAdmins reports a transaction problem to every subscribed administrator
	AlertAdmins(ctx context.Context, subject string, data []Field)
	// NotifyPending tells the payer their payment is pending
	NotifyPending(ctx context.Context, to Recipient)
}
