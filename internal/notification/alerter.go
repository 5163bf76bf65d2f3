package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-paywall/internal/logger"
	"github.com/feral-file/ff-paywall/internal/store"
	"github.com/feral-file/ff-paywall/internal/store/schema"
)

const (
	pendingSubject = "PayPal payment pending"
	pendingBody    = "There is a pending payment registered for you.\n\n" +
		"Please note that if you already made a payment recently, it should be processing. " +
		"Please wait a few minutes and refresh this page."
)

// AlerterConfig holds the site identity used in messages
type AlerterConfig struct {
	SiteName      string
	NoReplyUserID int64
}

type alerter struct {
	config AlerterConfig
	store  store.Store
	sink   Sink
	pool   pond.Pool
}

// NewAlerter creates an alerter that fans admin alerts out over pool
func NewAlerter(cfg AlerterConfig, st store.Store, sink Sink, pool pond.Pool) Alerter {
	return &alerter{config: cfg, store: st, sink: sink, pool: pool}
}

// FormatAlertBody renders the plain-text body of an admin alert
func FormatAlertBody(siteName, subject string, data []Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: PayPal transaction problem: %s\n\n", siteName, subject)
	b.WriteString("Transaction data:\n")
	for _, f := range data {
		fmt.Fprintf(&b, "* %s => %s\n", f.Key, f.Value)
	}
	return b.String()
}

func (a *alerter) AlertAdmins(ctx context.Context, subject string, data []Field) {
	recipients, err := a.recipients(ctx)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to resolve alert recipients: %w", err), zap.String("subject", subject))
		return
	}
	if len(recipients) == 0 {
		logger.WarnCtx(ctx, "no recipients for PayPal alert", zap.String("subject", subject))
		return
	}

	body := FormatAlertBody(a.config.SiteName, subject, data)

	group := a.pool.NewGroup()
	for _, r := range recipients {
		msg := Message{
			Kind:       KindPaymentError,
			FromUserID: a.config.NoReplyUserID,
			ToUserID:   r.ID,
			ToEmail:    r.Email,
			Subject:    "PayPal ERROR: " + subject,
			Body:       body,
			Summary:    subject,
		}
		group.Submit(func() {
			a.send(ctx, msg)
		})
	}
	if err := group.Wait(); err != nil {
		logger.WarnCtx(ctx, "alert fan-out interrupted", zap.Error(err))
	}
}

func (a *alerter) NotifyPending(ctx context.Context, to Recipient) {
	a.send(ctx, Message{
		Kind:       KindPaymentPending,
		FromUserID: a.config.NoReplyUserID,
		ToUserID:   to.UserID,
		ToEmail:    to.Email,
		Subject:    pendingSubject,
		Body:       pendingBody,
		Summary:    pendingSubject,
	})
}

// send delivers one message and swallows any failure, including a panicking sink
func (a *alerter) send(ctx context.Context, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("panic while sending message: %v", r),
				zap.String("kind", string(msg.Kind)),
				zap.Int64("to_user_id", msg.ToUserID))
		}
	}()

	if err := a.sink.Send(ctx, msg); err != nil {
		logger.WarnCtx(ctx, "failed to send message",
			zap.Error(err),
			zap.String("kind", string(msg.Kind)),
			zap.Int64("to_user_id", msg.ToUserID))
	}
}

// recipients returns the subscribed users, falling back to site admins so someone is always told
func (a *alerter) recipients(ctx context.Context) ([]*schema.User, error) {
	users, err := a.store.GetNotificationRecipients(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) > 0 {
		return users, nil
	}
	return a.store.GetSiteAdmins(ctx)
}
