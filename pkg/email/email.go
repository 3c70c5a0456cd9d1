package email

import (
	"context"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	pkgerrors "github.com/pristeneo/storefront/pkg/errors"
	"github.com/pristeneo/storefront/pkg/metrics"
)

// Message is one outbound transactional email.
type Message struct {
	// Kind labels the message for metrics and logs, e.g. "order_owner".
	Kind    string
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Addresses are the storefront's fixed envelope addresses.
type Addresses struct {
	// From is the verified sender, e.g. "Pristeneo <no-reply@pristeneo.com>".
	From string
	// Owner receives order and contact notifications.
	Owner string
}

// Sender dispatches a message to the email provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type emailsAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendSender delivers messages through the Resend HTTP API.
type ResendSender struct {
	emails emailsAPI
}

// NewResendSender builds a sender for the given API key.
func NewResendSender(apiKey string) (*ResendSender, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "resend api key required")
	}
	client := resend.NewClient(key)
	return &ResendSender{emails: client.Emails}, nil
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if s == nil || s.emails == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "email sender not initialized")
	}
	req := &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	}
	if _, err := s.emails.SendWithContext(ctx, req); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDelivery, err, err.Error())
	}
	return nil
}

// Instrumented records duration and outcome for every dispatch of next.
type Instrumented struct {
	next    Sender
	metrics *metrics.EmailMetrics
	now     func() time.Time
}

func NewInstrumented(next Sender, m *metrics.EmailMetrics) *Instrumented {
	return &Instrumented{next: next, metrics: m, now: time.Now}
}

func (i *Instrumented) Send(ctx context.Context, msg Message) error {
	start := i.now()
	err := i.next.Send(ctx, msg)
	i.metrics.ObserveDuration(msg.Kind, i.now().Sub(start))
	if err != nil {
		i.metrics.Inc(msg.Kind, metrics.OutcomeFailed)
		return err
	}
	i.metrics.Inc(msg.Kind, metrics.OutcomeSent)
	return nil
}
