package contact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"

	pkgerrors "github.com/pristeneo/storefront/pkg/errors"
	"github.com/pristeneo/storefront/pkg/email"
	"github.com/pristeneo/storefront/pkg/logger"
	"github.com/pristeneo/storefront/pkg/metrics"
)

const (
	// InvalidReason is the rejection text for an incomplete contact form.
	InvalidReason = "Missing fields"

	Kind = "contact"
)

// Payload is a contact form submission. Subject is set when the form was
// opened from a product enquiry link.
type Payload struct {
	Name    string `json:"name" validate:"required,notblank"`
	Email   string `json:"email" validate:"required,notblank"`
	Message string `json:"message" validate:"required,notblank"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
}

var bodyHTML = htmltemplate.Must(htmltemplate.New("contact_html").Parse(`<div style="font-family:system-ui,Segoe UI,Roboto,Arial">
<h2>New Website Contact</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
{{- if .Phone}}
<p><strong>Phone:</strong> {{.Phone}}</p>
{{- end}}
{{- if .Subject}}
<p><strong>Subject:</strong> {{.Subject}}</p>
{{- end}}
<p style="white-space:pre-line">{{.Message}}</p>
</div>`))

// Service forwards contact submissions to the store operator.
type Service interface {
	Submit(ctx context.Context, payload Payload) error
}

type service struct {
	sender    email.Sender
	addresses email.Addresses
	metrics   *metrics.EmailMetrics
	logg      *logger.Logger
}

// NewService builds the contact pipeline. A nil sender logs submissions and
// reports success.
func NewService(sender email.Sender, addresses email.Addresses, m *metrics.EmailMetrics, logg *logger.Logger) (Service, error) {
	if logg == nil {
		return nil, errors.New("logger required")
	}
	if sender != nil && (addresses.From == "" || addresses.Owner == "") {
		return nil, errors.New("sender and owner addresses required")
	}
	return &service{sender: sender, addresses: addresses, metrics: m, logg: logg}, nil
}

func (s *service) Submit(ctx context.Context, payload Payload) error {
	if s.sender == nil {
		s.metrics.Inc(Kind, metrics.OutcomeSkipped)
		s.logg.WarnFields(ctx, "email credential missing, contact email not sent", map[string]any{
			"name":    payload.Name,
			"email":   payload.Email,
			"message": payload.Message,
		})
		return nil
	}

	msg, err := s.compose(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compose contact email")
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logg.Error(ctx, "contact email dispatch failed", err)
		return err
	}
	return nil
}

func (s *service) compose(payload Payload) (email.Message, error) {
	var html bytes.Buffer
	if err := bodyHTML.Execute(&html, payload); err != nil {
		return email.Message{}, err
	}

	subject := fmt.Sprintf("New contact from %s", payload.Name)
	if payload.Subject != "" {
		subject += ": " + payload.Subject
	}

	var text strings.Builder
	fmt.Fprintf(&text, "From: %s <%s>\n", payload.Name, payload.Email)
	if payload.Phone != "" {
		fmt.Fprintf(&text, "Phone: %s\n", payload.Phone)
	}
	if payload.Subject != "" {
		fmt.Fprintf(&text, "Subject: %s\n", payload.Subject)
	}
	text.WriteString("\n")
	text.WriteString(payload.Message)

	return email.Message{
		Kind:    Kind,
		From:    s.addresses.From,
		To:      s.addresses.Owner,
		ReplyTo: payload.Email,
		Subject: subject,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
