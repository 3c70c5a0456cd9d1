package orders

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/pristeneo/storefront/internal/cart"
	pkgerrors "github.com/pristeneo/storefront/pkg/errors"
	"github.com/pristeneo/storefront/pkg/email"
	"github.com/pristeneo/storefront/pkg/logger"
	"github.com/pristeneo/storefront/pkg/metrics"
)

const (
	KindOwner    = "order_owner"
	KindCustomer = "order_customer"
)

// Service submits cart orders as a pair of transactional emails.
type Service interface {
	Submit(ctx context.Context, payload Payload) error
}

type service struct {
	sender    email.Sender
	addresses email.Addresses
	metrics   *metrics.EmailMetrics
	logg      *logger.Logger
}

// NewService builds the order pipeline. A nil sender runs it in degraded mode:
// submissions are logged and reported as successful without sending anything.
func NewService(sender email.Sender, addresses email.Addresses, m *metrics.EmailMetrics, logg *logger.Logger) (Service, error) {
	if logg == nil {
		return nil, errors.New("logger required")
	}
	if sender != nil && (addresses.From == "" || addresses.Owner == "") {
		return nil, errors.New("sender and owner addresses required")
	}
	return &service{sender: sender, addresses: addresses, metrics: m, logg: logg}, nil
}

// Submit expects a validated payload. Both emails are sent concurrently and
// the submission fails if either send fails; nothing is retried or undone.
func (s *service) Submit(ctx context.Context, payload Payload) error {
	if s.sender == nil {
		s.metrics.Inc(KindOwner, metrics.OutcomeSkipped)
		s.metrics.Inc(KindCustomer, metrics.OutcomeSkipped)
		s.logg.WarnFields(ctx, "email credential missing, order emails not sent", map[string]any{"payload": payload})
		return nil
	}

	messages, err := s.compose(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compose order emails")
	}

	errs := make([]error, len(messages))
	var group errgroup.Group
	for i, msg := range messages {
		group.Go(func() error {
			errs[i] = s.sender.Send(ctx, msg)
			return errs[i]
		})
	}
	_ = group.Wait()

	if err := multierr.Combine(errs...); err != nil {
		s.logg.Error(ctx, "order email dispatch failed", err)
		return err
	}
	ctx = s.logg.WithField(ctx, "items", len(payload.Items))
	s.logg.Info(ctx, "order emails sent")
	return nil
}

func (s *service) compose(payload Payload) ([]email.Message, error) {
	view := newOrderView(payload.Customer, cart.Summarize(payload.Items))

	var ownerTextBuf, ownerHTMLBuf, customerTextBuf, customerHTMLBuf bytes.Buffer
	if err := ownerText.Execute(&ownerTextBuf, view); err != nil {
		return nil, err
	}
	if err := ownerHTML.Execute(&ownerHTMLBuf, view); err != nil {
		return nil, err
	}
	if err := customerText.Execute(&customerTextBuf, view); err != nil {
		return nil, err
	}
	if err := customerHTML.Execute(&customerHTMLBuf, view); err != nil {
		return nil, err
	}

	return []email.Message{
		{
			Kind:    KindOwner,
			From:    s.addresses.From,
			To:      s.addresses.Owner,
			ReplyTo: payload.Customer.Email,
			Subject: fmt.Sprintf(ownerSubjectFmt, payload.Customer.Name),
			Text:    ownerTextBuf.String(),
			HTML:    ownerHTMLBuf.String(),
		},
		{
			Kind:    KindCustomer,
			From:    s.addresses.From,
			To:      payload.Customer.Email,
			ReplyTo: s.addresses.Owner,
			Subject: customerSubject,
			Text:    customerTextBuf.String(),
			HTML:    customerHTMLBuf.String(),
		},
	}, nil
}
