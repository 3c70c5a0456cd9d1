package orders

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pristeneo/storefront/internal/cart"
	pkgerrors "github.com/pristeneo/storefront/pkg/errors"
	"github.com/pristeneo/storefront/pkg/email"
	"github.com/pristeneo/storefront/pkg/logger"
)

type recordingSender struct {
	mu      sync.Mutex
	sent    []email.Message
	failFor map[string]error
	// gate blocks every send until both have started, proving they overlap.
	gate *sync.WaitGroup
}

func (r *recordingSender) Send(_ context.Context, msg email.Message) error {
	if r.gate != nil {
		r.gate.Done()
		r.gate.Wait()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.failFor[msg.Kind]
}

func (r *recordingSender) byKind(kind string) (email.Message, bool) {
	for _, m := range r.sent {
		if m.Kind == kind {
			return m, true
		}
	}
	return email.Message{}, false
}

var addresses = email.Addresses{From: "onboarding@resend.dev", Owner: "pristeneo@gmail.com"}

func testLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: buf})
}

func samplePayload() Payload {
	price := 500.0
	return Payload{
		Items:    []cart.LineItem{{ID: "a", Slug: "a", Title: "Oil 1L", Price: &price, Quantity: 2}},
		Customer: Customer{Name: "Ada", Email: "ada@example.com"},
	}
}

func TestSubmitSendsBothEmailsConcurrently(t *testing.T) {
	gate := &sync.WaitGroup{}
	gate.Add(2)
	sender := &recordingSender{gate: gate}
	var buf bytes.Buffer
	svc, err := NewService(sender, addresses, nil, testLogger(&buf))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- svc.Submit(context.Background(), samplePayload()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("sends did not run concurrently")
	}
	require.Len(t, sender.sent, 2)

	owner, ok := sender.byKind(KindOwner)
	require.True(t, ok)
	assert.Equal(t, "pristeneo@gmail.com", owner.To)
	assert.Equal(t, "ada@example.com", owner.ReplyTo)
	assert.Equal(t, "onboarding@resend.dev", owner.From)
	assert.Equal(t, "New cart order from Ada", owner.Subject)
	assert.Contains(t, owner.Text, "• Oil 1L - qty 2 - approx Rs 1000")
	assert.Contains(t, owner.Text, "Approximate total: Rs 1000")
	assert.NotContains(t, owner.Text, "Phone:")
	assert.Contains(t, owner.HTML, "Rs 1000")

	customer, ok := sender.byKind(KindCustomer)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", customer.To)
	assert.Equal(t, "pristeneo@gmail.com", customer.ReplyTo)
	assert.Equal(t, "We received your order - Pristeneo", customer.Subject)
	assert.True(t, strings.HasPrefix(customer.Text, "Hi Ada,"))
	assert.Contains(t, customer.Text, "Approximate total: Rs 1000")
}

func TestSubmitFailsTogether(t *testing.T) {
	sender := &recordingSender{failFor: map[string]error{
		KindCustomer: pkgerrors.Wrap(pkgerrors.CodeDelivery, errors.New("invalid to"), "Invalid `to` field"),
	}}
	var buf bytes.Buffer
	svc, err := NewService(sender, addresses, nil, testLogger(&buf))
	require.NoError(t, err)

	err = svc.Submit(context.Background(), samplePayload())
	require.Error(t, err)
	assert.Len(t, sender.sent, 2, "the other send still completes")

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "Invalid `to` field", typed.PublicMessage())
	assert.Equal(t, 500, pkgerrors.HTTPStatus(err))
}

func TestSubmitDegradedMode(t *testing.T) {
	var buf bytes.Buffer
	svc, err := NewService(nil, email.Addresses{}, nil, testLogger(&buf))
	require.NoError(t, err)

	require.NoError(t, svc.Submit(context.Background(), samplePayload()))
	assert.Contains(t, buf.String(), "order emails not sent")
	assert.Contains(t, buf.String(), "ada@example.com")
}

func TestComposeEscapesMarkup(t *testing.T) {
	payload := samplePayload()
	payload.Customer.Name = `<b>Ada</b> & "co"`
	payload.Customer.Phone = "+91 98765"
	payload.Customer.Note = "leave at <door>"
	size := "1L"
	payload.Items[0].Size = &size
	payload.Items[0].Title = `Oil <script>alert('x')</script>`

	svc := &service{addresses: addresses}
	messages, err := svc.compose(payload)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	html := messages[0].HTML
	assert.NotContains(t, html, "<b>Ada</b>")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;b&gt;Ada&lt;/b&gt; &amp; &#34;co&#34;")
	assert.Contains(t, html, "leave at &lt;door&gt;")
	assert.Contains(t, html, "(1L)")

	text := messages[0].Text
	assert.Contains(t, text, "Phone: +91 98765")
	assert.Contains(t, text, "Note: leave at <door>")
	assert.Contains(t, text, "• Oil <script>alert('x')</script> (1L) - qty 2 - approx Rs 1000")
}

func TestComposeUsesEffectivePrice(t *testing.T) {
	base, sale := 500.0, 400.0
	invalidSale := 900.0
	payload := Payload{
		Items: []cart.LineItem{
			{ID: "a", Slug: "a", Title: "Sale", Price: &base, SalePrice: &sale, Quantity: 1},
			{ID: "b", Slug: "b", Title: "Bad sale", Price: &base, SalePrice: &invalidSale, Quantity: 1},
			{ID: "c", Slug: "c", Title: "Enquiry", Quantity: 2},
		},
		Customer: Customer{Name: "Ada", Email: "ada@example.com"},
	}
	svc := &service{addresses: addresses}
	messages, err := svc.compose(payload)
	require.NoError(t, err)

	text := messages[1].Text
	assert.Contains(t, text, "• Sale - qty 1 - approx Rs 400")
	assert.Contains(t, text, "• Bad sale - qty 1 - approx Rs 500")
	assert.Contains(t, text, "• Enquiry - qty 2 - approx Rs 0")
	assert.Contains(t, text, "Approximate total: Rs 900")
}

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(&recordingSender{}, addresses, nil, nil)
	assert.Error(t, err)

	var buf bytes.Buffer
	_, err = NewService(&recordingSender{}, email.Addresses{From: "x@y"}, nil, testLogger(&buf))
	assert.Error(t, err)
}
