package contact

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/pristeneo/storefront/pkg/errors"
	"github.com/pristeneo/storefront/pkg/email"
	"github.com/pristeneo/storefront/pkg/logger"
)

type stubSender struct {
	sent []email.Message
	err  error
}

func (s *stubSender) Send(_ context.Context, msg email.Message) error {
	s.sent = append(s.sent, msg)
	return s.err
}

var addresses = email.Addresses{From: "Pristeneo <no-reply@pristeneo.com>", Owner: "pristeneo@gmail.com"}

func newTestService(t *testing.T, sender email.Sender, buf *bytes.Buffer) Service {
	t.Helper()
	svc, err := NewService(sender, addresses, nil, logger.New(logger.Options{ServiceName: "test", Output: buf}))
	require.NoError(t, err)
	return svc
}

func TestSubmitSendsToOwner(t *testing.T) {
	var buf bytes.Buffer
	sender := &stubSender{}
	svc := newTestService(t, sender, &buf)

	err := svc.Submit(context.Background(), Payload{Name: "Ada", Email: "ada@example.com", Message: "Hello\nthere"})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "pristeneo@gmail.com", msg.To)
	assert.Equal(t, "ada@example.com", msg.ReplyTo)
	assert.Equal(t, "Pristeneo <no-reply@pristeneo.com>", msg.From)
	assert.Equal(t, "New contact from Ada", msg.Subject)
	assert.Equal(t, "From: Ada <ada@example.com>\n\nHello\nthere", msg.Text)
	assert.Contains(t, msg.HTML, "<h2>New Website Contact</h2>")
	assert.NotContains(t, msg.HTML, "Phone:")
}

func TestSubmitWithSubjectAndPhone(t *testing.T) {
	var buf bytes.Buffer
	sender := &stubSender{}
	svc := newTestService(t, sender, &buf)

	err := svc.Submit(context.Background(), Payload{
		Name: "Ada", Email: "ada@example.com", Message: "Price?", Phone: "12345", Subject: "Inquiry: Mustard Oil 1L",
	})
	require.NoError(t, err)

	msg := sender.sent[0]
	assert.Equal(t, "New contact from Ada: Inquiry: Mustard Oil 1L", msg.Subject)
	assert.Equal(t, "From: Ada <ada@example.com>\nPhone: 12345\nSubject: Inquiry: Mustard Oil 1L\n\nPrice?", msg.Text)
	assert.Contains(t, msg.HTML, "<strong>Phone:</strong> 12345")
}

func TestSubmitEscapesHTML(t *testing.T) {
	var buf bytes.Buffer
	sender := &stubSender{}
	svc := newTestService(t, sender, &buf)

	err := svc.Submit(context.Background(), Payload{Name: "<img src=x>", Email: "a@b.c", Message: "x & y"})
	require.NoError(t, err)

	html := sender.sent[0].HTML
	assert.NotContains(t, html, "<img")
	assert.Contains(t, html, "&lt;img src=x&gt;")
	assert.Contains(t, html, "x &amp; y")
}

func TestSubmitSurfacesUpstreamMessage(t *testing.T) {
	var buf bytes.Buffer
	sender := &stubSender{err: pkgerrors.Wrap(pkgerrors.CodeDelivery, errors.New("403"), "domain not verified")}
	svc := newTestService(t, sender, &buf)

	err := svc.Submit(context.Background(), Payload{Name: "Ada", Email: "ada@example.com", Message: "hi"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "domain not verified", typed.PublicMessage())
}

func TestSubmitDegradedMode(t *testing.T) {
	var buf bytes.Buffer
	svc := newTestService(t, nil, &buf)

	require.NoError(t, svc.Submit(context.Background(), Payload{Name: "Ada", Email: "ada@example.com", Message: "hi"}))
	assert.Contains(t, buf.String(), "contact email not sent")
	assert.Contains(t, buf.String(), "ada@example.com")
}
