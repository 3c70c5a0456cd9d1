package orders

import (
	htmltemplate "html/template"
	"strconv"
	"strings"
	texttemplate "text/template"

	"github.com/pristeneo/storefront/internal/cart"
	"github.com/pristeneo/storefront/internal/pricing"
)

const (
	customerSubject = "We received your order - Pristeneo"
	ownerSubjectFmt = "New cart order from %s"
)

type lineView struct {
	Title    string
	Size     string
	Quantity int
	Amount   string
}

// Text renders the plain-text order line.
func (l lineView) Text() string {
	var b strings.Builder
	b.WriteString("• ")
	b.WriteString(l.Title)
	if l.Size != "" {
		b.WriteString(" (" + l.Size + ")")
	}
	b.WriteString(" - qty ")
	b.WriteString(strconv.Itoa(l.Quantity))
	b.WriteString(" - approx ")
	b.WriteString(l.Amount)
	return b.String()
}

type orderView struct {
	Customer Customer
	Lines    []lineView
	Total    string
}

func newOrderView(customer Customer, summary cart.Summary) orderView {
	lines := make([]lineView, 0, len(summary.Lines))
	for _, line := range summary.Lines {
		size := ""
		if line.Item.Size != nil {
			size = *line.Item.Size
		}
		lines = append(lines, lineView{
			Title:    line.Item.Title,
			Size:     size,
			Quantity: line.Item.Quantity,
			Amount:   pricing.FormatRupees(line.LineTotal),
		})
	}
	return orderView{
		Customer: customer,
		Lines:    lines,
		Total:    pricing.FormatRupees(summary.Total),
	}
}

var ownerText = texttemplate.Must(texttemplate.New("owner_text").Parse(`You received a new cart order from {{.Customer.Name}}.

Customer details:
Name: {{.Customer.Name}}
Email: {{.Customer.Email}}
{{- if .Customer.Phone}}
Phone: {{.Customer.Phone}}
{{- end}}
{{- if .Customer.Note}}
Note: {{.Customer.Note}}
{{- end}}

Items:
{{- range .Lines}}
{{.Text}}
{{- end}}

Approximate total: {{.Total}}

Online payment gateway is not yet active.
Please contact the customer to confirm final price, payment method, and delivery details.
`))

var customerText = texttemplate.Must(texttemplate.New("customer_text").Parse(`Hi {{.Customer.Name}},

Thank you for your order with Pristeneo.
This email confirms that we have received your cart details.

Your order summary:
{{- range .Lines}}
{{.Text}}
{{- end}}

Approximate total: {{.Total}}

What happens next:
- Our team will review your order.
- We will contact you by email (and phone if provided) to confirm final price, shipping, and payment method.
- No online payment has been processed yet. This is just a confirmation of your request.

If you need to update anything, you can reply directly to this email.

Warm regards,
Pristeneo Mustard Oil
`))

const linesTable = `{{define "lines"}}<table style="border-collapse:collapse;width:100%">
<thead><tr><th align="left">Item</th><th align="right">Qty</th><th align="right">Approx.</th></tr></thead>
<tbody>
{{- range .Lines}}
<tr><td>{{.Title}}{{if .Size}} ({{.Size}}){{end}}</td><td align="right">{{.Quantity}}</td><td align="right">{{.Amount}}</td></tr>
{{- end}}
</tbody>
</table>
<p><strong>Approximate total:</strong> {{.Total}}</p>{{end}}`

var ownerHTML = htmltemplate.Must(htmltemplate.Must(htmltemplate.New("owner_html").Parse(linesTable)).Parse(`<div style="font-family:system-ui,Segoe UI,Roboto,Arial">
<h2>New Cart Order</h2>
<p><strong>Name:</strong> {{.Customer.Name}}</p>
<p><strong>Email:</strong> {{.Customer.Email}}</p>
{{- if .Customer.Phone}}
<p><strong>Phone:</strong> {{.Customer.Phone}}</p>
{{- end}}
{{- if .Customer.Note}}
<p style="white-space:pre-line"><strong>Note:</strong> {{.Customer.Note}}</p>
{{- end}}
{{template "lines" .}}
<p>Online payment gateway is not yet active. Please contact the customer to confirm final price, payment method, and delivery details.</p>
</div>`))

var customerHTML = htmltemplate.Must(htmltemplate.Must(htmltemplate.New("customer_html").Parse(linesTable)).Parse(`<div style="font-family:system-ui,Segoe UI,Roboto,Arial">
<p>Hi {{.Customer.Name}},</p>
<p>Thank you for your order with Pristeneo. This email confirms that we have received your cart details.</p>
{{template "lines" .}}
<p><strong>What happens next:</strong></p>
<ul>
<li>Our team will review your order.</li>
<li>We will contact you by email (and phone if provided) to confirm final price, shipping, and payment method.</li>
<li>No online payment has been processed yet. This is just a confirmation of your request.</li>
</ul>
<p>If you need to update anything, you can reply directly to this email.</p>
<p>Warm regards,<br>Pristeneo Mustard Oil</p>
</div>`))
