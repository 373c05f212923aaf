package notification

import (
	"bytes"
	"fmt"
	"text/template"
	"time"
)

var (
	generatedTmpl = template.Must(template.New("invoice_generated").Parse(
		`Dear customer,

Your invoice {{.InvoiceNumber}} for billing period {{.Period}} has been generated.

Amount due: {{.Amount}}
Due date:   {{.DueDate}}

Please arrange payment before the due date to avoid service interruption.

TeleCore Billing
`))

	overdueTmpl = template.Must(template.New("invoice_overdue").Parse(
		`Dear customer,

Invoice {{.InvoiceNumber}} is overdue since {{.OverdueSince}}.

Amount due: {{.Amount}}

Please settle the outstanding amount immediately.

TeleCore Billing
`))

	dueSoonTmpl = template.Must(template.New("invoice_due_soon").Parse(
		`Dear customer,

Invoice {{.InvoiceNumber}} is due in {{.DaysRemaining}} day(s), on {{.DueDate}}.

Amount due: {{.Amount}}

TeleCore Billing
`))
)

func formatAmount(cents int64, currency string) string {
	if currency == "" {
		currency = "INR"
	}
	return fmt.Sprintf("%s %d.%02d", currency, cents/100, cents%100)
}

func formatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

func renderGenerated(p InvoiceGeneratedParams) (subject, body string, err error) {
	var buf bytes.Buffer
	err = generatedTmpl.Execute(&buf, map[string]any{
		"InvoiceNumber": p.InvoiceNumber,
		"Period":        p.Period,
		"Amount":        formatAmount(p.AmountCents, p.Currency),
		"DueDate":       formatDate(p.DueDate),
	})
	return "Invoice " + p.InvoiceNumber + " generated", buf.String(), err
}

func renderOverdue(p InvoiceOverdueParams) (subject, body string, err error) {
	var buf bytes.Buffer
	err = overdueTmpl.Execute(&buf, map[string]any{
		"InvoiceNumber": p.InvoiceNumber,
		"Amount":        formatAmount(p.AmountCents, p.Currency),
		"OverdueSince":  formatDate(p.OverdueSince),
	})
	return "Invoice " + p.InvoiceNumber + " is overdue", buf.String(), err
}

func renderDueSoon(p InvoiceDueSoonParams) (subject, body string, err error) {
	var buf bytes.Buffer
	err = dueSoonTmpl.Execute(&buf, map[string]any{
		"InvoiceNumber": p.InvoiceNumber,
		"Amount":        formatAmount(p.AmountCents, p.Currency),
		"DueDate":       formatDate(p.DueDate),
		"DaysRemaining": p.DaysRemaining,
	})
	return "Invoice " + p.InvoiceNumber + " due soon", buf.String(), err
}
