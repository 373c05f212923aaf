package events

// Invoice lifecycle event types recorded in the billing events outbox.
const (
	EventInvoiceGenerated = "invoice.generated"
	EventInvoiceOverdue   = "invoice.overdue"
	EventInvoiceDueSoon   = "invoice.due_soon"
	EventInvoicePaid      = "invoice.paid"
)

// InvoicePayload is the minimal event payload downstream consumers need
// to look the invoice up.
type InvoicePayload struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	OrderID       string `json:"order_id,omitempty"`
	Period        string `json:"period,omitempty"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p InvoicePayload) ToMap() map[string]any {
	payload := map[string]any{
		"invoice_id":     p.InvoiceID,
		"invoice_number": p.InvoiceNumber,
	}
	if p.OrderID != "" {
		payload["order_id"] = p.OrderID
	}
	if p.Period != "" {
		payload["period"] = p.Period
	}
	return payload
}
