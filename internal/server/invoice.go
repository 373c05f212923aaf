package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	invoicedomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/invoice/domain"
)

type createInvoiceRequest struct {
	CustomerID  string `json:"customer_id"`
	OrderID     string `json:"order_id"`
	MRCAmount   int64  `json:"mrc_amount_cents"`
	UsageAmount int64  `json:"usage_amount_cents"`
	Period      string `json:"period"`
	DueDate     string `json:"due_date"`
}

// @Summary      List Invoices
// @Description  List invoices, optionally filtered by status and period
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        status  query     string  false  "Status"
// @Param        period  query     string  false  "Period (YYYY-MM)"
// @Param        limit   query     int     false  "Limit"
// @Success      200  {object}  []invoicedomain.Invoice
// @Router       /invoices [get]
func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
		Period string `form:"period"`
		Limit  int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		Status: strings.TrimSpace(query.Status),
		Period: strings.TrimSpace(query.Period),
		Limit:  query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Invoice
// @Description  Get invoice by ID
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  invoicedomain.Invoice
// @Router       /invoices/{id} [get]
func (s *Server) GetInvoiceByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Create Invoice
// @Description  Create a manual invoice outside the scheduled run
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body createInvoiceRequest true "Create Invoice Request"
// @Success      200  {object}  invoicedomain.Invoice
// @Router       /invoices [post]
func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var dueDate time.Time
	if raw := strings.TrimSpace(req.DueDate); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, newValidationError("due_date", "invalid_due_date", "invalid due_date"))
			return
		}
		dueDate = parsed
	}

	resp, err := s.invoiceSvc.CreateManual(c.Request.Context(), invoicedomain.CreateManualRequest{
		CustomerID:  strings.TrimSpace(req.CustomerID),
		OrderID:     strings.TrimSpace(req.OrderID),
		MRCAmount:   req.MRCAmount,
		UsageAmount: req.UsageAmount,
		Period:      strings.TrimSpace(req.Period),
		DueDate:     dueDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), "invoice.create_manual", "invoice", &targetID, map[string]any{
			"invoice_number": resp.InvoiceNumber,
			"amount_cents":   resp.Amount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Pay Invoice
// @Description  Mark a pending or overdue invoice as paid
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  invoicedomain.Invoice
// @Router       /invoices/{id}/pay [post]
func (s *Server) PayInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.invoiceSvc.MarkPaid(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), "invoice.mark_paid", "invoice", &targetID, map[string]any{
			"invoice_number": resp.InvoiceNumber,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
