package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) jobRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.jobLimiter.Allow(c.ClientIP()) {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// @Summary      Trigger Invoice Generation
// @Description  Run the monthly invoice generation job immediately
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Success      200  {object}  invoicedomain.GenerateResult
// @Router       /jobs/invoice-generation [post]
func (s *Server) TriggerInvoiceGeneration(c *gin.Context) {
	result, err := s.invoiceSvc.GenerateMonthly(c.Request.Context(), s.clk.Now())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "job.invoice_generation", "job", nil, map[string]any{
			"period":  result.Period,
			"created": result.Created,
			"skipped": result.Skipped,
			"failed":  result.Failed,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// @Summary      Trigger Overdue Check
// @Description  Run the overdue transition job immediately
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Success      200  {object}  invoicedomain.OverdueResult
// @Router       /jobs/overdue-check [post]
func (s *Server) TriggerOverdueCheck(c *gin.Context) {
	result, err := s.invoiceSvc.MarkOverdue(c.Request.Context(), s.clk.Now())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "job.overdue_check", "job", nil, map[string]any{
			"transitioned": result.Transitioned,
			"notified":     result.Notified,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
