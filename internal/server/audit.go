package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	auditdomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/audit/domain"
)

// @Summary      List Audit Logs
// @Description  List administrative audit entries, newest first
// @Tags         audit
// @Accept       json
// @Produce      json
// @Param        action             query  string  false  "Action"
// @Param        target_type        query  string  false  "Target type"
// @Param        actor_type         query  string  false  "Actor type"
// @Param        limit              query  int     false  "Limit"
// @Param        cursor_id          query  string  false  "Cursor: id of the last seen entry"
// @Param        cursor_created_at  query  string  false  "Cursor: created_at of the last seen entry (RFC3339)"
// @Success      200  {object}  []auditdomain.AuditLog
// @Router       /audit-logs [get]
func (s *Server) ListAuditLogs(c *gin.Context) {
	if s.auditSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var query struct {
		Action          string `form:"action"`
		TargetType      string `form:"target_type"`
		ActorType       string `form:"actor_type"`
		Limit           int    `form:"limit"`
		CursorID        string `form:"cursor_id"`
		CursorCreatedAt string `form:"cursor_created_at"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	filter := auditdomain.ListFilter{
		Action:     strings.TrimSpace(query.Action),
		TargetType: strings.TrimSpace(query.TargetType),
		ActorType:  strings.TrimSpace(query.ActorType),
		Limit:      query.Limit,
	}

	cursorID := strings.TrimSpace(query.CursorID)
	cursorCreatedAt := strings.TrimSpace(query.CursorCreatedAt)
	if cursorID != "" || cursorCreatedAt != "" {
		id, err := snowflake.ParseString(cursorID)
		if err != nil {
			AbortWithError(c, newValidationError("cursor_id", "invalid_cursor", "invalid cursor_id"))
			return
		}
		createdAt, err := time.Parse(time.RFC3339, cursorCreatedAt)
		if err != nil {
			AbortWithError(c, newValidationError("cursor_created_at", "invalid_cursor", "invalid cursor_created_at"))
			return
		}
		filter.Cursor = &auditdomain.AuditCursor{ID: id, CreatedAt: createdAt}
	}

	entries, err := s.auditSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
