package middleware

import (
	"encoding/json"
	"time"

	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that records successful write operations.
// It maps routes to audit actions.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		var userID *uuid.UUID
		if uid, exists := c.Get(CtxUserID); exists {
			if id, ok := uid.(uuid.UUID); ok {
				userID = &id
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Record(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			UserID:       userID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.Param("id"),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapRouteToAction(route, method string) (domain.AuditAction, string) {
	switch {
	case route == "/api/v1/auth/register" && method == "POST":
		return domain.AuditActionRegister, "user"
	case route == "/api/v1/auth/login" && method == "POST":
		return domain.AuditActionLogin, "session"
	case route == "/api/v1/admin/auth/login" && method == "POST":
		return domain.AuditActionLogin, "session"
	case route == "/api/v1/admin/auth/register" && method == "POST":
		return domain.AuditActionRegister, "admin"
	case route == "/api/v1/swaps/deposit" && method == "POST":
		return domain.AuditActionDeposit, "wallet"
	case route == "/api/v1/swaps/usd-to-crypto" && method == "POST":
		return domain.AuditActionSwap, "transaction"
	case route == "/api/v1/swaps/crypto-to-usd" && method == "POST":
		return domain.AuditActionSwap, "transaction"
	case route == "/api/v1/swaps/crypto-to-crypto" && method == "POST":
		return domain.AuditActionSwap, "transaction"
	case route == "/api/v1/users/me" && method == "PUT":
		return domain.AuditActionUpdateProfile, "user"
	case route == "/api/v1/admin/users/:id/status" && method == "PATCH":
		return domain.AuditActionUpdateUserStatus, "user"
	}
	return "", ""
}
