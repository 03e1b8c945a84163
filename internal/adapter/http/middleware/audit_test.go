package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAuditLog_SwapSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAudit := mocks.NewMockAuditService(ctrl)

	userID := uuid.New()
	done := make(chan struct{})
	mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(
		func(ctx context.Context, entry *domain.AuditLog) {
			assert.Equal(t, domain.AuditActionSwap, entry.Action)
			assert.Equal(t, "transaction", entry.ResourceType)
			assert.NotNil(t, entry.UserID)
			assert.Equal(t, userID, *entry.UserID)
			close(done)
		},
	)

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.POST("/api/v1/swaps/usd-to-crypto", func(c *gin.Context) {
		c.Set(CtxUserID, userID)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/swaps/usd-to-crypto", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("audit not called")
	}
}

func TestAuditLog_SkipsGET(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAudit := mocks.NewMockAuditService(ctrl)
	// No expectations, Record should NOT be called for GET

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.GET("/api/v1/wallets", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"balance": "100"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuditLog_SkipsFailedRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAudit := mocks.NewMockAuditService(ctrl)
	// No expectations, Record should NOT be called for 4xx

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.POST("/api/v1/swaps/deposit", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/swaps/deposit", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMapRouteToAction(t *testing.T) {
	tests := []struct {
		route    string
		method   string
		action   domain.AuditAction
		resource string
	}{
		{"/api/v1/auth/register", "POST", domain.AuditActionRegister, "user"},
		{"/api/v1/auth/login", "POST", domain.AuditActionLogin, "session"},
		{"/api/v1/admin/auth/register", "POST", domain.AuditActionRegister, "admin"},
		{"/api/v1/admin/auth/login", "POST", domain.AuditActionLogin, "session"},
		{"/api/v1/swaps/deposit", "POST", domain.AuditActionDeposit, "wallet"},
		{"/api/v1/swaps/usd-to-crypto", "POST", domain.AuditActionSwap, "transaction"},
		{"/api/v1/swaps/crypto-to-usd", "POST", domain.AuditActionSwap, "transaction"},
		{"/api/v1/swaps/crypto-to-crypto", "POST", domain.AuditActionSwap, "transaction"},
		{"/api/v1/users/me", "PUT", domain.AuditActionUpdateProfile, "user"},
		{"/api/v1/admin/users/:id/status", "PATCH", domain.AuditActionUpdateUserStatus, "user"},
		{"/unknown", "POST", "", ""},
	}

	for _, tc := range tests {
		action, resource := mapRouteToAction(tc.route, tc.method)
		assert.Equal(t, tc.action, action, "route=%s method=%s", tc.route, tc.method)
		assert.Equal(t, tc.resource, resource, "route=%s method=%s", tc.route, tc.method)
	}
}
