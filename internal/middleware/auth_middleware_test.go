package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/db"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/util"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

func setupMiddlewareTest(t *testing.T) (*gin.Engine, *AuthMiddleware, repository.AccountRepository) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	accountRepo := repository.NewAccountRepository(testDB)
	router := gin.New()
	return router, NewAuthMiddleware(testJWTSecret, accountRepo), accountRepo
}

func createMiddlewareAccount(t *testing.T, repo repository.AccountRepository, role model.Role, override model.PermissionOverride) *model.Account {
	t.Helper()
	account := &model.Account{
		Name:         "Тест",
		Login:        "mw-" + string(role),
		PasswordHash: "irrelevant",
		Role:         role,
		Override:     override,
	}
	require.NoError(t, repo.Create(account))
	return account
}

func generateTestToken(t *testing.T, account *model.Account) string {
	tokens, err := util.GenerateTokenPair(
		account.ID,
		account.Login,
		string(account.Role),
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	require.NoError(t, err)
	return tokens.AccessToken
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	router, authMiddleware, accountRepo := setupMiddlewareTest(t)

	account := createMiddlewareAccount(t, accountRepo, model.RoleManager, nil)
	token := generateTestToken(t, account)

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		accountID, _ := GetAccountID(c)
		loaded, _ := GetAccount(c)

		c.JSON(http.StatusOK, gin.H{
			"account_id": accountID,
			"login":      loaded.Login,
		})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), account.Login)
}

func TestAuthMiddleware_Authenticate_QueryToken(t *testing.T) {
	router, authMiddleware, accountRepo := setupMiddlewareTest(t)

	account := createMiddlewareAccount(t, accountRepo, model.RoleManager, nil)
	token := generateTestToken(t, account)

	router.GET("/feed", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "connected"})
	})

	// websocket clients cannot set headers
	req := httptest.NewRequest("GET", "/feed?token="+token, nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Authenticate_NoToken(t *testing.T) {
	router, authMiddleware, _ := setupMiddlewareTest(t)

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_Authenticate_InvalidFormat(t *testing.T) {
	router, authMiddleware, _ := setupMiddlewareTest(t)

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	tests := []struct {
		name   string
		header string
	}{
		{
			name:   "Missing Bearer prefix",
			header: "invalid-token",
		},
		{
			name:   "Wrong prefix",
			header: "Basic token123",
		},
		{
			name:   "Extra parts",
			header: "Bearer one two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddleware_Authenticate_InvalidToken(t *testing.T) {
	router, authMiddleware, _ := setupMiddlewareTest(t)

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer invalid.jwt.token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_INVALID")
}

func TestAuthMiddleware_Authenticate_DeletedAccount(t *testing.T) {
	router, authMiddleware, accountRepo := setupMiddlewareTest(t)

	account := createMiddlewareAccount(t, accountRepo, model.RoleManager, nil)
	token := generateTestToken(t, account)
	require.NoError(t, accountRepo.Delete(account.ID))

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RequirePermission(t *testing.T) {
	router, authMiddleware, accountRepo := setupMiddlewareTest(t)

	router.GET("/accounts",
		authMiddleware.Authenticate(),
		authMiddleware.RequirePermission(model.PermManageAccounts),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "access granted"})
		},
	)

	tests := []struct {
		name           string
		role           model.Role
		override       model.PermissionOverride
		expectedStatus int
	}{
		{
			name:           "Owner role",
			role:           model.RoleOwner,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Manager role",
			role:           model.RoleManager,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Buyer with override grant",
			role:           model.RoleBuyer,
			override:       model.PermissionOverride{model.PermManageAccounts: true},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Owner with override revoke",
			role:           model.RoleOwner,
			override:       model.PermissionOverride{model.PermManageAccounts: false},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := &model.Account{
				Name:         "Тест",
				Login:        "perm-" + tt.name,
				PasswordHash: "irrelevant",
				Role:         tt.role,
				Override:     tt.override,
			}
			require.NoError(t, accountRepo.Create(account))
			token := generateTestToken(t, account)

			req := httptest.NewRequest("GET", "/accounts", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestGetAccountID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	// Without setting account_id
	accountID, exists := GetAccountID(c)
	assert.False(t, exists)
	assert.Equal(t, uint(0), accountID)

	// After setting account_id
	c.Set(AccountIDKey, uint(123))
	accountID, exists = GetAccountID(c)
	assert.True(t, exists)
	assert.Equal(t, uint(123), accountID)
}

func TestGetAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	// Without setting the account
	account, exists := GetAccount(c)
	assert.False(t, exists)
	assert.Nil(t, account)

	// After setting the account
	c.Set(AccountKey, &model.Account{ID: 7, Login: "boss"})
	account, exists = GetAccount(c)
	assert.True(t, exists)
	assert.Equal(t, uint(7), account.ID)
}
