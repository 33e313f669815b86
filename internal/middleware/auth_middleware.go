package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/errors"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/redis"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/util"
)

// Context keys for the authenticated account
const (
	AccountKey   = "account"
	AccountIDKey = "account_id"
	TokenKey     = "token"
	ClaimsKey    = "claims"
)

type AuthMiddleware struct {
	jwtSecret   string
	accountRepo repository.AccountRepository
}

func NewAuthMiddleware(jwtSecret string, accountRepo repository.AccountRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:   jwtSecret,
		accountRepo: accountRepo,
	}
}

// Authenticate validates the JWT and loads the account behind it. The
// account is fetched fresh on every request so permission overrides and
// role changes apply without re-login.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Неверный формат авторизации")
				c.Abort()
				return
			}
			token = parts[1]
		} else {
			// websocket clients cannot set headers, they pass the token
			// as a query parameter
			token = c.Query("token")
			if token == "" {
				errors.Unauthorized(c, "Требуется авторизация")
				c.Abort()
				return
			}
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Сессия истекла, войдите снова")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Недействительный токен")
			}
			c.Abort()
			return
		}

		if blacklisted, err := redis.IsTokenBlacklisted(c.Request.Context(), token); err == nil && blacklisted {
			log.Warn("Revoked token used", map[string]interface{}{
				"account_id": claims.UserID,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "Сессия завершена, войдите снова")
			c.Abort()
			return
		}

		account, err := m.accountRepo.FindByID(claims.UserID)
		if err != nil {
			log.Warn("Token references a missing account", map[string]interface{}{
				"account_id": claims.UserID,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Учётная запись не найдена")
			c.Abort()
			return
		}

		c.Set(AccountKey, account)
		c.Set(AccountIDKey, account.ID)
		c.Set(TokenKey, token)
		c.Set(ClaimsKey, claims)

		log.Debug("Account authenticated", map[string]interface{}{
			"account_id": account.ID,
			"login":      account.Login,
			"role":       account.Role,
		})

		c.Next()
	}
}

// RequirePermission gates a route behind one capability, resolved through
// the account's effective permission set (role defaults plus overrides).
func (m *AuthMiddleware) RequirePermission(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		account, ok := GetAccount(c)
		if !ok {
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzRoleNotFound, "Не удалось определить права доступа")
			c.Abort()
			return
		}

		perms, err := account.EffectivePermissions()
		if err != nil {
			log.Error("Failed to resolve permissions", err, map[string]interface{}{
				"account_id": account.ID,
				"role":       account.Role,
			})
			errors.InternalError(c, "Не удалось определить права доступа")
			c.Abort()
			return
		}

		if !perms.Has(key) {
			log.Warn("Capability check failed", map[string]interface{}{
				"account_id": account.ID,
				"role":       account.Role,
				"capability": key,
				"path":       c.Request.URL.Path,
			})
			errors.Forbidden(c, "Недостаточно прав для этого действия")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetAccount extracts the authenticated account from context
func GetAccount(c *gin.Context) (*model.Account, bool) {
	value, exists := c.Get(AccountKey)
	if !exists {
		return nil, false
	}
	account, ok := value.(*model.Account)
	return account, ok
}

// GetAccountID extracts the authenticated account id from context
func GetAccountID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(AccountIDKey)
	if !exists {
		return 0, false
	}
	return value.(uint), true
}

// GetClaims extracts the validated token claims from context
func GetClaims(c *gin.Context) (*util.Claims, bool) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*util.Claims)
	return claims, ok
}
