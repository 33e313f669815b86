package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/service"
	apperrors "github.com/yusupov7274-oss/mvp-crm-ru/internal/errors"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/middleware"
)

type AuthController struct {
	authService    service.AuthService
	accountService service.AccountService
}

func NewAuthController(authService service.AuthService, accountService service.AccountService) *AuthController {
	return &AuthController{
		authService:    authService,
		accountService: accountService,
	}
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles account login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Укажите логин и пароль")
		return
	}

	account, tokens, err := ctrl.authService.Login(req.Login, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Неверный логин или пароль")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"login": req.Login,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "login")
		return
	}

	perms, err := account.EffectivePermissions()
	if err != nil {
		log.Error("Failed to resolve permissions on login", err, map[string]interface{}{
			"account_id": account.ID,
		})
		apperrors.InternalError(c, "Не удалось определить права доступа")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account":     account,
		"permissions": perms,
		"tokens":      tokens,
	})
}

// Logout revokes the presented access token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token := c.GetString(middleware.TokenKey)
	claims, ok := middleware.GetClaims(c)
	if token == "" || !ok {
		apperrors.Unauthorized(c, "Требуется авторизация")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), token, claims); err != nil {
		log.Error("Logout failed", err, map[string]interface{}{
			"account_id": claims.UserID,
		})
		apperrors.InternalError(c, "Не удалось завершить сессию")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Сессия завершена"})
}

type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

// UpdateMe changes the authenticated account's own name or password.
// Role, override and scope stay owner-managed through the accounts panel.
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	account, ok := middleware.GetAccount(c)
	if !ok {
		apperrors.Unauthorized(c, "Требуется авторизация")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Некорректные данные профиля")
		return
	}

	updated, err := ctrl.accountService.Update(account.ID, service.UpdateAccountInput{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		log.Error("Profile update failed", err, map[string]interface{}{
			"account_id": account.ID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": updated})
}

// Me returns the authenticated account with its effective permissions
// GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	account, ok := middleware.GetAccount(c)
	if !ok {
		apperrors.Unauthorized(c, "Требуется авторизация")
		return
	}

	perms, err := account.EffectivePermissions()
	if err != nil {
		apperrors.InternalError(c, "Не удалось определить права доступа")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account":     account,
		"permissions": perms,
	})
}
