package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/service"
	apperrors "github.com/yusupov7274-oss/mvp-crm-ru/internal/errors"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/middleware"
)

type AccountController struct {
	accountService service.AccountService
}

func NewAccountController(accountService service.AccountService) *AccountController {
	return &AccountController{accountService: accountService}
}

// parseIDParam reads a positive integer path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Некорректный идентификатор")
		return 0, false
	}
	return uint(id), true
}

// List returns all accounts
// GET /api/v1/accounts
func (ctrl *AccountController) List(c *gin.Context) {
	accounts, err := ctrl.accountService.List()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// Get returns one account with its effective permissions
// GET /api/v1/accounts/:id
func (ctrl *AccountController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	account, err := ctrl.accountService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			apperrors.NotFound(c, apperrors.AccountNotFound, "Сотрудник не найден")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get account")
		return
	}

	perms, err := ctrl.accountService.Permissions(id)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get account")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account":     account,
		"permissions": perms,
	})
}

// Create registers a new account
// POST /api/v1/accounts
func (ctrl *AccountController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.CreateAccountInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid account creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Проверьте имя, логин, пароль и роль")
		return
	}

	account, err := ctrl.accountService.Create(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLoginAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthLoginExists, "Логин уже занят")
		case errors.Is(err, model.ErrUnknownRole):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Неизвестная роль")
		case errors.Is(err, model.ErrUnknownPermissionKey):
			apperrors.BadRequest(c, apperrors.ValidationUnknownKey, "Неизвестный ключ прав доступа")
		default:
			log.Error("Account creation failed", err, map[string]interface{}{
				"login": req.Login,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create account")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// Update modifies an account
// PUT /api/v1/accounts/:id
func (ctrl *AccountController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateAccountInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Некорректные данные")
		return
	}

	account, err := ctrl.accountService.Update(id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			apperrors.NotFound(c, apperrors.AccountNotFound, "Сотрудник не найден")
		case errors.Is(err, service.ErrLastOwner):
			apperrors.Conflict(c, apperrors.AccountLastOwner, "Нельзя понизить роль последнего владельца")
		case errors.Is(err, model.ErrUnknownRole):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Неизвестная роль")
		case errors.Is(err, model.ErrUnknownPermissionKey):
			apperrors.BadRequest(c, apperrors.ValidationUnknownKey, "Неизвестный ключ прав доступа")
		default:
			log.Error("Account update failed", err, map[string]interface{}{
				"account_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update account")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// Delete removes an account
// DELETE /api/v1/accounts/:id
func (ctrl *AccountController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.accountService.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			apperrors.NotFound(c, apperrors.AccountNotFound, "Сотрудник не найден")
		case errors.Is(err, service.ErrLastOwner):
			apperrors.Conflict(c, apperrors.AccountLastOwner, "Нельзя удалить последнего владельца")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete account")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Сотрудник удалён"})
}
