package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/service"
	apperrors "github.com/yusupov7274-oss/mvp-crm-ru/internal/errors"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/middleware"
)

type BusinessController struct {
	businessService service.BusinessService
}

func NewBusinessController(businessService service.BusinessService) *BusinessController {
	return &BusinessController{businessService: businessService}
}

// requireBusinessAccess loads a business and checks the viewer's scope.
// Writes the error response itself when access is denied.
func requireBusinessAccess(c *gin.Context, svc service.BusinessService, businessID uint) (*model.Business, bool) {
	business, err := svc.GetByID(businessID)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Бизнес не найден")
			return nil, false
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get business")
		return nil, false
	}

	viewer, ok := middleware.GetAccount(c)
	if !ok {
		apperrors.Unauthorized(c, "Требуется авторизация")
		return nil, false
	}

	canView, err := svc.CanView(viewer, business)
	if err != nil {
		apperrors.InternalError(c, "Не удалось определить права доступа")
		return nil, false
	}
	if !canView {
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzScopeViolated, "Этот бизнес вам не назначен")
		return nil, false
	}
	return business, true
}

// List returns the businesses visible to the authenticated account
// GET /api/v1/businesses
func (ctrl *BusinessController) List(c *gin.Context) {
	viewer, ok := middleware.GetAccount(c)
	if !ok {
		apperrors.Unauthorized(c, "Требуется авторизация")
		return
	}

	businesses, err := ctrl.businessService.ListVisible(viewer)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list businesses")
		return
	}
	c.JSON(http.StatusOK, gin.H{"businesses": businesses})
}

// Pool returns unassigned businesses
// GET /api/v1/businesses/pool
func (ctrl *BusinessController) Pool(c *gin.Context) {
	businesses, err := ctrl.businessService.ListPool()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list pool")
		return
	}
	c.JSON(http.StatusOK, gin.H{"businesses": businesses})
}

// Statuses lists the pipeline stages with display names
// GET /api/v1/businesses/statuses
func (ctrl *BusinessController) Statuses(c *gin.Context) {
	type stage struct {
		Status model.BusinessStatus `json:"status"`
		Title  string               `json:"title"`
	}
	stages := make([]stage, 0, len(model.PipelineStatuses)+1)
	for _, s := range model.PipelineStatuses {
		stages = append(stages, stage{Status: s, Title: s.Title()})
	}
	stages = append(stages, stage{Status: model.StatusArchived, Title: model.StatusArchived.Title()})
	c.JSON(http.StatusOK, gin.H{"statuses": stages})
}

// Get returns one business
// GET /api/v1/businesses/:id
func (ctrl *BusinessController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	business, ok := requireBusinessAccess(c, ctrl.businessService, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": business})
}

// Create registers a new business in the pool
// POST /api/v1/businesses
func (ctrl *BusinessController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.CreateBusinessInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Проверьте название, тип и валюту")
		return
	}
	if !req.Kind.Valid() || !req.Currency.Valid() {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Неизвестный тип бизнеса или валюта")
		return
	}

	business, err := ctrl.businessService.Create(req)
	if err != nil {
		log.Error("Business creation failed", err, map[string]interface{}{
			"title": req.Title,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create business")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"business": business})
}

// Update modifies business card fields
// PUT /api/v1/businesses/:id
func (ctrl *BusinessController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireBusinessAccess(c, ctrl.businessService, id); !ok {
		return
	}

	var req service.UpdateBusinessInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Некорректные данные")
		return
	}
	if req.Kind != nil && !req.Kind.Valid() {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Неизвестный тип бизнеса")
		return
	}
	if req.Currency != nil && !req.Currency.Valid() {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Неизвестная валюта")
		return
	}

	business, err := ctrl.businessService.Update(id, req)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update business")
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": business})
}

type UpdateStatusRequest struct {
	Status model.BusinessStatus `json:"status" binding:"required"`
}

// UpdateStatus moves a business along the pipeline
// PUT /api/v1/businesses/:id/status
func (ctrl *BusinessController) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireBusinessAccess(c, ctrl.businessService, id); !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Укажите статус")
		return
	}

	business, err := ctrl.businessService.UpdateStatus(id, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			apperrors.BadRequest(c, apperrors.BusinessInvalidStatus, "Недопустимый статус для этого бизнеса")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update business status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": business})
}

type AssignRequest struct {
	AccountID uint `json:"account_id" binding:"required"`
}

// Assign hands a business to a responsible manager
// POST /api/v1/businesses/:id/assign
func (ctrl *BusinessController) Assign(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Укажите сотрудника")
		return
	}

	business, err := ctrl.businessService.Assign(id, req.AccountID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Бизнес не найден")
		case errors.Is(err, service.ErrAccountNotFound):
			apperrors.NotFound(c, apperrors.AccountNotFound, "Сотрудник не найден")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "assign business")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": business})
}

// Unassign returns a business to the pool
// POST /api/v1/businesses/:id/unassign
func (ctrl *BusinessController) Unassign(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	business, err := ctrl.businessService.Unassign(id)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Бизнес не найден")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "unassign business")
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": business})
}

// Delete removes a business
// DELETE /api/v1/businesses/:id
func (ctrl *BusinessController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.businessService.Delete(id); err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Бизнес не найден")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete business")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Бизнес удалён"})
}
