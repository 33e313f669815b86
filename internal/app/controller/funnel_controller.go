package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/service"
	apperrors "github.com/yusupov7274-oss/mvp-crm-ru/internal/errors"
)

type FunnelController struct {
	funnelService   service.FunnelService
	businessService service.BusinessService
}

func NewFunnelController(
	funnelService service.FunnelService,
	businessService service.BusinessService,
) *FunnelController {
	return &FunnelController{
		funnelService:   funnelService,
		businessService: businessService,
	}
}

// List returns every funnel period of a business with derived conversions
// GET /api/v1/businesses/:id/funnel
func (ctrl *FunnelController) List(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireBusinessAccess(c, ctrl.businessService, id); !ok {
		return
	}

	views, err := ctrl.funnelService.ListByBusiness(id)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list funnel")
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": views})
}

// Upsert writes one funnel period
// PUT /api/v1/businesses/:id/funnel/:year/:month
func (ctrl *FunnelController) Upsert(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireBusinessAccess(c, ctrl.businessService, id); !ok {
		return
	}

	var req service.FunnelInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Некорректные данные воронки")
		return
	}

	month, year := periodParams(c)
	view, err := ctrl.funnelService.Upsert(id, month, year, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPeriod):
			apperrors.BadRequest(c, apperrors.ValidationInvalidPeriod, "Месяц задаётся как \"01\"..\"12\", год четырьмя цифрами")
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Бизнес не найден")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "save funnel period")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": view})
}

// Get returns one funnel period
// GET /api/v1/businesses/:id/funnel/:year/:month
func (ctrl *FunnelController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireBusinessAccess(c, ctrl.businessService, id); !ok {
		return
	}

	month, year := periodParams(c)
	view, err := ctrl.funnelService.Get(id, month, year)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPeriod):
			apperrors.BadRequest(c, apperrors.ValidationInvalidPeriod, "Некорректный период")
		case errors.Is(err, service.ErrRecordNotFound):
			apperrors.NotFound(c, apperrors.PeriodNotFound, "Данных за этот период нет")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get funnel period")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": view})
}

// Delete removes one funnel period
// DELETE /api/v1/businesses/:id/funnel/:year/:month
func (ctrl *FunnelController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireBusinessAccess(c, ctrl.businessService, id); !ok {
		return
	}

	month, year := periodParams(c)
	if err := ctrl.funnelService.Delete(id, month, year); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPeriod):
			apperrors.BadRequest(c, apperrors.ValidationInvalidPeriod, "Некорректный период")
		case errors.Is(err, service.ErrRecordNotFound):
			apperrors.NotFound(c, apperrors.PeriodNotFound, "Данных за этот период нет")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete funnel period")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Период удалён"})
}
