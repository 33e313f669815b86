package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/service"
	apperrors "github.com/yusupov7274-oss/mvp-crm-ru/internal/errors"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/middleware"
)

type FinancialController struct {
	financialService service.FinancialService
	businessService  service.BusinessService
}

func NewFinancialController(
	financialService service.FinancialService,
	businessService service.BusinessService,
) *FinancialController {
	return &FinancialController{
		financialService: financialService,
		businessService:  businessService,
	}
}

// periodParams reads the month and year path parameters
func periodParams(c *gin.Context) (month, year string) {
	return c.Param("month"), c.Param("year")
}

// List returns every financial period of a business
// GET /api/v1/businesses/:id/financials
func (ctrl *FinancialController) List(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireBusinessAccess(c, ctrl.businessService, id); !ok {
		return
	}

	records, err := ctrl.financialService.ListByBusiness(id)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list financials")
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// Upsert writes one financial period, recomputing the derived columns
// PUT /api/v1/businesses/:id/financials/:year/:month
func (ctrl *FinancialController) Upsert(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireBusinessAccess(c, ctrl.businessService, id); !ok {
		return
	}

	var req service.FinancialInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Некорректные данные периода")
		return
	}

	month, year := periodParams(c)
	record, err := ctrl.financialService.Upsert(id, month, year, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPeriod):
			apperrors.BadRequest(c, apperrors.ValidationInvalidPeriod, "Месяц задаётся как \"01\"..\"12\", год четырьмя цифрами")
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Бизнес не найден")
		default:
			log.Error("Financial upsert failed", err, map[string]interface{}{
				"business_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "save financial period")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": record})
}

// Get returns one financial period
// GET /api/v1/businesses/:id/financials/:year/:month
func (ctrl *FinancialController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireBusinessAccess(c, ctrl.businessService, id); !ok {
		return
	}

	month, year := periodParams(c)
	record, err := ctrl.financialService.Get(id, month, year)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPeriod):
			apperrors.BadRequest(c, apperrors.ValidationInvalidPeriod, "Некорректный период")
		case errors.Is(err, service.ErrRecordNotFound):
			apperrors.NotFound(c, apperrors.PeriodNotFound, "Данных за этот период нет")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get financial period")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": record})
}

// Delete removes one financial period
// DELETE /api/v1/businesses/:id/financials/:year/:month
func (ctrl *FinancialController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireBusinessAccess(c, ctrl.businessService, id); !ok {
		return
	}

	month, year := periodParams(c)
	if err := ctrl.financialService.Delete(id, month, year); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPeriod):
			apperrors.BadRequest(c, apperrors.ValidationInvalidPeriod, "Некорректный период")
		case errors.Is(err, service.ErrRecordNotFound):
			apperrors.NotFound(c, apperrors.PeriodNotFound, "Данных за этот период нет")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete financial period")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Период удалён"})
}
