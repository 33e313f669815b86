package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/service"
	apperrors "github.com/yusupov7274-oss/mvp-crm-ru/internal/errors"
)

type DashboardController struct {
	dashboardService service.DashboardService
}

func NewDashboardController(dashboardService service.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// Get returns the aggregate dashboard, optionally filtered to one period.
// Both month and year must be passed together; neither means all periods.
// GET /api/v1/dashboard?month=03&year=2025
func (ctrl *DashboardController) Get(c *gin.Context) {
	month := c.Query("month")
	year := c.Query("year")
	if (month == "") != (year == "") {
		apperrors.BadRequest(c, apperrors.ValidationInvalidPeriod, "Месяц и год фильтра указываются вместе")
		return
	}

	dashboard, err := ctrl.dashboardService.Build(c.Request.Context(), month, year)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPeriod) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidPeriod, "Месяц задаётся как \"01\"..\"12\", год четырьмя цифрами")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "build dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
