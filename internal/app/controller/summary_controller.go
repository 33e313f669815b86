package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/service"
	apperrors "github.com/yusupov7274-oss/mvp-crm-ru/internal/errors"
)

type SummaryController struct {
	summaryService  service.SummaryService
	businessService service.BusinessService
}

func NewSummaryController(
	summaryService service.SummaryService,
	businessService service.BusinessService,
) *SummaryController {
	return &SummaryController{
		summaryService:  summaryService,
		businessService: businessService,
	}
}

// metricKeys reads the optional ?metrics=a,b,c filter
func metricKeys(c *gin.Context) []string {
	raw := c.Query("metrics")
	if raw == "" {
		return nil
	}
	keys := strings.Split(raw, ",")
	out := keys[:0]
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Metrics lists the available grid rows
// GET /api/v1/summary/metrics
func (ctrl *SummaryController) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"metrics": ctrl.summaryService.Metrics()})
}

// Grid returns the metric×period summary table for one business
// GET /api/v1/businesses/:id/summary
func (ctrl *SummaryController) Grid(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireBusinessAccess(c, ctrl.businessService, id); !ok {
		return
	}

	grid, err := ctrl.summaryService.BuildGrid(id, metricKeys(c))
	if err != nil {
		ctrl.respondSummaryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grid": grid})
}

// Export streams the summary grid as CSV or XLSX
// GET /api/v1/businesses/:id/summary/export?format=csv
func (ctrl *SummaryController) Export(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireBusinessAccess(c, ctrl.businessService, id); !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")
	keys := metricKeys(c)

	switch format {
	case "csv":
		csv, err := ctrl.summaryService.ExportCSV(id, keys)
		if err != nil {
			ctrl.respondSummaryError(c, err)
			return
		}
		filename := fmt.Sprintf("summary_%d.csv", id)
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))

	case "xlsx":
		data, err := ctrl.summaryService.ExportXLSX(id, keys)
		if err != nil {
			ctrl.respondSummaryError(c, err)
			return
		}
		filename := fmt.Sprintf("summary_%d.xlsx", id)
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)

	default:
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Поддерживаются форматы csv и xlsx")
	}
}

func (ctrl *SummaryController) respondSummaryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownMetric):
		apperrors.BadRequest(c, apperrors.ValidationUnknownKey, "Неизвестный показатель")
	case errors.Is(err, service.ErrBusinessNotFound):
		apperrors.NotFound(c, apperrors.BusinessNotFound, "Бизнес не найден")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "build summary")
	}
}
