package controllers

import (
	"net/http"
	"time"

	"grocery-store/models"
	"grocery-store/services"

	"github.com/gin-gonic/gin"
)

const reportDateLayout = "2006-01-02"

type ReportController struct {
	reportService *services.ReportService
}

func NewReportController(reportService *services.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// parseDate accepts YYYY-MM-DD or RFC3339. An empty value yields the zero time.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(reportDateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// GetSalesReport godoc
// @Summary Sales report
// @Description Aggregates non-cancelled orders created in [from, to). Defaults to the last 30 days.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date, exclusive (YYYY-MM-DD)"
// @Success 200 {object} models.Response{data=models.SalesReport}
// @Failure 400 {object} models.ErrorResponse
// @Router /owner/reports/sales [get]
func (ctrl *ReportController) GetSalesReport(c *gin.Context) {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		badRequest(c, "Invalid from date", err)
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		badRequest(c, "Invalid to date", err)
		return
	}

	report, err := ctrl.reportService.SalesReport(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, "Failed to build sales report", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Sales report generated",
		Data:    report,
	})
}

// GetDashboard godoc
// @Summary Owner dashboard
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=models.Dashboard}
// @Router /owner/reports/dashboard [get]
func (ctrl *ReportController) GetDashboard(c *gin.Context) {
	userID, _ := currentUser(c)

	dashboard, err := ctrl.reportService.Dashboard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "Failed to load dashboard", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Dashboard retrieved successfully",
		Data:    dashboard,
	})
}
