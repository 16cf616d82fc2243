package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cozyminds/internal/models/response_models"
	"cozyminds/internal/services"
	"cozyminds/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardService
	defaultTZ        string
}

func NewDashboardController(dashboardService services.DashboardService, calendar services.Calendar) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		defaultTZ:        utils.ZoneName(calendar.Location),
	}
}

// GetDashboard godoc
// @Summary Get engagement dashboard
// @Description Fetch KPI blocks, new users and journals series, mood mix and top tags
// @Tags Admin
// @Accept json
// @Produce json
// @Param start    query string false "RFC3339 start (e.g. 2024-01-01T00:00:00Z)"
// @Param end      query string false "RFC3339 end   (e.g. 2024-01-31T23:59:59Z)"
// @Param last_days query int   false "Relative lookback in days (mutually exclusive with start/end). Default 30"
// @Param interval query string false "Bucket size: day | week | month (default: day)"
// @Param tz       query string false "IANA timezone for bucketing (default: the server calendar)"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/dashboard [get]
func (p *DashboardController) GetDashboard(c *gin.Context) {
	// Defaults
	interval := c.DefaultQuery("interval", "day")
	tz := c.Query("tz")
	if tz == "" {
		tz = p.defaultTZ
	}

	if !validInterval(interval) {
		utils.RespondError(c, http.StatusBadRequest, "interval must be one of: day, week, month")
		return
	}
	// "Local" means nothing to Postgres; it would fall back to the session zone.
	if _, err := time.LoadLocation(tz); err != nil || tz == "Local" {
		utils.RespondError(c, http.StatusBadRequest, "tz must be an IANA timezone name")
		return
	}

	var (
		start, end time.Time
		err        error
	)

	startStr := c.Query("start")
	endStr := c.Query("end")
	lastDaysStr := c.Query("last_days")

	// Validate mutual exclusivity
	if lastDaysStr != "" && (startStr != "" || endStr != "") {
		utils.RespondError(c, http.StatusBadRequest, "provide either last_days or start/end (not both)")
		return
	}

	switch {
	case lastDaysStr != "":
		d, convErr := strconv.Atoi(lastDaysStr)
		if convErr != nil || d <= 0 {
			utils.RespondError(c, http.StatusBadRequest, "last_days must be a positive integer")
			return
		}
		end = time.Now().UTC()
		start = end.AddDate(0, 0, -d)

	default:
		if startStr != "" {
			start, err = time.Parse(time.RFC3339, startStr)
			if err != nil {
				utils.RespondError(c, http.StatusBadRequest, "start must be RFC3339 (e.g. 2024-01-01T00:00:00Z)")
				return
			}
		}
		if endStr != "" {
			end, err = time.Parse(time.RFC3339, endStr)
			if err != nil {
				utils.RespondError(c, http.StatusBadRequest, "end must be RFC3339 (e.g. 2024-01-31T23:59:59Z)")
				return
			}
		}
	}

	tr := response_models.TimeRange{
		Start:    start,
		End:      end,
		Interval: interval,
		Timezone: tz,
	}

	report, svcErr := p.dashboardService.BuildDashboard(c.Request.Context(), tr)
	if svcErr != nil {
		utils.HandleServiceError(c, svcErr)
		return
	}

	utils.RespondSuccess(c, report, "Dashboard data fetched successfully")
}

// GetStats godoc
// @Summary Public counters
// @Description Number of accounts and journals
// @Tags Stats
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /stats [get]
func (p *DashboardController) GetStats(c *gin.Context) {
	stats, err := p.dashboardService.Stats(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, stats, "Stats fetched successfully")
}

// ---- helpers ----

func validInterval(s string) bool {
	switch s {
	case "day", "week", "month":
		return true
	default:
		return false
	}
}
