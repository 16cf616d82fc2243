package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cozyminds/internal/models/response_models"
	"cozyminds/internal/services"
)

type recordingDashboard struct {
	services.DashboardService
	ranges []response_models.TimeRange
}

func (r *recordingDashboard) BuildDashboard(_ context.Context, rng response_models.TimeRange) (*response_models.DashboardReport, error) {
	r.ranges = append(r.ranges, rng)
	return &response_models.DashboardReport{Range: rng}, nil
}

func getDashboard(t *testing.T, ctrl *DashboardController, query string) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/dashboard", ctrl.GetDashboard)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/dashboard"+query, nil))
	return w.Code
}

func TestDashboardTimezoneNeverLocal(t *testing.T) {
	t.Setenv("TZ", "")
	svc := &recordingDashboard{}
	ctrl := NewDashboardController(svc, services.NewCalendar(time.Local))

	assert.Equal(t, http.StatusOK, getDashboard(t, ctrl, ""))
	assert.Equal(t, http.StatusOK, getDashboard(t, ctrl, "?tz="))
	require.Len(t, svc.ranges, 2)
	for _, rng := range svc.ranges {
		assert.Equal(t, "UTC", rng.Timezone)
	}

	assert.Equal(t, http.StatusBadRequest, getDashboard(t, ctrl, "?tz=Local"))
	assert.Equal(t, http.StatusBadRequest, getDashboard(t, ctrl, "?tz=Mars/Olympus"))
	assert.Len(t, svc.ranges, 2)
}

func TestDashboardTimezoneFollowsCalendar(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	svc := &recordingDashboard{}
	ctrl := NewDashboardController(svc, services.NewCalendar(tokyo))

	assert.Equal(t, http.StatusOK, getDashboard(t, ctrl, ""))
	assert.Equal(t, http.StatusOK, getDashboard(t, ctrl, "?tz=Europe/Paris"))
	require.Len(t, svc.ranges, 2)
	assert.Equal(t, "Asia/Tokyo", svc.ranges[0].Timezone)
	assert.Equal(t, "Europe/Paris", svc.ranges[1].Timezone)
}
