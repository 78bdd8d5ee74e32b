package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandwichshop/ordering-api/services"
	"github.com/sandwichshop/ordering-api/utils"
)

// AnalyticsController serves the staff reports.
type AnalyticsController struct {
	Analytics *services.AnalyticsService
	Now       func() time.Time
}

func NewAnalyticsController(analytics *services.AnalyticsService, now func() time.Time) *AnalyticsController {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &AnalyticsController{Analytics: analytics, Now: now}
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return v, nil
}

func (ac *AnalyticsController) LeastPopularDishes(c *gin.Context) {
	limit, err := queryInt(c, "limit", 5)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	rows, err := ac.Analytics.LeastPopular(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Least popular dishes", rows)
}

func (ac *AnalyticsController) Complaints(c *gin.Context) {
	maxStars, err := queryInt(c, "max_stars", 2)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	rows, err := ac.Analytics.Complaints(c.Request.Context(), maxStars)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer complaints", rows)
}

// DailyRevenue defaults to today (UTC) when no date is given.
func (ac *AnalyticsController) DailyRevenue(c *gin.Context) {
	day := ac.Now()
	if raw := c.Query("date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
			return
		}
		day = t
	}

	rev, err := ac.Analytics.Revenue(c.Request.Context(), day)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Daily revenue", rev)
}
