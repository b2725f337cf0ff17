package handler

import (
	"net/http"
	"time"

	"rentalhub/internal/middleware"
	"rentalhub/internal/model"
	"rentalhub/internal/service"
	"rentalhub/pkg/apperr"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statistics := router.Group("/api/statistics")
	{
		statistics.GET("/occupancy", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.GetOccupancy)
		statistics.GET("/revenue", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.GetRevenue)
		statistics.GET("/consumption/:rentId", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.GetConsumption)
	}
}

func (h *StatisticsHandler) periodRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from, err := queryDate(c, "from", now.AddDate(-1, 0, 0))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := queryDate(c, "to", now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, apperr.Validationf("to must not precede from")
	}
	return from, to, nil
}

// GetOccupancy counts ongoing and finished rents as of a date
// @Summary      Occupancy statistics
// @Tags         statistics
// @Security     BearerAuth
// @Produce      json
// @Param        as_of  query  string  false  "Reference date YYYY-MM-DD (default: today)"
// @Success      200  {object}  response.Response{data=service.OccupancyStats}
// @Router       /api/statistics/occupancy [get]
func (h *StatisticsHandler) GetOccupancy(c *gin.Context) {
	asOf, err := queryDate(c, "as_of", time.Now().UTC())
	if err != nil {
		abortError(c, err)
		return
	}

	stats, err := h.statisticsService.GetOccupancy(c.Request.Context(), asOf)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// GetRevenue sums invoice totals per property over a period
// @Summary      Revenue statistics
// @Tags         statistics
// @Security     BearerAuth
// @Produce      json
// @Param        from  query  string  false  "Period start YYYY-MM-DD (default: one year ago)"
// @Param        to    query  string  false  "Period end YYYY-MM-DD (default: today)"
// @Success      200  {object}  response.Response{data=service.RevenueStats}
// @Router       /api/statistics/revenue [get]
func (h *StatisticsHandler) GetRevenue(c *gin.Context) {
	from, to, err := h.periodRange(c)
	if err != nil {
		abortError(c, err)
		return
	}

	stats, err := h.statisticsService.GetRevenue(c.Request.Context(), from, to)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// GetConsumption sums per-category consumption for one rent over a period
// @Summary      Consumption statistics
// @Tags         statistics
// @Security     BearerAuth
// @Produce      json
// @Param        rentId  path   int     true   "Rent ID"
// @Param        from    query  string  false  "Period start YYYY-MM-DD (default: one year ago)"
// @Param        to      query  string  false  "Period end YYYY-MM-DD (default: today)"
// @Success      200  {object}  response.Response{data=service.ConsumptionStats}
// @Router       /api/statistics/consumption/{rentId} [get]
func (h *StatisticsHandler) GetConsumption(c *gin.Context) {
	rentID, ok := paramID(c, "rentId")
	if !ok {
		return
	}

	from, to, err := h.periodRange(c)
	if err != nil {
		abortError(c, err)
		return
	}

	stats, err := h.statisticsService.GetConsumption(c.Request.Context(), rentID, from, to)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
