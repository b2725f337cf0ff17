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

type RateHandler struct {
	rateService service.RateService
}

func NewRateHandler(rateService service.RateService) *RateHandler {
	return &RateHandler{rateService: rateService}
}

func (h *RateHandler) RegisterRoutes(router *gin.RouterGroup) {
	rates := router.Group("/api/rates")
	{
		rates.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.GetRate)
		rates.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.CreateRate)
		rates.PUT("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.UpdateRate)
		rates.DELETE("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.DeleteRate)
	}

	properties := router.Group("/api/properties")
	{
		properties.GET("/:id/rates", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.ListRatesByProperty)
		properties.GET("/:id/rates/active", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.GetActiveRate)
	}
}

// GetRate returns a single rate version
// @Summary      Get rate
// @Tags         rates
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Rate ID"
// @Success      200  {object}  response.Response{data=service.RateResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/rates/{id} [get]
func (h *RateHandler) GetRate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	rate, err := h.rateService.GetRate(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rate))
}

// CreateRate creates a new rate version for a property
// @Summary      Create rate
// @Tags         rates
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateRateRequest  true  "Rate payload"
// @Success      201  {object}  response.Response{data=service.RateResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/rates [post]
func (h *RateHandler) CreateRate(c *gin.Context) {
	var req service.CreateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rate, err := h.rateService.CreateRate(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rate))
}

// UpdateRate replaces an existing rate version
// @Summary      Update rate
// @Tags         rates
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  int                        true  "Rate ID"
// @Param        payload  body  service.CreateRateRequest  true  "Rate payload"
// @Success      200  {object}  response.Response{data=service.RateResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/rates/{id} [put]
func (h *RateHandler) UpdateRate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req service.CreateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rate, err := h.rateService.UpdateRate(c.Request.Context(), id, req, middleware.CurrentUserID(c))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rate))
}

// DeleteRate removes a rate version
// @Summary      Delete rate
// @Tags         rates
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Rate ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/rates/{id} [delete]
func (h *RateHandler) DeleteRate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.rateService.DeleteRate(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Rate deleted successfully"}))
}

// ListRatesByProperty returns the full rate history of a property
// @Summary      List property rates
// @Tags         rates
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Property ID"
// @Success      200  {object}  response.Response
// @Router       /api/properties/{id}/rates [get]
func (h *RateHandler) ListRatesByProperty(c *gin.Context) {
	propertyID, ok := paramID(c, "id")
	if !ok {
		return
	}

	rates, err := h.rateService.ListRatesByProperty(c.Request.Context(), propertyID)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rates))
}

// GetActiveRate resolves the rate in force for a property on a date
// @Summary      Get active rate
// @Tags         rates
// @Security     BearerAuth
// @Produce      json
// @Param        id    path   int     true   "Property ID"
// @Param        date  query  string  false  "Reference date YYYY-MM-DD (default: today)"
// @Success      200  {object}  response.Response{data=service.RateResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/properties/{id}/rates/active [get]
func (h *RateHandler) GetActiveRate(c *gin.Context) {
	propertyID, ok := paramID(c, "id")
	if !ok {
		return
	}

	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			abortError(c, apperr.Validationf("invalid date format (expected YYYY-MM-DD)"))
			return
		}
		date = parsed.UTC()
	}

	rate, err := h.rateService.GetActiveRate(c.Request.Context(), propertyID, date)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rate))
}
