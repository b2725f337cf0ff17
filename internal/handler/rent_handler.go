package handler

import (
	"net/http"
	"strconv"
	"time"

	"rentalhub/internal/middleware"
	"rentalhub/internal/model"
	"rentalhub/internal/repository"
	"rentalhub/internal/service"
	"rentalhub/pkg/apperr"
	"rentalhub/pkg/pagination"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
)

type RentHandler struct {
	rentService service.RentService
}

func NewRentHandler(rentService service.RentService) *RentHandler {
	return &RentHandler{rentService: rentService}
}

func (h *RentHandler) RegisterRoutes(router *gin.RouterGroup) {
	rents := router.Group("/api/rents")
	{
		rents.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.ListRents)
		rents.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.GetRent)
		rents.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.CreateRent)
		rents.PUT("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.UpdateRent)
		rents.DELETE("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.DeleteRent)
		rents.POST("/:id/undelete", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.UndeleteRent)
	}
}

func queryDate(c *gin.Context, name string, fallback time.Time) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, apperr.Validationf("invalid %s date format (expected YYYY-MM-DD)", name)
	}
	return parsed.UTC(), nil
}

// ListRents returns paginated rents, optionally classified as ongoing,
// finished or overlapping a date range
// @Summary      List rents
// @Tags         rents
// @Security     BearerAuth
// @Produce      json
// @Param        page             query  int     false  "Page number (default: 1)"
// @Param        limit            query  int     false  "Items per page (default: 20)"
// @Param        classification   query  string  false  "ongoing, finished or range"
// @Param        as_of            query  string  false  "Reference date YYYY-MM-DD (default: today)"
// @Param        from             query  string  false  "Range start YYYY-MM-DD (classification=range)"
// @Param        to               query  string  false  "Range end YYYY-MM-DD (classification=range)"
// @Param        property_id      query  int     false  "Filter by property"
// @Param        tenant_id        query  int     false  "Filter by tenant"
// @Param        landlord_id      query  int     false  "Filter by landlord"
// @Param        include_deleted  query  bool    false  "Include soft-deleted rents"
// @Success      200  {object}  response.Response
// @Router       /api/rents [get]
func (h *RentHandler) ListRents(c *gin.Context) {
	params := pagination.Parse(c)

	q := service.RentQuery{
		Classification: c.Query("classification"),
		Filter: repository.RentListFilter{
			Page:           params.Page,
			Limit:          params.Limit,
			IncludeDeleted: c.Query("include_deleted") == "true",
		},
	}
	for name, dst := range map[string]*uint{
		"property_id": &q.Filter.PropertyID,
		"tenant_id":   &q.Filter.TenantID,
		"landlord_id": &q.Filter.LandlordID,
	} {
		if raw := c.Query(name); raw != "" {
			if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
				*dst = uint(id)
			}
		}
	}

	var err error
	if q.AsOf, err = queryDate(c, "as_of", time.Now().UTC()); err != nil {
		abortError(c, err)
		return
	}
	if q.From, err = queryDate(c, "from", time.Time{}); err != nil {
		abortError(c, err)
		return
	}
	if q.To, err = queryDate(c, "to", time.Time{}); err != nil {
		abortError(c, err)
		return
	}

	rents, total, err := h.rentService.ListRents(c.Request.Context(), q)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, rents, params.Page, params.Limit, total))
}

// GetRent returns a single rent with its classification as of a date
// @Summary      Get rent
// @Tags         rents
// @Security     BearerAuth
// @Produce      json
// @Param        id     path   int     true   "Rent ID"
// @Param        as_of  query  string  false  "Reference date YYYY-MM-DD (default: today)"
// @Success      200  {object}  response.Response{data=service.RentResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/rents/{id} [get]
func (h *RentHandler) GetRent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	asOf, err := queryDate(c, "as_of", time.Now().UTC())
	if err != nil {
		abortError(c, err)
		return
	}

	rent, err := h.rentService.GetRent(c.Request.Context(), id, asOf)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rent))
}

// CreateRent creates a new rent contract
// @Summary      Create rent
// @Tags         rents
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateRentRequest  true  "Rent payload"
// @Success      201  {object}  response.Response{data=service.RentResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/rents [post]
func (h *RentHandler) CreateRent(c *gin.Context) {
	var req service.CreateRentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rent, err := h.rentService.CreateRent(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rent))
}

// UpdateRent updates an existing rent contract
// @Summary      Update rent
// @Tags         rents
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  int                        true  "Rent ID"
// @Param        payload  body  service.UpdateRentRequest  true  "Update payload"
// @Success      200  {object}  response.Response{data=service.RentResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/rents/{id} [put]
func (h *RentHandler) UpdateRent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateRentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rent, err := h.rentService.UpdateRent(c.Request.Context(), id, req, middleware.CurrentUserID(c))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rent))
}

// DeleteRent soft-deletes a rent contract
// @Summary      Delete rent
// @Tags         rents
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Rent ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/rents/{id} [delete]
func (h *RentHandler) DeleteRent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.rentService.DeleteRent(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Rent deleted successfully"}))
}

// UndeleteRent restores a soft-deleted rent contract
// @Summary      Undelete rent
// @Tags         rents
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Rent ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/rents/{id}/undelete [post]
func (h *RentHandler) UndeleteRent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.rentService.UndeleteRent(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Rent restored successfully"}))
}
