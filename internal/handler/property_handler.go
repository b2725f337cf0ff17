package handler

import (
	"net/http"
	"strconv"

	"rentalhub/internal/middleware"
	"rentalhub/internal/model"
	"rentalhub/internal/repository"
	"rentalhub/internal/service"
	"rentalhub/pkg/pagination"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	propertyService service.PropertyService
}

func NewPropertyHandler(propertyService service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

func (h *PropertyHandler) RegisterRoutes(router *gin.RouterGroup) {
	properties := router.Group("/api/properties")
	{
		properties.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.ListProperties)
		properties.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.GetProperty)
		properties.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.CreateProperty)
		properties.PUT("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.UpdateProperty)
		properties.DELETE("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.DeleteProperty)
		properties.POST("/:id/undelete", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.UndeleteProperty)
	}
}

// ListProperties returns paginated properties with optional landlord filter
// @Summary      List properties
// @Tags         properties
// @Security     BearerAuth
// @Produce      json
// @Param        page             query  int   false  "Page number (default: 1)"
// @Param        limit            query  int   false  "Items per page (default: 20)"
// @Param        landlord_id      query  int   false  "Filter by landlord"
// @Param        include_deleted  query  bool  false  "Include soft-deleted properties"
// @Success      200  {object}  response.Response
// @Router       /api/properties [get]
func (h *PropertyHandler) ListProperties(c *gin.Context) {
	params := pagination.Parse(c)

	filter := repository.PropertyListFilter{
		Page:  params.Page,
		Limit: params.Limit,
	}
	if raw := c.Query("landlord_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.LandlordID = uint(id)
		}
	}
	filter.IncludeDeleted = c.Query("include_deleted") == "true"

	properties, total, err := h.propertyService.ListProperties(c.Request.Context(), filter)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, properties, params.Page, params.Limit, total))
}

// GetProperty returns a single property with its address
// @Summary      Get property
// @Tags         properties
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Property ID"
// @Success      200  {object}  response.Response{data=service.PropertyResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/properties/{id} [get]
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	property, err := h.propertyService.GetProperty(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, property))
}

// CreateProperty creates a new property with its address
// @Summary      Create property
// @Tags         properties
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreatePropertyRequest  true  "Property payload"
// @Success      201  {object}  response.Response{data=service.PropertyResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/properties [post]
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	var req service.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	property, err := h.propertyService.CreateProperty(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, property))
}

// UpdateProperty updates an existing property
// @Summary      Update property
// @Tags         properties
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  int                            true  "Property ID"
// @Param        payload  body  service.UpdatePropertyRequest  true  "Update payload"
// @Success      200  {object}  response.Response{data=service.PropertyResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/properties/{id} [put]
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req service.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	property, err := h.propertyService.UpdateProperty(c.Request.Context(), id, req, middleware.CurrentUserID(c))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, property))
}

// DeleteProperty soft-deletes a property and its address
// @Summary      Delete property
// @Tags         properties
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Property ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/properties/{id} [delete]
func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.propertyService.DeleteProperty(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Property deleted successfully"}))
}

// UndeleteProperty restores a soft-deleted property
// @Summary      Undelete property
// @Tags         properties
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Property ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/properties/{id}/undelete [post]
func (h *PropertyHandler) UndeleteProperty(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.propertyService.UndeleteProperty(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Property restored successfully"}))
}
