package handler

import (
	"net/http"
	"time"

	"rentalhub/internal/middleware"
	"rentalhub/internal/model"
	"rentalhub/internal/service"
	"rentalhub/pkg/pagination"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
)

type LandlordHandler struct {
	landlordService service.LandlordService
}

func NewLandlordHandler(landlordService service.LandlordService) *LandlordHandler {
	return &LandlordHandler{landlordService: landlordService}
}

func (h *LandlordHandler) RegisterRoutes(router *gin.RouterGroup) {
	landlords := router.Group("/api/landlords")
	{
		landlords.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.ListLandlords)
		landlords.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.GetLandlord)
		landlords.POST("", middleware.RequireRole(model.RoleAdmin), h.CreateLandlord)
		landlords.PUT("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.UpdateLandlord)
		landlords.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteLandlord)
		landlords.POST("/:id/undelete", middleware.RequireRole(model.RoleAdmin), h.UndeleteLandlord)
	}
}

// ListLandlords returns paginated landlords with optional search
// @Summary      List landlords
// @Tags         landlords
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default: 1)"
// @Param        limit   query  int     false  "Items per page (default: 20)"
// @Param        search  query  string  false  "Search by name, email, phone"
// @Success      200  {object}  response.Response
// @Router       /api/landlords [get]
func (h *LandlordHandler) ListLandlords(c *gin.Context) {
	params := pagination.Parse(c)
	search := c.Query("search")

	landlords, total, err := h.landlordService.ListLandlords(c.Request.Context(), search, params.Page, params.Limit)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, landlords, params.Page, params.Limit, total))
}

// GetLandlord returns a single landlord
// @Summary      Get landlord
// @Tags         landlords
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Landlord ID"
// @Success      200  {object}  response.Response{data=service.LandlordResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/landlords/{id} [get]
func (h *LandlordHandler) GetLandlord(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	landlord, err := h.landlordService.GetLandlord(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, landlord))
}

// CreateLandlord creates a new landlord
// @Summary      Create landlord
// @Tags         landlords
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateLandlordRequest  true  "Landlord payload"
// @Success      201  {object}  response.Response{data=service.LandlordResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/landlords [post]
func (h *LandlordHandler) CreateLandlord(c *gin.Context) {
	var req service.CreateLandlordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	landlord, err := h.landlordService.CreateLandlord(c.Request.Context(), req)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, landlord))
}

// UpdateLandlord updates an existing landlord
// @Summary      Update landlord
// @Tags         landlords
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  int                            true  "Landlord ID"
// @Param        payload  body  service.UpdateLandlordRequest  true  "Update payload"
// @Success      200  {object}  response.Response{data=service.LandlordResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/landlords/{id} [put]
func (h *LandlordHandler) UpdateLandlord(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateLandlordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	landlord, err := h.landlordService.UpdateLandlord(c.Request.Context(), id, req)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, landlord))
}

// DeleteLandlord soft-deletes a landlord when nothing references them
// @Summary      Delete landlord
// @Tags         landlords
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Landlord ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/landlords/{id} [delete]
func (h *LandlordHandler) DeleteLandlord(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	err := h.landlordService.DeleteLandlord(c.Request.Context(), id, time.Now().UTC(), middleware.CurrentUserID(c))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Landlord deleted successfully"}))
}

// UndeleteLandlord restores a soft-deleted landlord
// @Summary      Undelete landlord
// @Tags         landlords
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Landlord ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/landlords/{id}/undelete [post]
func (h *LandlordHandler) UndeleteLandlord(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.landlordService.UndeleteLandlord(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Landlord restored successfully"}))
}
