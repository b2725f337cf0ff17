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

type TenantHandler struct {
	tenantService service.TenantService
}

func NewTenantHandler(tenantService service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

func (h *TenantHandler) RegisterRoutes(router *gin.RouterGroup) {
	tenants := router.Group("/api/tenants")
	{
		tenants.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.ListTenants)
		tenants.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.GetTenant)
		tenants.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.CreateTenant)
		tenants.PUT("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.UpdateTenant)
		tenants.DELETE("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.DeleteTenant)
		tenants.POST("/:id/undelete", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.UndeleteTenant)
	}
}

// ListTenants returns paginated tenants with optional search
// @Summary      List tenants
// @Tags         tenants
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default: 1)"
// @Param        limit   query  int     false  "Items per page (default: 20)"
// @Param        search  query  string  false  "Search by name, email, phone"
// @Success      200  {object}  response.Response
// @Router       /api/tenants [get]
func (h *TenantHandler) ListTenants(c *gin.Context) {
	params := pagination.Parse(c)
	search := c.Query("search")

	tenants, total, err := h.tenantService.ListTenants(c.Request.Context(), search, params.Page, params.Limit)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, tenants, params.Page, params.Limit, total))
}

// GetTenant returns a single tenant
// @Summary      Get tenant
// @Tags         tenants
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Tenant ID"
// @Success      200  {object}  response.Response{data=service.TenantResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/tenants/{id} [get]
func (h *TenantHandler) GetTenant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	tenant, err := h.tenantService.GetTenant(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tenant))
}

// CreateTenant creates a new tenant
// @Summary      Create tenant
// @Tags         tenants
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateTenantRequest  true  "Tenant payload"
// @Success      201  {object}  response.Response{data=service.TenantResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/tenants [post]
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req service.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), req)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tenant))
}

// UpdateTenant updates an existing tenant
// @Summary      Update tenant
// @Tags         tenants
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  int                          true  "Tenant ID"
// @Param        payload  body  service.UpdateTenantRequest  true  "Update payload"
// @Success      200  {object}  response.Response{data=service.TenantResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/tenants/{id} [put]
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tenant, err := h.tenantService.UpdateTenant(c.Request.Context(), id, req)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tenant))
}

// DeleteTenant soft-deletes a tenant without ongoing rents
// @Summary      Delete tenant
// @Tags         tenants
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Tenant ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/tenants/{id} [delete]
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	err := h.tenantService.DeleteTenant(c.Request.Context(), id, time.Now().UTC(), middleware.CurrentUserID(c))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Tenant deleted successfully"}))
}

// UndeleteTenant restores a soft-deleted tenant
// @Summary      Undelete tenant
// @Tags         tenants
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Tenant ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/tenants/{id}/undelete [post]
func (h *TenantHandler) UndeleteTenant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.tenantService.UndeleteTenant(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Tenant restored successfully"}))
}
