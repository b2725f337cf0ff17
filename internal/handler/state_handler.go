package handler

import (
	"net/http"

	"rentalhub/internal/middleware"
	"rentalhub/internal/model"
	"rentalhub/internal/service"
	"rentalhub/pkg/pagination"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
)

type StateHandler struct {
	stateService service.MeterStateService
}

func NewStateHandler(stateService service.MeterStateService) *StateHandler {
	return &StateHandler{stateService: stateService}
}

func (h *StateHandler) RegisterRoutes(router *gin.RouterGroup) {
	states := router.Group("/api/states")
	{
		states.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.RecordState)
		states.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.GetState)
		states.GET("/:id/previous", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.PreviousState)
		states.POST("/:id/confirm", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.ConfirmState)
	}

	rents := router.Group("/api/rents")
	{
		rents.GET("/:id/states", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.ListStates)
	}
}

// RecordState appends a new meter reading to a rent's ledger
// @Summary      Record meter state
// @Tags         states
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.RecordStateRequest  true  "Meter readings"
// @Success      201  {object}  response.Response{data=service.StateResponse}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/states [post]
func (h *StateHandler) RecordState(c *gin.Context) {
	var req service.RecordStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	state, err := h.stateService.RecordState(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, state))
}

// GetState returns a single meter state
// @Summary      Get meter state
// @Tags         states
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "State ID"
// @Success      200  {object}  response.Response{data=service.StateResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/states/{id} [get]
func (h *StateHandler) GetState(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	state, err := h.stateService.GetState(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, state))
}

// PreviousState returns the reading immediately before the given one
// @Summary      Get previous meter state
// @Tags         states
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "State ID"
// @Success      200  {object}  response.Response{data=service.StateResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/states/{id}/previous [get]
func (h *StateHandler) PreviousState(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	state, err := h.stateService.PreviousState(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, state))
}

// ConfirmState marks a recorded state as verified by the landlord
// @Summary      Confirm meter state
// @Tags         states
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "State ID"
// @Success      200  {object}  response.Response{data=service.StateResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/states/{id}/confirm [post]
func (h *StateHandler) ConfirmState(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	state, err := h.stateService.ConfirmState(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, state))
}

// ListStates returns a rent's ledger in recording order
// @Summary      List meter states
// @Tags         states
// @Security     BearerAuth
// @Produce      json
// @Param        id     path   int  true   "Rent ID"
// @Param        page   query  int  false  "Page number (default: 1)"
// @Param        limit  query  int  false  "Items per page (default: 20)"
// @Success      200  {object}  response.Response
// @Router       /api/rents/{id}/states [get]
func (h *StateHandler) ListStates(c *gin.Context) {
	rentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	params := pagination.Parse(c)
	states, total, err := h.stateService.ListStates(c.Request.Context(), rentID, params.Page, params.Limit)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, states, params.Page, params.Limit, total))
}
