package handler

import (
	"io"
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

// maxDocumentSize caps uploaded invoice documents at 10 MB.
const maxDocumentSize = 10 << 20

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/invoices")
	{
		invoices.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.ListInvoices)
		invoices.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.GetInvoice)
		invoices.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.GenerateInvoice)
		invoices.POST("/:id/distribute", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.DistributeInvoice)
		invoices.POST("/:id/document", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.AttachDocument)
		invoices.GET("/:id/document", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.GetDocument)
	}
}

type generateInvoiceRequest struct {
	MeterStateID uint `json:"meter_state_id" binding:"required"`
}

// GenerateInvoice derives an invoice from a confirmed meter state
// @Summary      Generate invoice
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  handler.generateInvoiceRequest  true  "Source meter state"
// @Success      201  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/invoices [post]
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	var req generateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.GenerateInvoice(c.Request.Context(), req.MeterStateID, middleware.CurrentUserID(c))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// GetInvoice returns a single invoice with its snapshot lines
// @Summary      Get invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// ListInvoices returns paginated invoices with optional filters
// @Summary      List invoices
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        page            query  int     false  "Page number (default: 1)"
// @Param        limit           query  int     false  "Items per page (default: 20)"
// @Param        rent_id         query  int     false  "Filter by rent"
// @Param        invoice_no      query  string  false  "Filter by invoice number"
// @Param        is_distributed  query  bool    false  "Filter by distribution status"
// @Success      200  {object}  response.Response
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	params := pagination.Parse(c)

	filter := repository.InvoiceListFilter{
		InvoiceNo: c.Query("invoice_no"),
		Page:      params.Page,
		Limit:     params.Limit,
	}
	if raw := c.Query("rent_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.RentID = uint(id)
		}
	}
	if raw := c.Query("is_distributed"); raw != "" {
		v := raw == "true"
		filter.IsDistributed = &v
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, invoices, params.Page, params.Limit, total))
}

// DistributeInvoice marks an invoice as sent to the tenant
// @Summary      Distribute invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id}/distribute [post]
func (h *InvoiceHandler) DistributeInvoice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.DistributeInvoice(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// AttachDocument stores a rendered document for an invoice
// @Summary      Attach invoice document
// @Tags         invoices
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int   true  "Invoice ID"
// @Param        file  formData  file  true  "Document file"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/invoices/{id}/document [post]
func (h *InvoiceHandler) AttachDocument(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing document file"))
		return
	}
	if fileHeader.Size > maxDocumentSize {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Document exceeds maximum size"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read document file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read document file"))
		return
	}

	invoice, err := h.invoiceService.AttachDocument(c.Request.Context(), id, fileHeader.Filename, data)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// GetDocument streams the stored invoice document
// @Summary      Download invoice document
// @Tags         invoices
// @Security     BearerAuth
// @Produce      octet-stream
// @Param        id  path  int  true  "Invoice ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id}/document [get]
func (h *InvoiceHandler) GetDocument(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	name, data, err := h.invoiceService.GetDocument(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/octet-stream", data)
}
