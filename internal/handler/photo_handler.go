package handler

import (
	"io"
	"net/http"
	"time"

	"rentalhub/internal/middleware"
	"rentalhub/internal/model"
	"rentalhub/internal/service"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
)

// maxPhotoSize caps uploaded meter photos at 5 MB.
const maxPhotoSize = 5 << 20

type PhotoHandler struct {
	photoService service.PhotoService
}

func NewPhotoHandler(photoService service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

func (h *PhotoHandler) RegisterRoutes(router *gin.RouterGroup) {
	states := router.Group("/api/states")
	{
		states.POST("/:id/photos", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.UploadPhoto)
		states.GET("/:id/photos", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.ListPhotos)
	}

	photos := router.Group("/api/photos")
	{
		photos.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.GetPhoto)
		photos.GET("/:id/image", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleTenant), h.GetPhotoImage)
		photos.DELETE("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleLandlord), h.DeletePhoto)
	}
}

// UploadPhoto attaches a meter photo to a state
// @Summary      Upload meter photo
// @Tags         photos
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id        path      int     true   "State ID"
// @Param        category  formData  string  true   "Utility category"
// @Param        taken_at  formData  string  false  "Capture time (RFC3339)"
// @Param        file      formData  file    true   "Image file"
// @Success      201  {object}  response.Response{data=service.PhotoResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/states/{id}/photos [post]
func (h *PhotoHandler) UploadPhoto(c *gin.Context) {
	stateID, ok := paramID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing image file"))
		return
	}
	if fileHeader.Size > maxPhotoSize {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Image exceeds maximum size"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read image file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read image file"))
		return
	}

	var takenAt *time.Time
	if raw := c.PostForm("taken_at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid taken_at format (expected RFC3339)"))
			return
		}
		takenAt = &parsed
	}

	photo, err := h.photoService.UploadPhoto(c.Request.Context(), service.UploadPhotoRequest{
		MeterStateID: stateID,
		Category:     c.PostForm("category"),
		FileName:     fileHeader.Filename,
		Image:        data,
		TakenAt:      takenAt,
	})
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, photo))
}

// ListPhotos returns the photos attached to a state
// @Summary      List meter photos
// @Tags         photos
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "State ID"
// @Success      200  {object}  response.Response
// @Router       /api/states/{id}/photos [get]
func (h *PhotoHandler) ListPhotos(c *gin.Context) {
	stateID, ok := paramID(c, "id")
	if !ok {
		return
	}

	photos, err := h.photoService.ListPhotosByState(c.Request.Context(), stateID)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, photos))
}

// GetPhoto returns photo metadata
// @Summary      Get photo metadata
// @Tags         photos
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Photo ID"
// @Success      200  {object}  response.Response{data=service.PhotoResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/photos/{id} [get]
func (h *PhotoHandler) GetPhoto(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	photo, err := h.photoService.GetPhoto(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, photo))
}

// GetPhotoImage streams the stored image bytes
// @Summary      Download photo image
// @Tags         photos
// @Security     BearerAuth
// @Produce      octet-stream
// @Param        id  path  int  true  "Photo ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  response.Response
// @Router       /api/photos/{id}/image [get]
func (h *PhotoHandler) GetPhotoImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	name, data, err := h.photoService.GetPhotoImage(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// DeletePhoto removes a photo
// @Summary      Delete photo
// @Tags         photos
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Photo ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/photos/{id} [delete]
func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.photoService.DeletePhoto(c.Request.Context(), id); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Photo deleted successfully"}))
}
