package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/services"
)

type UploadHandler struct {
	uploadService *services.UploadService
}

func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadFile stores the file in form field "file"
func (h *UploadHandler) UploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "file is required")
		return
	}

	file, err := h.uploadService.Save(header)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, file)
}

// UploadFiles stores every file in form field "files" and reports each outcome
func (h *UploadHandler) UploadFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		apierrors.BadRequest(c, "files are required")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"files": h.uploadService.SaveMany(form.File["files"])})
}
