package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xinwork/repair-order-api/internal/constants"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/importer"
	"github.com/xinwork/repair-order-api/internal/services"
)

// multipart framing allowed on top of the file size limit
const importFormOverhead = 1 << 20

type ImportHandler struct {
	importService *services.ImportService
	maxSize       int64
}

// NewImportHandler creates an ImportHandler; maxSizeMiB <= 0 disables the size limit
func NewImportHandler(importService *services.ImportService, maxSizeMiB int64) *ImportHandler {
	return &ImportHandler{importService: importService, maxSize: maxSizeMiB << 20}
}

// Import returns the handler that bulk-imports a CSV or XLSX upload of entity
func (h *ImportHandler) Import(entity services.ImportEntity) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			return
		}

		if h.maxSize > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+importFormOverhead)
		}
		header, err := c.FormFile(constants.ImportFormFileField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				apierrors.RespondWithError(c, http.StatusRequestEntityTooLarge,
					apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, h.limitMessage()))
				return
			}
			apierrors.BadRequest(c, "file is required")
			return
		}
		if h.maxSize > 0 && header.Size > h.maxSize {
			apierrors.BadRequest(c, h.limitMessage())
			return
		}
		format, err := importer.FormatFromFilename(header.Filename)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}

		f, err := header.Open()
		if err != nil {
			apierrors.Respond(c, fmt.Errorf("failed to open import file: %w", err))
			return
		}
		defer f.Close()
		raw, err := io.ReadAll(f)
		if err != nil {
			apierrors.Respond(c, fmt.Errorf("failed to read import file: %w", err))
			return
		}

		result, err := h.importService.Import(c.Request.Context(), actor, entity, raw, format)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusCreated, result)
	}
}

func (h *ImportHandler) limitMessage() string {
	return fmt.Sprintf("import file exceeds the %d MiB limit", h.maxSize>>20)
}

// Options answers a bare OPTIONS request on an import endpoint
func (h *ImportHandler) Options(c *gin.Context) {
	c.Header("Allow", "OPTIONS, POST")
	c.Status(http.StatusNoContent)
}

// Template returns the handler that downloads a header-only import file of entity
func (h *ImportHandler) Template(entity services.ImportEntity) gin.HandlerFunc {
	return func(c *gin.Context) {
		format, err := importer.ParseFormat(c.Query("format"))
		if err != nil {
			apierrors.Respond(c, err)
			return
		}

		var buf bytes.Buffer
		if err := h.importService.Template(&buf, entity, format); err != nil {
			apierrors.Respond(c, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_template.%s"`, entity, format))
		c.Data(http.StatusOK, importer.ContentType(format), buf.Bytes())
	}
}
