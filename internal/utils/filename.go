package utils

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xinwork/repair-order-api/internal/constants"
)

// StoredFilename returns a unique relative path "<YYYYMMDD>/<uuid><ext>" for an uploaded file.
// The extension of the original name is kept, lower-cased.
func StoredFilename(original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	return filepath.ToSlash(filepath.Join(now.Format(constants.UploadDateLayout), uuid.NewString()+ext))
}
