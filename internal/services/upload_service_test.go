package services

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xinwork/repair-order-api/internal/config"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
)

// fileHeaders builds multipart headers for the given name -> content pairs
func fileHeaders(t *testing.T, files map[string]string) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["files"]
}

func TestUploadService_Save(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(config.UploadConfig{Dir: dir, URLPrefix: "/uploads/", MaxSizeMiB: 1}, nil)

	headers := fileHeaders(t, map[string]string{"Site Photo.JPG": "jpeg bytes"})
	file, err := svc.Save(headers[0])
	require.NoError(t, err)

	assert.Equal(t, "Site Photo.JPG", file.OriginalName)
	assert.True(t, strings.HasSuffix(file.Filename, ".jpg"))
	assert.Equal(t, "/uploads/"+file.Filename, file.URL)
	assert.Equal(t, int64(len("jpeg bytes")), file.Size)

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(file.Filename)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(stored))
}

func TestUploadService_RejectsOversizedFile(t *testing.T) {
	svc := NewUploadService(config.UploadConfig{Dir: t.TempDir(), URLPrefix: "/uploads", MaxSizeMiB: 1}, nil)

	headers := fileHeaders(t, map[string]string{"big.bin": strings.Repeat("x", 1<<20+1)})
	_, err := svc.Save(headers[0])
	require.Error(t, err)
	assert.True(t, apierrors.IsKind(err, apierrors.KindValidation))

	_, err = svc.Save(nil)
	assert.True(t, apierrors.IsKind(err, apierrors.KindValidation))
}

func TestUploadService_SaveManyReportsEachFile(t *testing.T) {
	svc := NewUploadService(config.UploadConfig{Dir: t.TempDir(), URLPrefix: "/uploads", MaxSizeMiB: 1}, nil)

	headers := fileHeaders(t, map[string]string{
		"a.txt":   "small",
		"big.bin": strings.Repeat("x", 1<<20+1),
	})
	results := svc.SaveMany(headers)
	require.Len(t, results, 2)

	byName := make(map[string]UploadResult, len(results))
	for _, r := range results {
		byName[r.OriginalName] = r
	}
	require.NotNil(t, byName["a.txt"].UploadedFile)
	assert.Empty(t, byName["a.txt"].Error)
	assert.Nil(t, byName["big.bin"].UploadedFile)
	assert.Contains(t, byName["big.bin"].Error, "exceeds")
}
