package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/xinwork/repair-order-api/internal/config"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/utils"
	"go.uber.org/zap"
)

// UploadedFile describes a stored upload
type UploadedFile struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_filename"`
	URL          string `json:"url"`
	Size         int64  `json:"size"`
	ContentType  string `json:"content_type"`
}

// UploadResult is the outcome of one file in a multi-file upload
type UploadResult struct {
	*UploadedFile
	OriginalName string `json:"original_filename,omitempty"`
	Error        string `json:"error,omitempty"`
}

// UploadService stores files under date-bucketed directories with unique names
type UploadService struct {
	dir       string
	urlPrefix string
	maxSize   int64
	log       *zap.Logger
	now       func() time.Time
}

// NewUploadService creates a new UploadService
func NewUploadService(cfg config.UploadConfig, log *zap.Logger) *UploadService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UploadService{
		dir:       cfg.Dir,
		urlPrefix: strings.TrimRight(cfg.URLPrefix, "/"),
		maxSize:   int64(cfg.MaxSizeMiB) << 20,
		log:       log,
		now:       time.Now,
	}
}

// Save stores one uploaded file
func (s *UploadService) Save(header *multipart.FileHeader) (*UploadedFile, error) {
	if header == nil || header.Filename == "" {
		return nil, apierrors.NewValidation("no file uploaded")
	}
	if s.maxSize > 0 && header.Size > s.maxSize {
		return nil, apierrors.NewValidation("file %q exceeds the %d MiB limit", header.Filename, s.maxSize>>20)
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	stored := utils.StoredFilename(header.Filename, s.now())
	dst := filepath.Join(s.dir, filepath.FromSlash(stored))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	size, err := io.Copy(out, src)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	s.log.Info("file uploaded", zap.String("path", stored), zap.Int64("size", size))
	return &UploadedFile{
		Filename:     stored,
		OriginalName: header.Filename,
		URL:          path.Join(s.urlPrefix, stored),
		Size:         size,
		ContentType:  header.Header.Get("Content-Type"),
	}, nil
}

// SaveMany stores each file independently; one failure does not stop the others.
// Unexpected failures are logged and reported with a generic message.
func (s *UploadService) SaveMany(headers []*multipart.FileHeader) []UploadResult {
	results := make([]UploadResult, 0, len(headers))
	for _, h := range headers {
		file, err := s.Save(h)
		if err == nil {
			results = append(results, UploadResult{UploadedFile: file, OriginalName: h.Filename})
			continue
		}

		msg := "failed to store file"
		if apierrors.IsKind(err, apierrors.KindValidation) {
			msg = err.Error()
		} else {
			s.log.Error("upload failed", zap.String("filename", h.Filename), zap.Error(err))
		}
		results = append(results, UploadResult{OriginalName: h.Filename, Error: msg})
	}
	return results
}
