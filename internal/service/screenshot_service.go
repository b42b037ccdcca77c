package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradejournal/internal/repository"
)

// allowedImageTypes maps accepted sniffed MIME types to a canonical
// extension for the stored filename.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// imageExtensions lists the claimed extensions accepted per sniffed type.
// Anything else is replaced with the canonical extension so files under
// the statically served upload directory never carry a lying suffix.
var imageExtensions = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/gif":  {".gif"},
}

func validImageExt(contentType, ext string) bool {
	for _, allowed := range imageExtensions[contentType] {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ScreenshotService stores trade screenshots under a configured directory
// with collision-resistant names, and periodically sweeps files that no
// trade_screenshots row references (left behind by rolled-back submissions
// or deleted strategies).
type ScreenshotService struct {
	Repo         repository.Repository
	Logger       *zap.Logger
	Dir          string
	MaxSizeBytes int64
}

// Store validates and persists one uploaded file, returning the stored
// filename. The MIME type is sniffed from content, not trusted from the
// request.
func (s *ScreenshotService) Store(fh *multipart.FileHeader, tradeID uint64) (string, error) {
	if s == nil || fh == nil {
		return "", fmt.Errorf("no file")
	}
	if s.MaxSizeBytes > 0 && fh.Size > s.MaxSizeBytes {
		return "", fmt.Errorf("file size %d exceeds maximum %d bytes", fh.Size, s.MaxSizeBytes)
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	canonicalExt, ok := allowedImageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("file type %s not allowed", contentType)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !validImageExt(contentType, ext) {
		ext = canonicalExt
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("trade_%d_%s%s", tradeID, uuid.New().String(), ext)
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := dst.Write(head); err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return name, nil
}

// SweepOrphans deletes files in the upload directory that have no
// corresponding screenshot row. Returns the number of files removed.
func (s *ScreenshotService) SweepOrphans(ctx context.Context) (int, error) {
	if s == nil || s.Repo == nil || s.Dir == "" {
		return 0, nil
	}

	referenced, err := s.Repo.ListScreenshotPaths(ctx)
	if err != nil {
		return 0, err
	}
	keep := make(map[string]struct{}, len(referenced))
	for _, p := range referenced {
		keep[filepath.Base(p)] = struct{}{}
	}

	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := keep[entry.Name()]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(s.Dir, entry.Name())); err != nil {
			if s.Logger != nil {
				s.Logger.Warn("orphan sweep remove failed",
					zap.String("file", entry.Name()),
					zap.Error(err),
				)
			}
			continue
		}
		removed++
	}

	if removed > 0 && s.Logger != nil {
		s.Logger.Info("orphan screenshots removed", zap.Int("count", removed))
	}
	return removed, nil
}
