// Package storage persists uploaded image batches to the public upload
// root and hands back the relative paths the catalog stores in the
// database.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxFilesPerBatch = 20
	MaxFileSize      = 10 << 20 // 10 MB per file
)

var (
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrFileTooLarge     = errors.New("file exceeds size limit")
)

var allowedMimes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/avif": true,
}

// UploadedFile describes one persisted upload. Path is the public
// relative URL ("/uploads/<name>") that goes into publication_images.
type UploadedFile struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
}

// ImageStore writes upload batches under a fixed directory. Files are
// never rewritten or deleted here; a database rollback after a write can
// leave an orphaned file behind, which the catalog tolerates.
type ImageStore struct {
	root string
}

func NewImageStore(root string) (*ImageStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ImageStore{root: root}, nil
}

// SaveBatch persists up to MaxFilesPerBatch files from a multipart
// batch; extra files beyond the cap are silently ignored. A file with a
// disallowed type fails the whole batch with ErrUnsupportedMedia, an
// oversized one with ErrFileTooLarge. Validation runs before any file
// is written, so a rejected batch leaves nothing on disk.
func (s *ImageStore) SaveBatch(files []*multipart.FileHeader) ([]UploadedFile, error) {
	if len(files) > MaxFilesPerBatch {
		files = files[:MaxFilesPerBatch]
	}
	for _, fh := range files {
		if fh.Size > MaxFileSize {
			return nil, fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, fh.Filename, fh.Size)
		}
		if err := s.checkMime(fh); err != nil {
			return nil, err
		}
	}

	out := make([]UploadedFile, 0, len(files))
	for _, fh := range files {
		saved, err := s.save(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, saved)
	}
	return out, nil
}

// checkMime sniffs the first bytes of the upload; when sniffing is
// inconclusive (AVIF detects as octet-stream) the client-declared
// Content-Type decides.
func (s *ImageStore) checkMime(fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	sniffed := http.DetectContentType(buf[:n])
	if allowedMimes[sniffed] {
		return nil
	}
	declared, _, _ := strings.Cut(fh.Header.Get("Content-Type"), ";")
	if sniffed == "application/octet-stream" && allowedMimes[strings.TrimSpace(declared)] {
		return nil
	}
	return fmt.Errorf("%w: %s (%s)", ErrUnsupportedMedia, fh.Filename, sniffed)
}

func (s *ImageStore) save(fh *multipart.FileHeader) (UploadedFile, error) {
	src, err := fh.Open()
	if err != nil {
		return UploadedFile{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	name := uniqueName(fh.Filename)
	dst, err := os.Create(filepath.Join(s.root, name))
	if err != nil {
		return UploadedFile{}, fmt.Errorf("create %s: %w", name, err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("write %s: %w", name, err)
	}
	return UploadedFile{
		Filename: name,
		Path:     "/uploads/" + name,
		Size:     size,
	}, nil
}

// uniqueName keeps the original base name and extension but appends a
// timestamp and random suffix so concurrent uploads of the same file
// never collide.
func uniqueName(original string) string {
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(filepath.Base(original), ext)
	if base == "" || base == "." {
		base = "image"
	}
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s-%d-%s%s", base, time.Now().UnixMilli(), suffix, ext)
}
