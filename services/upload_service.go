package services

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const mb = 1 << 20

// UploadRule describes what a given upload slot accepts.
type UploadRule struct {
	Subdir   string
	MaxBytes int64
	Mimes    []string
}

var (
	MenuImageRule = UploadRule{
		Subdir:   "menus",
		MaxBytes: 5 * mb,
		Mimes:    []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
	}
	PackageImageRule = UploadRule{
		Subdir:   "packages",
		MaxBytes: 5 * mb,
		Mimes:    []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
	}
	PaymentSlipRule = UploadRule{
		Subdir:   "payment-slips",
		MaxBytes: 10 * mb,
		Mimes:    []string{"image/jpeg", "image/png", "image/webp", "application/pdf"},
	}
)

// UploadService เขียนไฟล์ลง UPLOAD_DIR และคืน path แบบ /uploads/<subdir>/<file>
type UploadService struct {
	Root string
}

func NewUploadService(root string) *UploadService {
	if strings.TrimSpace(root) == "" {
		root = "uploads"
	}
	return &UploadService{Root: root}
}

// Save validates and stores the file, returning its public path.
func (s *UploadService) Save(fh *multipart.FileHeader, rule UploadRule) (string, error) {
	if fh == nil {
		return "", ValidationError("upload.required", nil)
	}
	if fh.Size > rule.MaxBytes {
		return "", ValidationError("upload.tooLarge", map[string]any{"limit": rule.MaxBytes / mb})
	}

	src, err := fh.Open()
	if err != nil {
		return "", InternalError("upload.failed", fmt.Errorf("open upload: %w", err))
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return "", InternalError("upload.failed", fmt.Errorf("detect mime: %w", err))
	}
	if !mimetype.EqualsAny(mt.String(), rule.Mimes...) {
		return "", ValidationError("upload.invalidType", nil)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", InternalError("upload.failed", fmt.Errorf("rewind upload: %w", err))
	}

	dir := filepath.Join(s.Root, rule.Subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", InternalError("upload.failed", fmt.Errorf("mkdir uploads dir: %w", err))
	}

	filename := uuid.NewString() + mt.Extension()
	fullpath := filepath.Join(dir, filename)

	dst, err := os.OpenFile(fullpath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return "", InternalError("upload.failed", fmt.Errorf("create file: %w", err))
	}
	// อ่านเกิน limit มา 1 byte เพื่อตรวจว่า header โกหกขนาดไฟล์หรือไม่
	n, err := io.Copy(dst, io.LimitReader(src, rule.MaxBytes+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(fullpath)
		return "", InternalError("upload.failed", fmt.Errorf("write file: %w", err))
	}
	if n > rule.MaxBytes {
		_ = os.Remove(fullpath)
		return "", ValidationError("upload.tooLarge", map[string]any{"limit": rule.MaxBytes / mb})
	}

	return "/uploads/" + filepath.ToSlash(filepath.Join(rule.Subdir, filename)), nil
}

// Remove deletes a file previously returned by Save. Unknown paths are ignored.
func (s *UploadService) Remove(publicPath string) {
	rel := strings.TrimPrefix(publicPath, "/uploads/")
	if rel == "" || rel == publicPath || strings.Contains(rel, "..") {
		return
	}
	if err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ failed to remove upload %s: %v", publicPath, err)
	}
}
