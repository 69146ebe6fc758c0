package uploads

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

var (
	ErrTooLarge    = errors.New("file exceeds the maximum allowed size")
	ErrBadMimeType = errors.New("file type is not allowed")
)

// Receipt and attachment uploads are gated before anything touches the
// database.
const (
	MaxReceiptSize    = 5 << 20 // 5 MiB
	MaxAttachmentSize = 5 << 20
	MaxImageSize      = 10 << 20
)

var (
	ImageMimeTypes   = []string{"image/jpeg", "image/png", "image/webp"}
	ReceiptMimeTypes = []string{"image/jpeg", "image/png", "image/webp", "application/pdf"}
)

// BaseDir returns the root uploads directory, UPLOAD_DIR or ./uploads.
func BaseDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

// Save validates the upload against a size ceiling and a mime allow-list,
// then stores it under <BaseDir>/<kind>/ with a collision-free name.
// It returns the public URL path of the stored file.
func Save(fh *multipart.FileHeader, kind string, maxBytes int64, allowedTypes []string) (string, error) {
	if fh.Size > maxBytes {
		return "", ErrTooLarge
	}

	file, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	// Sniff the content type instead of trusting the client header.
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	contentType := http.DetectContentType(head[:n])
	if !typeAllowed(contentType, allowedTypes) {
		return "", ErrBadMimeType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	dir := filepath.Join(BaseDir(), kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d_%s_%s", time.Now().Unix(), uuid.NewString()[:8], SanitizeFilename(fh.Filename))
	dest := filepath.Join(dir, name)

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}

	return "/uploads/" + kind + "/" + name, nil
}

// SanitizeFilename strips path components, collapses duplicate extensions
// like ".jpg.jpg" and replaces spaces.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	for {
		e := strings.ToLower(filepath.Ext(base))
		if e == ".jpg" || e == ".jpeg" || e == ".png" || e == ".webp" || e == ".pdf" {
			base = strings.TrimSuffix(base, filepath.Ext(base))
		} else {
			break
		}
	}

	base = strings.ReplaceAll(base, " ", "_")
	if base == "" {
		base = "file"
	}
	return base + strings.ToLower(ext)
}

func typeAllowed(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if contentType == t {
			return true
		}
	}
	return false
}

// Remove deletes a previously stored file given its public URL path. Missing
// files are not an error.
func Remove(fileURL string) error {
	rel := strings.TrimPrefix(fileURL, "/uploads/")
	if rel == fileURL {
		return nil // not one of ours
	}
	err := os.Remove(filepath.Join(BaseDir(), filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
