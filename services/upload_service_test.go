package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fileHeader builds a *multipart.FileHeader the way gin receives one.
func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File[field][0]
}

func TestUploadSaveAndRemove(t *testing.T) {
	root := t.TempDir()
	svc := NewUploadService(root)

	path, err := svc.Save(fileHeader(t, "image", "dish.png", pngBytes(t)), MenuImageRule)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "/uploads/menus/"), path)
	assert.True(t, strings.HasSuffix(path, ".png"), path)

	onDisk := filepath.Join(root, "menus", filepath.Base(path))
	_, err = os.Stat(onDisk)
	require.NoError(t, err)

	svc.Remove(path)
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	// paths outside the upload root are ignored
	svc.Remove("/uploads/../secret.txt")
	svc.Remove("/etc/passwd")
}

func TestUploadRejects(t *testing.T) {
	svc := NewUploadService(t.TempDir())

	_, err := svc.Save(nil, MenuImageRule)
	assert.Equal(t, "upload.required", appCode(t, err))

	// extension lies; content is sniffed
	_, err = svc.Save(fileHeader(t, "image", "fake.png", []byte("just some text")), MenuImageRule)
	assert.Equal(t, "upload.invalidType", appCode(t, err))

	small := UploadRule{Subdir: "tiny", MaxBytes: 10, Mimes: []string{"image/png"}}
	_, err = svc.Save(fileHeader(t, "image", "dish.png", pngBytes(t)), small)
	assert.Equal(t, "upload.tooLarge", appCode(t, err))
}

func TestPaymentSlipAcceptsPDF(t *testing.T) {
	svc := NewUploadService(t.TempDir())
	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
	path, err := svc.Save(fileHeader(t, "slip", "slip.pdf", pdf), PaymentSlipRule)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "/uploads/payment-slips/"))
	assert.True(t, strings.HasSuffix(path, ".pdf"))
}
