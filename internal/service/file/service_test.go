package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileService(t *testing.T) (*fileServiceImpl, string) {
	t.Helper()
	base := t.TempDir()
	local, err := storage.NewLocalStorage(base, "/uploads")
	require.NoError(t, err)
	svc := NewFileService(local).(*fileServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 11, 6, 8, 0, 0, 0, time.UTC) }
	return svc, base
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 7), uint8(y * 13), uint8((x + y) * 3), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadEvidence_ImageBecomesJPEG(t *testing.T) {
	svc, base := newTestFileService(t)

	url, key, err := svc.UploadEvidence(context.Background(), "00005950", bytes.NewReader(pngBytes(t, 64, 64)), "surat-dokter.PNG")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "evidence/00005950/2025-11/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.Equal(t, "/uploads/"+key, url)

	stored, err := os.ReadFile(filepath.Join(base, key))
	require.NoError(t, err)
	assert.True(t, isJPEG(stored))
	assert.LessOrEqual(t, len(stored), evidenceMaxBytes)
}

func TestUploadEvidence_PDFStoredAsIs(t *testing.T) {
	svc, base := newTestFileService(t)

	_, key, err := svc.UploadEvidence(context.Background(), "00005950", strings.NewReader("%PDF-1.7 body"), "evidence.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	stored, err := os.ReadFile(filepath.Join(base, key))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 body", string(stored))

	require.NoError(t, svc.DeleteFile(context.Background(), key))
	_, err = os.Stat(filepath.Join(base, key))
	assert.True(t, os.IsNotExist(err))
}

func TestUploadEvidence_Rejections(t *testing.T) {
	svc, _ := newTestFileService(t)
	ctx := context.Background()

	_, _, err := svc.UploadEvidence(ctx, "00005950", strings.NewReader("MZ"), "virus.exe")
	assert.ErrorIs(t, err, ErrUnsupportedEvidence)

	_, _, err = svc.UploadEvidence(ctx, "00005950", strings.NewReader("not an image"), "broken.jpg")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUploadEvidence_UnconfiguredStorage(t *testing.T) {
	svc := NewFileService(storage.Unconfigured{})

	_, _, err := svc.UploadEvidence(context.Background(), "00005950", io.LimitReader(strings.NewReader("%PDF"), 4), "a.pdf")
	assert.ErrorIs(t, err, apperror.ErrStorageUnavailable)
}
