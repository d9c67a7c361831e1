package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"math"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	evidenceMaxBytes = 300 * 1024
	evidenceMinBytes = 50 * 1024
)

var (
	imageExts    = []string{".jpg", ".jpeg", ".png"}
	documentExts = []string{".pdf"}

	ErrUnsupportedEvidence = apperror.New(apperror.KindValidation, "evidence must be a jpg, jpeg, png or pdf file")
)

type FileService interface {
	// UploadEvidence stores a proposal attachment and returns its public URL.
	// Images are re-encoded as JPEG within a bounded size; PDFs are stored as-is.
	UploadEvidence(ctx context.Context, submitterNIK string, file io.Reader, filename string) (url string, key string, err error)

	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
	}
}

// UploadEvidence implements FileService.
func (s *fileServiceImpl) UploadEvidence(ctx context.Context, submitterNIK string, file io.Reader, filename string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	isImage := slices.Contains(imageExts, ext)
	if !isImage && !slices.Contains(documentExts, ext) {
		return "", "", ErrUnsupportedEvidence
	}

	body := file
	contentType := "application/pdf"
	if isImage {
		buffer, err := io.ReadAll(file)
		if err != nil {
			return "", "", fmt.Errorf("failed to read image: %w", err)
		}
		compressed, err := compressImage(buffer, evidenceMaxBytes, evidenceMinBytes)
		if err != nil {
			return "", "", apperror.Wrap(err, apperror.KindValidation, "evidence image could not be decoded")
		}
		// Always output as JPEG after compression for consistency
		body = bytes.NewReader(compressed)
		ext = ".jpg"
		contentType = "image/jpeg"
	}

	// evidence/{nik}/{yyyy-mm}/{uuid}{ext}
	key := path.Join("evidence", submitterNIK, s.now().Format("2006-01"), uuid.New().String()+ext)

	uploaded, err := s.storage.Upload(ctx, body, key, contentType)
	if err != nil {
		return "", "", fmt.Errorf("failed to upload evidence: %w", err)
	}

	url, err := s.storage.GetURL(ctx, uploaded, 0)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve evidence url: %w", err)
	}
	return url, uploaded, nil
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL generates URL to access file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}

// compressImage re-encodes an image as JPEG aiming for minSize..maxSize bytes.
// Images already inside the range are returned untouched.
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if len(buffer) <= maxSize && len(buffer) >= minSize && isJPEG(buffer) {
		return buffer, nil
	}

	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()

	// Start with quality 85 and reduce progressively
	quality := 85
	var compressed []byte
	for quality >= 50 {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		compressed = buf.Bytes()

		if len(compressed) <= maxSize {
			return compressed, nil
		}
		quality -= 5
	}

	// Still too large: scale down towards the middle of the range.
	targetSize := (maxSize + minSize) / 2
	ratio := math.Sqrt(float64(targetSize) / float64(len(compressed)))
	newWidth := max(int(float64(originalWidth)*ratio), 1)
	newHeight := max(int(float64(originalHeight)*ratio), 1)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resizeImage(img, newWidth, newHeight), &jpeg.Options{Quality: 70}); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}

func isJPEG(b []byte) bool {
	return len(b) > 2 && b[0] == 0xFF && b[1] == 0xD8
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
