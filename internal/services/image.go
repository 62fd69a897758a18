package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/casalabia/realtor-backend/internal/config"
	"github.com/casalabia/realtor-backend/internal/logger"
)

var allowedUploadMimes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ImageService decodes uploaded originals, checks them against the media
// limits and produces resized JPEG variants. Variants never upscale.
type ImageService interface {
	ValidateUploadRequest(mime string, sizeBytes int64) error
	Decode(data []byte) (image.Image, string, error)
	ValidateDimensions(img image.Image) error
	Resize(img image.Image, targetWidth int) image.Image
	EncodeJPEG(img image.Image) ([]byte, error)
}

type imageService struct {
	log *logger.Logger
	cfg config.MediaConfig
}

func NewImageService(cfg config.MediaConfig, baseLog *logger.Logger) ImageService {
	return &imageService{
		log: baseLog.With("service", "ImageService"),
		cfg: cfg,
	}
}

// ValidateUploadRequest runs before a signed URL is handed out, on the
// client-declared mime and size alone.
func (is *imageService) ValidateUploadRequest(mime string, sizeBytes int64) error {
	if !allowedUploadMimes[mime] {
		return fmt.Errorf("%w: unsupported content type %q", ErrValidation, mime)
	}
	if sizeBytes <= 0 {
		return fmt.Errorf("%w: file size must be positive", ErrValidation)
	}
	if sizeBytes > is.cfg.MaxFileSizeBytes {
		return fmt.Errorf("%w: file exceeds %d bytes", ErrValidation, is.cfg.MaxFileSizeBytes)
	}
	return nil
}

func (is *imageService) Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: undecodable image: %v", ErrValidation, err)
	}
	return img, format, nil
}

func (is *imageService) ValidateDimensions(img image.Image) error {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < is.cfg.MinDimensionPx || h < is.cfg.MinDimensionPx {
		return fmt.Errorf("%w: image %dx%d below minimum %dpx", ErrValidation, w, h, is.cfg.MinDimensionPx)
	}
	if w > is.cfg.MaxDimensionPx || h > is.cfg.MaxDimensionPx {
		return fmt.Errorf("%w: image %dx%d above maximum %dpx", ErrValidation, w, h, is.cfg.MaxDimensionPx)
	}
	return nil
}

// Resize scales to targetWidth preserving aspect ratio. Images already at
// or below the target are returned unchanged.
func (is *imageService) Resize(img image.Image, targetWidth int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= targetWidth {
		return img
	}
	targetHeight := bounds.Dy() * targetWidth / bounds.Dx()
	if targetHeight < 1 {
		targetHeight = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}

func (is *imageService) EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: is.cfg.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
