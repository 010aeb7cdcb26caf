package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	// decoders for image.Decode
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
)

// optimize flattens transparency onto white, shrinks the image to fit a
// maxDim square and re-encodes it. webp has no encoder so it comes out as jpg.
//
// The header is checked first so an image over maxPixels is never decoded.
func optimize(data []byte, ext string, maxDim, quality, maxPixels int) ([]byte, string, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}

	if !isOpaque(img) {
		b := img.Bounds()
		background := imaging.New(b.Dx(), b.Dy(), color.White)
		img = imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
	}

	if maxDim > 0 {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	switch ext {
	case "png":
		err = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case "gif":
		err = imaging.Encode(&buf, img, imaging.GIF)
	case "webp":
		ext = "jpg"
		fallthrough
	default:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	}
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), ext, nil
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

func logOptimizeFallback(filename string, err error) {
	log.Warnw("image optimization failed, storing original", "filename", filename, "error", err)
}
