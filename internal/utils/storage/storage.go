package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"Cuisinade/internal/utils"

	"github.com/google/uuid"
)

const (
	// DefaultMaxPixels bounds width*height of an image the optimizer decodes.
	DefaultMaxPixels = 50_000_000

	CategoryRecipes  = "recipes"
	CategoryComments = "comments"
)

var (
	AllowImage = []string{"png", "jpg", "jpeg", "gif", "webp"}

	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrInvalidReference  = errors.New("invalid image reference")
	ErrImageTooLarge     = errors.New("image dimensions exceed the pixel limit")
)

type (
	// ImageStore persists uploaded images under a category and hands back a
	// relative reference of the form "<category>/<filename>".
	ImageStore interface {
		Save(ctx context.Context, file *multipart.FileHeader, category string) (string, error)
		SaveReader(ctx context.Context, r io.Reader, filename string, category string) (string, error)
		// Delete is best effort: a missing object is not an error and any
		// failure is logged, never returned.
		Delete(ctx context.Context, ref string)
		PublicURL(ref string) string
	}

	Options struct {
		Optimize     bool
		MaxDimension int
		Quality      int
		MaxPixels    int
	}

	// writer is the backend-specific half of an ImageStore.
	writer interface {
		write(ctx context.Context, key string, data []byte, contentType string) error
	}
)

func DefaultOptions() Options {
	return Options{
		Optimize:     true,
		MaxDimension: utils.GetConfigInt("IMAGE_MAX_DIMENSION", 1024),
		Quality:      utils.GetConfigInt("IMAGE_QUALITY", 85),
		MaxPixels:    utils.GetConfigInt("IMAGE_MAX_PIXELS", DefaultMaxPixels),
	}
}

// New builds the store selected by STORAGE_DRIVER.
func New(ctx context.Context) (ImageStore, error) {
	switch driver := utils.GetConfig("STORAGE_DRIVER"); driver {
	case "", "local":
		return NewLocalStore(utils.GetConfig("UPLOAD_DIR"), DefaultOptions()), nil
	case "s3":
		return NewAwsS3(ctx, DefaultOptions())
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}
}

func IsAllowed(filename string) bool {
	return allowedExtension(filename) != ""
}

func allowedExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	ext := strings.ToLower(filename[idx+1:])
	for _, allowed := range AllowImage {
		if ext == allowed {
			return ext
		}
	}
	return ""
}

func saveFileHeader(ctx context.Context, s ImageStore, file *multipart.FileHeader, category string) (string, error) {
	if !IsAllowed(file.Filename) {
		return "", ErrUnsupportedFormat
	}
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return s.SaveReader(ctx, f, file.Filename, category)
}

// store runs the shared save pipeline: extension check, unique name,
// optional optimization with fallback to the original bytes, backend write.
func store(ctx context.Context, w writer, opts Options, r io.Reader, filename, category string) (string, error) {
	ext := allowedExtension(filename)
	if ext == "" {
		return "", ErrUnsupportedFormat
	}
	if !validCategory(category) {
		return "", fmt.Errorf("%w: category %q", ErrInvalidReference, category)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	if opts.Optimize {
		optimized, newExt, err := optimize(data, ext, opts.MaxDimension, opts.Quality, opts.MaxPixels)
		if err != nil {
			logOptimizeFallback(filename, err)
		} else {
			data, ext = optimized, newExt
		}
	}

	ref := path.Join(category, uuid.New().String()+"."+ext)
	if err := w.write(ctx, ref, data, contentType(ext)); err != nil {
		return "", err
	}
	return ref, nil
}

func validCategory(category string) bool {
	return category != "" && !strings.ContainsAny(category, `/\.`)
}

// cleanReference rejects references that would escape the upload root.
func cleanReference(ref string) (string, error) {
	ref = strings.TrimPrefix(ref, "/")
	cleaned := path.Clean(ref)
	if ref == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") || strings.Count(cleaned, "/") != 1 {
		return "", ErrInvalidReference
	}
	return cleaned, nil
}

func contentType(ext string) string {
	switch ext {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
