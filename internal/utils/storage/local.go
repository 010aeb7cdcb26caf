package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2/log"
)

type localStore struct {
	root string
	opts Options
}

func NewLocalStore(root string, opts Options) ImageStore {
	return &localStore{root: root, opts: opts}
}

func (s *localStore) Save(ctx context.Context, file *multipart.FileHeader, category string) (string, error) {
	return saveFileHeader(ctx, s, file, category)
}

func (s *localStore) SaveReader(ctx context.Context, r io.Reader, filename string, category string) (string, error) {
	return store(ctx, s, s.opts, r, filename, category)
}

func (s *localStore) write(_ context.Context, key string, data []byte, _ string) error {
	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

func (s *localStore) Delete(_ context.Context, ref string) {
	key, err := cleanReference(ref)
	if err != nil {
		log.Warnw("refusing to delete image", "ref", ref, "error", err)
		return
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Errorw("failed to delete image", "ref", ref, "error", err)
	}
}

func (s *localStore) PublicURL(ref string) string {
	if ref == "" {
		return ""
	}
	return "/uploads/" + ref
}
