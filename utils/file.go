package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var (
	ErrFileTooLarge     = errors.New("file size exceeds maximum allowed size")
	ErrInvalidImageType = errors.New("invalid file type. Only jpg, jpeg, png, gif, webp allowed")
)

func ValidateImage(filename string, size, maxSize int64) error {
	if size > maxSize {
		return ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExtensions[ext] {
		return ErrInvalidImageType
	}
	return nil
}

// LocalImageStore keeps uploaded images under a directory served at /uploads.
type LocalImageStore struct {
	Dir       string
	URLPrefix string
	SubDir    string
}

func NewLocalImageStore(dir, subDir string) *LocalImageStore {
	return &LocalImageStore{Dir: dir, URLPrefix: "/uploads", SubDir: subDir}
}

func (s *LocalImageStore) Upload(_ context.Context, file io.Reader, filename string) (string, string, error) {
	uploadPath := filepath.Join(s.Dir, s.SubDir)
	if err := os.MkdirAll(uploadPath, os.ModePerm); err != nil {
		return "", "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), strings.ReplaceAll(filepath.Base(filename), " ", "_"))
	if len(name) > 255 {
		name = fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	}

	dst, err := os.Create(filepath.Join(uploadPath, name))
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", "", err
	}

	rel := filepath.ToSlash(filepath.Join(s.SubDir, name))
	return s.URLPrefix + "/" + rel, rel, nil
}

func (s *LocalImageStore) Delete(_ context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	fullPath := filepath.Join(s.Dir, filepath.FromSlash(publicID))
	if _, err := os.Stat(fullPath); err == nil {
		return os.Remove(fullPath)
	}
	return nil
}
