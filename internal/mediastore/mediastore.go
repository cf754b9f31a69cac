// Package mediastore persists uploaded cat media on local disk and hands
// out the public URLs the catalog references.
package mediastore

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/0xZumii/cat-tv/pkg/apperr"
	"github.com/0xZumii/cat-tv/pkg/logger"
)

// MaxUploadBytes caps the decoded payload size at 5MB.
const MaxUploadBytes = 5 * 1024 * 1024

// extByContentType maps accepted media content types to file extensions.
var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"video/mp4":  ".mp4",
	"video/webm": ".webm",
}

type Store struct {
	logger *logger.Logger

	dir     string
	baseURL string
}

// NewStore creates the media directory if needed.
func NewStore(logger *logger.Logger, dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &Store{logger: logger, dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Dir returns the on-disk directory the HTTP server serves statically.
func (s *Store) Dir() string {
	return s.dir
}

// MediaKind returns image or video for an accepted content type.
func MediaKind(contentType string) (string, bool) {
	if _, ok := extByContentType[contentType]; !ok {
		return "", false
	}
	if strings.HasPrefix(contentType, "image/") {
		return "image", true
	}
	return "video", true
}

// Save decodes a base64 payload and writes it under a generated name.
// Returns the public URL of the stored file. The size and type checks run
// before anything touches disk.
func (s *Store) Save(data, contentType string) (string, error) {
	ext, ok := extByContentType[contentType]
	if !ok {
		return "", apperr.New(apperr.InvalidArgument, "Unsupported media type: %s", contentType)
	}

	// Base64 expands by 4/3, so the encoded length bounds the decoded size.
	// DecodedLen ignores padding and over-estimates by up to two bytes, so
	// the exact check below is the authoritative one.
	if base64.StdEncoding.DecodedLen(len(data)) > MaxUploadBytes+2 {
		return "", apperr.New(apperr.InvalidArgument, "File too large (max 5MB)")
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", apperr.New(apperr.InvalidArgument, "Invalid base64 payload")
	}
	if len(decoded) > MaxUploadBytes {
		return "", apperr.New(apperr.InvalidArgument, "File too large (max 5MB)")
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, decoded, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	s.logger.Debug("Stored media file ", "name ", name, "bytes ", len(decoded))
	return s.baseURL + "/media/" + name, nil
}
