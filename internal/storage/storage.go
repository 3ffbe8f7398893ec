// Package storage keeps uploaded member documents.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DocumentsPrefix is the authenticated route LocalStore blobs are addressed
// under. Nothing serves the upload directory directly.
const DocumentsPrefix = "/api/v1/documents"

var (
	ErrInvalidKey = errors.New("invalid blob key")
	ErrNotFound   = errors.New("blob not found")
)

// BlobStore writes documents and returns their address. The address is
// only dereferenced through Open.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	Open(ctx context.Context, key string) (*Object, error)
	KeyOf(addr string) (string, bool)
}

// Object is an opened blob. Callers close it.
type Object struct {
	io.ReadSeekCloser
	Name    string
	ModTime time.Time
}

// LocalStore keeps blobs on disk under baseDir.
type LocalStore struct {
	baseDir string
	urlBase string
}

func NewLocalStore(baseDir, publicBaseURL string) *LocalStore {
	return &LocalStore{
		baseDir: baseDir,
		urlBase: strings.TrimRight(publicBaseURL, "/") + DocumentsPrefix,
	}
}

func (s *LocalStore) Put(ctx context.Context, key, _ string, r io.Reader) (string, error) {
	absPath, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return s.urlBase + "/" + filepath.ToSlash(key), nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	absPath, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(absPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) Open(ctx context.Context, key string) (*Object, error) {
	absPath, err := s.path(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, ErrNotFound
	}
	return &Object{ReadSeekCloser: f, Name: filepath.Base(absPath), ModTime: info.ModTime()}, nil
}

// KeyOf maps an address returned by Put back to its key. The host part is
// ignored so stored addresses survive a change of public base URL.
func (s *LocalStore) KeyOf(addr string) (string, bool) {
	u, err := url.Parse(addr)
	if err != nil {
		return "", false
	}
	key, ok := strings.CutPrefix(u.Path, DocumentsPrefix+"/")
	if !ok {
		return "", false
	}
	clean, err := CleanKey(key)
	if err != nil {
		return "", false
	}
	return clean, true
}

func (s *LocalStore) path(key string) (string, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(clean)), nil
}

// CleanKey resolves dot segments in key and rejects keys that would leave
// the store.
func CleanKey(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == "." || strings.HasPrefix(clean, "..") {
		return "", ErrInvalidKey
	}
	return filepath.ToSlash(clean), nil
}

// SanitizeSegment keeps letters, digits, dash and underscore.
func SanitizeSegment(name string) string {
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		return "file"
	}
	return name
}
