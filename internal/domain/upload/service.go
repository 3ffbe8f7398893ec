package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"lodgecred/internal/domain/profile"
	"lodgecred/internal/pkg/metrics"
	"lodgecred/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultMaxFileSize = 5 * 1024 * 1024

// AllowedMimeTypes defines which document formats are accepted
var AllowedMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"application/pdf",
}

type slotWriter interface {
	UpdateDocument(ctx context.Context, userID int64, kind profile.DocumentKind, url string) error
}

// Service attaches member documents: validate, store the blob, then point
// the profile slot at it.
type Service struct {
	slots    slotWriter
	store    storage.BlobStore
	history  Repository
	maxBytes int64
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time
}

func NewService(slots slotWriter, store storage.BlobStore, history Repository, maxBytes int64, m *metrics.Metrics, log *zap.Logger) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		slots:    slots,
		store:    store,
		history:  history,
		maxBytes: maxBytes,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) MaxBytes() int64 { return s.maxBytes }

// Attach validates fh and stores it as the userID's document of kind.
// Validation happens in a fixed order before anything is written: file
// presence, kind, format, size.
func (s *Service) Attach(ctx context.Context, userID int64, kind string, fh *multipart.FileHeader) (string, error) {
	url, err := s.attach(ctx, userID, kind, fh)
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
		if !isValidationError(err) {
			outcome = "failed"
		}
	}
	s.metrics.IncUpload(metricKind(kind), outcome)
	return url, err
}

func (s *Service) attach(ctx context.Context, userID int64, rawKind string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNoFile
	}
	kind, ok := profile.ParseDocumentKind(rawKind)
	if !ok {
		return "", ErrInvalidType
	}

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if !allowed(mtype) {
		return "", ErrInvalidFormat
	}
	if fh.Size > s.maxBytes {
		return "", ErrFileTooLarge
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("%d/%s-%d-%s%s", userID, storage.SanitizeSegment(string(kind)), s.now().UnixMilli(), uuid.NewString()[:8], mtype.Extension())
	url, err := s.store.Put(ctx, key, mtype.String(), io.LimitReader(file, s.maxBytes))
	if err != nil {
		return "", err
	}

	if err := s.slots.UpdateDocument(ctx, userID, kind, url); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn("upload_blob_cleanup_failed", zap.String("key", key), zap.Error(delErr))
		}
		return "", err
	}

	if s.history != nil {
		doc := &Document{
			ID:        uuid.NewString(),
			UserID:    userID,
			Kind:      string(kind),
			BlobKey:   key,
			FileURL:   url,
			MimeType:  mtype.String(),
			Size:      fh.Size,
			CreatedAt: s.now(),
		}
		if err := s.history.Create(ctx, doc); err != nil {
			s.log.Warn("upload_history_write_failed", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	return url, nil
}

// History lists every accepted upload of userID, newest first.
func (s *Service) History(ctx context.Context, userID int64) ([]*Document, error) {
	return s.history.ListByUserID(ctx, userID)
}

// Open returns the blob at key when it belongs to userID. Admins may open
// any member's blob.
func (s *Service) Open(ctx context.Context, userID int64, admin bool, key string) (*storage.Object, error) {
	key, err := storage.CleanKey(strings.TrimPrefix(key, "/"))
	if err != nil {
		return nil, ErrDocumentNotFound
	}
	owner, _, _ := strings.Cut(key, "/")
	if !admin && owner != strconv.FormatInt(userID, 10) {
		return nil, ErrForbidden
	}
	obj, err := s.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return obj, nil
}

func allowed(mtype *mimetype.MIME) bool {
	for _, m := range AllowedMimeTypes {
		if mtype.Is(m) {
			return true
		}
	}
	return false
}

func isValidationError(err error) bool {
	switch err {
	case ErrNoFile, ErrInvalidType, ErrInvalidFormat, ErrFileTooLarge:
		return true
	}
	return false
}

func metricKind(kind string) string {
	if k, ok := profile.ParseDocumentKind(kind); ok {
		return string(k)
	}
	return "unknown"
}
