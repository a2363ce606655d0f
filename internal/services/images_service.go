package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/gommon/random"
	"go.uber.org/zap"

	"github.com/Dnicola11/repuestos/internal/backend"
	"github.com/Dnicola11/repuestos/internal/store"
)

const imageKeyPrefix = "repuestos/"

// ImageFetcher resolves an image source (local path or http(s) URL) into its
// raw bytes.
type ImageFetcher func(ctx context.Context, source string) ([]byte, error)

// ImagesService uploads part images to the blob store and removes them.
// Deletion is fire-and-forget: it reports nothing to the caller and the
// shared error slot stays untouched; failures only reach the log.
type ImagesService struct {
	store *store.Store
	blobs BlobService
	log   *zap.Logger
	fetch ImageFetcher
	now   func() time.Time
}

func NewImagesService(st *store.Store, blobs BlobService, log *zap.Logger) *ImagesService {
	return &ImagesService{
		store: st,
		blobs: blobs,
		log:   log,
		fetch: FetchImage,
		now:   time.Now,
	}
}

// UploadImage stores the image behind source and returns its public URL.
// Requires an authenticated session.
func (s *ImagesService) UploadImage(ctx context.Context, source string) (string, error) {
	s.store.Apply(store.SetLoading{Value: true})
	s.store.Apply(store.ClearError{})
	defer s.store.Apply(store.SetLoading{Value: false})

	user := s.store.CurrentUser()
	if user == nil {
		err := backend.New(backend.KindUnauthenticated, "upload image: not authenticated")
		return "", s.fail(msgNotAuthenticated, err)
	}

	payload, err := s.fetch(ctx, source)
	if err != nil {
		return "", s.fail("Could not read the image", err)
	}
	if len(payload) == 0 {
		err := backend.New(backend.KindInvalidArgument, "upload image: empty payload")
		return "", s.fail("The image is empty", err)
	}

	now := s.now()
	key := fmt.Sprintf("%s%d_%s.jpg", imageKeyPrefix, now.UnixMilli(), random.String(8))
	metadata := map[string]string{
		"uploadedBy": user.ID,
		"uploadedAt": now.Format(time.RFC3339),
	}

	if err := s.blobs.Upload(ctx, key, bytes.NewReader(payload), int64(len(payload)), "image/jpeg", metadata); err != nil {
		return "", s.fail(uploadMessage(err), err)
	}

	return s.blobs.PublicURL(key), nil
}

// DeleteImage removes the object behind a public URL. No error is returned;
// the part the image belonged to is already gone or going, and a dangling
// blob is cheaper than a blocked delete.
func (s *ImagesService) DeleteImage(ctx context.Context, rawURL string) {
	if rawURL == "" {
		return
	}
	if err := s.blobs.DeleteByURL(ctx, rawURL); err != nil {
		s.log.Warn("image delete failed", zap.String("image_url", rawURL), zap.Error(err))
	}
}

func (s *ImagesService) fail(msg string, cause error) error {
	s.store.Apply(store.SetError{Message: msg})
	s.log.Warn("image upload failed", zap.Error(cause))
	return backend.Wrap(backend.KindOf(cause), msg, cause)
}

func uploadMessage(err error) string {
	switch backend.KindOf(err) {
	case backend.KindPermissionDenied:
		return "You do not have permission to upload images"
	case backend.KindTimeout:
		return "The upload took too long. Try again"
	case backend.KindUnavailable:
		return "Service unavailable. Check your connection"
	default:
		return "Could not upload the image"
	}
}

// FetchImage is the default ImageFetcher: http(s) sources are downloaded,
// anything else is read as a local file path.
func FetchImage(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, backend.Wrap(backend.KindInvalidArgument, "fetch image: bad source URL", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, backend.Wrap(backend.KindUnavailable, "fetch image: download failed", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, backend.New(backend.KindUnavailable, fmt.Sprintf("fetch image: source replied %d", resp.StatusCode))
		}
		return io.ReadAll(resp.Body)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, backend.Wrap(backend.KindInvalidArgument, "fetch image: read file", err)
	}
	return data, nil
}
