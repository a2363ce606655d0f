package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Dnicola11/repuestos/internal/backend"
)

// BlobService is the blob-store adapter for part images.
type BlobService interface {
	EnsureBucket(ctx context.Context) error
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string, metadata map[string]string) error
	// PublicURL returns the download URL for an uploaded key.
	PublicURL(key string) string
	// DeleteByURL removes the object a public download URL points at. URLs
	// that do not match this store's host and bucket are silently ignored.
	DeleteByURL(ctx context.Context, rawURL string) error
}

type minioBlobService struct {
	client   *minio.Client
	endpoint string
	bucket   string
	useSSL   bool
}

func NewMinioBlobService(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (BlobService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioBlobService{
		client:   client,
		endpoint: endpoint,
		bucket:   bucket,
		useSSL:   useSSL,
	}, nil
}

func (m *minioBlobService) EnsureBucket(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return translateMinio("EnsureBucket", err)
	}
	if !found {
		return translateMinio("EnsureBucket", m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}))
	}
	return nil
}

func (m *minioBlobService) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string, metadata map[string]string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	return translateMinio("Upload", err)
}

func (m *minioBlobService) PublicURL(key string) string {
	scheme := "http"
	if m.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.endpoint, m.bucket, key)
}

func (m *minioBlobService) DeleteByURL(ctx context.Context, rawURL string) error {
	key, ok := m.objectKey(rawURL)
	if !ok {
		// Not one of ours; leave it alone.
		return nil
	}
	return translateMinio("DeleteByURL",
		m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}))
}

// objectKey recovers the storage key from a public download URL produced by
// PublicURL. Foreign hosts or buckets report ok=false.
func (m *minioBlobService) objectKey(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	if u.Host != m.endpoint {
		return "", false
	}
	prefix := "/" + m.bucket + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(u.Path, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}

func translateMinio(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return backend.Wrap(backend.KindTimeout, fmt.Sprintf("blob %s: deadline exceeded", op), err)
	case errors.Is(err, context.Canceled):
		return backend.Wrap(backend.KindCanceled, fmt.Sprintf("blob %s: canceled", op), err)
	}

	switch resp := minio.ToErrorResponse(err); resp.Code {
	case "AccessDenied":
		return backend.Wrap(backend.KindPermissionDenied, fmt.Sprintf("blob %s: access denied", op), err)
	case "NoSuchKey", "NoSuchBucket":
		return backend.Wrap(backend.KindNotFound, fmt.Sprintf("blob %s: object not found", op), err)
	case "InvalidArgument":
		return backend.Wrap(backend.KindInvalidArgument, fmt.Sprintf("blob %s: invalid argument", op), err)
	}
	return backend.Wrap(backend.KindUnknown, fmt.Sprintf("blob %s failed", op), err)
}
