package presigned

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/abduss/docstore/internal/file"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxTTL is the longest expiry S3-compatible presigning accepts.
const MaxTTL = 7 * 24 * time.Hour

// Presigner is the subset of *minio.Client used to sign download links.
type Presigner interface {
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// MetadataReader resolves the record a link is issued for.
type MetadataReader interface {
	GetMetadata(ctx context.Context, id uuid.UUID) (file.Response, error)
}

// Link is a time-limited direct download URL for a stored document.
type Link struct {
	URL       string    `json:"url"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Service struct {
	client  Presigner
	files   MetadataReader
	bucket  string
	ttl     time.Duration
	log     *zap.Logger
	nowFunc func() time.Time
}

func NewService(client Presigner, files MetadataReader, bucket string, ttl time.Duration, log *zap.Logger) *Service {
	if ttl <= 0 || ttl > MaxTTL {
		ttl = 15 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		client:  client,
		files:   files,
		bucket:  bucket,
		ttl:     ttl,
		log:     log.Named("presigned"),
		nowFunc: time.Now,
	}
}

// DefaultTTL is the expiry used when the caller does not ask for one.
func (s *Service) DefaultTTL() time.Duration {
	return s.ttl
}

// DownloadURL signs a GET link for the document content. A zero ttl selects the default.
// The link forces an attachment named after the stored document.
func (s *Service) DownloadURL(ctx context.Context, id uuid.UUID, ttl time.Duration) (Link, error) {
	if ttl == 0 {
		ttl = s.ttl
	}
	if ttl < time.Second || ttl > MaxTTL {
		return Link{}, &file.Error{Kind: file.KindValidation, Op: "presign", Err: fmt.Errorf("ttl must be between 1s and %s", MaxTTL)}
	}

	meta, err := s.files.GetMetadata(ctx, id)
	if err != nil {
		return Link{}, err
	}

	reqParams := make(url.Values)
	reqParams.Set("response-content-disposition", file.ContentDisposition(meta.Name))
	reqParams.Set("response-content-type", "application/octet-stream")

	u, err := s.client.PresignedGetObject(ctx, s.bucket, file.ObjectName(id), ttl, reqParams)
	if err != nil {
		return Link{}, &file.Error{Kind: file.KindStorage, Op: "presign", Err: err}
	}

	s.log.Info("download link issued", zap.Stringer("id", id), zap.Duration("ttl", ttl))
	return Link{
		URL:       u.String(),
		Name:      meta.Name,
		ExpiresAt: s.nowFunc().Add(ttl),
	}, nil
}
