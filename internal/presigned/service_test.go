package presigned

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/abduss/docstore/internal/file"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fakeMinio struct {
	bucket  string
	object  string
	expiry  time.Duration
	params  url.Values
	signErr error
}

func (m *fakeMinio) PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params url.Values) (*url.URL, error) {
	if m.signErr != nil {
		return nil, m.signErr
	}
	m.bucket, m.object, m.expiry, m.params = bucket, object, expiry, params
	return &url.URL{Scheme: "http", Host: "minio:9000", Path: "/" + bucket + "/" + object, RawQuery: "X-Amz-Signature=abc"}, nil
}

type fakeFiles struct {
	known map[uuid.UUID]string
}

func (f *fakeFiles) GetMetadata(ctx context.Context, id uuid.UUID) (file.Response, error) {
	name, ok := f.known[id]
	if !ok {
		return file.Response{}, file.ErrFileNotFound
	}
	return file.Response{ID: id.String(), Name: name}, nil
}

func newTestService(known ...uuid.UUID) (*Service, *fakeMinio) {
	files := &fakeFiles{known: map[uuid.UUID]string{}}
	for _, id := range known {
		files.known[id] = "report.pdf"
	}
	m := &fakeMinio{}
	svc := NewService(m, files, "documents", 10*time.Minute, nil)
	svc.nowFunc = func() time.Time { return time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC) }
	return svc, m
}

func TestDownloadURL(t *testing.T) {
	id := uuid.New()
	svc, m := newTestService(id)

	link, err := svc.DownloadURL(context.Background(), id, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if link.URL == "" {
		t.Fatalf("url must not be empty")
	}
	if m.bucket != "documents" || m.object != file.ObjectName(id) {
		t.Fatalf("signed wrong object: %s/%s", m.bucket, m.object)
	}
	if m.expiry != 10*time.Minute {
		t.Fatalf("expected default ttl, got %s", m.expiry)
	}
	if got := m.params.Get("response-content-disposition"); got != "attachment; filename=report.pdf" {
		t.Fatalf("unexpected disposition: %s", got)
	}
	if !link.ExpiresAt.Equal(time.Date(2024, time.March, 1, 9, 10, 0, 0, time.UTC)) {
		t.Fatalf("unexpected expiry: %s", link.ExpiresAt)
	}
}

func TestDownloadURLUnknownFile(t *testing.T) {
	svc, m := newTestService()

	_, err := svc.DownloadURL(context.Background(), uuid.New(), 0)
	if !errors.Is(err, file.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
	if m.object != "" {
		t.Fatalf("nothing should be signed for a missing record")
	}
}

func TestDownloadURLRejectsTTL(t *testing.T) {
	id := uuid.New()
	svc, _ := newTestService(id)

	for _, ttl := range []time.Duration{time.Millisecond, MaxTTL + time.Second, -time.Minute} {
		if _, err := svc.DownloadURL(context.Background(), id, ttl); !errors.Is(err, file.ErrValidation) {
			t.Fatalf("ttl %s: expected ErrValidation, got %v", ttl, err)
		}
	}
}

func TestDownloadURLSigningFailure(t *testing.T) {
	id := uuid.New()
	svc, m := newTestService(id)
	m.signErr = errors.New("no credentials")

	if _, err := svc.DownloadURL(context.Background(), id, time.Minute); !errors.Is(err, file.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestHandlerGenerateDownloadURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := uuid.New()
	svc, m := newTestService(id)

	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/"+id.String()+"/link?ttl=1h", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if m.expiry != time.Hour {
		t.Fatalf("expected requested ttl, got %s", m.expiry)
	}

	var env struct {
		Success bool `json:"success"`
		Body    Link `json:"body"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !env.Success || env.Body.Name != "report.pdf" {
		t.Fatalf("unexpected body: %+v", env)
	}

	for target, want := range map[string]int{
		"/api/files/" + id.String() + "/link?ttl=soon": http.StatusBadRequest,
		"/api/files/nope/link":                         http.StatusBadRequest,
		"/api/files/" + uuid.NewString() + "/link":     http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != want {
			t.Fatalf("%s: expected %d, got %d", target, want, rec.Code)
		}
	}
}
