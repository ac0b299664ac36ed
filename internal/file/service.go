package file

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abduss/docstore/internal/metrics"
	"github.com/abduss/docstore/internal/report"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	defaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	defaultMediaType   = "application/octet-stream"
)

// metadataStore is the record store contract the service relies on.
type metadataStore interface {
	Create(ctx context.Context, rec Record) (Record, error)
	Get(ctx context.Context, id uuid.UUID) (Record, error)
	GetByName(ctx context.Context, name string) (Record, error)
	Update(ctx context.Context, rec Record) (Record, error)
	Delete(ctx context.Context, id uuid.UUID) (Record, error)
	List(ctx context.Context) ([]Record, error)
	ListSorted(ctx context.Context, sort Sort) ([]Record, error)
	Search(ctx context.Context, substring string, sort Sort) ([]Record, error)
	FindByModifiedRange(ctx context.Context, start, end time.Time) ([]Record, error)
}

// contentStore holds the bytes of each record.
type contentStore interface {
	Put(ctx context.Context, id uuid.UUID, data []byte, mediaType string) error
	Get(ctx context.Context, id uuid.UUID) ([]byte, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type reportRenderer interface {
	Render(doc report.Document) ([]byte, error)
}

// Service owns the file management rules on top of the record and content stores.
type Service struct {
	repo        metadataStore
	content     contentStore
	renderer    reportRenderer
	log         *zap.Logger
	maxFileSize int64
	nowFunc     func() time.Time
}

// NewService constructs a file service. A non-positive maxFileSize selects the 100MB default.
func NewService(repo metadataStore, content contentStore, renderer reportRenderer, maxFileSize int64, log *zap.Logger) *Service {
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxFileSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		content:     content,
		renderer:    renderer,
		log:         log.Named("file"),
		maxFileSize: maxFileSize,
		nowFunc:     time.Now,
	}
}

// UploadInput carries a new document.
type UploadInput struct {
	Filename    string
	MediaType   string
	Description string
	Data        []byte
}

// ReplaceInput carries new content for an existing document.
type ReplaceInput struct {
	Filename    string
	MediaType   string
	Description string
	Data        []byte
}

// List returns every record in store order.
func (s *Service) List(ctx context.Context) (_ []Response, err error) {
	defer func() { s.observe("list", err) }()

	s.log.Info("list files")
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, wrapStore("list", err)
	}
	return toResponses(records), nil
}

// ListSorted returns every record ordered by field and direction.
func (s *Service) ListSorted(ctx context.Context, field, direction string) (_ []Response, err error) {
	defer func() { s.observe("list_sorted", err) }()

	sort, err := ParseSort(field, direction)
	if err != nil {
		return nil, err
	}

	s.log.Info("list sorted files", zap.String("field", sort.Field), zap.String("direction", string(sort.Direction)))
	records, err := s.repo.ListSorted(ctx, sort)
	if err != nil {
		return nil, wrapStore("list sorted", err)
	}
	return toResponses(records), nil
}

// Search matches query against name, content type and description. Empty field and
// direction fall back to DefaultSort.
func (s *Service) Search(ctx context.Context, query, field, direction string) (_ []Response, err error) {
	defer func() { s.observe("search", err) }()

	sort := DefaultSort
	if field != "" || direction != "" {
		if sort, err = ParseSort(field, direction); err != nil {
			return nil, err
		}
	}

	s.log.Info("search files", zap.String("query", query), zap.String("field", sort.Field), zap.String("direction", string(sort.Direction)))
	records, err := s.repo.Search(ctx, query, sort)
	if err != nil {
		return nil, wrapStore("search", err)
	}
	return toResponses(records), nil
}

// GetMetadata returns the projection of a single record.
func (s *Service) GetMetadata(ctx context.Context, id uuid.UUID) (_ Response, err error) {
	defer func() { s.observe("get", err) }()

	s.log.Info("get file", zap.Stringer("id", id))
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return Response{}, wrapStore("get", err)
	}
	return toResponse(rec), nil
}

// GetMetadataByName returns the projection of the record with the given name.
func (s *Service) GetMetadataByName(ctx context.Context, name string) (_ Response, err error) {
	defer func() { s.observe("get_by_name", err) }()

	s.log.Info("get file by name", zap.String("name", name))
	rec, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return Response{}, wrapStore("get by name", err)
	}
	return toResponse(rec), nil
}

// Download returns the stored bytes together with the raw stored name.
func (s *Service) Download(ctx context.Context, id uuid.UUID) (_ Download, err error) {
	defer func() { s.observe("download", err) }()

	s.log.Info("download file", zap.Stringer("id", id))
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return Download{}, wrapStore("download", err)
	}

	data, err := s.content.Get(ctx, id)
	if err != nil {
		return Download{}, wrapStore("download", err)
	}

	return Download{
		Name:        rec.Name,
		ContentType: rec.ContentType,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

// Upload stores a new document named after the uploaded filename and returns its id.
func (s *Service) Upload(ctx context.Context, in UploadInput) (_ uuid.UUID, err error) {
	defer func() { s.observe("upload", err) }()

	name := strings.TrimSpace(in.Filename)
	s.log.Info("upload file", zap.String("name", name), zap.Int("size", len(in.Data)), zap.String("description", in.Description))

	if err := checkName("upload", name); err != nil {
		return uuid.Nil, err
	}
	if int64(len(in.Data)) > s.maxFileSize {
		return uuid.Nil, newError(KindTooLarge, "upload", nil)
	}

	mediaType := detectMediaType(in.MediaType, in.Data)
	label := ResolveContentType(mediaType)
	if utf8.RuneCountInString(label) > maxContentTypeLength {
		return uuid.Nil, validationError("upload", "content type %q is longer than %d characters", label, maxContentTypeLength)
	}

	rec := Record{
		ID: uuid.New(),
		Metadata: Metadata{
			Name:        name,
			ContentType: label,
			Size:        int64(len(in.Data)),
			Data:        in.Data,
		},
		Description:  in.Description,
		LastModified: s.now(),
	}

	if err := s.store(ctx, "upload", rec, mediaType); err != nil {
		return uuid.Nil, err
	}
	return rec.ID, nil
}

// Rename replaces the stem of a record's name, keeping the stored extension.
func (s *Service) Rename(ctx context.Context, id uuid.UUID, newName, description string) (err error) {
	defer func() { s.observe("rename", err) }()

	s.log.Info("rename file", zap.Stringer("id", id), zap.String("name", newName), zap.String("description", description))
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return wrapStore("rename", err)
	}

	stem := strings.TrimSpace(newName)
	if stem == "" {
		return newError(KindInvalidName, "rename", nil)
	}
	name := stem + Extension(rec.Name)
	if err := checkName("rename", name); err != nil {
		return err
	}

	rec.Name = name
	rec.Description = description
	rec.LastModified = s.touch(rec.LastModified)

	if _, err := s.repo.Update(ctx, rec); err != nil {
		return wrapStore("rename", err)
	}
	return nil
}

// ReplaceContent swaps the bytes of a record. The filename, trimmed the same way Upload trims it,
// must equal the stored name and the content type label assigned at upload is kept.
func (s *Service) ReplaceContent(ctx context.Context, id uuid.UUID, in ReplaceInput) (err error) {
	defer func() { s.observe("replace", err) }()

	name := strings.TrimSpace(in.Filename)
	s.log.Info("replace file content", zap.Stringer("id", id), zap.String("name", name), zap.Int("size", len(in.Data)))
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return wrapStore("replace", err)
	}

	if name != rec.Name {
		return newError(KindMustBeSame, "replace", nil)
	}
	if int64(len(in.Data)) > s.maxFileSize {
		return newError(KindTooLarge, "replace", nil)
	}

	if err := s.content.Put(ctx, id, in.Data, detectMediaType(in.MediaType, in.Data)); err != nil {
		return wrapStore("replace", err)
	}

	rec.Size = int64(len(in.Data))
	rec.Description = in.Description
	rec.LastModified = s.touch(rec.LastModified)

	if _, err := s.repo.Update(ctx, rec); err != nil {
		return wrapStore("replace", err)
	}
	return nil
}

// Delete removes a record and its content. A missing id is ErrFileNotFound.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func() { s.observe("delete", err) }()

	s.log.Info("delete file", zap.Stringer("id", id))
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return wrapStore("delete", err)
	}

	// The record is already gone; a lingering object is only logged.
	if err := s.content.Remove(ctx, id); err != nil {
		s.log.Warn("content left orphaned", zap.Stringer("id", id), zap.Error(err))
	}
	return nil
}

// GenerateStatistics aggregates the records modified between the two dates (inclusive,
// whole days), renders the report and stores it as a new record whose id is returned.
func (s *Service) GenerateStatistics(ctx context.Context, periodStart, periodEnd time.Time) (_ uuid.UUID, err error) {
	defer func() { s.observe("statistics", err) }()

	start := startOfDay(periodStart)
	end := endOfDay(periodEnd)
	s.log.Info("generate statistics", zap.Time("period_start", start), zap.Time("period_end", end))

	if start.After(end) {
		return uuid.Nil, validationError("statistics", "period start %s is after period end %s",
			start.Format(PeriodLayout), end.Format(PeriodLayout))
	}

	records, err := s.repo.FindByModifiedRange(ctx, start, end)
	if err != nil {
		return uuid.Nil, wrapStore("statistics", err)
	}

	stats := BuildStatistics(records, start, end)
	data, err := s.renderer.Render(stats.Document())
	if err != nil {
		return uuid.Nil, newError(KindStorage, "render statistics", err)
	}

	rec := Record{
		ID: uuid.New(),
		Metadata: Metadata{
			Name:        reportName(start, end),
			ContentType: ResolveContentType(ContentTypeDOCX),
			Size:        int64(len(data)),
			Data:        data,
		},
		Description:  reportDescription(start, end),
		LastModified: s.now(),
	}

	if err := s.store(ctx, "statistics", rec, ContentTypeDOCX); err != nil {
		return uuid.Nil, err
	}

	s.log.Info("statistics stored",
		zap.Stringer("id", rec.ID),
		zap.Int("total_files", stats.TotalFiles),
		zap.String("total_size", stats.FormattedSize()))
	return rec.ID, nil
}

// store writes content first and metadata second, removing the object if the insert fails.
func (s *Service) store(ctx context.Context, op string, rec Record, mediaType string) error {
	if err := s.content.Put(ctx, rec.ID, rec.Data, mediaType); err != nil {
		return wrapStore(op, err)
	}

	if _, err := s.repo.Create(ctx, rec); err != nil {
		if rmErr := s.content.Remove(ctx, rec.ID); rmErr != nil {
			s.log.Warn("remove content after failed insert", zap.Stringer("id", rec.ID), zap.Error(rmErr))
		}
		return wrapStore(op, err)
	}
	return nil
}

func (s *Service) now() time.Time {
	return s.nowFunc().Truncate(time.Microsecond)
}

// touch returns a modification time strictly after prev. The store keeps microseconds.
func (s *Service) touch(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}

func (s *Service) observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = string(KindOf(err))
		s.log.Warn("file operation failed", zap.String("op", op), zap.Error(err))
	}
	metrics.ObserveFileOperation(op, result)
}

func toResponses(records []Record) []Response {
	return lo.Map(records, func(rec Record, _ int) Response {
		return toResponse(rec)
	})
}

func detectMediaType(declared string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != defaultMediaType {
		return declared
	}
	if len(data) == 0 {
		return defaultMediaType
	}
	base, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return strings.TrimSpace(base)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999999, t.Location())
}
