package file

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/abduss/docstore/internal/report"
	"github.com/google/uuid"
)

// --- helpers & fakes ---

type fakeRepo struct {
	records []Record
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{}
}

func (f *fakeRepo) Create(ctx context.Context, rec Record) (Record, error) {
	for _, existing := range f.records {
		if existing.Name == rec.Name {
			return Record{}, ErrNameExists
		}
	}
	rec.Data = nil
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeRepo) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	for _, rec := range f.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, ErrFileNotFound
}

func (f *fakeRepo) GetByName(ctx context.Context, name string) (Record, error) {
	for _, rec := range f.records {
		if rec.Name == name {
			return rec, nil
		}
	}
	return Record{}, ErrFileNotFound
}

func (f *fakeRepo) Update(ctx context.Context, rec Record) (Record, error) {
	for _, existing := range f.records {
		if existing.Name == rec.Name && existing.ID != rec.ID {
			return Record{}, ErrNameExists
		}
	}
	for i := range f.records {
		if f.records[i].ID == rec.ID {
			f.records[i].Name = rec.Name
			f.records[i].Size = rec.Size
			f.records[i].Description = rec.Description
			f.records[i].LastModified = rec.LastModified
			return f.records[i], nil
		}
	}
	return Record{}, ErrFileNotFound
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) (Record, error) {
	for i, rec := range f.records {
		if rec.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return rec, nil
		}
	}
	return Record{}, ErrFileNotFound
}

func (f *fakeRepo) List(ctx context.Context) ([]Record, error) {
	return append([]Record(nil), f.records...), nil
}

func (f *fakeRepo) ListSorted(ctx context.Context, s Sort) ([]Record, error) {
	list := append([]Record(nil), f.records...)
	sortRecords(list, s)
	return list, nil
}

func (f *fakeRepo) Search(ctx context.Context, substring string, s Sort) ([]Record, error) {
	needle := strings.ToLower(substring)
	var list []Record
	for _, rec := range f.records {
		if strings.Contains(strings.ToLower(rec.Name), needle) ||
			strings.Contains(strings.ToLower(rec.ContentType), needle) ||
			strings.Contains(strings.ToLower(rec.Description), needle) {
			list = append(list, rec)
		}
	}
	sortRecords(list, s)
	return list, nil
}

func (f *fakeRepo) FindByModifiedRange(ctx context.Context, start, end time.Time) ([]Record, error) {
	var list []Record
	for _, rec := range f.records {
		if !rec.LastModified.Before(start) && !rec.LastModified.After(end) {
			list = append(list, rec)
		}
	}
	return list, nil
}

func sortRecords(list []Record, s Sort) {
	less := func(a, b Record) bool {
		switch s.Field {
		case "size":
			return a.Size < b.Size
		case "contentType":
			return a.ContentType < b.ContentType
		case "description":
			return a.Description < b.Description
		case "lastModified":
			return a.LastModified.Before(b.LastModified)
		case "id":
			return a.ID.String() < b.ID.String()
		default:
			return a.Name < b.Name
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if s.Direction == Desc {
			return less(list[j], list[i])
		}
		return less(list[i], list[j])
	})
}

type fakeContentStore struct {
	objects     map[uuid.UUID][]byte
	mediaTypes  map[uuid.UUID]string
	removeCount int
	putErr      error
	removeErr   error
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{
		objects:    make(map[uuid.UUID][]byte),
		mediaTypes: make(map[uuid.UUID]string),
	}
}

func (f *fakeContentStore) Put(ctx context.Context, id uuid.UUID, data []byte, mediaType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[id] = append([]byte(nil), data...)
	f.mediaTypes[id] = mediaType
	return nil
}

func (f *fakeContentStore) Get(ctx context.Context, id uuid.UUID) ([]byte, error) {
	data, ok := f.objects[id]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func (f *fakeContentStore) Remove(ctx context.Context, id uuid.UUID) error {
	f.removeCount++
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.objects, id)
	return nil
}

type fakeRenderer struct {
	docs []report.Document
}

func (f *fakeRenderer) Render(doc report.Document) ([]byte, error) {
	f.docs = append(f.docs, doc)
	return []byte("rendered:" + doc.Title), nil
}

type fixture struct {
	repo     *fakeRepo
	content  *fakeContentStore
	renderer *fakeRenderer
	service  *Service
	clock    time.Time
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newFakeRepo(),
		content:  newFakeContentStore(),
		renderer: &fakeRenderer{},
		clock:    time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC),
	}
	f.service = NewService(f.repo, f.content, f.renderer, 1024*1024, nil)
	f.service.nowFunc = func() time.Time { return f.clock }
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func (f *fixture) seed(name, contentType string, size int, modified time.Time) Record {
	rec := Record{
		ID: uuid.New(),
		Metadata: Metadata{
			Name:        name,
			ContentType: contentType,
			Size:        int64(size),
		},
		LastModified: modified,
	}
	f.repo.records = append(f.repo.records, rec)
	f.content.objects[rec.ID] = make([]byte, size)
	return rec
}
