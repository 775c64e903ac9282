package services

import (
	"context"
	"errors"
	"testing"

	"github.com/winelog/winelog/internal/common"
	"github.com/winelog/winelog/internal/server/config"
	"github.com/winelog/winelog/internal/server/inference"
	"github.com/winelog/winelog/internal/server/models"
)

type fakeProvider struct {
	describeOut *inference.WineDescription
	describeErr error
	describedN  int

	tasteOut *inference.TastingNotes
	tasteErr error
}

func (f *fakeProvider) DescribeWineFromImages(ctx context.Context, images [][]byte) (*inference.WineDescription, error) {
	f.describedN = len(images)
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return f.describeOut, nil
}

func (f *fakeProvider) TasteProfile(ctx context.Context, req inference.TasteRequest) (*inference.TastingNotes, error) {
	if f.tasteErr != nil {
		return nil, f.tasteErr
	}
	return f.tasteOut, nil
}

func newWineService(t *testing.T, rm *fakeRepoManager, p *fakeProvider) *WineService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	return NewWineService(db, rm, p, &config.Config{MaxUploadSize: 10 << 20})
}

func TestWineGetAndList(t *testing.T) {
	rm := &fakeRepoManager{w: &fakeWinesRepo{
		getOut:  &models.Wine{ID: 1, Name: "w"},
		listOut: []*models.Wine{{ID: 1}, {ID: 2}},
	}}
	s := newWineService(t, rm, &fakeProvider{})

	w, err := s.Get(context.Background(), 1)
	if err != nil || w.Name != "w" {
		t.Fatalf("Get: got (%v, %v)", w, err)
	}

	ws, err := s.List(context.Background(), 0, 20)
	if err != nil || len(ws) != 2 {
		t.Fatalf("List: got (%d, %v)", len(ws), err)
	}

	rm.w.getErr = common.ErrorNotFound
	if _, err := s.Get(context.Background(), 9); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestAnalyzeImages_Success(t *testing.T) {
	p := &fakeProvider{describeOut: &inference.WineDescription{Name: "Chateau Test", Type: models.WineTypeRed}}
	s := newWineService(t, &fakeRepoManager{}, p)

	desc, err := s.AnalyzeImages(context.Background(), [][]byte{jpegBytes(), pngBytes()})
	if err != nil {
		t.Fatalf("AnalyzeImages error: %v", err)
	}
	if desc.Name != "Chateau Test" {
		t.Fatalf("unexpected description: %+v", desc)
	}
	if p.describedN != 2 {
		t.Fatalf("provider called with %d images", p.describedN)
	}
}

func TestAnalyzeImages_Count(t *testing.T) {
	s := newWineService(t, &fakeRepoManager{}, &fakeProvider{})

	for _, images := range [][][]byte{
		nil,
		{jpegBytes()},
		{jpegBytes(), jpegBytes(), jpegBytes()},
	} {
		if _, err := s.AnalyzeImages(context.Background(), images); !errors.Is(err, common.ErrorValidation) {
			t.Fatalf("want ErrorValidation for %d images, got %v", len(images), err)
		}
	}
}

func TestAnalyzeImages_RejectsNonImage(t *testing.T) {
	p := &fakeProvider{}
	s := newWineService(t, &fakeRepoManager{}, p)

	_, err := s.AnalyzeImages(context.Background(), [][]byte{jpegBytes(), []byte("not an image")})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want ErrorValidation, got %v", err)
	}
	if p.describedN != 0 {
		t.Fatalf("provider must not be called on invalid input")
	}
}

func TestAnalyzeImages_ProviderError(t *testing.T) {
	p := &fakeProvider{describeErr: common.ErrInferenceFailed}
	s := newWineService(t, &fakeRepoManager{}, p)

	_, err := s.AnalyzeImages(context.Background(), [][]byte{jpegBytes(), jpegBytes()})
	if !errors.Is(err, common.ErrInferenceFailed) {
		t.Fatalf("want ErrInferenceFailed, got %v", err)
	}
}

func TestTasteProfile(t *testing.T) {
	p := &fakeProvider{tasteOut: &inference.TastingNotes{Aroma: "berry", Sweetness: 40}}
	s := newWineService(t, &fakeRepoManager{}, p)

	notes, err := s.TasteProfile(context.Background(), inference.TasteRequest{Name: "Chateau Test"})
	if err != nil || notes.Aroma != "berry" {
		t.Fatalf("TasteProfile: got (%v, %v)", notes, err)
	}

	if _, err := s.TasteProfile(context.Background(), inference.TasteRequest{}); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want ErrorValidation for empty name, got %v", err)
	}
}
