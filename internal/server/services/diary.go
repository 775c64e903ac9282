package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/winelog/winelog/internal/common"
	"github.com/winelog/winelog/internal/dbx"
	"github.com/winelog/winelog/internal/logging"
	"github.com/winelog/winelog/internal/server/config"
	"github.com/winelog/winelog/internal/server/models"
	"github.com/winelog/winelog/internal/server/repositories/repomanager"
	"github.com/winelog/winelog/internal/server/repositories/wines"
	"github.com/winelog/winelog/internal/server/storage"
)

// defaultScore is used for sensory scores the caller did not provide.
const defaultScore = 50

// WineInput describes the wine a diary entry is about. Name is required;
// the remaining identity fields default to "". Nil scores become 50.
type WineInput struct {
	Name       string
	Origin     string
	Grape      string
	Year       string
	Alcohol    string
	Type       string
	AromaNote  string
	TasteNote  string
	FinishNote string
	Sweetness  *int
	Acidity    *int
	Tannin     *int
	Body       *int
}

// DiaryInput carries the entry-specific fields of a new diary.
// Price stays nil when the user did not enter one; it is never coerced to 0.
type DiaryInput struct {
	Rating    int
	Review    string
	Price     *int64
	IsPublic  bool
	DrinkDate *time.Time
}

// DiaryUpdate holds a partial update; nil fields are left unchanged.
type DiaryUpdate struct {
	Rating    *int
	Review    *string
	Price     *int64
	IsPublic  *bool
	DrinkDate *time.Time
}

// DiaryEntry pairs a diary row with the shared wine it references.
type DiaryEntry struct {
	Diary *models.Diary
	Wine  *models.Wine
}

// DiaryService coordinates diary creation across object storage and the
// database, and serves the remaining diary operations.
//
// Creation order is fixed: all images are uploaded first, then the wine
// upsert, sequence allocation and diary insert run in one transaction. If
// anything fails after an upload succeeded, the uploaded objects are
// deleted best-effort so no orphaned blobs accumulate.
type DiaryService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	store         storage.ObjectStore
	logger        logging.Logger
	maxUploadSize int64
}

// NewDiaryService constructs a DiaryService from its collaborators.
func NewDiaryService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore,
	logger logging.Logger, cfg *config.Config) *DiaryService {
	return &DiaryService{
		db:            db,
		repomanager:   m,
		store:         store,
		logger:        logger,
		maxUploadSize: cfg.MaxUploadSize,
	}
}

// CreateWineDiary records one tasting: it uploads the provided images,
// finds or creates the wine by its natural key, allocates the next
// per-user sequence number and inserts the diary row, committing the
// database writes atomically.
//
// images is keyed by slot name (front, back, thumbnail, download); absent
// slots simply produce no URL. Validation happens before any side effect.
func (s *DiaryService) CreateWineDiary(ctx context.Context, userID int64, wine WineInput,
	input DiaryInput, images map[string][]byte) (*DiaryEntry, error) {

	if err := s.validateCreate(wine, input, images); err != nil {
		return nil, err
	}

	urls, uploadedKeys, err := s.uploadImages(ctx, images)
	if err != nil {
		s.removeUploaded(ctx, uploadedKeys)
		return nil, fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}

	entry, err := s.persistDiary(ctx, userID, wine, input, urls)
	if err != nil {
		s.removeUploaded(ctx, uploadedKeys)
		return nil, err
	}
	return entry, nil
}

func (s *DiaryService) validateCreate(wine WineInput, input DiaryInput, images map[string][]byte) error {
	if wine.Name == "" {
		return fmt.Errorf("%w: wine name is required", common.ErrorValidation)
	}
	if input.Rating < 0 || input.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 0 and 5", common.ErrorValidation)
	}
	for _, score := range []*int{wine.Sweetness, wine.Acidity, wine.Tannin, wine.Body} {
		if score != nil && (*score < 0 || *score > 100) {
			return fmt.Errorf("%w: scores must be between 0 and 100", common.ErrorValidation)
		}
	}
	for slot, data := range images {
		if !models.ValidSlot(slot) {
			return fmt.Errorf("%w: unknown image slot %q", common.ErrorValidation, slot)
		}
		if err := validateImage(data, s.maxUploadSize); err != nil {
			return fmt.Errorf("slot %s: %w", slot, err)
		}
	}
	return nil
}

// uploadImages pushes every present slot to object storage in slot order.
// It returns the public URL per slot and the keys uploaded so far; on error
// the keys still cover everything that made it to storage.
func (s *DiaryService) uploadImages(ctx context.Context, images map[string][]byte) (map[string]string, []string, error) {
	urls := make(map[string]string, len(images))
	var keys []string
	for _, slot := range models.Slots {
		data, ok := images[slot]
		if !ok {
			continue
		}
		key, url, err := s.store.Put(ctx, data, "diary/"+slot)
		if err != nil {
			return nil, keys, fmt.Errorf("slot %s: %v", slot, err)
		}
		keys = append(keys, key)
		urls[slot] = url
	}
	return urls, keys, nil
}

func (s *DiaryService) persistDiary(ctx context.Context, userID int64, wine WineInput,
	input DiaryInput, urls map[string]string) (*DiaryEntry, error) {

	var entry DiaryEntry
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		w, err := s.findOrCreateWine(ctx, tx, wine)
		if err != nil {
			return err
		}

		seq, err := s.repomanager.Users(tx).IncrementDiarySeq(ctx, userID)
		if err != nil {
			return fmt.Errorf("error allocating diary sequence: %v", err)
		}

		diary := &models.Diary{
			UserID:    userID,
			Seq:       seq,
			WineID:    w.ID,
			Rating:    input.Rating,
			Review:    input.Review,
			Price:     input.Price,
			IsPublic:  input.IsPublic,
			DrinkDate: input.DrinkDate,
		}
		for slot, url := range urls {
			u := url
			switch slot {
			case models.SlotFront:
				diary.FrontImage = &u
			case models.SlotBack:
				diary.BackImage = &u
			case models.SlotThumbnail:
				diary.ThumbnailImage = &u
			case models.SlotDownload:
				diary.DownloadImage = &u
			}
		}

		if err := s.repomanager.Diaries(tx).Create(ctx, diary); err != nil {
			return fmt.Errorf("error creating diary: %v", err)
		}

		entry = DiaryEntry{Diary: diary, Wine: w}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// findOrCreateWine reuses the wine matching the natural key if one exists;
// stored fields of an existing wine are never overwritten.
func (s *DiaryService) findOrCreateWine(ctx context.Context, tx dbx.DBTX, input WineInput) (*models.Wine, error) {
	repo := s.repomanager.Wines(tx)

	key := wines.Identity{
		Name:   input.Name,
		Origin: input.Origin,
		Grape:  input.Grape,
		Year:   input.Year,
		Type:   input.Type,
	}
	w, err := repo.FindByIdentity(ctx, key)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error searching wine: %v", err)
	}

	w, err = repo.Create(ctx, &models.Wine{
		Name:       input.Name,
		Origin:     input.Origin,
		Grape:      input.Grape,
		Year:       input.Year,
		Alcohol:    input.Alcohol,
		Type:       input.Type,
		AromaNote:  input.AromaNote,
		TasteNote:  input.TasteNote,
		FinishNote: input.FinishNote,
		Sweetness:  scoreOrDefault(input.Sweetness),
		Acidity:    scoreOrDefault(input.Acidity),
		Tannin:     scoreOrDefault(input.Tannin),
		Body:       scoreOrDefault(input.Body),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating wine: %v", err)
	}
	return w, nil
}

// removeUploaded deletes objects that were uploaded before a failure.
// Deletion errors are logged and swallowed; the caller's error wins.
func (s *DiaryService) removeUploaded(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.store.Remove(ctx, key); err != nil {
			s.logger.Warn(ctx, "failed to remove uploaded image", "key", key, "error", err)
		}
	}
}

// Get returns one diary entry with its wine.
func (s *DiaryService) Get(ctx context.Context, userID, seq int64) (*DiaryEntry, error) {
	diary, err := s.repomanager.Diaries(s.db).Get(ctx, userID, seq)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	wine, err := s.repomanager.Wines(s.db).GetByID(ctx, diary.WineID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &DiaryEntry{Diary: diary, Wine: wine}, nil
}

// ListForUser returns the user's diary entries, newest first.
func (s *DiaryService) ListForUser(ctx context.Context, userID int64, offset, limit int) ([]*DiaryEntry, error) {
	ds, err := s.repomanager.Diaries(s.db).ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return s.attachWines(ctx, ds)
}

// ListPublic returns entries shared by any user, newest first.
func (s *DiaryService) ListPublic(ctx context.Context, offset, limit int) ([]*DiaryEntry, error) {
	ds, err := s.repomanager.Diaries(s.db).ListPublic(ctx, offset, limit)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return s.attachWines(ctx, ds)
}

// Update applies the non-nil fields of upd to an owned entry.
func (s *DiaryService) Update(ctx context.Context, userID, seq int64, upd DiaryUpdate) (*DiaryEntry, error) {
	if upd.Rating != nil && (*upd.Rating < 0 || *upd.Rating > 5) {
		return nil, fmt.Errorf("%w: rating must be between 0 and 5", common.ErrorValidation)
	}

	repo := s.repomanager.Diaries(s.db)
	diary, err := repo.Get(ctx, userID, seq)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if upd.Rating != nil {
		diary.Rating = *upd.Rating
	}
	if upd.Review != nil {
		diary.Review = *upd.Review
	}
	if upd.Price != nil {
		diary.Price = upd.Price
	}
	if upd.IsPublic != nil {
		diary.IsPublic = *upd.IsPublic
	}
	if upd.DrinkDate != nil {
		diary.DrinkDate = upd.DrinkDate
	}

	if err := repo.Update(ctx, diary); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	wine, err := s.repomanager.Wines(s.db).GetByID(ctx, diary.WineID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &DiaryEntry{Diary: diary, Wine: wine}, nil
}

// Delete removes an owned entry and then best-effort deletes its stored
// images. The row is gone even if blob deletion fails.
func (s *DiaryService) Delete(ctx context.Context, userID, seq int64) error {
	repo := s.repomanager.Diaries(s.db)
	diary, err := repo.Get(ctx, userID, seq)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if err := repo.Delete(ctx, userID, seq); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	var keys []string
	for _, slot := range models.Slots {
		if url := diary.ImageURL(slot); url != nil {
			if key, ok := s.store.KeyFromURL(*url); ok {
				keys = append(keys, key)
			}
		}
	}
	s.removeUploaded(ctx, keys)
	return nil
}

// attachWines loads the wine row for each diary, reusing fetches within
// the call.
func (s *DiaryService) attachWines(ctx context.Context, ds []*models.Diary) ([]*DiaryEntry, error) {
	repo := s.repomanager.Wines(s.db)
	cache := make(map[int64]*models.Wine)

	entries := make([]*DiaryEntry, 0, len(ds))
	for _, d := range ds {
		w, ok := cache[d.WineID]
		if !ok {
			var err error
			w, err = repo.GetByID(ctx, d.WineID)
			if err != nil {
				return nil, common.ErrorInternal
			}
			cache[d.WineID] = w
		}
		entries = append(entries, &DiaryEntry{Diary: d, Wine: w})
	}
	return entries, nil
}

func scoreOrDefault(v *int) int {
	if v == nil {
		return defaultScore
	}
	return *v
}
