package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/winelog/winelog/internal/common"
	"github.com/winelog/winelog/internal/server/config"
	"github.com/winelog/winelog/internal/server/inference"
	"github.com/winelog/winelog/internal/server/models"
	"github.com/winelog/winelog/internal/server/repositories/repomanager"
)

// analysisImageCount is how many label photos the analysis endpoint
// requires: one front label, one back label.
const analysisImageCount = 2

// WineService serves the shared wine catalog and the AI-assisted analysis
// operations.
type WineService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	provider      inference.Provider
	maxUploadSize int64
}

// NewWineService constructs a WineService from its collaborators.
func NewWineService(db *sql.DB, m repomanager.RepositoryManager, provider inference.Provider,
	cfg *config.Config) *WineService {
	return &WineService{
		db:            db,
		repomanager:   m,
		provider:      provider,
		maxUploadSize: cfg.MaxUploadSize,
	}
}

// Get returns a wine by id.
func (s *WineService) Get(ctx context.Context, id int64) (*models.Wine, error) {
	wine, err := s.repomanager.Wines(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return wine, nil
}

// List returns a page of the wine catalog.
func (s *WineService) List(ctx context.Context, offset, limit int) ([]*models.Wine, error) {
	ws, err := s.repomanager.Wines(s.db).List(ctx, offset, limit)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return ws, nil
}

// AnalyzeImages extracts wine metadata from exactly two label photos.
// Payloads are validated before the provider is called; provider failures
// and unparseable output surface as errors, never as defaulted fields.
func (s *WineService) AnalyzeImages(ctx context.Context, images [][]byte) (*inference.WineDescription, error) {
	if len(images) != analysisImageCount {
		return nil, fmt.Errorf("%w: exactly %d images required, got %d",
			common.ErrorValidation, analysisImageCount, len(images))
	}
	for i, data := range images {
		if err := validateImage(data, s.maxUploadSize); err != nil {
			return nil, fmt.Errorf("image %d: %w", i+1, err)
		}
	}
	return s.provider.DescribeWineFromImages(ctx, images)
}

// TasteProfile generates tasting notes and sensory scores for a wine.
func (s *WineService) TasteProfile(ctx context.Context, req inference.TasteRequest) (*inference.TastingNotes, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: wine name is required", common.ErrorValidation)
	}
	return s.provider.TasteProfile(ctx, req)
}
