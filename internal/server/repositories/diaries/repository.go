package diaries

import (
	"context"

	"github.com/winelog/winelog/internal/server/models"
)

type Repository interface {
	// Create inserts a new diary row. UserID, Seq and WineID must be set.
	Create(ctx context.Context, diary *models.Diary) error
	Get(ctx context.Context, userID, seq int64) (*models.Diary, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.Diary, error)
	ListPublic(ctx context.Context, offset, limit int) ([]*models.Diary, error)
	// Update writes the mutable fields of the entry and stamps updated_at.
	Update(ctx context.Context, diary *models.Diary) error
	Delete(ctx context.Context, userID, seq int64) error
}
