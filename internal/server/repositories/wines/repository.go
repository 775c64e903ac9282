package wines

import (
	"context"

	"github.com/winelog/winelog/internal/server/models"
)

// Identity is the natural key of a wine. Lookups dedupe on it before insert;
// a database unique index enforces the same invariant.
type Identity struct {
	Name   string
	Origin string
	Grape  string
	Year   string
	Type   string
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.Wine, error)
	// FindByIdentity returns the wine matching the exact identity key,
	// or common.ErrorNotFound.
	FindByIdentity(ctx context.Context, key Identity) (*models.Wine, error)
	// Create inserts a new wine and fills in the generated id. The id is
	// usable within the same uncommitted transaction for foreign keys.
	Create(ctx context.Context, wine *models.Wine) (*models.Wine, error)
	List(ctx context.Context, offset, limit int) ([]*models.Wine, error)
}
