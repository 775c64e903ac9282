package users

import (
	"context"

	"github.com/winelog/winelog/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByKakaoID(ctx context.Context, kakaoID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// IncrementDiarySeq atomically bumps the user's diary counter and
	// returns the new value. Run inside the diary-creation transaction so
	// concurrent submissions by one user cannot observe the same number.
	IncrementDiarySeq(ctx context.Context, userID int64) (int64, error)
}
