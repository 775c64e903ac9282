package diaries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/winelog/winelog/internal/common"
	"github.com/winelog/winelog/internal/dbx"
	"github.com/winelog/winelog/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const diaryColumns = `user_id, seq, wine_id, front_image, back_image, thumbnail_image, download_image,
	rating, review, price, is_public, drink_date, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, diary *models.Diary) error {
	query :=
		`INSERT INTO diaries (user_id, seq, wine_id, front_image, back_image, thumbnail_image, download_image,
			rating, review, price, is_public, drink_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		diary.UserID, diary.Seq, diary.WineID,
		diary.FrontImage, diary.BackImage, diary.ThumbnailImage, diary.DownloadImage,
		diary.Rating, diary.Review, diary.Price, diary.IsPublic, diary.DrinkDate).
		Scan(&diary.CreatedAt, &diary.UpdatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func scanDiary(scan func(dest ...any) error) (*models.Diary, error) {
	d := &models.Diary{}
	err := scan(&d.UserID, &d.Seq, &d.WineID,
		&d.FrontImage, &d.BackImage, &d.ThumbnailImage, &d.DownloadImage,
		&d.Rating, &d.Review, &d.Price, &d.IsPublic, &d.DrinkDate,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, seq int64) (*models.Diary, error) {
	query := `SELECT ` + diaryColumns + ` FROM diaries WHERE user_id = $1 AND seq = $2`

	diary, err := scanDiary(r.db.QueryRowContext(ctx, query, userID, seq).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return diary, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.Diary, error) {
	query := `SELECT ` + diaryColumns + ` FROM diaries
		 WHERE user_id = $1
		 ORDER BY seq DESC
		 LIMIT $2 OFFSET $3`

	return r.queryDiaries(ctx, query, userID, limit, offset)
}

func (r *PostgresRepository) ListPublic(ctx context.Context, offset, limit int) ([]*models.Diary, error) {
	query := `SELECT ` + diaryColumns + ` FROM diaries
		 WHERE is_public
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`

	return r.queryDiaries(ctx, query, limit, offset)
}

func (r *PostgresRepository) queryDiaries(ctx context.Context, query string, args ...any) ([]*models.Diary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Diary
	for rows.Next() {
		d, err := scanDiary(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, diary *models.Diary) error {
	query :=
		`UPDATE diaries SET rating = $3, review = $4, price = $5, is_public = $6, drink_date = $7,
			updated_at = now()
		 WHERE user_id = $1 AND seq = $2
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		diary.UserID, diary.Seq,
		diary.Rating, diary.Review, diary.Price, diary.IsPublic, diary.DrinkDate).
		Scan(&diary.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, seq int64) error {
	query := `DELETE FROM diaries WHERE user_id = $1 AND seq = $2`

	res, err := r.db.ExecContext(ctx, query, userID, seq)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
