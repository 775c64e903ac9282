package users

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

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, kakao_id, nickname, email, profile_image, diary_seq, created_at FROM users
		 WHERE id = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.KakaoID, &user.Nickname, &user.Email, &user.ProfileImage, &user.DiarySeq, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByKakaoID(ctx context.Context, kakaoID string) (*models.User, error) {
	query :=
		`SELECT id, kakao_id, nickname, email, profile_image, diary_seq, created_at FROM users
		 WHERE kakao_id = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, kakaoID).Scan(
		&user.ID, &user.KakaoID, &user.Nickname, &user.Email, &user.ProfileImage, &user.DiarySeq, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (kakao_id, nickname, email, profile_image)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.KakaoID, user.Nickname, user.Email, user.ProfileImage).Scan(&user.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) IncrementDiarySeq(ctx context.Context, userID int64) (int64, error) {
	query :=
		`UPDATE users SET diary_seq = diary_seq + 1
		 WHERE id = $1
		 RETURNING diary_seq
		 `

	var seq int64
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&seq)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return seq, nil
}
