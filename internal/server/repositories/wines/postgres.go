package wines

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

const wineColumns = `id, name, origin, grape, year, alcohol, type,
	aroma_note, taste_note, finish_note, sweetness, acidity, tannin, body, created_at`

func scanWine(row *sql.Row) (*models.Wine, error) {
	w := &models.Wine{}
	err := row.Scan(&w.ID, &w.Name, &w.Origin, &w.Grape, &w.Year, &w.Alcohol, &w.Type,
		&w.AromaNote, &w.TasteNote, &w.FinishNote, &w.Sweetness, &w.Acidity, &w.Tannin, &w.Body, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Wine, error) {
	query := `SELECT ` + wineColumns + ` FROM wines WHERE id = $1`

	wine, err := scanWine(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return wine, nil
}

func (r *PostgresRepository) FindByIdentity(ctx context.Context, key Identity) (*models.Wine, error) {
	query := `SELECT ` + wineColumns + ` FROM wines
		 WHERE name = $1 AND origin = $2 AND grape = $3 AND year = $4 AND type = $5`

	wine, err := scanWine(r.db.QueryRowContext(ctx, query, key.Name, key.Origin, key.Grape, key.Year, key.Type))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return wine, nil
}

func (r *PostgresRepository) Create(ctx context.Context, wine *models.Wine) (*models.Wine, error) {
	query :=
		`INSERT INTO wines (name, origin, grape, year, alcohol, type,
			aroma_note, taste_note, finish_note, sweetness, acidity, tannin, body)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		wine.Name, wine.Origin, wine.Grape, wine.Year, wine.Alcohol, wine.Type,
		wine.AromaNote, wine.TasteNote, wine.FinishNote,
		wine.Sweetness, wine.Acidity, wine.Tannin, wine.Body).Scan(&wine.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return wine, nil
}

func (r *PostgresRepository) List(ctx context.Context, offset, limit int) ([]*models.Wine, error) {
	query := `SELECT ` + wineColumns + ` FROM wines ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Wine
	for rows.Next() {
		w := &models.Wine{}
		err := rows.Scan(&w.ID, &w.Name, &w.Origin, &w.Grape, &w.Year, &w.Alcohol, &w.Type,
			&w.AromaNote, &w.TasteNote, &w.FinishNote, &w.Sweetness, &w.Acidity, &w.Tannin, &w.Body, &w.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
