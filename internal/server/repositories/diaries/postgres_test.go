package diaries

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/winelog/winelog/internal/common"
	"github.com/winelog/winelog/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func diaryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "seq", "wine_id",
		"front_image", "back_image", "thumbnail_image", "download_image",
		"rating", "review", "price", "is_public", "drink_date", "created_at", "updated_at"})
}

func addDiaryRow(rows *sqlmock.Rows, userID, seq int64) *sqlmock.Rows {
	return rows.AddRow(userID, seq, int64(3), "https://img/front.jpg", nil, nil, nil,
		4, "nice", nil, true, nil, time.Now(), time.Now())
}

func TestDiaryCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+diaries\s*\(user_id,\s*seq,\s*wine_id,.*\)\s*VALUES\s*\(\$1,.*\$12\)\s*RETURNING\s+created_at,\s*updated_at\s*$`

	front := "https://img/front.jpg"
	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs(int64(7), int64(1), int64(3), front, nil, nil, nil, 4, "nice", nil, true, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	d := &models.Diary{
		UserID: 7, Seq: 1, WineID: 3,
		FrontImage: &front, Rating: 4, Review: "nice", IsPublic: true,
	}
	if err := repo.Create(context.Background(), d); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if d.CreatedAt.IsZero() || d.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not populated: %+v", d)
	}
}

func TestDiaryCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+diaries`).
		WillReturnError(errors.New("fk violation"))

	err := repo.Create(context.Background(), &models.Diary{UserID: 7, Seq: 1, WineID: 99})
	if err == nil || !regexp.MustCompile(`db error: .*fk violation`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestDiaryGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+diaries\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+seq\s*=\s*\$2`).
		WithArgs(int64(7), int64(1)).
		WillReturnRows(addDiaryRow(diaryRows(), 7, 1))

	got, err := repo.Get(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.UserID != 7 || got.Seq != 1 || got.FrontImage == nil {
		t.Fatalf("unexpected diary: %+v", got)
	}
	if got.Price != nil {
		t.Fatalf("null price must scan to nil, got %v", *got.Price)
	}

	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+diaries\s+WHERE\s+user_id`).
		WithArgs(int64(7), int64(99)).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.Get(context.Background(), 7, 99); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDiaryListByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := addDiaryRow(addDiaryRow(diaryRows(), 7, 2), 7, 1)
	mock.ExpectQuery(`(?s)SELECT\s+.*\s+FROM\s+diaries\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+seq\s+DESC\s+LIMIT\s+\$2\s+OFFSET\s+\$3`).
		WithArgs(int64(7), 20, 0).
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), 7, 0, 20)
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(got) != 2 || got[0].Seq != 2 {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestDiaryListPublic(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+.*\s+FROM\s+diaries\s+WHERE\s+is_public\s+ORDER\s+BY\s+created_at\s+DESC\s+LIMIT\s+\$1\s+OFFSET\s+\$2`).
		WithArgs(20, 0).
		WillReturnRows(addDiaryRow(diaryRows(), 9, 5))

	got, err := repo.ListPublic(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("ListPublic error: %v", err)
	}
	if len(got) != 1 || got[0].UserID != 9 {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestDiaryUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+diaries\s+SET\s+rating\s*=\s*\$3,\s*review\s*=\s*\$4,\s*price\s*=\s*\$5,\s*is_public\s*=\s*\$6,\s*drink_date\s*=\s*\$7,\s*updated_at\s*=\s*now\(\)\s*WHERE\s+user_id\s*=\s*\$1\s+AND\s+seq\s*=\s*\$2\s+RETURNING\s+updated_at\s*$`

	mock.ExpectQuery(q).
		WithArgs(int64(7), int64(1), 5, "updated", nil, false, nil).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	d := &models.Diary{UserID: 7, Seq: 1, Rating: 5, Review: "updated"}
	if err := repo.Update(context.Background(), d); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if d.UpdatedAt.IsZero() {
		t.Fatalf("updated_at not refreshed")
	}
}

func TestDiaryUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE\s+diaries\s+SET`).
		WillReturnError(sql.ErrNoRows)

	err := repo.Update(context.Background(), &models.Diary{UserID: 7, Seq: 99})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDiaryDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+diaries\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+seq\s*=\s*\$2\s*$`

	mock.ExpectExec(q).
		WithArgs(int64(7), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 7, 1); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDiaryDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+diaries`).
		WithArgs(int64(7), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 7, 99); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
