package pokemontypes

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/poketeer/pokeapi/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*type\s+FROM\s+type_mst\s+WHERE\s+id\s*=\s*\$1\b`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type"}).AddRow(1, "Grass"))

	got, err := repo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 1 || got.Name != "Grass" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WithArgs(99).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetAll(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*type\s+FROM\s+type_mst\s+WHERE\s+deleted_at\s+IS\s+NULL\s+ORDER\s+BY\s+id\b`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type"}).
			AddRow(1, "Grass").
			AddRow(2, "Poison"))

	got, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].Name != "Poison" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}
