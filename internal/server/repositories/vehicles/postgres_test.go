package vehicles

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestList_DerivesHighestBid(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+v\.vehicle_id,.*FROM\s+vehicles\s+v\s+ORDER\s+BY\s+v\.vehicle_id\s*$`

	rows := sqlmock.NewRows([]string{"vehicle_id", "make", "model", "year", "starting_bid", "highest_bid"}).
		AddRow(int64(1), "Toyota", "Camry", 2020, 15000.0, 15500.0).
		AddRow(int64(2), "Honda", "Accord", 2021, 18000.0, nil)
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(got))
	}
	if got[0].HighestBid != 15500.0 {
		t.Fatalf("vehicle 1: want highest 15500, got %v", got[0].HighestBid)
	}
	if got[1].HighestBid != 18000.0 {
		t.Fatalf("vehicle 2 without bids must fall back to starting bid, got %v", got[1].HighestBid)
	}
}

func TestList_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+v\.vehicle_id,`).WillReturnError(errors.New("db down"))

	_, err := repo.List(context.Background())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestStartingBid_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+starting_bid\s+FROM\s+vehicles\s+WHERE\s+vehicle_id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"starting_bid"}).AddRow(18000.0)
	mock.ExpectQuery(q).WithArgs(int64(2)).WillReturnRows(rows)

	got, err := repo.StartingBid(context.Background(), 2)
	if err != nil {
		t.Fatalf("StartingBid error: %v", err)
	}
	if got != 18000.0 {
		t.Fatalf("want 18000, got %v", got)
	}
}

func TestStartingBid_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+starting_bid`).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	_, err := repo.StartingBid(context.Background(), 99)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
