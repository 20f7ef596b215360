package schema

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/common"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/logging"
)

const testScript = `-- test schema
CREATE TABLE bidders (x INT);

CREATE TABLE vehicles (x INT);
CREATE TABLE bids (x INT);
`

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func connectTo(db *sql.DB) ConnectFunc {
	return func(ctx context.Context) (*sql.DB, error) { return db, nil }
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestSplitScript(t *testing.T) {
	statements := SplitScript(testScript)
	require.Len(t, statements, 3)
	assert.Equal(t, "CREATE TABLE bidders (x INT);", statements[0])
	assert.Equal(t, "CREATE TABLE vehicles (x INT);", statements[1])
	assert.Equal(t, "CREATE TABLE bids (x INT);", statements[2])
}

func TestSplitScript_MultilineAndSkips(t *testing.T) {
	script := "-- header\nUSE somedb;\n\nCREATE TABLE t (\n  id INT\n);\n  \nINSERT INTO t VALUES (1);\n"
	statements := SplitScript(script)
	require.Len(t, statements, 2)
	assert.Equal(t, "CREATE TABLE t (\n  id INT\n);", statements[0])
	assert.Equal(t, "INSERT INTO t VALUES (1);", statements[1])
}

func TestSplitScript_DefaultScript(t *testing.T) {
	statements := SplitScript(DefaultScript())
	// three tables, one index, one seed insert
	assert.Len(t, statements, 5)
}

func TestEnsure_TablesPresent_SkipsScript(t *testing.T) {
	admin, adminMock := newMockDB(t)
	target, targetMock := newMockDB(t)

	adminMock.ExpectQuery(`SELECT EXISTS`).WithArgs("auction").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	adminMock.ExpectClose()

	targetMock.ExpectQuery(`SELECT COUNT\(\*\) FROM information_schema\.tables`).
		WithArgs("bidders", "vehicles", "bids").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	targetMock.ExpectClose()

	b := New(connectTo(admin), connectTo(target), "auction", testScript, testLogger())

	require.NoError(t, b.Ensure(context.Background()))
	assert.True(t, b.Initialized())

	// second call is a no-op, no further expectations
	require.NoError(t, b.Ensure(context.Background()))

	require.NoError(t, adminMock.ExpectationsWereMet())
	require.NoError(t, targetMock.ExpectationsWereMet())
}

func TestEnsure_CreatesDatabaseAndRunsScript(t *testing.T) {
	admin, adminMock := newMockDB(t)
	target, targetMock := newMockDB(t)

	adminMock.ExpectQuery(`SELECT EXISTS`).WithArgs("auction").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	adminMock.ExpectExec(`CREATE DATABASE "auction"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	adminMock.ExpectClose()

	targetMock.ExpectQuery(`SELECT COUNT\(\*\) FROM information_schema\.tables`).
		WithArgs("bidders", "vehicles", "bids").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	targetMock.ExpectExec(`CREATE TABLE bidders`).WillReturnResult(sqlmock.NewResult(0, 0))
	targetMock.ExpectExec(`CREATE TABLE vehicles`).WillReturnResult(sqlmock.NewResult(0, 0))
	targetMock.ExpectExec(`CREATE TABLE bids`).WillReturnResult(sqlmock.NewResult(0, 0))
	targetMock.ExpectClose()

	b := New(connectTo(admin), connectTo(target), "auction", testScript, testLogger())

	require.NoError(t, b.Ensure(context.Background()))
	assert.True(t, b.Initialized())

	require.NoError(t, adminMock.ExpectationsWereMet())
	require.NoError(t, targetMock.ExpectationsWereMet())
}

func TestEnsure_AdminUnreachable(t *testing.T) {
	failing := func(ctx context.Context) (*sql.DB, error) {
		return nil, errors.New("connection refused")
	}

	b := New(failing, failing, "auction", testScript, testLogger())

	err := b.Ensure(context.Background())
	require.ErrorIs(t, err, common.ErrSchemaUnreachable)
	assert.False(t, b.Initialized(), "unreachable bootstrap must stay retryable")
}

func TestEnsure_PartialApply_SetsFlag(t *testing.T) {
	admin, adminMock := newMockDB(t)
	target, targetMock := newMockDB(t)

	adminMock.ExpectQuery(`SELECT EXISTS`).WithArgs("auction").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	adminMock.ExpectClose()

	targetMock.ExpectQuery(`SELECT COUNT\(\*\) FROM information_schema\.tables`).
		WithArgs("bidders", "vehicles", "bids").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	targetMock.ExpectExec(`CREATE TABLE bidders`).WillReturnResult(sqlmock.NewResult(0, 0))
	targetMock.ExpectExec(`CREATE TABLE vehicles`).WillReturnError(errors.New("syntax error"))
	targetMock.ExpectExec(`CREATE TABLE bids`).WillReturnResult(sqlmock.NewResult(0, 0))
	targetMock.ExpectClose()

	b := New(connectTo(admin), connectTo(target), "auction", testScript, testLogger())

	err := b.Ensure(context.Background())
	require.ErrorIs(t, err, common.ErrSchemaPartialApply)
	assert.True(t, b.Initialized(), "partial apply must not unset the flag")

	// subsequent calls do not retry against the half-created schema
	require.NoError(t, b.Ensure(context.Background()))

	require.NoError(t, adminMock.ExpectationsWereMet())
	require.NoError(t, targetMock.ExpectationsWereMet())
}

func TestEnsure_ConcurrentCallers_RunOnce(t *testing.T) {
	admin, adminMock := newMockDB(t)
	target, targetMock := newMockDB(t)

	adminMock.ExpectQuery(`SELECT EXISTS`).WithArgs("auction").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	adminMock.ExpectClose()

	targetMock.ExpectQuery(`SELECT COUNT\(\*\) FROM information_schema\.tables`).
		WithArgs("bidders", "vehicles", "bids").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	targetMock.ExpectExec(`CREATE TABLE bidders`).WillReturnResult(sqlmock.NewResult(0, 0))
	targetMock.ExpectExec(`CREATE TABLE vehicles`).WillReturnResult(sqlmock.NewResult(0, 0))
	targetMock.ExpectExec(`CREATE TABLE bids`).WillReturnResult(sqlmock.NewResult(0, 0))
	targetMock.ExpectClose()

	var connects atomic.Int64
	adminConnect := func(ctx context.Context) (*sql.DB, error) {
		connects.Add(1)
		return admin, nil
	}

	b := New(adminConnect, connectTo(target), "auction", testScript, testLogger())

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = b.Ensure(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "caller %d", i)
	}
	assert.Equal(t, int64(1), connects.Load(), "script must run exactly once")
	assert.True(t, b.Initialized())

	require.NoError(t, adminMock.ExpectationsWereMet())
	require.NoError(t, targetMock.ExpectationsWereMet())
}
