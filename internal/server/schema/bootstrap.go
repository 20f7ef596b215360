// Package schema ensures the auction database and its three tables exist
// before the first store operation runs. Bootstrap happens at most once per
// process: concurrent first callers serialize on a mutex, losers observe the
// initialized flag and return without re-running the script.
package schema

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/common"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/logging"
)

//go:embed ddl/auction_schema.sql
var ddlFS embed.FS

// expected tables, checked against the catalog before running the script.
var expectedTables = []string{"bidders", "vehicles", "bids"}

// ConnectFunc yields a live, pinged database handle. The caller closes it.
type ConnectFunc func(ctx context.Context) (*sql.DB, error)

// DefaultScript returns the embedded DDL script.
func DefaultScript() string {
	b, err := ddlFS.ReadFile("ddl/auction_schema.sql")
	if err != nil {
		// The file is embedded at build time; this cannot fail at runtime.
		panic(err)
	}
	return string(b)
}

// Bootstrapper creates the database and applies the schema script when the
// expected tables are missing.
type Bootstrapper struct {
	admin  ConnectFunc
	target ConnectFunc
	dbName string
	script string
	logger logging.Logger

	mu          sync.Mutex
	initialized bool
}

// New builds a Bootstrapper. admin connects without selecting the target
// database (used to create it); target connects to the database itself.
func New(admin, target ConnectFunc, dbName, script string, logger logging.Logger) *Bootstrapper {
	return &Bootstrapper{
		admin:  admin,
		target: target,
		dbName: dbName,
		script: script,
		logger: logger,
	}
}

// Initialized reports whether bootstrap has completed in this process.
func (b *Bootstrapper) Initialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initialized
}

// Ensure runs the bootstrap sequence once per process lifetime. Connectivity
// failures leave the flag unset so the next caller retries; a partial script
// apply sets the flag anyway, so a half-created schema is reported once and
// not retried on every call.
func (b *Bootstrapper) Ensure(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	if err := b.ensureDatabase(ctx); err != nil {
		return err
	}

	db, err := b.target(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrSchemaUnreachable, err)
	}
	defer db.Close()

	count, err := b.countTables(ctx, db)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrSchemaUnreachable, err)
	}

	if count >= len(expectedTables) {
		b.logger.Info(ctx, "schema tables already exist", "database", b.dbName)
		b.initialized = true
		return nil
	}

	b.logger.Info(ctx, "creating schema from script", "database", b.dbName, "tables_present", count)

	statements := SplitScript(b.script)
	var failed int
	var firstErr error
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			b.logger.Error(ctx, "schema statement failed", "error", err)
		}
	}

	b.initialized = true

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d statements failed: %v",
			common.ErrSchemaPartialApply, failed, len(statements), firstErr)
	}

	b.logger.Info(ctx, "schema created", "database", b.dbName, "statements", len(statements))
	return nil
}

func (b *Bootstrapper) ensureDatabase(ctx context.Context) error {
	admin, err := b.admin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrSchemaUnreachable, err)
	}
	defer admin.Close()

	var exists bool
	err = admin.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, b.dbName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrSchemaUnreachable, err)
	}
	if exists {
		return nil
	}

	// CREATE DATABASE has no IF NOT EXISTS form; a concurrent creator makes
	// the statement fail with duplicate_database, which counts as success.
	_, err = admin.ExecContext(ctx, "CREATE DATABASE "+pgx.Identifier{b.dbName}.Sanitize())
	if err != nil && !isDuplicateDatabase(err) {
		return fmt.Errorf("%w: %v", common.ErrSchemaUnreachable, err)
	}

	b.logger.Info(ctx, "database created", "database", b.dbName)
	return nil
}

func (b *Bootstrapper) countTables(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM information_schema.tables
		 WHERE table_schema = 'public' AND table_name IN ($1, $2, $3)`,
		expectedTables[0], expectedTables[1], expectedTables[2]).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func isDuplicateDatabase(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P04"
}

// SplitScript breaks a DDL script into individual statements. A statement
// ends on a line whose trimmed form ends with ';'. Blank lines, comment
// lines ('--') and USE directives are skipped.
func SplitScript(script string) []string {
	var statements []string
	var sb strings.Builder

	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") || strings.HasPrefix(strings.ToUpper(trimmed), "USE ") {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(line)

		if strings.HasSuffix(trimmed, ";") {
			statements = append(statements, sb.String())
			sb.Reset()
		}
	}

	return statements
}
