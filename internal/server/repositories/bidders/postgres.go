package bidders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/common"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/dbx"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, bidder *models.Bidder) (*models.Bidder, error) {

	query :=
		`INSERT INTO bidders (username, password, email)
         VALUES ($1, $2, $3)
		 RETURNING bidder_id
		 `

	err := r.db.QueryRowContext(ctx, query,
		bidder.Username, bidder.Password, bidder.Email).Scan(&bidder.ID)

	if err != nil {
		if isIntegrityViolation(err) {
			return nil, fmt.Errorf("%w: %v", common.ErrStoreRejected, err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return bidder, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Bidder, error) {
	query :=
		`SELECT bidder_id, username, password, email FROM bidders
		 WHERE username = $1
		 `

	bidder := &models.Bidder{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&bidder.ID, &bidder.Username, &bidder.Password, &bidder.Email)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return bidder, nil
}

// isIntegrityViolation matches SQLSTATE class 23 (integrity constraint
// violation), which covers the unique username constraint.
func isIntegrityViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23")
}
