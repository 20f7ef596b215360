package bids

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/dbx"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) MaxAmount(ctx context.Context, vehicleID int64) (float64, bool, error) {
	query :=
		`SELECT MAX(bid_amount) AS highest_bid FROM bids
		 WHERE vehicle_id = $1
		 `

	var highest sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query, vehicleID).Scan(&highest)

	if err != nil {
		return 0, false, fmt.Errorf("db error: %w", err)
	}
	if !highest.Valid {
		return 0, false, nil
	}

	return highest.Float64, true, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, bid *models.Bid) error {
	query :=
		`INSERT INTO bids (bidder_id, vehicle_id, bid_amount, blockchain_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		bid.BidderID, bid.VehicleID, bid.Amount, bid.Receipt, bid.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
