package vehicles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

// List returns every vehicle with its derived highest bid. The highest bid
// is recomputed from the bids table on every call; when a vehicle has no
// bids it falls back to the starting bid.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Vehicle, error) {

	query :=
		`SELECT v.vehicle_id, v.make, v.model, v.year, v.starting_bid,
		        (SELECT MAX(b.bid_amount) FROM bids b WHERE b.vehicle_id = v.vehicle_id) AS highest_bid
		 FROM vehicles v
		 ORDER BY v.vehicle_id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		var highest sql.NullFloat64
		if err := rows.Scan(&v.ID, &v.Make, &v.Model, &v.Year, &v.StartingBid, &highest); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if highest.Valid {
			v.HighestBid = highest.Float64
		} else {
			v.HighestBid = v.StartingBid
		}
		vehicles = append(vehicles, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return vehicles, nil
}

func (r *PostgresRepository) StartingBid(ctx context.Context, vehicleID int64) (float64, error) {
	query :=
		`SELECT starting_bid FROM vehicles
		 WHERE vehicle_id = $1
		 `

	var startingBid float64
	err := r.db.QueryRowContext(ctx, query, vehicleID).Scan(&startingBid)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return startingBid, nil
}
