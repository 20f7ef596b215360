package bids

import (
	"context"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/models"
)

type Repository interface {
	// MaxAmount returns the highest recorded bid amount for a vehicle.
	// The second return value is false when the vehicle has no bids.
	MaxAmount(ctx context.Context, vehicleID int64) (float64, bool, error)
	Insert(ctx context.Context, bid *models.Bid) error
}
