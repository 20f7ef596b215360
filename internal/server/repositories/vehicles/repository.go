package vehicles

import (
	"context"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Vehicle, error)
	StartingBid(ctx context.Context, vehicleID int64) (float64, error)
}
