package bidders

import (
	"context"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, bidder *models.Bidder) (*models.Bidder, error)
	GetByUsername(ctx context.Context, username string) (*models.Bidder, error)
}
