package profiles

import (
	"context"

	"github.com/dkarklins/jobfolio/internal/server/models"
)

type Repository interface {
	GetByUser(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) error
}
