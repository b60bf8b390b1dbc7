package links

import (
	"context"
	"time"

	"github.com/dkarklins/jobfolio/internal/server/models"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string, newestFirst bool) ([]*models.Link, error)
	Create(ctx context.Context, link *models.Link) (*models.Link, error)
	MarkApplied(ctx context.Context, userID, id string, status string, appliedAt time.Time, snapshot map[string]any, note string) ([]*models.Link, error)
	Delete(ctx context.Context, userID, id string) error
}
