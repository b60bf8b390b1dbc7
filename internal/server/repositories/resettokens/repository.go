package resettokens

import (
	"context"
	"time"

	"github.com/dkarklins/jobfolio/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, validity time.Duration) error
	Get(ctx context.Context, token string) (*models.ResetToken, error)
	MarkUsed(ctx context.Context, token string) error
}
