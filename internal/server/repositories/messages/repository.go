package messages

import (
	"context"

	"github.com/messagely/messagely/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)
	Get(ctx context.Context, id int64) (*models.Message, error)
	MarkRead(ctx context.Context, id int64) (*models.ReadReceipt, error)
	ToUser(ctx context.Context, username string) ([]models.Message, error)
	FromUser(ctx context.Context, username string) ([]models.Message, error)
}
