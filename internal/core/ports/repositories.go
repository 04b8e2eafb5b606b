package ports

import (
	"context"
	"time"

	"github.com/pathpal/pathpal/internal/core/domain"
)

// SessionRepository persists navigation session history. Save inserts or
// replaces the row, so a reroute overwrites the previous summary.
type SessionRepository interface {
	Save(ctx context.Context, rec *domain.SessionRecord) error
	GetByID(ctx context.Context, id string) (*domain.SessionRecord, error)
	MarkArrived(ctx context.Context, id string, at time.Time) error
	MarkEnded(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	ListRecent(ctx context.Context, limit int) ([]domain.SessionRecord, error)
}
