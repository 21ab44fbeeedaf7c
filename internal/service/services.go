package service

import (
	"context"

	"github.com/card-builder/internal/config"
	"github.com/card-builder/internal/events"
	"github.com/card-builder/internal/models"
	"github.com/card-builder/internal/repository"
	"github.com/rs/zerolog"
)

// CardStore defines the employee-code keyed card persistence operations
type CardStore interface {
	Load(ctx context.Context) (*models.CardCollection, error)
	Save(ctx context.Context, collection *models.CardCollection) error
	Upsert(ctx context.Context, card models.CardRecord) (*models.CardCollection, error)
	Remove(ctx context.Context, employeeCode string) (*models.CardCollection, error)
	Find(ctx context.Context, employeeCode string) (*models.CardRecord, error)
	List(ctx context.Context, query string) ([]models.CardRecord, error)
}

// ImageService defines the interface for turning uploads into data URLs
type ImageService interface {
	EncodeDataURL(data []byte) (string, error)
	MaxSize() int64
}

// HealthChecker reports whether the storage backend is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Services holds all service interfaces
type Services struct {
	Cards   CardStore
	Images  ImageService
	Health  HealthChecker
	Backend string
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, publisher events.Publisher, log zerolog.Logger) *Services {
	return &Services{
		Cards:   NewCardStore(repos.Slots, cfg.Storage.SlotKey, publisher, log),
		Images:  NewImageService(cfg.Upload.MaxImageSize, log),
		Health:  repos,
		Backend: repos.Backend,
	}
}
