package mocks

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/card-builder/internal/models"
	"github.com/card-builder/internal/service"
	"github.com/card-builder/internal/validation"
)

// MockCardStore is a mock implementation of CardStore backed by an in-memory collection
type MockCardStore struct {
	Collection  *models.CardCollection
	Err         error
	Upserted    []models.CardRecord
	Removed     []string
	LastQueries []string
	Now         time.Time
}

// Verify interface compliance
var _ service.CardStore = (*MockCardStore)(nil)

func NewMockCardStore() *MockCardStore {
	return &MockCardStore{
		Collection: models.NewCardCollection(),
		Now:        time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Seed stores cards without recording them as upserts
func (m *MockCardStore) Seed(cards ...models.CardRecord) {
	for _, c := range cards {
		m.Collection.Put(c)
	}
}

func (m *MockCardStore) Load(ctx context.Context) (*models.CardCollection, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Collection.Clone(), nil
}

func (m *MockCardStore) Save(ctx context.Context, collection *models.CardCollection) error {
	if m.Err != nil {
		return m.Err
	}
	m.Collection = collection.Clone()
	return nil
}

func (m *MockCardStore) Upsert(ctx context.Context, card models.CardRecord) (*models.CardCollection, error) {
	if err := validation.ValidateForSave(&card); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	card.LastUpdated = m.Now.Format(models.LastUpdatedLayout)
	m.Collection.Put(card)
	m.Upserted = append(m.Upserted, card)
	return m.Collection.Clone(), nil
}

func (m *MockCardStore) Remove(ctx context.Context, employeeCode string) (*models.CardCollection, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.Collection.Delete(employeeCode)
	m.Removed = append(m.Removed, employeeCode)
	return m.Collection.Clone(), nil
}

func (m *MockCardStore) Find(ctx context.Context, employeeCode string) (*models.CardRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	card, ok := m.Collection.Get(employeeCode)
	if !ok {
		return nil, nil
	}
	return &card, nil
}

func (m *MockCardStore) List(ctx context.Context, query string) ([]models.CardRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.LastQueries = append(m.LastQueries, query)
	return service.Search(m.Collection, query), nil
}

// MockImageService is a mock implementation of ImageService.
// It trusts ContentType instead of sniffing the payload.
type MockImageService struct {
	ContentType string
	Limit       int64
	EncodeFunc  func(data []byte) (string, error)
}

var _ service.ImageService = (*MockImageService)(nil)

func NewMockImageService() *MockImageService {
	return &MockImageService{
		ContentType: "image/png",
		Limit:       models.DefaultMaxImageSize,
	}
}

func (m *MockImageService) EncodeDataURL(data []byte) (string, error) {
	if m.EncodeFunc != nil {
		return m.EncodeFunc(data)
	}
	if err := validation.ValidateImage(m.ContentType, int64(len(data)), m.Limit); err != nil {
		return "", err
	}
	return "data:" + m.ContentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (m *MockImageService) MaxSize() int64 {
	return m.Limit
}

// MockHealthChecker returns Err from every check
type MockHealthChecker struct {
	Err   error
	Calls int
}

var _ service.HealthChecker = (*MockHealthChecker)(nil)

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	m.Calls++
	return m.Err
}
