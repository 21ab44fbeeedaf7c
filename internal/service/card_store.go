package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/card-builder/internal/events"
	"github.com/card-builder/internal/models"
	"github.com/card-builder/internal/repository"
	"github.com/card-builder/internal/validation"
	"github.com/rs/zerolog"
)

// ErrCorruptState is reported when the persisted blob is not a card collection
var ErrCorruptState = errors.New("corrupt card state")

// CardStoreOption customizes a card store
type CardStoreOption func(*cardStore)

// WithClock overrides the time source used for lastUpdated
func WithClock(now func() time.Time) CardStoreOption {
	return func(s *cardStore) { s.now = now }
}

// cardStore keeps the whole collection as one blob in a single slot.
// Every mutation is a full load-modify-save of that blob.
type cardStore struct {
	slots     repository.SlotRepository
	key       string
	publisher events.Publisher
	now       func() time.Time
	log       zerolog.Logger
}

// NewCardStore creates a CardStore persisting to slots under key
func NewCardStore(slots repository.SlotRepository, key string, publisher events.Publisher, log zerolog.Logger, opts ...CardStoreOption) CardStore {
	if publisher == nil {
		publisher = events.Nop{}
	}
	s := &cardStore{
		slots:     slots,
		key:       key,
		publisher: publisher,
		now:       time.Now,
		log:       log.With().Str("service", "cards").Str("slot", key).Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DecodeCollection parses a persisted blob. Shape mismatches wrap ErrCorruptState.
func DecodeCollection(raw string) (*models.CardCollection, error) {
	collection := models.NewCardCollection()
	if err := json.Unmarshal([]byte(raw), collection); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return collection, nil
}

// Load reads the persisted collection. A missing slot yields an empty collection;
// so does a corrupt one, which is logged and otherwise ignored.
func (s *cardStore) Load(ctx context.Context) (*models.CardCollection, error) {
	raw, found, err := s.slots.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read card slot: %w", err)
	}
	if !found {
		return models.NewCardCollection(), nil
	}

	collection, err := DecodeCollection(raw)
	if err != nil {
		s.log.Error().Err(err).Int("bytes", len(raw)).Msg("Discarding corrupt card collection")
		return models.NewCardCollection(), nil
	}
	return collection, nil
}

// Save overwrites the slot with the full collection
func (s *cardStore) Save(ctx context.Context, collection *models.CardCollection) error {
	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("encode card collection: %w", err)
	}
	if err := s.slots.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("write card slot: %w", err)
	}
	return nil
}

// Upsert replaces the card stored under card.EmployeeCode, stamping lastUpdated.
// An existing card with the same code is overwritten without warning.
func (s *cardStore) Upsert(ctx context.Context, card models.CardRecord) (*models.CardCollection, error) {
	if err := validation.ValidateForSave(&card); err != nil {
		return nil, err
	}

	collection, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	stamp := s.now().UTC().Truncate(time.Millisecond)
	if prev, ok := collection.Get(card.EmployeeCode); ok {
		if last := prev.LastUpdatedTime(); !last.IsZero() && !stamp.After(last) {
			stamp = last.Truncate(time.Millisecond).Add(time.Millisecond)
		}
	}
	card.LastUpdated = stamp.Format(models.LastUpdatedLayout)
	collection.Put(card)

	if err := s.Save(ctx, collection); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("employee_code", card.EmployeeCode).
		Str("last_updated", card.LastUpdated).
		Int("cards", collection.Len()).
		Msg("Card saved")

	s.publish(ctx, events.CardEvent{
		Type:         events.CardSaved,
		EmployeeCode: card.EmployeeCode,
		LastUpdated:  card.LastUpdated,
		At:           stamp,
	})

	return collection, nil
}

// Remove deletes the card for employeeCode. Removing a missing code is not an error.
func (s *cardStore) Remove(ctx context.Context, employeeCode string) (*models.CardCollection, error) {
	collection, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	removed := collection.Delete(employeeCode)
	if err := s.Save(ctx, collection); err != nil {
		return nil, err
	}

	if removed {
		s.log.Info().Str("employee_code", employeeCode).Msg("Card removed")
		s.publish(ctx, events.CardEvent{
			Type:         events.CardRemoved,
			EmployeeCode: employeeCode,
			At:           s.now().UTC(),
		})
	}

	return collection, nil
}

// Find returns the card for employeeCode, or nil if there is none
func (s *cardStore) Find(ctx context.Context, employeeCode string) (*models.CardRecord, error) {
	collection, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	card, ok := collection.Get(employeeCode)
	if !ok {
		return nil, nil
	}
	return &card, nil
}

// List loads the collection and filters it with Search
func (s *cardStore) List(ctx context.Context, query string) ([]models.CardRecord, error) {
	collection, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Search(collection, query), nil
}

func (s *cardStore) publish(ctx context.Context, ev events.CardEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("type", ev.Type).Str("employee_code", ev.EmployeeCode).Msg("Failed to publish card event")
	}
}

// Search returns the cards whose name, employee code, title or company contain
// query, ignoring case. An empty query matches every card. Results keep
// collection order.
func Search(collection *models.CardCollection, query string) []models.CardRecord {
	q := strings.ToLower(query)
	out := make([]models.CardRecord, 0, collection.Len())
	for _, card := range collection.Records() {
		if q == "" ||
			strings.Contains(strings.ToLower(card.Name), q) ||
			strings.Contains(strings.ToLower(card.EmployeeCode), q) ||
			strings.Contains(strings.ToLower(card.Title), q) ||
			strings.Contains(strings.ToLower(card.Company), q) {
			out = append(out, card)
		}
	}
	return out
}
