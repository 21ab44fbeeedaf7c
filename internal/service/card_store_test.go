package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/card-builder/internal/events"
	"github.com/card-builder/internal/mocks"
	"github.com/card-builder/internal/models"
	"github.com/card-builder/internal/service"
	"github.com/card-builder/internal/validation"
	"github.com/rs/zerolog"
)

const slotKey = "employeeCards"

// fakeClock returns the configured instant on every call
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestStore(t *testing.T) (service.CardStore, *mocks.MockSlotRepository, *mocks.MockPublisher, *fakeClock) {
	t.Helper()
	repo := mocks.NewMockSlotRepository()
	pub := mocks.NewMockPublisher()
	clock := &fakeClock{t: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)}
	store := service.NewCardStore(repo, slotKey, pub, zerolog.Nop(), service.WithClock(clock.Now))
	return store, repo, pub, clock
}

func card(code, name string) models.CardRecord {
	return models.CardRecord{EmployeeCode: code, Name: name, Theme: models.DefaultTheme}
}

func TestCardStore_LoadEmptySlot(t *testing.T) {
	store, _, _, _ := newTestStore(t)

	collection, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if collection.Len() != 0 {
		t.Errorf("Expected empty collection, got %d cards", collection.Len())
	}
}

func TestCardStore_LoadCorruptBlob(t *testing.T) {
	for _, blob := range []string{"not json", "[1,2,3]", `{"E1": "Ann"}`, "null"} {
		store, repo, _, _ := newTestStore(t)
		repo.Data[slotKey] = blob

		collection, err := store.Load(context.Background())
		if err != nil {
			t.Errorf("Load(%q) should absorb corruption, got %v", blob, err)
			continue
		}
		if collection.Len() != 0 {
			t.Errorf("Load(%q) expected empty collection, got %d", blob, collection.Len())
		}
	}
}

func TestCardStore_LoadBackendError(t *testing.T) {
	store, repo, _, _ := newTestStore(t)
	repo.GetError = errors.New("connection refused")

	if _, err := store.Load(context.Background()); err == nil {
		t.Error("Backend failures should propagate")
	}
}

func TestDecodeCollection_CorruptState(t *testing.T) {
	_, err := service.DecodeCollection("not json")
	if !errors.Is(err, service.ErrCorruptState) {
		t.Errorf("Expected ErrCorruptState, got %v", err)
	}
}

func TestCardStore_SaveLoadRoundTrip(t *testing.T) {
	store, repo, _, _ := newTestStore(t)
	ctx := context.Background()

	pic := "data:image/png;base64,iVBORw0KGgo="
	active := false
	c := models.NewCardCollection()
	c.Put(models.CardRecord{EmployeeCode: "B2", Name: "Bob", Title: "Engineer", ProfilePicture: &pic, IsActive: &active, LastUpdated: "2024-01-02T03:04:05.006Z"})
	c.Put(card("A1", "Ann"))

	if err := store.Save(ctx, c); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, ok := repo.Data[slotKey]; !ok {
		t.Fatal("Save should write the slot")
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(c.Codes(), loaded.Codes()) {
		t.Errorf("Expected codes %v, got %v", c.Codes(), loaded.Codes())
	}
	if !reflect.DeepEqual(c.Records(), loaded.Records()) {
		t.Errorf("Round trip mismatch:\nwant %+v\ngot  %+v", c.Records(), loaded.Records())
	}
}

func TestCardStore_UpsertThenFind(t *testing.T) {
	store, _, pub, clock := newTestStore(t)
	ctx := context.Background()

	before := clock.t
	in := models.CardRecord{
		EmployeeCode: "E1",
		Name:         "Ann",
		Title:        "Designer",
		Company:      "Acme",
		Email:        "ann@acme.io",
		Theme:        "card-minimal",
	}

	if _, err := store.Upsert(ctx, in); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.Find(ctx, "E1")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if got == nil {
		t.Fatal("Card should be found")
	}

	stamp, err := time.Parse(models.LastUpdatedLayout, got.LastUpdated)
	if err != nil {
		t.Fatalf("lastUpdated %q is not ISO-8601: %v", got.LastUpdated, err)
	}
	if stamp.Before(before) {
		t.Errorf("lastUpdated %s is before the call time %s", stamp, before)
	}

	got.LastUpdated = ""
	if !reflect.DeepEqual(in, *got) {
		t.Errorf("Stored card differs from input:\nwant %+v\ngot  %+v", in, *got)
	}

	if types := pub.Types(); len(types) != 1 || types[0] != events.CardSaved {
		t.Errorf("Expected one card.saved event, got %v", types)
	}
}

func TestCardStore_UpsertRequiresEmployeeCode(t *testing.T) {
	store, repo, pub, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Upsert(ctx, card("E1", "Ann")); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	blob := repo.Data[slotKey]
	sets := repo.SetCalls

	_, err := store.Upsert(ctx, card("", "Nobody"))
	var ve *validation.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if ve.Message != "employee code required" {
		t.Errorf("Unexpected message %q", ve.Message)
	}
	if repo.SetCalls != sets || repo.Data[slotKey] != blob {
		t.Error("Failed upsert must not touch storage")
	}
	if len(pub.Events) != 1 {
		t.Errorf("Failed upsert must not publish, got %d events", len(pub.Events))
	}
}

func TestCardStore_UpsertReplacesAndRefreshesTimestamp(t *testing.T) {
	store, _, _, clock := newTestStore(t)
	ctx := context.Background()

	first, err := store.Upsert(ctx, card("E1", "Ann"))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	r1, _ := first.Get("E1")

	clock.t = clock.t.Add(time.Second)
	second, err := store.Upsert(ctx, card("E1", "Ann B"))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	r2, _ := second.Get("E1")

	if second.Len() != 1 {
		t.Errorf("Expected one card, got %d", second.Len())
	}
	if r2.Name != "Ann B" {
		t.Errorf("Expected name 'Ann B', got %q", r2.Name)
	}
	if !r2.LastUpdatedTime().After(r1.LastUpdatedTime()) {
		t.Errorf("Expected %s > %s", r2.LastUpdated, r1.LastUpdated)
	}
}

func TestCardStore_UpsertTimestampStrictlyIncreasesWithFrozenClock(t *testing.T) {
	store, _, _, _ := newTestStore(t)
	ctx := context.Background()

	var last time.Time
	for i := 0; i < 3; i++ {
		c, err := store.Upsert(ctx, card("E1", "Ann"))
		if err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
		r, _ := c.Get("E1")
		if !r.LastUpdatedTime().After(last) {
			t.Fatalf("Save %d: lastUpdated %s not after %s", i, r.LastUpdated, last)
		}
		last = r.LastUpdatedTime()
	}
}

func TestCardStore_UpsertKeepsPosition(t *testing.T) {
	store, _, _, _ := newTestStore(t)
	ctx := context.Background()

	for _, c := range []models.CardRecord{card("C", "Cid"), card("A", "Ann"), card("B", "Bob")} {
		if _, err := store.Upsert(ctx, c); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}
	collection, err := store.Upsert(ctx, card("A", "Ann B"))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	want := []string{"C", "A", "B"}
	if got := collection.Codes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected order %v, got %v", want, got)
	}
}

func TestCardStore_Remove(t *testing.T) {
	store, repo, pub, _ := newTestStore(t)
	ctx := context.Background()

	store.Upsert(ctx, card("E1", "Ann"))
	store.Upsert(ctx, card("E2", "Bob"))

	collection, err := store.Remove(ctx, "E1")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if collection.Len() != 1 {
		t.Errorf("Expected 1 card, got %d", collection.Len())
	}

	found, _ := store.Find(ctx, "E1")
	if found != nil {
		t.Error("Removed card should not be found")
	}

	// absent key: unchanged, still saved, no event
	sets := repo.SetCalls
	blob := repo.Data[slotKey]
	again, err := store.Remove(ctx, "E1")
	if err != nil {
		t.Fatalf("Remove of absent key failed: %v", err)
	}
	if again.Len() != 1 {
		t.Errorf("Expected 1 card, got %d", again.Len())
	}
	if repo.SetCalls != sets+1 {
		t.Error("Remove should always save")
	}
	if repo.Data[slotKey] != blob {
		t.Error("Removing an absent key should not change the blob")
	}

	want := []string{events.CardSaved, events.CardSaved, events.CardRemoved}
	if got := pub.Types(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected events %v, got %v", want, got)
	}
}

func TestCardStore_UpsertOverCorruptState(t *testing.T) {
	store, repo, _, _ := newTestStore(t)
	repo.Data[slotKey] = "not json"

	collection, err := store.Upsert(context.Background(), card("E1", "Ann"))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if collection.Len() != 1 {
		t.Errorf("Expected fresh collection with one card, got %d", collection.Len())
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(repo.Data[slotKey]), &decoded); err != nil {
		t.Errorf("Slot should hold valid JSON after save: %v", err)
	}
}

func TestCardStore_SaveErrorPropagates(t *testing.T) {
	store, repo, pub, _ := newTestStore(t)
	repo.SetError = errors.New("disk full")

	if _, err := store.Upsert(context.Background(), card("E1", "Ann")); err == nil {
		t.Error("Expected save error")
	}
	if len(pub.Events) != 0 {
		t.Error("Nothing should be published when the save fails")
	}
}

func TestCardStore_PublishErrorIsNotFatal(t *testing.T) {
	store, _, pub, _ := newTestStore(t)
	pub.PublishError = errors.New("nats down")

	if _, err := store.Upsert(context.Background(), card("E1", "Ann")); err != nil {
		t.Errorf("Publish failures should be logged only, got %v", err)
	}
}

func TestCardStore_EndToEnd(t *testing.T) {
	store, repo, _, clock := newTestStore(t)
	ctx := context.Background()

	c1, err := store.Upsert(ctx, card("E1", "Ann"))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	t1, _ := c1.Get("E1")

	clock.t = clock.t.Add(time.Minute)
	c2, err := store.Upsert(ctx, card("E1", "Ann B"))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	t2, _ := c2.Get("E1")

	if t2.Name != "Ann B" || !t2.LastUpdatedTime().After(t1.LastUpdatedTime()) {
		t.Errorf("Unexpected second save: %+v", t2)
	}

	// a second store on the same slot sees the same state
	other := service.NewCardStore(repo, slotKey, nil, zerolog.Nop())
	got, err := other.Find(ctx, "E1")
	if err != nil || got == nil {
		t.Fatalf("Find via second store failed: %v", err)
	}
	if got.LastUpdated != t2.LastUpdated {
		t.Errorf("Expected %s, got %s", t2.LastUpdated, got.LastUpdated)
	}
}
