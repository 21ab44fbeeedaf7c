package benchmark

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/card-builder/internal/models"
	"github.com/card-builder/internal/repository"
	"github.com/card-builder/internal/service"
	"github.com/card-builder/internal/vcard"
	"github.com/rs/zerolog"
)

func seedCollection(n int) *models.CardCollection {
	collection := models.NewCardCollection()
	for i := 0; i < n; i++ {
		collection.Put(models.CardRecord{
			EmployeeCode: fmt.Sprintf("EMP%06d", i),
			Name:         fmt.Sprintf("Test User %06d", i),
			Title:        "Engineer",
			Company:      "Acme",
			Email:        fmt.Sprintf("user%06d@test.com", i),
			Theme:        models.DefaultTheme,
			LastUpdated:  "2024-05-01T12:00:00.000Z",
		})
	}
	return collection
}

// BenchmarkSearch benchmarks the name/code filter over 1000 cards
func BenchmarkSearch(b *testing.B) {
	collection := seedCollection(1000)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		service.Search(collection, "user 0004")
	}

	b.ReportMetric(float64(1000*b.N)/b.Elapsed().Seconds(), "cards/sec")
}

// BenchmarkCollectionMarshal benchmarks serializing the whole collection
func BenchmarkCollectionMarshal(b *testing.B) {
	collection := seedCollection(1000)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := json.Marshal(collection); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCollectionUnmarshal benchmarks decoding a stored collection
func BenchmarkCollectionUnmarshal(b *testing.B) {
	data, err := json.Marshal(seedCollection(1000))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := service.DecodeCollection(string(data)); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportMetric(float64(len(data)*b.N)/b.Elapsed().Seconds()/1024/1024, "MB/sec")
}

// BenchmarkUpsert benchmarks a full load-modify-save cycle against the memory backend
func BenchmarkUpsert(b *testing.B) {
	ctx := context.Background()
	store := service.NewCardStore(repository.NewMemorySlotRepo(), repository.DefaultSlotKey, nil, zerolog.Nop())
	for _, c := range seedCollection(200).Records() {
		if _, err := store.Upsert(ctx, c); err != nil {
			b.Fatal(err)
		}
	}

	card := models.CardRecord{EmployeeCode: "EMP000100", Name: "Updated"}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := store.Upsert(ctx, card); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEncodeVCard benchmarks vCard encoding
func BenchmarkEncodeVCard(b *testing.B) {
	card := &models.CardRecord{
		Name:    "Jane Doe",
		Title:   "Engineer",
		Company: "Acme",
		Email:   "jane@acme.io",
		Phone:   "+1 555 0100",
		Website: "https://acme.io",
		Address: "1 Main St",
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		vcard.Encode(card)
	}
}

// BenchmarkRenderQR benchmarks QR rendering at the default size
func BenchmarkRenderQR(b *testing.B) {
	payload := vcard.Encode(&models.CardRecord{Name: "Jane Doe", Email: "jane@acme.io"})

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := vcard.RenderQR(payload, 256); err != nil {
			b.Fatal(err)
		}
	}
}
