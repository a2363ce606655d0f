package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Dnicola11/repuestos/internal/models"
)

func TestPartFromEntityAppliesReadDefaults(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	got := partFromEntity(partEntity{
		ID:        "p1",
		Name:      "Brake pad",
		Quantity:  4,
		Price:     25,
		CreatedAt: created,
		UpdatedAt: created,
	})

	assert.Equal(t, models.DefaultCategory, got.Category)
	assert.Equal(t, models.DefaultMinStock, got.MinStock)
}

func TestPartFromEntityKeepsStoredZeroThreshold(t *testing.T) {
	zero := 0
	got := partFromEntity(partEntity{
		ID:       "p1",
		Name:     "Brake pad",
		MinStock: &zero,
		Category: "Frenos",
	})

	assert.Equal(t, 0, got.MinStock, "an explicit zero threshold is not a missing one")
	assert.Equal(t, "Frenos", got.Category)
}

func TestPartFromEntityPassesThroughCompleteDocument(t *testing.T) {
	threshold := 8
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	got := partFromEntity(partEntity{
		ID:          "p1",
		Name:        "Oil filter",
		Description: "synthetic",
		Quantity:    12,
		Price:       9.5,
		Category:    "Motor",
		MinStock:    &threshold,
		ImageURL:    "http://localhost:9000/repuestos-images/repuestos/x.jpg",
		CreatedAt:   created,
		UpdatedAt:   updated,
	})

	assert.Equal(t, models.Part{
		ID:          "p1",
		Name:        "Oil filter",
		Description: "synthetic",
		Quantity:    12,
		Price:       9.5,
		Category:    "Motor",
		MinStock:    8,
		ImageURL:    "http://localhost:9000/repuestos-images/repuestos/x.jpg",
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, got)
}
