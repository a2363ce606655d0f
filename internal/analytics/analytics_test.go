package analytics

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dnicola11/repuestos/internal/models"
)

func somePart(mutate func(*models.Part)) models.Part {
	p := models.Part{
		ID:       gofakeit.UUID(),
		Name:     gofakeit.ProductName(),
		Quantity: gofakeit.Number(1, 50),
		Price:    gofakeit.Price(1, 500),
		Category: "General",
		MinStock: 5,
	}
	if mutate != nil {
		mutate(&p)
	}
	return p
}

func TestFilterPartsZeroFiltersReturnsAll(t *testing.T) {
	parts := []models.Part{
		somePart(nil),
		somePart(nil),
		somePart(nil),
	}

	got := FilterParts(parts, models.Filters{})
	assert.Equal(t, parts, got)
}

func TestFilterPartsSearchMatchesNameOrDescription(t *testing.T) {
	parts := []models.Part{
		somePart(func(p *models.Part) { p.Name = "Brake Pad"; p.Description = "front axle" }),
		somePart(func(p *models.Part) { p.Name = "Oil Filter"; p.Description = "for BRAKE systems" }),
		somePart(func(p *models.Part) { p.Name = "Spark Plug"; p.Description = "ignition" }),
	}

	got := FilterParts(parts, models.Filters{Search: "brake"})
	require.Len(t, got, 2)
	assert.Equal(t, "Brake Pad", got[0].Name)
	assert.Equal(t, "Oil Filter", got[1].Name)
}

func TestFilterPartsCategorySentinelMatchesEverything(t *testing.T) {
	parts := []models.Part{
		somePart(func(p *models.Part) { p.Category = "Frenos" }),
		somePart(func(p *models.Part) { p.Category = "Motor" }),
	}

	assert.Len(t, FilterParts(parts, models.Filters{Category: models.AllCategories}), 2)
	assert.Len(t, FilterParts(parts, models.Filters{Category: ""}), 2)
	assert.Len(t, FilterParts(parts, models.Filters{Category: "Motor"}), 1)
}

func TestFilterPartsPriceBounds(t *testing.T) {
	parts := []models.Part{
		somePart(func(p *models.Part) { p.Price = 5 }),
		somePart(func(p *models.Part) { p.Price = 50 }),
		somePart(func(p *models.Part) { p.Price = 500 }),
	}

	got := FilterParts(parts, models.Filters{MinPrice: 10, MaxPrice: 100})
	require.Len(t, got, 1)
	assert.Equal(t, 50.0, got[0].Price)

	// A zero max bound means unbounded above.
	got = FilterParts(parts, models.Filters{MinPrice: 10})
	assert.Len(t, got, 2)
}

func TestFilterPartsLowStockOnly(t *testing.T) {
	parts := []models.Part{
		somePart(func(p *models.Part) { p.Quantity = 2; p.MinStock = 5 }),
		somePart(func(p *models.Part) { p.Quantity = 5; p.MinStock = 5 }),
		somePart(func(p *models.Part) { p.Quantity = 10; p.MinStock = 3 }),
	}

	got := FilterParts(parts, models.Filters{LowStockOnly: true})
	assert.Len(t, got, 2, "at-threshold counts as low stock")
}

func TestFilterPartsPredicatesAreANDed(t *testing.T) {
	parts := []models.Part{
		somePart(func(p *models.Part) { p.Name = "Brake Pad"; p.Category = "Frenos"; p.Price = 30 }),
		somePart(func(p *models.Part) { p.Name = "Brake Disc"; p.Category = "Frenos"; p.Price = 300 }),
		somePart(func(p *models.Part) { p.Name = "Brake Fluid"; p.Category = "Motor"; p.Price = 30 }),
	}

	got := FilterParts(parts, models.Filters{Search: "brake", Category: "Frenos", MaxPrice: 100})
	require.Len(t, got, 1)
	assert.Equal(t, "Brake Pad", got[0].Name)
}

func TestLowStockParts(t *testing.T) {
	low := somePart(func(p *models.Part) { p.Quantity = 1; p.MinStock = 5 })
	fine := somePart(func(p *models.Part) { p.Quantity = 20; p.MinStock = 5 })

	got := LowStockParts([]models.Part{fine, low})
	require.Len(t, got, 1)
	assert.Equal(t, low.ID, got[0].ID)
}

func TestComputeStatistics(t *testing.T) {
	parts := []models.Part{
		somePart(func(p *models.Part) { p.Quantity = 2; p.Price = 10; p.MinStock = 5; p.Category = "Frenos" }),
		somePart(func(p *models.Part) { p.Quantity = 10; p.Price = 20; p.MinStock = 3; p.Category = "Motor" }),
	}

	stats := ComputeStatistics(parts)
	assert.Equal(t, 12, stats.TotalQuantity)
	assert.Equal(t, 220.0, stats.TotalValue)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.Equal(t, 15.0, stats.AveragePrice)
}

func TestComputeStatisticsEmptyList(t *testing.T) {
	stats := ComputeStatistics(nil)

	assert.Zero(t, stats.TotalQuantity)
	assert.Zero(t, stats.TotalValue)
	assert.Zero(t, stats.LowStockCount)
	assert.Zero(t, stats.AveragePrice)
	assert.Equal(t, "", stats.TopCategory)
}

func TestComputeStatisticsTopCategoryTieBreak(t *testing.T) {
	parts := []models.Part{
		somePart(func(p *models.Part) { p.Category = "A" }),
		somePart(func(p *models.Part) { p.Category = "A" }),
		somePart(func(p *models.Part) { p.Category = "B" }),
		somePart(func(p *models.Part) { p.Category = "B" }),
	}

	stats := ComputeStatistics(parts)
	assert.Equal(t, "A", stats.TopCategory, "first category to reach the max count wins")
}
