package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dnicola11/repuestos/internal/models"
	"github.com/Dnicola11/repuestos/internal/store"
)

func seededStore() *store.Store {
	st := store.New()
	st.Apply(store.SetParts{Parts: []models.Part{
		{ID: "p1", Name: "Brake pad", Quantity: 2, Price: 10, Category: "Frenos", MinStock: 5},
		{ID: "p2", Name: "Oil filter", Quantity: 10, Price: 20, Category: "Motor", MinStock: 3},
	}})
	return st
}

func TestLowStockPartsEndpoint(t *testing.T) {
	e := echo.New()
	h := NewPartHandlers(nil, seededStore())

	req := httptest.NewRequest(http.MethodGet, "/v1/parts/low-stock", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.LowStockParts(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Parts []models.Part `json:"parts"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "p1", body.Parts[0].ID)
}

func TestStatisticsEndpoint(t *testing.T) {
	e := echo.New()
	h := NewPartHandlers(nil, seededStore())

	req := httptest.NewRequest(http.MethodGet, "/v1/parts/statistics", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Statistics(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var stats models.Statistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 12, stats.TotalQuantity)
	assert.Equal(t, 220.0, stats.TotalValue)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.Equal(t, 15.0, stats.AveragePrice)
}

func TestStatisticsEndpointHonorsFilters(t *testing.T) {
	e := echo.New()
	h := NewPartHandlers(nil, seededStore())

	req := httptest.NewRequest(http.MethodGet, "/v1/parts/statistics?category=Motor", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Statistics(e.NewContext(req, rec)))

	var stats models.Statistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 10, stats.TotalQuantity)
	assert.Equal(t, "Motor", stats.TopCategory)
}

func TestGetStateReturnsSnapshot(t *testing.T) {
	e := echo.New()
	h := NewStateHandlers(seededStore())

	req := httptest.NewRequest(http.MethodGet, "/v1/state", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.GetState(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var snap store.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Len(t, snap.Parts, 2)
	assert.Nil(t, snap.User)
}
