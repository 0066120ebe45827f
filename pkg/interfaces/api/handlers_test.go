package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfaria/buildplan/pkg/domain/entities"
	"github.com/rfaria/buildplan/pkg/infrastructure/repositories/sqlite"
	"github.com/rfaria/buildplan/pkg/planner"
)

// newTestServer seeds an in-memory store with a small workshop:
// stock A=10, B=4; product X needs 2A+1B, product Y needs 1A; X ranks
// before Y.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.LoadStock([]*entities.StockRecord{
		{Component: "A", Quantity: decimal.NewFromInt(10)},
		{Component: "B", Quantity: decimal.NewFromInt(4)},
	}))
	require.NoError(t, store.LoadBOMLines([]*entities.BOMLine{
		{Product: "X", Component: "A", QtyPer: decimal.NewFromInt(2)},
		{Product: "X", Component: "B", QtyPer: decimal.NewFromInt(1)},
		{Product: "Y", Component: "A", QtyPer: decimal.NewFromInt(1)},
	}))
	require.NoError(t, store.LoadPriorities([]*entities.ProductPriority{
		{Product: "X", Rank: 1, Description: "Pump X"},
		{Product: "Y", Rank: 2, Description: "Pump Y"},
	}))
	require.NoError(t, store.LoadOrderLines([]*entities.OrderLine{
		{Order: "SO-1", Line: 1, Product: "X", Quantity: decimal.NewFromInt(3),
			PromisedDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
	}))
	require.NoError(t, store.LoadOrderBOMLines([]*entities.BOMLine{
		{Product: "X", Component: "A", QtyPer: decimal.NewFromInt(2)},
		{Product: "X", Component: "B", QtyPer: decimal.NewFromInt(1)},
	}))

	handler := NewHandler(store, planner.DefaultEngineConfig())
	server := httptest.NewServer(NewRouter(handler))
	t.Cleanup(server.Close)
	return server
}

func decodePlan(t *testing.T, resp *http.Response) PlanDTO {
	t.Helper()
	defer resp.Body.Close()
	var dto PlanDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dto))
	return dto
}

func TestRunPlan_Defaults(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/plans", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	dto := decodePlan(t, resp)
	assert.NotEmpty(t, dto.RunID)
	require.Len(t, dto.Builds, 2)
	assert.Equal(t, "X", dto.Builds[0].Product)
	assert.Equal(t, int64(4), dto.Builds[0].Units)
	assert.Equal(t, "Y", dto.Builds[1].Product)
	assert.Equal(t, int64(2), dto.Builds[1].Units)
	assert.Empty(t, dto.Fulfilled)
}

func TestRunPlan_WithOverrides(t *testing.T) {
	server := newTestServer(t)

	body := `{"reservation":"ledger","fulfill_orders":true,"fulfillment_ledger":"fresh"}`
	resp, err := http.Post(server.URL+"/api/plans", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	dto := decodePlan(t, resp)

	// The reservation debits 3x(2A+1B), leaving A=4 B=1: one more X,
	// then Y takes the remaining 2 A. The walk runs on a rebuilt ledger
	// and serves the reserved order from the full stock.
	require.Len(t, dto.Builds, 2)
	assert.Equal(t, int64(1), dto.Builds[0].Units)
	assert.Equal(t, int64(2), dto.Builds[1].Units)

	require.Len(t, dto.Fulfilled, 1)
	assert.Equal(t, "SO-1", dto.Fulfilled[0].Order)
	assert.Equal(t, "3", dto.Fulfilled[0].Quantity)
}

func TestRunPlan_InvalidOverride(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/plans", "application/json",
		strings.NewReader(`{"reservation":"bogus"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPlan_RoundTrip(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/plans", "application/json", nil)
	require.NoError(t, err)
	created := decodePlan(t, resp)

	resp, err = http.Get(server.URL + "/api/plans/" + created.RunID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	fetched := decodePlan(t, resp)
	assert.Equal(t, created.RunID, fetched.RunID)
	assert.Equal(t, created.Builds, fetched.Builds)
}

func TestGetPlan_NotFound(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/plans/" + uuid.NewString())
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetPlan_InvalidID(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/plans/not-a-uuid")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
