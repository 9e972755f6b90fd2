package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shipgrid/internal/features/remittance/domain"
	"shipgrid/internal/features/remittance/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger is an in-memory ledger for handler tests.
type fakeLedger struct {
	orders   []domain.DeliveredOrder
	remitted map[string]bool
}

func (l *fakeLedger) UnremittedDeliveredCOD(_ context.Context, _ string) ([]domain.DeliveredOrder, error) {
	var out []domain.DeliveredOrder
	for _, o := range l.orders {
		if !l.remitted[o.AWB] {
			out = append(out, o)
		}
	}
	return out, nil
}

func (l *fakeLedger) SaveBatch(_ context.Context, batch *domain.Batch) error {
	for _, awb := range batch.OrderIDs {
		l.remitted[awb] = true
	}
	return nil
}

func setupApp(ledger *fakeLedger) *fiber.App {
	app := fiber.New()
	h := NewRemittanceHandler(service.NewAggregator(ledger))
	// Monday after the 2026-02-27 cutover.
	h.now = func() time.Time {
		return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	}
	app.Get("/sellers/:id/remittance/pending", h.GetPending)
	app.Post("/sellers/:id/remittance/batches", h.CreateBatch)
	return app
}

func settledLedger() *fakeLedger {
	return &fakeLedger{
		orders: []domain.DeliveredOrder{
			{AWB: "AWB1", Amount: 500, DeliveredAt: time.Date(2026, 2, 24, 10, 0, 0, 0, time.UTC)},
			{AWB: "AWB2", Amount: 750, DeliveredAt: time.Date(2026, 2, 26, 18, 0, 0, 0, time.UTC)},
		},
		remitted: map[string]bool{},
	}
}

// TestRemittanceHandler_GetPending verifies the pending amount response.
func TestRemittanceHandler_GetPending(t *testing.T) {
	app := setupApp(settledLedger())

	req := httptest.NewRequest("GET", "/sellers/seller-1/remittance/pending", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body PendingResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "seller-1", body.SellerID)
	assert.InDelta(t, 1250.0, body.PendingAmount, 1e-9)
}

// TestRemittanceHandler_CreateBatch verifies batch creation and the idempotent rerun.
func TestRemittanceHandler_CreateBatch(t *testing.T) {
	app := setupApp(settledLedger())

	req := httptest.NewRequest("POST", "/sellers/seller-1/remittance/batches", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var batch domain.Batch
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&batch))
	assert.NotEmpty(t, batch.BatchID)
	assert.InDelta(t, 1250.0, batch.TotalAmount, 1e-9)

	// The second run has nothing left to settle.
	resp, err = app.Test(httptest.NewRequest("POST", "/sellers/seller-1/remittance/batches", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
