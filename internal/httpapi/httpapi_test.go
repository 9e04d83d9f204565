package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiputravu/stockexchange/internal/auth"
	"github.com/saiputravu/stockexchange/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{
		Port:          0,
		MaxBooks:      10,
		DefaultVenue:  "TESTEX",
		DefaultSymbol: "FOOBAR",
	}
	s, err := New(cfg, auth.Store{})
	require.NoError(t, err)
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, req)
	return rec
}

func TestHeartbeat(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/ob/api/heartbeat", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDefaultVenueExists(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/ob/api/venues/TESTEX/heartbeat", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownVenueHeartbeat404(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/ob/api/venues/NOPE/heartbeat", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func placeOrderBody(account, venue, symbol, direction, orderType string, price, qty int64) map[string]any {
	return map[string]any{
		"account":   account,
		"venue":     venue,
		"stock":     symbol,
		"price":     price,
		"qty":       qty,
		"direction": direction,
		"orderType": orderType,
	}
}

func decodeOrder(t *testing.T, rec *httptest.ResponseRecorder) orderDTO {
	t.Helper()
	var out orderDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// TestRestThenMatchEndToEnd drives spec.md §8 scenario 1 through the HTTP
// surface end to end.
func TestRestThenMatchEndToEnd(t *testing.T) {
	s := newTestServer(t)
	path := "/ob/api/venues/TESTEX/stocks/FOOBAR/orders"

	recA := doJSON(t, s, http.MethodPost, path, placeOrderBody("A", "TESTEX", "FOOBAR", "sell", "limit", 50, 100))
	require.Equal(t, http.StatusOK, recA.Code)
	a := decodeOrder(t, recA)
	assert.True(t, a.Open)

	recB := doJSON(t, s, http.MethodPost, path, placeOrderBody("B", "TESTEX", "FOOBAR", "buy", "limit", 50, 40))
	require.Equal(t, http.StatusOK, recB.Code)
	b := decodeOrder(t, recB)
	assert.False(t, b.Open)
	require.Len(t, b.Fills, 1)
	assert.EqualValues(t, 50, b.Fills[0].Price)
	assert.EqualValues(t, 40, b.Fills[0].Qty)

	statusPath := fmt.Sprintf("/ob/api/venues/TESTEX/stocks/FOOBAR/orders/%d", a.ID)
	recStatus := doJSON(t, s, http.MethodGet, statusPath, nil)
	require.Equal(t, http.StatusOK, recStatus.Code)
	aAfter := decodeOrder(t, recStatus)
	assert.True(t, aAfter.Open)
	assert.EqualValues(t, 60, aAfter.Qty)

	recQuote := doJSON(t, s, http.MethodGet, "/ob/api/venues/TESTEX/stocks/FOOBAR/quote", nil)
	require.Equal(t, http.StatusOK, recQuote.Code)
	var q quoteDTO
	require.NoError(t, json.Unmarshal(recQuote.Body.Bytes(), &q))
	require.NotNil(t, q.Ask)
	assert.EqualValues(t, 50, *q.Ask)
	assert.EqualValues(t, 60, *q.AskSize)
}

func TestURLMismatchRejected(t *testing.T) {
	s := newTestServer(t)
	body := placeOrderBody("A", "WRONGVENUE", "FOOBAR", "buy", "limit", 10, 1)
	rec := doJSON(t, s, http.MethodPost, "/ob/api/venues/TESTEX/stocks/FOOBAR/orders", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMissingFieldRejected(t *testing.T) {
	s := newTestServer(t)
	body := map[string]any{"account": "A", "venue": "TESTEX", "stock": "FOOBAR", "qty": 1, "direction": "buy"}
	rec := doJSON(t, s, http.MethodPost, "/ob/api/venues/TESTEX/stocks/FOOBAR/orders", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelUnknownOrderIsNoSuchOrder(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodDelete, "/ob/api/venues/TESTEX/stocks/FOOBAR/orders/999999", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelIsIdempotentEndToEnd(t *testing.T) {
	s := newTestServer(t)
	path := "/ob/api/venues/TESTEX/stocks/FOOBAR/orders"
	rec := doJSON(t, s, http.MethodPost, path, placeOrderBody("A", "TESTEX", "FOOBAR", "buy", "limit", 10, 5))
	require.Equal(t, http.StatusOK, rec.Code)
	o := decodeOrder(t, rec)

	cancelPath := fmt.Sprintf("/ob/api/venues/TESTEX/stocks/FOOBAR/orders/%d", o.ID)
	first := doJSON(t, s, http.MethodDelete, cancelPath, nil)
	require.Equal(t, http.StatusOK, first.Code)
	second := doJSON(t, s, http.MethodDelete, cancelPath, nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, decodeOrder(t, first), decodeOrder(t, second))
}

func TestAuthRequiredWhenEnabled(t *testing.T) {
	cfg := config.Config{MaxBooks: 10, DefaultVenue: "TESTEX", DefaultSymbol: "FOOBAR"}
	s, err := New(cfg, auth.Store{"A": "secret"})
	require.NoError(t, err)

	path := "/ob/api/venues/TESTEX/stocks/FOOBAR/orders"
	body := placeOrderBody("A", "TESTEX", "FOOBAR", "buy", "limit", 10, 1)
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req2 := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req2.Header.Set("X-Starfighter-Authorization", "secret")
	rec2 := httptest.NewRecorder()
	s.router().ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusOK, rec2.Code)
}

func TestDebugMemoryDisabledByDefault(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/ob/api/debug/memory", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
