package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hollyoak/plantshop/internal/catalog"
	"github.com/hollyoak/plantshop/internal/customer"
	"github.com/hollyoak/plantshop/internal/entropy"
	"github.com/hollyoak/plantshop/internal/shop"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	items := catalog.Default()
	return &Server{
		Session:   shop.NewSession(items, 1, 0.7, entropy.NewStream(42)),
		Customers: customer.NewGenerator(42),
		Seed:      42,
	}
}

func TestHandleStatus(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, s.Session.ID, body["session"])
	require.Equal(t, 0.0, body["cash"])
}

func TestHandleCustomer(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	rec := httptest.NewRecorder()
	s.handleCustomer(rec, httptest.NewRequest(http.MethodGet, "/api/v1/customer", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Need       customer.NeedProfile `json:"need"`
		Candidates []shop.Candidate     `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Candidates, 3)
	require.Equal(t, 1, s.Customers.Visits())

	for i := 1; i < len(body.Candidates); i++ {
		require.GreaterOrEqual(t, body.Candidates[i-1].Score, body.Candidates[i].Score)
	}
}

func TestHandleMatches(t *testing.T) {
	t.Parallel()

	s := testServer(t)

	payload := map[string]any{
		"need": customer.NeedProfile{
			LightTarget:     0.6,
			MoistureTarget:  0.55,
			SoilTarget:      [3]float64{0.55, 0.45, 0.6},
			SizeTarget:      catalog.SizeSpec{Label: "shrub", Scale: 0.4},
			HardinessTarget: 0.7,
			WildlifeGoals:   []string{"pollinators"},
		},
		"k": 2,
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.handleMatches(rec, httptest.NewRequest(http.MethodPost, "/api/v1/matches", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var candidates []shop.Candidate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &candidates))
	require.Len(t, candidates, 2)
	require.Equal(t, 1, candidates[0].Stock)
}

func TestHandleMatchesRejectsGet(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	rec := httptest.NewRecorder()
	s.handleMatches(rec, httptest.NewRequest(http.MethodGet, "/api/v1/matches", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleOffer(t *testing.T) {
	t.Parallel()

	s := testServer(t)

	body, _ := json.Marshal(map[string]any{"item_id": "dwarf-lilac", "fit_score": 0.9})
	rec := httptest.NewRecorder()
	s.handleOffer(rec, httptest.NewRequest(http.MethodPost, "/api/v1/offer", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Event shop.SaleEvent `json:"event"`
		Stock int            `json:"stock"`
		Cash  float64        `json:"cash"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "dwarf-lilac", resp.Event.ItemID)
	if resp.Event.Success {
		require.Equal(t, 0, resp.Stock)
		require.Equal(t, resp.Event.Price, resp.Cash)
	} else {
		require.Equal(t, 1, resp.Stock)
		require.Equal(t, 0.0, resp.Cash)
	}
}

func TestHandleOfferValidation(t *testing.T) {
	t.Parallel()

	s := testServer(t)

	// Unknown item.
	body, _ := json.Marshal(map[string]any{"item_id": "no-such-plant", "fit_score": 0.5})
	rec := httptest.NewRecorder()
	s.handleOffer(rec, httptest.NewRequest(http.MethodPost, "/api/v1/offer", bytes.NewReader(body)))
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Fit score out of range.
	body, _ = json.Marshal(map[string]any{"item_id": "dwarf-lilac", "fit_score": 1.5})
	rec = httptest.NewRecorder()
	s.handleOffer(rec, httptest.NewRequest(http.MethodPost, "/api/v1/offer", bytes.NewReader(body)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// GET not allowed.
	rec = httptest.NewRecorder()
	s.handleOffer(rec, httptest.NewRequest(http.MethodGet, "/api/v1/offer", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleOfferDepleted(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	require.True(t, s.Session.Ledger().Consume("dwarf-lilac"))

	body, _ := json.Marshal(map[string]any{"item_id": "dwarf-lilac", "fit_score": 0.9})
	rec := httptest.NewRecorder()
	s.handleOffer(rec, httptest.NewRequest(http.MethodPost, "/api/v1/offer", bytes.NewReader(body)))

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Empty(t, s.Session.RecentLog(), "a refused offer must not touch the log")
}

func TestHandleStockDetail(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	rec := httptest.NewRecorder()
	s.handleStockDetail(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stock/dwarf-lilac", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1.0, body["stock"])

	// Unknown ids read as zero stock, not an error.
	rec = httptest.NewRecorder()
	s.handleStockDetail(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stock/unknown", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 0.0, body["stock"])
}

func TestAdminOnly(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	s.AdminKey = "secret"

	called := false
	handler := s.adminOnly(func(w http.ResponseWriter, r *http.Request) { called = true })

	// No token.
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/v1/save", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, called)

	// Wrong method.
	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/save", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	// Valid token.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/save", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	handler(rec, req)
	require.True(t, called)
}

func TestRateLimiter(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(2, time.Minute)
	require.True(t, rl.Allow("10.0.0.1"))
	require.True(t, rl.Allow("10.0.0.1"))
	require.False(t, rl.Allow("10.0.0.1"))

	// Separate IPs get separate budgets.
	require.True(t, rl.Allow("10.0.0.2"))
}
