package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/common"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/logging"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/models"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/services"
)

type stubAuction struct {
	registerErr error
	bidder      *models.Bidder
	authOK      bool
	vehicles    []models.Vehicle
	listStatus  services.StoreStatus
	highest     float64
	bidStatus   services.StoreStatus
	receipt     string
	placeErr    error
}

func (s *stubAuction) Register(ctx context.Context, username, password, email string) error {
	return s.registerErr
}

func (s *stubAuction) Authenticate(ctx context.Context, username, password string) (*models.Bidder, bool) {
	return s.bidder, s.authOK
}

func (s *stubAuction) ListVehicles(ctx context.Context) ([]models.Vehicle, services.StoreStatus) {
	return s.vehicles, s.listStatus
}

func (s *stubAuction) HighestBid(ctx context.Context, vehicleID int64) (float64, services.StoreStatus) {
	return s.highest, s.bidStatus
}

func (s *stubAuction) PlaceBid(ctx context.Context, bidderID, vehicleID int64, amount float64) (string, error) {
	return s.receipt, s.placeErr
}

func newTestRouter(stub *stubAuction) http.Handler {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewRouter(NewHandler(stub, logger))
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegister_Created(t *testing.T) {
	router := newTestRouter(&stubAuction{})

	rec := doRequest(t, router, http.MethodPost, "/v1/auth/register",
		`{"username":"alice","password":"Passw0rd","email":"alice@example.com"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRegister_FailuresShareOneMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"invalid email", common.ErrInvalidEmail},
		{"weak password", common.ErrInvalidPassword},
		{"duplicate username", common.ErrStoreRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubAuction{registerErr: tt.err})

			rec := doRequest(t, router, http.MethodPost, "/v1/auth/register",
				`{"username":"alice","password":"x","email":"x"}`)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "registration failed")
			assert.NotContains(t, rec.Body.String(), "username")
		})
	}
}

func TestRegister_StoreDown(t *testing.T) {
	router := newTestRouter(&stubAuction{registerErr: common.ErrStoreUnreachable})

	rec := doRequest(t, router, http.MethodPost, "/v1/auth/register",
		`{"username":"alice","password":"Passw0rd","email":"alice@example.com"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRegister_MalformedBody(t *testing.T) {
	router := newTestRouter(&stubAuction{})

	rec := doRequest(t, router, http.MethodPost, "/v1/auth/register", `{"username":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_Success(t *testing.T) {
	router := newTestRouter(&stubAuction{
		bidder: &models.Bidder{ID: 7, Username: "alice", Email: "alice@example.com"},
		authOK: true,
	})

	rec := doRequest(t, router, http.MethodPost, "/v1/auth/login",
		`{"username":"alice","password":"Passw0rd"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.BidderID)
	assert.Equal(t, "alice", resp.Username)
}

func TestLogin_Miss(t *testing.T) {
	router := newTestRouter(&stubAuction{authOK: false})

	rec := doRequest(t, router, http.MethodPost, "/v1/auth/login",
		`{"username":"alice","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListVehicles_DegradedFlag(t *testing.T) {
	router := newTestRouter(&stubAuction{
		vehicles: []models.Vehicle{
			{ID: 1, Make: "Toyota", Model: "Camry", Year: 2020, StartingBid: 15000, HighestBid: 15000},
		},
		listStatus: services.StoreDegraded,
	})

	rec := doRequest(t, router, http.MethodGet, "/v1/vehicles", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp vehiclesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Degraded)
	require.Len(t, resp.Vehicles, 1)
	assert.Equal(t, "Toyota", resp.Vehicles[0].Make)
}

func TestHighestBid_OK(t *testing.T) {
	router := newTestRouter(&stubAuction{highest: 18500, bidStatus: services.StoreAvailable})

	rec := doRequest(t, router, http.MethodGet, "/v1/vehicles/2/highest-bid", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp highestBidResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.VehicleID)
	assert.Equal(t, 18500.0, resp.HighestBid)
	assert.False(t, resp.Degraded)
}

func TestHighestBid_BadVehicleID(t *testing.T) {
	router := newTestRouter(&stubAuction{})

	rec := doRequest(t, router, http.MethodGet, "/v1/vehicles/not-a-number/highest-bid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceBid_Created(t *testing.T) {
	router := newTestRouter(&stubAuction{receipt: "receipt-1"})

	rec := doRequest(t, router, http.MethodPost, "/v1/bids",
		`{"bidderId":7,"vehicleId":2,"amount":19000}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp placeBidResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "receipt-1", resp.Receipt)
}

func TestPlaceBid_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"too low", common.ErrBidTooLow, http.StatusConflict},
		{"store rejected", common.ErrStoreRejected, http.StatusConflict},
		{"unknown vehicle", common.ErrorNotFound, http.StatusNotFound},
		{"ledger down", common.ErrLedgerUnavailable, http.StatusBadGateway},
		{"store down", common.ErrStoreUnreachable, http.StatusServiceUnavailable},
		{"driver missing", common.ErrDriverUnavailable, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubAuction{placeErr: tt.err})

			rec := doRequest(t, router, http.MethodPost, "/v1/bids",
				`{"bidderId":7,"vehicleId":2,"amount":100}`)

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestPlaceBid_RejectsMissingIdentity(t *testing.T) {
	router := newTestRouter(&stubAuction{receipt: "receipt-1"})

	rec := doRequest(t, router, http.MethodPost, "/v1/bids", `{"vehicleId":2,"amount":100}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&stubAuction{})

	rec := doRequest(t, router, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
