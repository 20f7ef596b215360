// Package http exposes the auction operations over a JSON API. Error
// mapping is deliberately coarse on the registration path: callers get
// the same generic failure for duplicates and validation misses so the
// endpoint cannot be used to probe which usernames exist.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/common"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/logging"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/models"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/services"
)

// Auction is the service surface the handlers call. *services.AuctionService
// satisfies it.
type Auction interface {
	Register(ctx context.Context, username, password, email string) error
	Authenticate(ctx context.Context, username, password string) (*models.Bidder, bool)
	ListVehicles(ctx context.Context) ([]models.Vehicle, services.StoreStatus)
	HighestBid(ctx context.Context, vehicleID int64) (float64, services.StoreStatus)
	PlaceBid(ctx context.Context, bidderID, vehicleID int64, amount float64) (string, error)
}

type Handler struct {
	auction Auction
	logger  logging.Logger
}

func NewHandler(auction Auction, logger logging.Logger) *Handler {
	return &Handler{auction: auction, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	BidderID int64  `json:"bidderId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type vehiclesResponse struct {
	Vehicles []models.Vehicle `json:"vehicles"`
	Degraded bool             `json:"degraded"`
}

type highestBidResponse struct {
	VehicleID  int64   `json:"vehicleId"`
	HighestBid float64 `json:"highestBid"`
	Degraded   bool    `json:"degraded"`
}

type placeBidRequest struct {
	BidderID  int64   `json:"bidderId"`
	VehicleID int64   `json:"vehicleId"`
	Amount    float64 `json:"amount"`
}

type placeBidResponse struct {
	Receipt string `json:"receipt"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	err := h.auction.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrStoreUnreachable) || errors.Is(err, common.ErrDriverUnavailable) {
			h.logger.Error(r.Context(), "registration unavailable", "error", err)
			writeError(w, http.StatusServiceUnavailable, "service unavailable")
			return
		}
		// one message for validation and duplicate failures alike
		writeError(w, http.StatusBadRequest, "registration failed")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	bidder, ok := h.auction.Authenticate(r.Context(), req.Username, req.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		BidderID: bidder.ID,
		Username: bidder.Username,
		Email:    bidder.Email,
	})
}

func (h *Handler) listVehicles(w http.ResponseWriter, r *http.Request) {
	list, status := h.auction.ListVehicles(r.Context())
	writeJSON(w, http.StatusOK, vehiclesResponse{
		Vehicles: list,
		Degraded: status == services.StoreDegraded,
	})
}

func (h *Handler) highestBid(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := strconv.ParseInt(chi.URLParam(r, "vehicleID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	amount, status := h.auction.HighestBid(r.Context(), vehicleID)
	writeJSON(w, http.StatusOK, highestBidResponse{
		VehicleID:  vehicleID,
		HighestBid: amount,
		Degraded:   status == services.StoreDegraded,
	})
}

func (h *Handler) placeBid(w http.ResponseWriter, r *http.Request) {
	var req placeBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	if req.BidderID <= 0 || req.VehicleID <= 0 {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	receipt, err := h.auction.PlaceBid(r.Context(), req.BidderID, req.VehicleID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrBidTooLow), errors.Is(err, common.ErrStoreRejected):
			writeError(w, http.StatusConflict, "bid rejected")
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusNotFound, "vehicle not found")
		case errors.Is(err, common.ErrLedgerUnavailable):
			writeError(w, http.StatusBadGateway, "ledger unavailable")
		default:
			h.logger.Error(r.Context(), "bid placement unavailable", "error", err)
			writeError(w, http.StatusServiceUnavailable, "service unavailable")
		}
		return
	}

	writeJSON(w, http.StatusCreated, placeBidResponse{Receipt: receipt})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
