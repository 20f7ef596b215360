// Package services implements the auction operations over the store,
// the credential helpers and the ledger collaborator: registration,
// authentication, vehicle listing, highest-bid reads and bid placement.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/common"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/dbx"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/logging"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/securex"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/ledger"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/models"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/observability/metrics"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/repositories/bidders"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/repositories/bids"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/repositories/vehicles"
)

// Store yields per-operation connection handles bounded by the store
// timeout. *storage.Provider satisfies it.
type Store interface {
	Acquire(ctx context.Context) (*sql.Conn, error)
	OpContext(ctx context.Context) (context.Context, context.CancelFunc)
}

type AuctionService struct {
	store  Store
	ledger ledger.Recorder
	logger logging.Logger

	mu           sync.Mutex
	vehicleLocks map[int64]*sync.Mutex
}

func NewAuctionService(store Store, rec ledger.Recorder, logger logging.Logger) *AuctionService {
	return &AuctionService{
		store:        store,
		ledger:       rec,
		logger:       logger,
		vehicleLocks: make(map[int64]*sync.Mutex),
	}
}

// Register creates a bidder account. Validation runs before any store
// access; store availability failures are hard failures because writes
// have no degraded mode.
func (s *AuctionService) Register(ctx context.Context, username, password, email string) error {
	if !securex.IsValidEmail(email) {
		s.logger.Warn(ctx, "registration rejected: invalid email")
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return common.ErrInvalidEmail
	}
	if !securex.IsValidPassword(password) {
		s.logger.Warn(ctx, "registration rejected: weak password")
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return common.ErrInvalidPassword
	}

	hash, err := securex.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	ctx, cancel := s.store.OpContext(ctx)
	defer cancel()

	conn, err := s.store.Acquire(ctx)
	if err != nil {
		s.logger.Error(ctx, "registration failed: store unavailable", "error", err)
		metrics.RegistrationsTotal.WithLabelValues("store_error").Inc()
		return err
	}
	defer conn.Close()

	bidder := &models.Bidder{
		Username: securex.SanitizeForDisplay(username),
		Email:    securex.SanitizeForDisplay(email),
		Password: hash,
	}

	if _, err := bidders.NewPostgresRepository(conn).Create(ctx, bidder); err != nil {
		if errors.Is(err, common.ErrStoreRejected) {
			s.logger.Warn(ctx, "registration rejected by store", "username", bidder.Username)
			metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
			return err
		}
		s.logger.Error(ctx, "registration failed", "error", err)
		metrics.RegistrationsTotal.WithLabelValues("store_error").Inc()
		return fmt.Errorf("%w: %v", common.ErrStoreUnreachable, err)
	}

	s.logger.Info(ctx, "bidder registered", "bidder_id", bidder.ID, "username", bidder.Username)
	metrics.RegistrationsTotal.WithLabelValues("ok").Inc()
	return nil
}

// Authenticate loads the bidder by username and verifies the password.
// A miss is not an error: the second return value is false for unknown
// usernames and mismatched passwords alike. When the store is down, the
// demo account still authenticates so the system stays demonstrable.
func (s *AuctionService) Authenticate(ctx context.Context, username, password string) (*models.Bidder, bool) {
	ctx, cancel := s.store.OpContext(ctx)
	defer cancel()

	conn, err := s.store.Acquire(ctx)
	if err != nil {
		s.logger.Error(ctx, "authentication: store unavailable", "error", err)
		if b := demoBidder(username, password); b != nil {
			metrics.DegradedFallbacksTotal.WithLabelValues("authenticate").Inc()
			metrics.LoginsTotal.WithLabelValues("demo").Inc()
			return b, true
		}
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		return nil, false
	}
	defer conn.Close()

	bidder, err := bidders.NewPostgresRepository(conn).GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "authentication query failed", "error", err)
		}
		if b := demoBidder(username, password); b != nil {
			metrics.LoginsTotal.WithLabelValues("demo").Inc()
			return b, true
		}
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		return nil, false
	}

	if securex.CheckPassword(password, bidder.Password) {
		metrics.LoginsTotal.WithLabelValues("ok").Inc()
		return &models.Bidder{ID: bidder.ID, Username: bidder.Username, Email: bidder.Email}, true
	}

	if b := demoBidder(username, password); b != nil {
		metrics.LoginsTotal.WithLabelValues("demo").Inc()
		return b, true
	}

	metrics.LoginsTotal.WithLabelValues("failed").Inc()
	return nil, false
}

// ListVehicles returns every vehicle with its derived highest bid. When
// the store is unreachable it serves the fixed sample inventory and
// reports StoreDegraded instead of conflating the fallback with an empty
// listing.
func (s *AuctionService) ListVehicles(ctx context.Context) ([]models.Vehicle, StoreStatus) {
	ctx, cancel := s.store.OpContext(ctx)
	defer cancel()

	conn, err := s.store.Acquire(ctx)
	if err != nil {
		s.logger.Warn(ctx, "listing vehicles from fallback data", "error", err)
		metrics.DegradedFallbacksTotal.WithLabelValues("list_vehicles").Inc()
		return sampleVehicles(), StoreDegraded
	}
	defer conn.Close()

	list, err := vehicles.NewPostgresRepository(conn).List(ctx)
	if err != nil {
		s.logger.Error(ctx, "vehicle listing failed, serving fallback data", "error", err)
		metrics.DegradedFallbacksTotal.WithLabelValues("list_vehicles").Inc()
		return sampleVehicles(), StoreDegraded
	}

	return list, StoreAvailable
}

// HighestBid returns the maximum recorded bid for a vehicle, falling back
// to the starting bid when no bids exist. When the store is unreachable
// it returns the fixed vehicleID-derived placeholder; no real starting bid
// is knowable in that state.
func (s *AuctionService) HighestBid(ctx context.Context, vehicleID int64) (float64, StoreStatus) {
	ctx, cancel := s.store.OpContext(ctx)
	defer cancel()

	conn, err := s.store.Acquire(ctx)
	if err != nil {
		s.logger.Warn(ctx, "highest bid from fallback formula", "vehicle_id", vehicleID, "error", err)
		metrics.DegradedFallbacksTotal.WithLabelValues("highest_bid").Inc()
		return float64(vehicleID) * degradedBidUnit, StoreDegraded
	}
	defer conn.Close()

	max, found, err := bids.NewPostgresRepository(conn).MaxAmount(ctx, vehicleID)
	if err != nil {
		s.logger.Error(ctx, "highest bid query failed", "vehicle_id", vehicleID, "error", err)
		metrics.DegradedFallbacksTotal.WithLabelValues("highest_bid").Inc()
		return float64(vehicleID) * degradedBidUnit, StoreDegraded
	}
	if found {
		return max, StoreAvailable
	}

	startingBid, err := vehicles.NewPostgresRepository(conn).StartingBid(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, StoreAvailable
		}
		s.logger.Error(ctx, "starting bid query failed", "vehicle_id", vehicleID, "error", err)
		metrics.DegradedFallbacksTotal.WithLabelValues("highest_bid").Inc()
		return float64(vehicleID) * degradedBidUnit, StoreDegraded
	}

	return startingBid, StoreAvailable
}

// PlaceBid records a bid for a vehicle. The ledger receipt is obtained
// before the per-vehicle critical section since receipt order does not
// affect bid order; the highest-bid check and the insert run inside it,
// within one transaction, so two racing bids cannot both clear the same
// observed maximum.
func (s *AuctionService) PlaceBid(ctx context.Context, bidderID, vehicleID int64, amount float64) (string, error) {
	now := time.Now().UTC()

	receipt, err := s.ledger.Record(ctx, bidderID, vehicleID, amount, now)
	if err != nil || !s.ledger.Verify(receipt) {
		s.logger.Error(ctx, "bid blocked: no ledger receipt", "vehicle_id", vehicleID, "error", err)
		metrics.BidsTotal.WithLabelValues("ledger_unavailable").Inc()
		if err != nil {
			return "", fmt.Errorf("%w: %v", common.ErrLedgerUnavailable, err)
		}
		return "", common.ErrLedgerUnavailable
	}

	lock := s.vehicleLock(vehicleID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := s.store.OpContext(ctx)
	defer cancel()

	conn, err := s.store.Acquire(ctx)
	if err != nil {
		s.logger.Error(ctx, "bid failed: store unavailable", "vehicle_id", vehicleID, "error", err)
		metrics.BidsTotal.WithLabelValues("store_error").Inc()
		return "", err
	}
	defer conn.Close()

	err = dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		startingBid, err := vehicles.NewPostgresRepository(tx).StartingBid(ctx, vehicleID)
		if err != nil {
			return err
		}

		bidRepo := bids.NewPostgresRepository(tx)

		current := startingBid
		max, found, err := bidRepo.MaxAmount(ctx, vehicleID)
		if err != nil {
			return err
		}
		if found {
			current = max
		}

		if amount <= current || amount < startingBid {
			return common.ErrBidTooLow
		}

		return bidRepo.Insert(ctx, &models.Bid{
			BidderID:  bidderID,
			VehicleID: vehicleID,
			Amount:    amount,
			Receipt:   receipt,
			CreatedAt: now,
		})
	})

	if err != nil {
		switch {
		case errors.Is(err, common.ErrBidTooLow):
			metrics.BidsTotal.WithLabelValues("too_low").Inc()
			return "", err
		case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrStoreRejected):
			metrics.BidsTotal.WithLabelValues("rejected").Inc()
			return "", err
		default:
			s.logger.Error(ctx, "bid transaction failed", "vehicle_id", vehicleID, "error", err)
			metrics.BidsTotal.WithLabelValues("store_error").Inc()
			return "", fmt.Errorf("%w: %v", common.ErrStoreUnreachable, err)
		}
	}

	s.logger.Info(ctx, "bid placed", "bidder_id", bidderID, "vehicle_id", vehicleID, "amount", amount, "receipt", receipt)
	metrics.BidsTotal.WithLabelValues("ok").Inc()
	return receipt, nil
}

func (s *AuctionService) vehicleLock(vehicleID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.vehicleLocks[vehicleID]
	if !ok {
		l = &sync.Mutex{}
		s.vehicleLocks[vehicleID] = l
	}
	return l
}
