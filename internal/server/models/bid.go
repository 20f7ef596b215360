package models

import "time"

// Bid is an amount offered by a bidder for a vehicle. Bids are
// append-only; Receipt carries the opaque ledger proof and is non-empty
// on every persisted bid.
type Bid struct {
	BidderID  int64     `json:"bidder_id"`
	VehicleID int64     `json:"vehicle_id"`
	Amount    float64   `json:"bid_amount"`
	Receipt   string    `json:"blockchain_hash"`
	CreatedAt time.Time `json:"created_at"`
}
