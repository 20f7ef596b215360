package models

// Vehicle is an auctionable item. HighestBid is derived, not
// authoritative: it is recomputed from recorded bids on every read and
// falls back to StartingBid when no bids exist.
type Vehicle struct {
	ID          int64   `json:"vehicle_id"`
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	Year        int     `json:"year"`
	StartingBid float64 `json:"starting_bid"`
	HighestBid  float64 `json:"highest_bid"`
}
