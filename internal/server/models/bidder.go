// Package models defines the persisted aggregates of the auction store:
// bidders, vehicles and bids.
package models

// Bidder is a registered user identity able to place bids. The ID is
// assigned by the store on insert. Password holds the stored credential
// in "salt:digest" form and is never serialized.
type Bidder struct {
	ID       int64  `json:"bidder_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"`
}
