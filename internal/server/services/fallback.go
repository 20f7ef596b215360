package services

import "github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/models"

// Degraded-mode constants. The sample inventory and the per-vehicle bid
// placeholder are fixed at design time so dependent UIs stay exercisable
// when the store is down; they are intentionally independent of any real
// store content.
const (
	demoUsername = "demo"
	demoPassword = "demo"
	demoBidderID = 999
	demoEmail    = "demo@example.com"

	// degradedBidUnit multiplies the vehicle id to produce the offline
	// highest-bid placeholder.
	degradedBidUnit = 5000.0
)

var fallbackVehicles = []models.Vehicle{
	{ID: 1, Make: "Toyota", Model: "Camry", Year: 2020, StartingBid: 15000.0, HighestBid: 15000.0},
	{ID: 2, Make: "Honda", Model: "Accord", Year: 2021, StartingBid: 18000.0, HighestBid: 18500.0},
	{ID: 3, Make: "Ford", Model: "Mustang", Year: 2019, StartingBid: 25000.0, HighestBid: 26000.0},
}

// sampleVehicles returns a fresh copy so callers cannot mutate the fixture.
func sampleVehicles() []models.Vehicle {
	out := make([]models.Vehicle, len(fallbackVehicles))
	copy(out, fallbackVehicles)
	return out
}

// demoBidder returns the offline demo identity when the supplied
// credentials match the demo account, nil otherwise.
func demoBidder(username, password string) *models.Bidder {
	if username == demoUsername && password == demoPassword {
		return &models.Bidder{ID: demoBidderID, Username: demoUsername, Email: demoEmail}
	}
	return nil
}
