package cli

import (
	"context"
	"fmt"
	"log"
	"strconv"
)

func (a *App) list(ctx context.Context) {
	vehicles, degraded, err := a.api.Vehicles(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}

	if degraded {
		fmt.Println("(server is in degraded mode, listing sample data)")
	}

	for _, v := range vehicles {
		fmt.Printf("%d: %d %s %s, starting bid %.2f, highest bid %.2f\n",
			v.ID, v.Year, v.Make, v.Model, v.StartingBid, v.HighestBid)
	}
}

func (a *App) highest(ctx context.Context, rawID string) {
	vehicleID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		fmt.Println("Usage: highest <vehicle id>")
		return
	}

	amount, degraded, err := a.api.HighestBid(ctx, vehicleID)
	if err != nil {
		log.Println(err.Error())
		return
	}

	if degraded {
		fmt.Println("(server is in degraded mode, amount is a placeholder)")
	}
	fmt.Printf("Highest bid for vehicle %d: %.2f\n", vehicleID, amount)
}
