package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

func (a *App) bid(ctx context.Context) {

	if !a.isLoggedIn() {
		fmt.Println("Log in first")
		return
	}

	rawID, err := GetSimpleText(a.reader, "Enter vehicle id", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	vehicleID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		fmt.Println("Vehicle id must be a number")
		return
	}

	rawAmount, err := GetSimpleText(a.reader, "Enter amount", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil {
		fmt.Println("Amount must be a number")
		return
	}

	receipt, err := a.api.PlaceBid(ctx, a.bidder.ID, vehicleID, amount)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	fmt.Printf("Bid placed, receipt %s\n", receipt)
}
