package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/client/api"
)

func (a *App) Register(ctx context.Context) {

	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if err := a.api.Register(ctx, username, string(password), email); err != nil {
		fmt.Println(err.Error())
		return
	}

	fmt.Println("Registered. You can log in now.")
}

func (a *App) Login(ctx context.Context) {

	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	bidder, err := a.api.Login(ctx, username, string(password))
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			fmt.Println("Invalid username or password")
		} else {
			fmt.Println(err.Error())
		}
		return
	}

	a.bidder = bidder
	fmt.Printf("Logged in as %s\n", bidder.Username)
}

func (a *App) Logout(ctx context.Context) {
	a.bidder = nil
	fmt.Println("Logged out")
}
