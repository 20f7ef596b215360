package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if a.bidder == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", a.bidder.Username)
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to the auction CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("auction %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: (l)ist, highest <id>, bid, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, (l)ist, highest <id>, exit")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "l", "list":
			a.list(ctx)
		case "highest":
			if len(args) == 0 {
				fmt.Println("Usage: highest <vehicle id>")
				continue
			}
			a.highest(ctx, args[0])
		case "bid":
			a.bid(ctx)
		case "logout":
			a.Logout(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
