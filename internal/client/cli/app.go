// Package cli implements the interactive auction client: a small REPL over
// the server's JSON API with register, login, listing and bidding commands.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/client/api"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/client/config"
)

type App struct {
	config *config.Config
	api    *api.Client
	bidder *api.Bidder
	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config: c,
		api:    api.New(c.ServerEndpointAddr, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.bidder != nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}
