package main

import (
	"context"
	"log"
	"os"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/buildinfo"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/client/cli"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
