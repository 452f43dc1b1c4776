package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/lulu/internal/buildinfo"
	"github.com/dmitrijs2005/lulu/internal/logging"
	"github.com/dmitrijs2005/lulu/internal/server"
	"github.com/dmitrijs2005/lulu/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
