package main

import (
	"context"
	"log"
	"os"

	"github.com/andrejsk/kvits/internal/buildinfo"
	"github.com/andrejsk/kvits/internal/client/cli"
	"github.com/andrejsk/kvits/internal/client/config"
	"github.com/andrejsk/kvits/internal/logging"
	"go.uber.org/zap"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = zl.Sync() }()

	app, err := cli.NewApp(ctx, cfg, logging.NewZapLogger(zl))
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
