package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/filesmanager/internal/client/cli"
	"github.com/dmitrijs2005/filesmanager/internal/client/config"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
)

func main() {

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.NewApp(cfg, logging.New(os.Stderr, "text", "info")).Run(ctx)

}
