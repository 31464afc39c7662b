package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/easyadmin/internal/client/cli"
	"github.com/dmitrijs2005/easyadmin/internal/client/config"
	"github.com/dmitrijs2005/easyadmin/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(cfg, logging.New("text", slog.LevelWarn, os.Stderr))
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		stop()
		os.Exit(1)
	}

}
