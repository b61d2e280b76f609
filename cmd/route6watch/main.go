package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mvarner/route6watch/internal/config"
	"github.com/mvarner/route6watch/internal/routesrc"
	"github.com/mvarner/route6watch/internal/watcher"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load()
	if err != nil {
		log.Printf("config error: %v", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := routesrc.New(routesrc.Options{
		TablePath: cfg.TablePath,
		Method:    cfg.Source,
	})

	w := watcher.New(watcher.Options{
		Config:     cfg,
		Source:     source,
		Logger:     log.Default(),
		Out:        os.Stdout,
		StartDelay: cfg.StartDelay,
	})

	if err := w.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("fatal: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
