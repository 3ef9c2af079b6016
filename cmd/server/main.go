package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/janpfeifer/GoPyramid/internal/config"
	"github.com/janpfeifer/GoPyramid/internal/server"
	"k8s.io/klog/v2"
)

var (
	flagConfig  = flag.String("config", "", "Optional YAML configuration file")
	flagAddr    = flag.String("addr", "", "Address to listen on, overrides the configuration (\"auto\" picks a free port on localhost)")
	flagDeckAPI = flag.String("deck-api", "", "Root URL of the deck service, e.g. https://deckofcardsapi.com/api (default: built-in service)")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	config.LoadDotEnv()
	cfg, err := config.Load(*flagConfig)
	if err != nil {
		klog.Fatalf("Failed to load configuration: %v", err)
	}
	switch *flagAddr {
	case "":
	case "auto":
		cfg.Addr = ""
	default:
		cfg.Addr = *flagAddr
	}
	if *flagDeckAPI != "" {
		cfg.DeckAPIURL = *flagDeckAPI
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := make(chan *server.ServerState, 1)
	go func() {
		state, ok := <-started
		if ok {
			fmt.Printf("%s server listening on http://%s\n", cfg.Title, state.Address)
		}
	}()

	if err := server.Run(ctx, cfg, started); err != nil {
		klog.Fatal(err)
	}
}
