package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/janpfeifer/GoPyramid/internal/config"
	"github.com/janpfeifer/GoPyramid/internal/deckapi"
	"github.com/janpfeifer/GoPyramid/internal/frontend"
	"github.com/janpfeifer/GoPyramid/internal/game"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// Run starts the server and blocks until the context is canceled.
//
// If started is not nil, the ServerState is sent on it once the server is listening.
func Run(ctx context.Context, cfg config.Config, started chan<- *ServerState) error {
	// Initialize global frontend state for server-side prerendering without panic
	frontend.InitState()

	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:0"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	address := listener.Addr().String()

	// Without an external deck service we serve our own under /api.
	localDeck := deckapi.NewLocalService()
	deckURL := cfg.DeckAPIURL
	if deckURL == "" {
		deckURL = "http://" + address + "/api"
	}
	serverState := NewServerState(deckapi.NewClient(deckURL, cfg.RequestTimeout))
	serverState.Address = address
	serverState.DeckAPIURL = deckURL

	// Register go-app routes so the server knows how to prerender them
	app.Route("/", func() app.Composer { return &frontend.Home{} })
	app.Route("/game", func() app.Composer { return &frontend.Game{} })

	// The web assets and the compiled webassembly
	// are served natively by the go-app framework
	h := &app.Handler{
		Name:        cfg.Title,
		Title:       cfg.Title,
		Description: "Pyramid solitaire: remove pairs adding up to 13",
		Version:     game.Version,
		Styles: []string{
			"/web/css/main.css", // Page and board layout
		},
	}

	mux := http.NewServeMux()

	// Register WebSocket endpoint
	mux.HandleFunc("/ws", serverState.HandleWS)

	// Built-in deck service, same endpoints as deckofcardsapi.com/api
	mux.Handle("/api/", http.StripPrefix("/api", localDeck))

	// Serve the go-app UI
	mux.Handle("/", h)

	srv := &http.Server{
		Handler: mux,
	}

	go func() {
		klog.Infof("Server started on %s (deck service: %s)", address, deckURL)
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			klog.Errorf("Server error: %v", err)
		}
	}()

	if started != nil {
		started <- serverState
	}

	<-ctx.Done()

	// Graceful shutdown with 5 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	klog.Infof("Shutting down server...")
	return srv.Shutdown(shutdownCtx)
}
